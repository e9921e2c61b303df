package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/waymark-app/waymark/internal/app"
	"github.com/waymark-app/waymark/internal/location"
)

func newAddCommand(out io.Writer, globals *globalOptions) *cobra.Command {
	var (
		title       string
		description string
		lat         float64
		lng         float64
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new incident report at the current position",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if err := runAddForm(&title, &description); err != nil {
					return err
				}
			}
			if title == "" {
				return usageErrorf("a report title is required (--title or --interactive)")
			}
			if description == "" {
				return usageErrorf("a report description is required (--description or --interactive)")
			}

			latSet := cmd.Flags().Changed("lat")
			lngSet := cmd.Flags().Changed("lng")
			if latSet != lngSet {
				return usageErrorf("--lat and --lng must be given together")
			}

			rt, err := openRuntime(cmd.Context(), globals)
			if err != nil {
				return mapCommandError(err)
			}
			defer rt.Close()

			req := app.CreateReportRequest{
				Title:       title,
				Description: description,
			}
			if latSet {
				req.Coordinates = &location.Coordinates{Latitude: lat, Longitude: lng}
			}

			r, err := rt.service.Create(cmd.Context(), req)
			if err != nil {
				return mapCommandError(err)
			}

			index := len(rt.service.List()) - 1
			_, err = fmt.Fprintf(out, "Recorded %q at %s (index %d)\n",
				r.Title, formatPosition(r.Latitude, r.Longitude), index)
			return err
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Report title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "What happened")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude override")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude override")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the report through a form")
	return cmd
}

func runAddForm(title, description *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Value(title).
			Validate(requireValue("title")),
		huh.NewText().
			Title("Description").
			Value(description).
			Validate(requireValue("description")),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("report form: %w", err)
	}
	return nil
}

func requireValue(field string) func(string) error {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		return nil
	}
}

func formatPosition(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
