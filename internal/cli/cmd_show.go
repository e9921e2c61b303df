package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCommand(out io.Writer, globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show one report in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndexArg(args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd.Context(), globals)
			if err != nil {
				return mapCommandError(err)
			}
			defer rt.Close()

			r, err := rt.service.Get(index)
			if err != nil {
				return mapCommandError(err)
			}
			url, err := rt.service.MapURL(index)
			if err != nil {
				return mapCommandError(err)
			}

			fmt.Fprintf(out, "Title:       %s\n", r.Title)
			fmt.Fprintf(out, "Description: %s\n", r.Description)
			fmt.Fprintf(out, "Position:    %s\n", formatPosition(r.Latitude, r.Longitude))
			fmt.Fprintf(out, "Map:         %s\n", url)
			return nil
		},
	}
	return cmd
}

func parseIndexArg(raw string) (int, error) {
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, usageErrorf("index must be a number, got %q", raw)
	}
	return index, nil
}
