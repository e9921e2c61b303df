package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/waymark-app/waymark/internal/mapview"
)

func newMapCommand(out io.Writer, globals *globalOptions) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "map <index>",
		Short: "Open a report's position in the external map viewer",
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

			url, err := rt.service.MapURL(index)
			if err != nil {
				return mapCommandError(err)
			}

			if printOnly {
				_, err := fmt.Fprintln(out, url)
				return err
			}
			if err := mapview.Open(url); err != nil {
				return fmt.Errorf("could not open the map viewer: %w", err)
			}
			_, err = fmt.Fprintf(out, "Opened %s\n", url)
			return err
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the map URL instead of opening it")
	return cmd
}
