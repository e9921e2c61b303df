package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand(out io.Writer, globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded reports in submission order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), globals)
			if err != nil {
				return mapCommandError(err)
			}
			defer rt.Close()

			reports := rt.service.List()
			if len(reports) == 0 {
				_, err := fmt.Fprintln(out, "No reports yet. Record one with `waymark add`.")
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tTITLE\tPOSITION\tDESCRIPTION")
			for i, r := range reports {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					i, r.Title, formatPosition(r.Latitude, r.Longitude), r.Description)
			}
			return w.Flush()
		},
	}
	return cmd
}
