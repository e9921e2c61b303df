package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newDeleteCommand(out io.Writer, globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the report at the given index",
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

			if err := rt.service.Delete(cmd.Context(), index); err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintf(out, "Deleted report %d (%d remaining)\n", index, len(rt.service.List()))
			return err
		},
	}
	return cmd
}
