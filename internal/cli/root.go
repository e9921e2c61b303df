package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	globals := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "waymark",
		Short:         "Log incidents with their location and review them later",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&globals.ConfigPath, "config", "", "Path to the config file")
	flags.StringVar(&globals.StoragePath, "db", "", "Path to the settings database")
	flags.StringVar(&globals.StorageKey, "key", "", "Settings key the report list is stored under")
	flags.StringVar(&globals.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newVersionCommand(out, build))
	cmd.AddCommand(newAddCommand(out, globals))
	cmd.AddCommand(newListCommand(out, globals))
	cmd.AddCommand(newShowCommand(out, globals))
	cmd.AddCommand(newMapCommand(out, globals))
	cmd.AddCommand(newDeleteCommand(out, globals))
	cmd.AddCommand(newTUICommand(globals))
	cmd.InitDefaultCompletionCmd()
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}

			_, err := fmt.Fprintf(out, "version=%s commit=%s build_time=%s\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
