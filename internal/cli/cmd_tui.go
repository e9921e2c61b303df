package cli

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/waymark-app/waymark/internal/app"
	"github.com/waymark-app/waymark/internal/mapview"
	"github.com/waymark-app/waymark/internal/report"
	"github.com/waymark-app/waymark/internal/tui"
)

func newTUICommand(globals *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse and record reports interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context(), globals)
			if err != nil {
				return mapCommandError(err)
			}
			defer rt.Close()

			err = tui.Run(tui.Options{
				Client:  &tuiClient{service: rt.service},
				Changes: rt.service.Changed(),
				IsTTY: func() bool {
					return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
				},
			})
			return mapCommandError(err)
		},
	}
	return cmd
}

// tuiClient adapts the report service to the TUI's client surface.
type tuiClient struct {
	service *app.ReportService
}

func (c *tuiClient) Reports(context.Context) ([]report.Report, error) {
	return c.service.List(), nil
}

func (c *tuiClient) Create(ctx context.Context, title, description string) (report.Report, error) {
	return c.service.Create(ctx, app.CreateReportRequest{
		Title:       title,
		Description: description,
	})
}

func (c *tuiClient) Delete(ctx context.Context, index int) error {
	return c.service.Delete(ctx, index)
}

func (c *tuiClient) MapURL(index int) (string, error) {
	return c.service.MapURL(index)
}

func (c *tuiClient) OpenMap(index int) error {
	url, err := c.service.MapURL(index)
	if err != nil {
		return err
	}
	return mapview.Open(url)
}
