package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/calance/sales-edge/internal/tui"
)

// DoctorCmd checks the configuration and the generation service.
var DoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and generation service health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Check", "Status", "Detail"})

			ok := tui.SuccessStyle.Render("ok")
			tw.AppendRow(table.Row{"Config", ok, a.cfg.APIURL})
			tw.AppendRow(table.Row{"Draft storage", ok, fmt.Sprintf("%s (%s)", a.cfg.Storage.Dir, a.cfg.Storage.Backend)})

			if a.templates.Empty() {
				tw.AppendRow(table.Row{"Templates", tui.WarningStyle.Render("missing"), a.cfg.Templates.Dir})
			} else {
				tw.AppendRow(table.Row{"Templates", ok, fmt.Sprintf("%d industries", len(a.templates.Enabled()))})
			}

			exportDest := a.cfg.Export.Dir
			if a.cfg.Export.S3.Enabled {
				exportDest = "s3://" + a.cfg.Export.S3.Bucket + "/" + a.cfg.Export.S3.Prefix
			}
			tw.AppendRow(table.Row{"Export", ok, exportDest})

			health, err := a.client.Health(ctx)
			if err != nil {
				tw.AppendRow(table.Row{"Generation service", tui.ErrorStyle.Render("down"), userError(err).Error()})
				tw.Render()
				return fmt.Errorf("generation service is not reachable")
			}
			tw.AppendRow(table.Row{"Generation service", ok, fmt.Sprintf("%s %s", health.Service, health.Status)})
			tw.Render()
			return nil
		})
	},
}
