package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/argus/internal/export"
	"github.com/alexanderramin/argus/internal/report"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var from, to dateValue
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a date range to a SQLite database",
		Long: "Export copies intervals and daily summaries for a date range into a\n" +
			"standalone SQLite file. The daily logs remain the source of truth; the\n" +
			"database is a derived artifact for ad-hoc querying.",
		RunE: func(cmd *cobra.Command, args []string) error {
			end := to.orToday()
			start := from.t
			if !from.set {
				start = report.StartOfWeek(end, time.Monday)
			}

			exp := export.NewExporter(app.Store, app.Reports)
			res, err := exp.Run(cmd.Context(), out, start, end)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d intervals across %d days to %s (export %s)\n",
				res.Intervals, res.Days, out, res.ExportID)
			return nil
		},
	}

	cmd.Flags().Var(&from, "from", "First day to export (YYYY-MM-DD, default start of this week)")
	cmd.Flags().Var(&to, "to", "Last day to export (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&out, "out", "argus-export.db", "Output database path")

	return cmd
}
