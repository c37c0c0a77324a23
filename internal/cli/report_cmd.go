package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/argus/internal/cli/formatter"
	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value for YYYY-MM-DD flags.
type dateValue struct {
	t   time.Time
	set bool
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if !d.set {
		return ""
	}
	return d.t.Format("2006-01-02")
}

func (d *dateValue) Set(s string) error {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d.t = t
	d.set = true
	return nil
}

func (d *dateValue) Type() string { return "date" }

// orToday returns the flag's value, defaulting to today's midnight.
func (d *dateValue) orToday() time.Time {
	if d.set {
		return d.t
	}
	y, m, day := time.Now().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.Local)
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize recorded activity",
	}

	cmd.AddCommand(
		newReportDayCmd(app),
		newReportWeekCmd(app),
		newReportMonthCmd(app),
	)

	return cmd
}

func newReportDayCmd(app *App) *cobra.Command {
	var date dateValue

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show a daily summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := date.orToday()
			sum, err := app.Reports.Day(day)
			if err != nil {
				return err
			}

			var b []string
			b = append(b, bucketLine(sum.Active, sum.Idle, sum.Locked))
			if len(sum.Processes) > 0 {
				b = append(b, "", processTable(sum.Processes))
			}
			content := formatter.HumanDate(day) + "\n\n" + strings.Join(b, "\n")
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Daily Report", content))
			return nil
		},
	}

	cmd.Flags().Var(&date, "date", "Day to report (YYYY-MM-DD, default today)")
	return cmd
}

func newReportWeekCmd(app *App) *cobra.Command {
	var start dateValue

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show a weekly summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			from := start.t
			if !start.set {
				from = report.StartOfWeek(time.Now(), time.Monday)
			}
			week, err := app.Reports.Week(from)
			if err != nil {
				return err
			}

			headers := []string{"DAY", "ACTIVE", "IDLE", "LOCKED"}
			rows := make([][]string, 0, len(week.Days))
			for _, day := range week.Days {
				rows = append(rows, []string{
					day.Date.Format("Mon Jan 2"),
					formatter.ClockDuration(day.Active),
					formatter.ClockDuration(day.Idle),
					formatter.ClockDuration(day.Locked),
				})
			}
			rows = append(rows, []string{
				formatter.StyleBold.Render("Total"),
				formatter.StyleBold.Render(formatter.ClockDuration(week.Active)),
				formatter.ClockDuration(week.Idle),
				formatter.ClockDuration(week.Locked),
			})

			title := fmt.Sprintf("Week of %s", from.Format("Jan 2 2006"))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(title, formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().Var(&start, "start", "First day of the week (YYYY-MM-DD, default most recent Monday)")
	return cmd
}

func newReportMonthCmd(app *App) *cobra.Command {
	var monthFlag string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show a monthly summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			year, month := now.Year(), now.Month()
			if monthFlag != "" {
				t, err := time.ParseInLocation("2006-01", monthFlag, time.Local)
				if err != nil {
					return fmt.Errorf("invalid month %q, expected YYYY-MM", monthFlag)
				}
				year, month = t.Year(), t.Month()
			}

			sum, err := app.Reports.Month(year, month, time.Local)
			if err != nil {
				return err
			}

			var b []string
			b = append(b, bucketLine(sum.Active, sum.Idle, sum.Locked))
			b = append(b, "", formatter.Dim("Active time: "+formatter.HumanDuration(sum.Active)))
			if len(sum.Processes) > 0 {
				b = append(b, "", processTable(sum.Processes))
			}

			title := fmt.Sprintf("%s %d", month, year)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox(title, strings.Join(b, "\n")))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "Month to report (YYYY-MM, default current)")
	return cmd
}

// bucketLine renders the three bucket totals on one line.
func bucketLine(active, idle, locked time.Duration) string {
	return fmt.Sprintf("%s %s   %s %s   %s %s",
		formatter.BucketStyle("active").Render("Active"),
		formatter.StyleBold.Render(formatter.ClockDuration(active)),
		formatter.BucketStyle("idle").Render("Idle"),
		formatter.ClockDuration(idle),
		formatter.BucketStyle("locked").Render("Locked"),
		formatter.ClockDuration(locked),
	)
}

// processTable renders the top ten processes by active time.
func processTable(usage []domain.ProcessUsage) string {
	const limit = 10
	headers := []string{"PROCESS", "ACTIVE"}
	rows := make([][]string, 0, limit)
	for i, p := range usage {
		if i == limit {
			break
		}
		rows = append(rows, []string{
			formatter.Truncate(p.ProcessName, 32),
			formatter.ClockDuration(p.Active),
		})
	}
	return formatter.RenderTable(headers, rows)
}
