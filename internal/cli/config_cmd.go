package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/argus/internal/cli/formatter"
	"github.com/alexanderramin/argus/internal/config"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change tracker settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(app),
		newConfigSetCmd(app),
		newConfigEditCmd(app),
	)

	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Settings
			headers := []string{"SETTING", "VALUE"}
			rows := [][]string{
				{"idle_threshold_minutes", strconv.Itoa(s.IdleThresholdMinutes)},
				{"poll_interval_seconds", strconv.Itoa(s.PollIntervalSeconds)},
				{"enable_live_refresh", strconv.FormatBool(s.EnableLiveRefresh)},
				{"live_refresh_interval_seconds", strconv.Itoa(s.LiveRefreshIntervalSeconds)},
				{"auto_start_tracking", strconv.FormatBool(s.AutoStartTracking)},
			}
			content := formatter.RenderTable(headers, rows) +
				"\n" + formatter.Dim(app.DataDir)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Settings", content))
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	var idleMinutes, pollSeconds, refreshSeconds int
	var liveRefresh, autoStart bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change individual settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Settings
			if cmd.Flags().Changed("idle-minutes") {
				s.IdleThresholdMinutes = idleMinutes
			}
			if cmd.Flags().Changed("poll-seconds") {
				s.PollIntervalSeconds = pollSeconds
			}
			if cmd.Flags().Changed("refresh-seconds") {
				s.LiveRefreshIntervalSeconds = refreshSeconds
			}
			if cmd.Flags().Changed("live-refresh") {
				s.EnableLiveRefresh = liveRefresh
			}
			if cmd.Flags().Changed("auto-start") {
				s.AutoStartTracking = autoStart
			}
			s.Normalize()

			if err := config.Save(app.DataDir, s); err != nil {
				return err
			}
			app.Settings = s
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
			return nil
		},
	}

	cmd.Flags().IntVar(&idleMinutes, "idle-minutes", 0, "Idle threshold in minutes")
	cmd.Flags().IntVar(&pollSeconds, "poll-seconds", 0, "Sampling interval in seconds")
	cmd.Flags().IntVar(&refreshSeconds, "refresh-seconds", 0, "Dashboard refresh interval in seconds")
	cmd.Flags().BoolVar(&liveRefresh, "live-refresh", true, "Enable the dashboard live refresh")
	cmd.Flags().BoolVar(&autoStart, "auto-start", true, "Start tracking when the dashboard opens")

	return cmd
}

func newConfigEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit settings interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.Settings
			idle := strconv.Itoa(s.IdleThresholdMinutes)
			poll := strconv.Itoa(s.PollIntervalSeconds)
			refresh := strconv.Itoa(s.LiveRefreshIntervalSeconds)

			form := huh.NewForm(
				huh.NewGroup(
					positiveIntInput("Idle threshold (minutes)", &idle),
					positiveIntInput("Poll interval (seconds)", &poll),
					positiveIntInput("Live refresh interval (seconds)", &refresh),
					huh.NewConfirm().
						Title("Enable live refresh?").
						Affirmative("Yes").
						Negative("No").
						Value(&s.EnableLiveRefresh),
					huh.NewConfirm().
						Title("Start tracking automatically?").
						Affirmative("Yes").
						Negative("No").
						Value(&s.AutoStartTracking),
				),
			).WithTheme(argusHuhTheme()).WithShowHelp(false)

			if err := form.Run(); err != nil {
				return err
			}

			s.IdleThresholdMinutes, _ = strconv.Atoi(idle)
			s.PollIntervalSeconds, _ = strconv.Atoi(poll)
			s.LiveRefreshIntervalSeconds, _ = strconv.Atoi(refresh)
			s.Normalize()

			if err := config.Save(app.DataDir, s); err != nil {
				return err
			}
			app.Settings = s
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
			return nil
		},
	}
}

// positiveIntInput builds a huh.Input accepting a positive integer.
func positiveIntInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(validatePositiveInt)
}

// validatePositiveInt accepts a positive integer.
func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// argusHuhTheme matches the form styling to the rest of the CLI palette.
func argusHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}
