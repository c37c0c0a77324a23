package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/engine"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	var noDashboard, paused bool

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track foreground activity until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			eng := engine.New(app.Store, app.Probe, app.Session, engine.Options{
				IdleThreshold: app.Settings.IdleThreshold(),
				PollInterval:  app.Settings.PollInterval(),
				Logger:        app.Logger,
			})
			app.Session.Start(time.Second)
			defer app.Session.Close()
			defer eng.Shutdown()

			if !noDashboard && app.IsInteractive != nil && app.IsInteractive() {
				autostart := !paused && app.Settings.AutoStartTracking
				return runDashboard(ctx, app, eng, autostart)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Tracking to %s (Ctrl+C to stop)\n", app.Store.Dir())
			eng.Run(ctx)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDashboard, "no-dashboard", false, "Run headless even on a terminal")
	cmd.Flags().BoolVar(&paused, "paused", false, "Open the dashboard without starting tracking")

	return cmd
}

// runDashboard runs the live dashboard until quit or ctx cancellation. Closed
// intervals are forwarded into the bubbletea program as messages so the view
// can refresh without polling.
func runDashboard(ctx context.Context, app *App, eng *engine.Engine, autostart bool) error {
	if autostart {
		eng.Start()
	}

	p := tea.NewProgram(newDashboardModel(app, eng), tea.WithContext(ctx))
	eng.Observe(func(iv domain.Interval) {
		// Send blocks while the event loop is busy, and the event loop may
		// itself be calling into the engine, so forward off the sampling
		// goroutine.
		go p.Send(intervalClosedMsg{interval: iv})
	})

	if _, err := p.Run(); err != nil && err != tea.ErrProgramKilled {
		return err
	}
	return nil
}
