package cli

import (
	"github.com/alexanderramin/argus/internal/config"
	"github.com/alexanderramin/argus/internal/logstore"
	"github.com/alexanderramin/argus/internal/probe"
	"github.com/alexanderramin/argus/internal/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the wired collaborators used by CLI commands.
type App struct {
	DataDir  string
	Settings config.Settings
	Store    *logstore.Store
	Reports  *report.Service
	Probe    probe.Prober
	Session  *probe.Monitor
	Logger   zerolog.Logger

	// IsInteractive reports whether stdout is a terminal; the live
	// dashboard is only offered when it is.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "argus" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "argus",
		Short: "Workstation activity tracker and usage reporter",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newTrackCmd(app),
		newReportCmd(app),
		newConfigCmd(app),
		newExportCmd(app),
	)

	return root
}
