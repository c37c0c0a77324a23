package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/argus/internal/cli"
	"github.com/alexanderramin/argus/internal/config"
	"github.com/alexanderramin/argus/internal/logstore"
	"github.com/alexanderramin/argus/internal/probe"
	"github.com/alexanderramin/argus/internal/report"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	store := logstore.NewStore(dataDir)

	app := &cli.App{
		DataDir:  dataDir,
		Settings: config.Load(dataDir),
		Store:    store,
		Reports:  report.NewService(store),
		Probe:    probe.NewSystemProber(),
		Session:  probe.NewMonitor(),
		Logger:   logger,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
