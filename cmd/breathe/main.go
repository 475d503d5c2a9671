package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/alkime/breathe/internal/app"
	"github.com/alkime/breathe/internal/config"
	"github.com/alkime/breathe/internal/logger"
	"github.com/alkime/breathe/internal/wakelock"
	"github.com/alkime/breathe/internal/workdir"
)

// CLI defines the breathe command structure.
type CLI struct {
	DataDir   string `flag:"" optional:"" type:"path" help:"Data directory (default: ~/Documents/Alkime/Breathe)"`
	Mute      bool   `flag:"" help:"Start with cues muted"`
	Unbounded bool   `flag:"" help:"Allow sessions past the maximum duration to run until stopped"`

	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Run a session in the terminal"`

	GUI     GUICmd     `cmd:"" name:"gui" help:"Run a session in a window"`
	Serve   ServeCmd   `cmd:"" help:"Run a headless session with a remote control API and web viewer"`
	Presets PresetsCmd `cmd:"" help:"Manage presets"`
	Cues    CuesCmd    `cmd:"" help:"Manage cue sounds"`
	Devices DevicesCmd `cmd:"" help:"List available audio devices"`
}

// apply copies flags over the environment configuration.
func (c *CLI) apply(cfg *config.Config) {
	if c.DataDir != "" {
		cfg.DataDir = c.DataDir
	}
	if c.Mute {
		cfg.Mute = true
	}
	if c.Unbounded {
		cfg.AllowUnbounded = true
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Text logger for CLI output; full screen commands switch to a log file.
	log := logger.SetupLogger(cfg, os.Stderr, logger.Text)

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("breathe"),
		kong.Description("A guided breathing metronome."),
		kong.UsageOnError(),
	)
	cli.apply(cfg)

	err = ctx.Run(cfg, log)
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

// signalContext is cancelled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// fileLogger sends logs to the data directory for commands that own the
// terminal or run without one.
func fileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	dir, err := workdir.Resolve(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	f, err := logger.OpenFile(dir.FilePath(workdir.LogFile))
	if err != nil {
		return nil, nil, err
	}

	return logger.SetupLogger(cfg, f, logger.JSON), func() { _ = f.Close() }, nil
}

// quietApp opens the stores without audio or a wake lock, for commands that
// never run a session.
func quietApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app.App, error) {
	a, err := app.New(ctx, cfg, log, app.WithOutput(nil), app.WithWakeLock(&wakelock.Noop{}))
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	return a, nil
}

func closeApp(ctx context.Context, a *app.App, log *slog.Logger) {
	if err := a.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("failed to close cleanly", "error", err)
	}
}
