package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alkime/breathe/internal/app"
	"github.com/alkime/breathe/internal/config"
	"github.com/alkime/breathe/internal/gui"
	"github.com/alkime/breathe/internal/server"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// TUICmd is the default command that runs a session in the terminal.
type TUICmd struct {
	NoWatch bool `flag:"" help:"Do not reload presets when the presets file changes"`
}

// Run executes the TUI command.
func (c *TUICmd) Run(cfg *config.Config) error {
	ctx, cancel := signalContext()
	defer cancel()

	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer closeApp(context.Background(), a, log)

	uiCfg := tui.DefaultConfig()
	uiCfg.TickInterval = cfg.TickInterval()
	uiCfg.Gesture = app.GestureConfig(cfg)

	p := tea.NewProgram(
		tui.New(a.Conductor, a.Presets, a.Cues, uiCfg, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	var wg sync.WaitGroup
	watchCtx, stopWatch := context.WithCancel(ctx)

	if !c.NoWatch {
		wg.Go(func() {
			err := a.WatchPresets(watchCtx, func(presets []store.Preset) {
				p.Send(tui.PresetsChangedMsg{Presets: presets})
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("presets watcher stopped", "error", err)
			}
		})
	}

	_, err = p.Run()
	stopWatch()
	wg.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// GUICmd runs a session in a window.
type GUICmd struct {
	Width  int `flag:"" default:"720" help:"Window width"`
	Height int `flag:"" default:"720" help:"Window height"`
}

// Run executes the GUI command.
func (c *GUICmd) Run(cfg *config.Config) error {
	ctx, cancel := signalContext()
	defer cancel()

	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer closeApp(context.Background(), a, log)

	guiCfg := gui.DefaultConfig()
	guiCfg.Width = c.Width
	guiCfg.Height = c.Height
	guiCfg.TPS = cfg.TickRate
	guiCfg.Gesture = app.GestureConfig(cfg)
	guiCfg.Limits = app.Limits(cfg)

	return gui.Run(gui.New(a.Conductor, a.Presets, a.Cues, gui.ZenityDialogs{}, guiCfg, log))
}

// ServeCmd runs a headless session behind the HTTP API.
type ServeCmd struct {
	Port string `flag:"" optional:"" help:"Listen port (default: BREATHE_PORT)"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(cfg *config.Config, log *slog.Logger) error {
	if c.Port != "" {
		cfg.Port = c.Port
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer closeApp(context.Background(), a, log)

	frames, err := a.Frames(ctx)
	if err != nil {
		return err
	}

	driver := app.NewDriver(a.Conductor, cfg.TickInterval(), log)
	srv := server.New(cfg, log, driver, a.Presets, frames)

	log.Info("starting breathe server", "env", cfg.Env, "port", cfg.Port, "dir", string(a.Dir))

	var (
		wg        sync.WaitGroup
		driverErr error
	)
	wg.Go(func() {
		driverErr = driver.Run(ctx)
		cancel()
	})

	err = srv.Run(ctx)
	cancel()
	wg.Wait()

	if errors.Is(driverErr, context.Canceled) {
		driverErr = nil
	}

	return errors.Join(err, driverErr)
}
