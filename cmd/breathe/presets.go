package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alkime/breathe/internal/app"
	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/config"
	"github.com/alkime/breathe/internal/editor"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/pkg/collections"
)

// PresetsCmd groups preset subcommands.
type PresetsCmd struct {
	List   PresetsListCmd   `cmd:"" default:"1" help:"List presets"`
	Edit   PresetsEditCmd   `cmd:"" help:"Edit presets in $EDITOR, one per line"`
	Export PresetsExportCmd `cmd:"" help:"Write presets as YAML"`
	Import PresetsImportCmd `cmd:"" help:"Add presets from a YAML file"`
	Apply  PresetsApplyCmd  `cmd:"" help:"Make a preset the current session settings"`
}

// PresetsListCmd prints every preset.
type PresetsListCmd struct{}

// Run executes the list command.
func (c *PresetsListCmd) Run(cfg *config.Config, log *slog.Logger) error {
	return withPresets(cfg, log, func(_ context.Context, a *app.App) error {
		presets, err := a.Presets.Load()
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}

		return printPresets(os.Stdout, presets)
	})
}

// PresetsEditCmd opens the presets in an editor and saves the valid rows.
type PresetsEditCmd struct {
	Editor string `flag:"" optional:"" help:"Editor command (default: $VISUAL, $EDITOR, vi)"`
}

// Run executes the edit command.
func (c *PresetsEditCmd) Run(cfg *config.Config, log *slog.Logger) error {
	return withPresets(cfg, log, func(ctx context.Context, a *app.App) error {
		ed := editor.FromEnv(log)
		if c.Editor != "" {
			ed = editor.New(c.Editor, log)
		}

		rowErrs, err := a.EditPresets(ctx, ed)
		for _, re := range rowErrs {
			fmt.Fprintf(os.Stderr, "skipped: %v\n", re)
		}
		if err != nil {
			return fmt.Errorf("failed to edit presets: %w", err)
		}

		fmt.Printf("presets saved to %s\n", a.Presets.Path())

		return nil
	})
}

// PresetsExportCmd writes presets as YAML.
type PresetsExportCmd struct {
	Output string `arg:"" optional:"" type:"path" help:"Output file (default: stdout)"`
}

// Run executes the export command.
func (c *PresetsExportCmd) Run(cfg *config.Config, log *slog.Logger) error {
	return withPresets(cfg, log, func(_ context.Context, a *app.App) error {
		presets, err := a.Presets.Load()
		if err != nil {
			return fmt.Errorf("failed to load presets: %w", err)
		}

		if c.Output == "" {
			return store.ExportYAML(os.Stdout, presets, app.Limits(cfg))
		}

		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()

		if err := store.ExportYAML(f, presets, app.Limits(cfg)); err != nil {
			return err
		}

		fmt.Printf("%d presets written to %s\n", len(presets), c.Output)

		return f.Close()
	})
}

// PresetsImportCmd adds presets from a YAML file.
type PresetsImportCmd struct {
	File string `arg:"" required:"" type:"existingfile" help:"YAML file written by export"`
}

// Run executes the import command.
func (c *PresetsImportCmd) Run(cfg *config.Config, log *slog.Logger) error {
	return withPresets(cfg, log, func(_ context.Context, a *app.App) error {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.File, err)
		}
		defer f.Close()

		presets, rowErrs, err := store.ImportYAML(f, app.Limits(cfg))
		if err != nil {
			return err
		}
		for _, re := range rowErrs {
			fmt.Fprintf(os.Stderr, "skipped: %v\n", re)
		}

		saved, err := a.Presets.Add(presets...)
		if err != nil {
			return fmt.Errorf("failed to save presets: %w", err)
		}

		for _, p := range saved {
			fmt.Printf("imported %s\n", p.Name)
		}

		return nil
	})
}

// PresetsApplyCmd loads a preset into the saved session.
type PresetsApplyCmd struct {
	Name string `arg:"" required:"" help:"Preset name"`
}

// Run executes the apply command.
func (c *PresetsApplyCmd) Run(cfg *config.Config, log *slog.Logger) error {
	return withPresets(cfg, log, func(_ context.Context, a *app.App) error {
		p, err := a.ApplyPreset(c.Name)
		if err != nil {
			return err
		}

		fmt.Printf("next session: %s, %s\n", p.Name, timer.Describe(p.Selected))

		return nil
	})
}

func withPresets(cfg *config.Config, log *slog.Logger, fn func(context.Context, *app.App) error) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := quietApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeApp(context.Background(), a, log)

	return fn(ctx, a)
}

func printPresets(w io.Writer, presets []store.Preset) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tSTART\tEND\tDURATION")
	for _, p := range presets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, cycleString(p.Start), cycleString(p.End), timer.Describe(p.Selected))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to print presets: %w", err)
	}

	return nil
}

func cycleString(c breath.CycleTimes) string {
	return strings.Join(collections.Apply(c[:], func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}), "-")
}
