package app

import (
	"context"
	"fmt"
	"os"

	"github.com/alkime/breathe/internal/store"
)

// Opener opens a file for interactive editing and returns once the user is done.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// EditPresets writes the presets as editable rows, opens them in ed and
// saves every row that parses. Rejected rows are returned; if no row
// survives while some were rejected, nothing is saved.
func (a *App) EditPresets(ctx context.Context, ed Opener) ([]store.RowError, error) {
	presets, err := a.Presets.Load()
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(string(a.Dir), "presets-*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to create edit file: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil {
			a.Logger.Warn("failed to remove edit file", "path", path, "error", err)
		}
	}()

	limits := Limits(a.Config)
	if err := store.FormatRows(f, presets, limits); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write edit file: %w", err)
	}

	if err := ed.Open(ctx, path); err != nil {
		return nil, err
	}

	edited, err := os.Open(path) //nolint:gosec // file created above
	if err != nil {
		return nil, fmt.Errorf("failed to reopen edit file: %w", err)
	}
	defer func() {
		_ = edited.Close()
	}()

	parsed, rowErrs, err := store.ParseRows(edited, limits)
	if err != nil {
		return nil, err
	}

	if len(parsed) == 0 && len(rowErrs) > 0 {
		return rowErrs, nil
	}

	if err := a.Presets.Save(parsed); err != nil {
		return rowErrs, err
	}

	a.Logger.Info("presets edited", "saved", len(parsed), "rejected", len(rowErrs))

	return rowErrs, nil
}

// WatchPresets calls onChange with the reloaded presets whenever the presets
// file changes on disk, until ctx is done.
func (a *App) WatchPresets(ctx context.Context, onChange func([]store.Preset)) error {
	return store.Watch(ctx, a.Presets.Path(), func() {
		presets, err := a.Presets.Load()
		if err != nil {
			a.Logger.Warn("failed to reload presets", "error", err)
			return
		}
		onChange(presets)
	}, a.Logger)
}
