// Package workdir resolves where breathe keeps its files.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SessionFile holds the last used cycle times and duration.
	SessionFile = "session.json"
	// PresetsFile holds the named presets.
	PresetsFile = "presets.json"
	// LogFile receives logs from full screen frontends.
	LogFile = "breathe.log"
	// CueDir holds the cue sound files.
	CueDir = "cues"
)

// Root returns the default data directory. The path is expanded at runtime
// to resolve to:
//
//	$HOME/Documents/Alkime/Breathe
func Root() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "Alkime", "Breathe"), nil
}

// Dir is a resolved data directory.
type Dir string

// Resolve returns override when set, otherwise Root.
func Resolve(override string) (Dir, error) {
	if override != "" {
		return Dir(override), nil
	}

	root, err := Root()
	if err != nil {
		return "", err
	}

	return Dir(root), nil
}

// FilePath returns the full path for a file in the directory.
func (d Dir) FilePath(name string) string {
	return filepath.Join(string(d), name)
}

// Cues returns the cue directory, or override when set.
func (d Dir) Cues(override string) string {
	if override != "" {
		return override
	}
	return d.FilePath(CueDir)
}

// Prep ensures that the directory exists.
func (d Dir) Prep() error {
	if err := os.MkdirAll(string(d), 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", d, err)
	}

	return nil
}
