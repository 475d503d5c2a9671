// Package editor launches the user's text editor on a file.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// DefaultProgram is used when neither $VISUAL nor $EDITOR is set.
const DefaultProgram = "vi"

// ErrNoProgram is returned when the editor command line is empty.
var ErrNoProgram = errors.New("no editor program")

// Editor runs an external program on a file and waits for it to exit.
type Editor struct {
	// Command is the program and its leading arguments, as in $EDITOR.
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	logger  *slog.Logger
}

// FromEnv builds an editor from $VISUAL, then $EDITOR, defaulting to vi,
// attached to the process terminal.
func FromEnv(logger *slog.Logger) *Editor {
	command := os.Getenv("VISUAL")
	if command == "" {
		command = os.Getenv("EDITOR")
	}
	if command == "" {
		command = DefaultProgram
	}

	return New(command, logger)
}

// New creates an editor that runs command on the process terminal.
func New(command string, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		logger:  logger,
	}
}

// Open runs the editor on path and blocks until it exits.
func (e *Editor) Open(ctx context.Context, path string) error {
	fields := strings.Fields(e.Command)
	if len(fields) == 0 {
		return ErrNoProgram
	}

	e.logger.Info("Opening file in editor", "editor", fields[0], "path", path)

	args := append(fields[1:], path)
	//nolint:gosec // the editor comes from the user's own environment
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		e.logger.Error("Failed to open editor", "error", err)
		e.logger.Info("You can manually edit the file", "path", path)
		return fmt.Errorf("failed to open editor: %w", err)
	}

	return nil
}
