package editor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/breathe/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, editor.DefaultProgram, editor.FromEnv(nil).Command)

	t.Setenv("EDITOR", "nano -w")
	assert.Equal(t, "nano -w", editor.FromEnv(nil).Command)

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, "code --wait", editor.FromEnv(nil).Command, "VISUAL wins over EDITOR")
}

func TestOpen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.txt")
	require.NoError(t, os.WriteFile(path, []byte("Box,4,4,4,4,4,4,4,4,300\n"), 0o600))

	t.Run("editor rewrites the file", func(t *testing.T) {
		t.Parallel()

		target := filepath.Join(t.TempDir(), "rows.txt")
		require.NoError(t, os.WriteFile(target, []byte("old\n"), 0o600))

		script := filepath.Join(t.TempDir(), "fake-editor")
		require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho edited > \"$1\"\n"), 0o700)) //nolint:gosec // test script

		ed := editor.New(script, nil)
		require.NoError(t, ed.Open(context.Background(), target))

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "edited\n", string(data))
	})

	t.Run("arguments precede the path", func(t *testing.T) {
		t.Parallel()

		ed := editor.New("sh -c true", nil)
		require.NoError(t, ed.Open(context.Background(), path))
	})

	t.Run("failing editor", func(t *testing.T) {
		t.Parallel()

		ed := editor.New("false", nil)
		require.Error(t, ed.Open(context.Background(), path))
	})

	t.Run("empty command", func(t *testing.T) {
		t.Parallel()

		ed := editor.New("  ", nil)
		require.ErrorIs(t, ed.Open(context.Background(), path), editor.ErrNoProgram)
	})
}
