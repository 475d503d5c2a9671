package main

import (
	"bytes"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/config"
	"github.com/alkime/breathe/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_Parse(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "tui"},
		{[]string{"--no-watch"}, "tui"},
		{[]string{"presets"}, "presets list"},
		{[]string{"presets", "apply", "Box"}, "presets apply <name>"},
		{[]string{"cues", "render", "--format", "wav"}, "cues render"},
		{[]string{"serve", "--port", "9000"}, "serve"},
		{[]string{"devices"}, "devices"},
	}

	for _, tt := range tests {
		var cli CLI
		parser, err := kong.New(&cli, kong.Name("breathe"))
		require.NoError(t, err)

		ctx, err := parser.Parse(tt.args)
		require.NoError(t, err, "%v", tt.args)
		assert.Equal(t, tt.want, ctx.Command(), "%v", tt.args)
	}
}

func TestCLI_RejectsUnknownFormat(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("breathe"))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"cues", "render", "--format", "ogg"})
	require.Error(t, err)
}

func TestCLI_Apply(t *testing.T) {
	cfg := &config.Config{DataDir: "/env/dir"}

	(&CLI{}).apply(cfg)
	assert.Equal(t, "/env/dir", cfg.DataDir)
	assert.False(t, cfg.Mute)

	(&CLI{DataDir: "/flag/dir", Mute: true, Unbounded: true}).apply(cfg)
	assert.Equal(t, "/flag/dir", cfg.DataDir)
	assert.True(t, cfg.Mute)
	assert.True(t, cfg.AllowUnbounded)
}

func TestPrintPresets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printPresets(&buf, store.DefaultPresets()[3:4]))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Deepening")
	assert.Contains(t, out, "4-8-8-0")
	assert.Contains(t, out, "6-10-10-0")
	assert.Contains(t, out, "30 minutes")

	assert.Equal(t, "5.5-0-5.5-0", cycleString(breath.CycleTimes{5.5, 0, 5.5, 0}))
}
