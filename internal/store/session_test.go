package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	t.Parallel()

	limits := timer.Limits{Max: 1800, AllowUnbounded: true}
	s := store.NewSessionStore(filepath.Join(t.TempDir(), "session.json"), limits, nil)

	for _, want := range []conductor.Settings{
		{Start: breath.CycleTimes{4, 8, 8, 0}, End: breath.CycleTimes{6, 10, 10, 0}, Selected: 1800},
		{Start: breath.CycleTimes{3.25, 0, 5.5, 1}, End: breath.CycleTimes{3.25, 0, 5.5, 1}, Selected: 42.5},
		{Start: breath.DefaultCycleTimes, End: breath.DefaultCycleTimes, Selected: timer.Unbounded},
	} {
		require.NoError(t, s.Save(want))
		assert.Equal(t, want, s.Load())
	}
}

func TestSessionStore_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"missing", ""},
		{"not json", "{{{"},
		{"short cycle", `{"start_cycle_times":[4,8,8],"end_cycle_times":[4,8,8,0],"selected_duration":60}`},
		{"negative", `{"start_cycle_times":[4,8,8,0],"end_cycle_times":[4,-8,8,0],"selected_duration":60}`},
		{"no duration", `{"start_cycle_times":[4,8,8,0],"end_cycle_times":[4,8,8,0]}`},
		{"legacy list", `[4,8,8,0]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "session.json")
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			}

			s := store.NewSessionStore(path, timer.DefaultLimits(), nil)
			assert.Equal(t, conductor.DefaultSettings(), s.Load())
		})
	}
}

func TestSessionStore_FileFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	s := store.NewSessionStore(path, timer.Limits{Max: 1800, AllowUnbounded: true}, nil)

	require.NoError(t, s.Save(conductor.Settings{
		Start: breath.DefaultCycleTimes, End: breath.DefaultCycleTimes, Selected: timer.Unbounded,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"start_cycle_times": [4, 8, 8, 0],
		"end_cycle_times": [4, 8, 8, 0],
		"selected_duration": 1801
	}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
