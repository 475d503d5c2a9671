package tui_test

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type outputChecker struct {
	interval, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		interval: 50 * time.Millisecond,
		timeout:  3 * time.Second,
	}
}

func (o outputChecker) checkString(t *testing.T, tm *teatest.TestModel, substr string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	},
		teatest.WithCheckInterval(o.interval),
		teatest.WithDuration(o.timeout))
}

type fixture struct {
	c       *conductor.Conductor
	presets *store.PresetStore
	tm      *teatest.TestModel
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := conductor.DefaultConfig()
	cfg.CountdownFrom = 0

	c, err := conductor.New(cfg, conductor.DefaultSettings(), conductor.WithLogger(logger))
	require.NoError(t, err)

	presets := store.NewPresetStore(filepath.Join(t.TempDir(), "presets.json"), timer.DefaultLimits(), logger)

	uiCfg := tui.DefaultConfig()
	uiCfg.TickInterval = 20 * time.Millisecond

	m := tui.New(c, presets, nil, uiCfg, logger)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 30))

	return fixture{c: c, presets: presets, tm: tm}
}

// quit ends the program; the conductor is only safe to read afterwards.
func (f fixture) quit(t *testing.T) {
	t.Helper()

	f.tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	f.tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_StartStop(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	f.tm.Send(tea.KeyMsg{Type: tea.KeySpace})
	checker.checkString(t, f.tm, "[Stop]")

	f.tm.Send(tea.KeyMsg{Type: tea.KeySpace})
	checker.checkString(t, f.tm, "[Start]")

	f.quit(t)
	assert.Equal(t, conductor.Idle, f.c.State())
}

func TestModel_RunningSessionAdvances(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")
	f.tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.checkString(t, f.tm, "[Stop]")

	// The clock rounds up, so it reads 04:59 after the first second.
	checker.checkString(t, f.tm, "04:59")

	f.quit(t)
	assert.Equal(t, conductor.Running, f.c.State())
	assert.Less(t, float64(f.c.Snapshot().Remaining), 300.0)
}

func TestModel_AdjustDuration(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "5 minutes")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyUp})
	checker.checkString(t, f.tm, "6 minutes")

	f.tm.Send(keyRunes("-"))
	f.tm.Send(keyRunes("-"))
	checker.checkString(t, f.tm, "4 minutes")

	f.quit(t)
	assert.Equal(t, timer.Duration(240), f.c.Settings().Selected)
}

func TestModel_AdjustCycle(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	// Inhale of the start cycle has focus.
	f.tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	checker.checkString(t, f.tm, "[4.5s]")

	// Tab moves to the first hold, b to the end cycle.
	f.tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	f.tm.Send(keyRunes("b"))
	f.tm.Send(tea.KeyMsg{Type: tea.KeyLeft})
	checker.checkString(t, f.tm, "[7.5s]")

	f.quit(t)
	s := f.c.Settings()
	assert.Equal(t, breath.CycleTimes{4.5, 8, 8, 0}, s.Start)
	assert.Equal(t, breath.CycleTimes{4, 7.5, 8, 0}, s.End)
}

func TestModel_CycleTimeStopsAtZero(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	// Hold 2 is already zero.
	f.tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	f.tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	f.tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	f.tm.Send(tea.KeyMsg{Type: tea.KeyLeft})
	checker.checkString(t, f.tm, "[0s]")

	f.quit(t)
	assert.Equal(t, breath.DefaultCycleTimes, f.c.Settings().Start)
}

func TestModel_SavePreset(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	f.tm.Send(keyRunes("s"))
	checker.checkString(t, f.tm, `Saved preset "Custom"`)

	f.tm.Send(keyRunes("s"))
	checker.checkString(t, f.tm, `Saved preset "Custom 2"`)

	f.quit(t)

	_, err := f.presets.Get("Custom 2")
	require.NoError(t, err)
}

func TestModel_PresetPicker(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	f.tm.Send(keyRunes("p"))
	checker.checkString(t, f.tm, "Coherent")

	// Presets are sorted by name: Box, Calm, Coherent.
	f.tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	f.tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	f.tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	checker.checkString(t, f.tm, "Breathe")

	f.quit(t)
	s := f.c.Settings()
	assert.Equal(t, breath.CycleTimes{5.5, 0, 5.5, 0}, s.Start)
	assert.Equal(t, timer.Duration(600), s.Selected)
}

func TestModel_PresetPickerDelete(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	f.tm.Send(keyRunes("p"))
	checker.checkString(t, f.tm, "Box")

	f.tm.Send(keyRunes("d"))
	checker.checkString(t, f.tm, "> Calm")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	checker.checkString(t, f.tm, "Breathe")

	f.quit(t)

	_, err := f.presets.Get("Box")
	require.ErrorIs(t, err, store.ErrPresetNotFound)
}

func TestModel_PresetsChanged(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	f.tm.Send(keyRunes("p"))
	checker.checkString(t, f.tm, "Box")

	f.tm.Send(tui.PresetsChangedMsg{Presets: []store.Preset{
		{Name: "Evening", Settings: conductor.DefaultSettings()},
	}})
	checker.checkString(t, f.tm, "> Evening")

	f.quit(t)
}

func TestModel_TapTogglesSession(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	f.tm.Send(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	f.tm.Send(tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionRelease})
	checker.checkString(t, f.tm, "[Stop]")

	f.quit(t)
	assert.Equal(t, conductor.Running, f.c.State())
}

func TestModel_DragAdjustsDuration(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	// A quarter turn clockwise around the indicator center takes about a minute off.
	// With 80x30 the indicator has 19 rows and its center is at column 40, row 9.5.
	f.tm.Send(tea.MouseMsg{X: 39, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	f.tm.Send(tea.MouseMsg{X: 59, Y: 6, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	f.tm.Send(tea.MouseMsg{X: 59, Y: 11, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	f.tm.Send(tea.MouseMsg{X: 59, Y: 11, Action: tea.MouseActionRelease})

	f.quit(t)
	assert.Equal(t, conductor.Idle, f.c.State(), "a drag is not a tap")
	assert.InDelta(t, 240, float64(f.c.Settings().Selected), 5)
}

func TestModel_Quit(t *testing.T) {
	f := newFixture(t)
	checker := defaultChecker()

	checker.checkString(t, f.tm, "[Start]")

	f.tm.Send(keyRunes("q"))
	f.tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}
