package conductor_test

import (
	"testing"
	"time"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/cue"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/internal/wakelock"
	"github.com/alkime/breathe/pkg/uictl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tick      = 250 * time.Millisecond
	tolerance = 1e-9
)

type fakeLock struct {
	held     bool
	acquires int
	releases int
	err      error
}

func (l *fakeLock) Acquire() error {
	l.acquires++
	if l.err != nil {
		return l.err
	}
	l.held = true
	return nil
}

func (l *fakeLock) Release() error {
	l.releases++
	l.held = false
	return nil
}

func (l *fakeLock) IsHeld() bool { return l.held }

type playFunc func()

func (f playFunc) Play() { f() }

type harness struct {
	c       *conductor.Conductor
	lock    *fakeLock
	cues    map[cue.Slot]int
	clock   string
	control string
	status  string
	slider  float64
	saved   []conductor.Settings
}

func newHarness(t *testing.T, cfg conductor.Config, settings conductor.Settings) *harness {
	t.Helper()

	h := &harness{lock: &fakeLock{}, cues: map[cue.Slot]int{}}

	loader := cue.LoaderFunc(func(s cue.Slot) (cue.Sound, error) {
		return playFunc(func() { h.cues[s]++ }), nil
	})

	c, err := conductor.New(cfg, settings,
		conductor.WithCues(cue.NewDispatcher(loader, nil)),
		conductor.WithWakeLock(h.lock),
		conductor.WithDisplay(conductor.Display{
			Remaining: uictl.LabelFunc(func(s string) { h.clock = s }),
			Duration:  uictl.SliderFunc[float64](func(v float64) { h.slider = v }),
			Control:   uictl.LabelFunc(func(s string) { h.control = s }),
			Status:    uictl.LabelFunc(func(s string) { h.status = s }),
		}),
	)
	require.NoError(t, err)

	c.OnSettingsChange(func(s conductor.Settings) { h.saved = append(h.saved, s) })
	h.c = c

	return h
}

func (h *harness) run(d time.Duration) {
	for range int(d / tick) {
		h.c.Tick(tick)
	}
}

func TestConductor_CountdownThenRunning(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())
	assert.Equal(t, "Start", h.control)
	assert.Equal(t, "05:00", h.clock)

	require.True(t, h.c.Start())
	assert.False(t, h.c.Start(), "already started")
	assert.Equal(t, conductor.Countdown, h.c.State())
	assert.Equal(t, "5", h.status)
	assert.Equal(t, "Stop", h.control)

	for _, want := range []string{"4", "3", "2", "1"} {
		h.run(time.Second)
		assert.Equal(t, want, h.status)
		assert.Equal(t, conductor.Countdown, h.c.State())
		assert.Zero(t, h.lock.acquires, "no wake lock during the countdown")
	}

	h.run(time.Second)
	assert.Equal(t, conductor.Running, h.c.State())
	assert.True(t, h.lock.held)
	assert.Equal(t, "05:00", h.clock, "the timer does not run during the countdown")
}

func TestConductor_FiveMinuteSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())
	h.c.Start()
	h.run(5 * time.Second)
	require.Equal(t, conductor.Running, h.c.State())

	h.run(4 * time.Second)
	f := h.c.Snapshot().Frame
	assert.Equal(t, breath.HoldIn, f.Phase)
	assert.InDelta(t, 0, f.Progress, tolerance)
	assert.InDelta(t, 75, f.Radii.Front, tolerance)
	assert.InDelta(t, 75, f.Radii.Back, tolerance)
	assert.Equal(t, "Hold 1", h.status)
	assert.Equal(t, "04:56", h.clock)

	h.run(296 * time.Second)
	snap := h.c.Snapshot()
	require.Equal(t, conductor.Stopping, snap.State)
	assert.Zero(t, snap.Remaining.Seconds(), "clamped at zero")
	assert.Equal(t, "00:00", h.clock)
	assert.Equal(t, 1, h.cues[cue.SessionEnd])

	// Fifteen 20s cycles; the inhale due at the very end is cut off by expiry.
	assert.Equal(t, 15, h.cues[cue.InhaleStart])
	assert.Equal(t, 15, h.cues[cue.Hold1Start])
	assert.Equal(t, 15, h.cues[cue.ExhaleStart])
	assert.Zero(t, h.cues[cue.Hold2Start], "zero length hold is passed through")

	h.run(time.Second)
	assert.Equal(t, conductor.Stopping, h.c.State(), "still cooling down")
	assert.True(t, h.lock.held)

	h.run(time.Second)
	assert.Equal(t, conductor.Idle, h.c.State())
	assert.False(t, h.lock.held)
	assert.Equal(t, "Start", h.control)
	assert.Equal(t, "05:00", h.clock)
	assert.InDelta(t, 300, h.slider, tolerance)

	h.run(30 * time.Second)
	assert.Equal(t, 1, h.cues[cue.SessionEnd], "expiry is not repeated")
	assert.Equal(t, 1, h.lock.releases)
}

func TestConductor_SinglePhaseCycleCuesEveryTraversal(t *testing.T) {
	t.Parallel()

	exhaleOnly := breath.CycleTimes{0, 0, 8, 0}
	h := newHarness(t, conductor.DefaultConfig(), conductor.Settings{
		Start:    exhaleOnly,
		End:      exhaleOnly,
		Selected: 60,
	})

	h.c.Start()
	h.run(5 * time.Second)
	require.Equal(t, conductor.Running, h.c.State())

	h.run(time.Second)
	assert.Equal(t, 1, h.cues[cue.ExhaleStart])
	assert.Equal(t, "Exhale", h.status)

	// Traversals complete at 8, 16, 24 and 32 s.
	h.run(38 * time.Second)
	assert.Equal(t, 5, h.cues[cue.ExhaleStart])
	assert.Zero(t, h.cues[cue.InhaleStart])
	assert.Zero(t, h.cues[cue.Hold1Start])
	assert.Zero(t, h.cues[cue.Hold2Start])
}

func TestConductor_StopDuringCountdownCancelsPending(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())

	h.c.Start()
	h.run(2500 * time.Millisecond)
	h.c.Stop()

	assert.Equal(t, conductor.Idle, h.c.State())
	assert.Equal(t, "Start", h.control)
	assert.Empty(t, h.status)

	h.run(10 * time.Second)
	assert.Equal(t, conductor.Idle, h.c.State(), "no stale countdown step fires")
	assert.Zero(t, h.lock.acquires)

	h.c.Start()
	h.run(750 * time.Millisecond)
	assert.Equal(t, "5", h.status, "restarted countdown keeps its own schedule")
	h.run(250 * time.Millisecond)
	assert.Equal(t, "4", h.status)
}

func TestConductor_StopDuringCooldownCancelsPending(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.Settings{
		Start: breath.DefaultCycleTimes, End: breath.DefaultCycleTimes, Selected: 10,
	})

	h.c.Start()
	h.run(15 * time.Second)
	require.Equal(t, conductor.Stopping, h.c.State())

	h.run(time.Second)
	h.c.Stop()
	assert.Equal(t, conductor.Idle, h.c.State())
	assert.False(t, h.lock.held)

	h.c.Start()
	h.run(2 * time.Second)
	assert.Equal(t, conductor.Countdown, h.c.State(), "the old cooldown did not reset the new session")
	assert.Equal(t, "3", h.status)
}

func TestConductor_ManualStop(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())

	h.c.Toggle()
	h.run(65 * time.Second)
	require.Equal(t, conductor.Running, h.c.State())
	assert.Equal(t, "04:00", h.clock)

	h.c.Toggle()
	assert.Equal(t, conductor.Idle, h.c.State())
	assert.False(t, h.lock.held)
	assert.Equal(t, "05:00", h.clock)
	assert.Equal(t, "Start", h.control)
	assert.Zero(t, h.cues[cue.SessionEnd], "manual stop has no end cue")
	assert.Equal(t, breath.RestingRadii(), h.c.Snapshot().Frame.Radii)
}

func TestConductor_AdjustDuration(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())

	h.c.AdjustDuration(60)
	assert.Equal(t, "06:00", h.clock)
	require.Len(t, h.saved, 1)
	assert.InDelta(t, 360, h.saved[0].Selected.Seconds(), tolerance)

	h.c.Start()
	h.run(5 * time.Second)
	h.c.AdjustDuration(-120)
	assert.Equal(t, "04:00", h.clock)
	assert.InDelta(t, 240, h.slider, tolerance)
	assert.Len(t, h.saved, 1, "running adjustments are not persisted")
	assert.InDelta(t, 360, h.c.Settings().Selected.Seconds(), tolerance)

	h.c.Stop()
	assert.Equal(t, "06:00", h.clock, "stop restores the baseline")
}

func TestConductor_AdjustDuringCooldownIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.Settings{
		Start: breath.DefaultCycleTimes, End: breath.DefaultCycleTimes, Selected: 1,
	})

	h.c.Start()
	h.run(6 * time.Second)
	require.Equal(t, conductor.Stopping, h.c.State())

	h.c.AdjustDuration(600)
	h.run(5 * time.Second)
	assert.Equal(t, 1, h.cues[cue.SessionEnd])
	assert.Equal(t, conductor.Idle, h.c.State())
}

func TestConductor_WakeLockUnavailable(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())
	h.lock.err = wakelock.ErrUnavailable

	h.c.Start()
	h.run(10 * time.Second)

	assert.Equal(t, conductor.Running, h.c.State())
	assert.Equal(t, 1, h.lock.acquires)

	h.c.Stop()
	assert.Zero(t, h.lock.releases, "nothing to release")
}

func TestConductor_ApplyPresetDrift(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())

	preset := conductor.Settings{
		Start:    breath.CycleTimes{4, 8, 8, 0},
		End:      breath.CycleTimes{6, 10, 10, 0},
		Selected: 1800,
	}
	require.NoError(t, h.c.Apply(preset))
	assert.Equal(t, preset, h.c.Settings())
	require.Len(t, h.saved, 1)
	assert.Equal(t, "30:00", h.clock)

	h.c.Start()
	h.run(5 * time.Second)
	h.run(900 * time.Second)

	assert.Equal(t, breath.CycleTimes{5, 9, 9, 0}, h.c.Snapshot().Frame.Cycle)
}

func TestConductor_ApplyEndsSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())
	h.c.Start()
	h.run(10 * time.Second)

	require.NoError(t, h.c.Apply(conductor.Settings{
		Start: breath.CycleTimes{5, 5, 5, 5}, End: breath.CycleTimes{5, 5, 5, 5}, Selected: 600,
	}))
	assert.Equal(t, conductor.Idle, h.c.State())
	assert.False(t, h.lock.held)
	assert.Equal(t, "10:00", h.clock)

	err := h.c.Apply(conductor.Settings{Start: breath.CycleTimes{-1}, End: breath.DefaultCycleTimes})
	require.ErrorIs(t, err, breath.ErrNegativeCycleTime)
	assert.InDelta(t, 600, h.c.Settings().Selected.Seconds(), tolerance)
}

func TestConductor_SetCycleTime(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())

	require.NoError(t, h.c.SetCycleTime(conductor.EndBound, breath.HoldOut, 3))
	require.NoError(t, h.c.SetCycleTime(conductor.StartBound, breath.Inhale, 5))
	assert.Equal(t, breath.CycleTimes{5, 8, 8, 0}, h.c.Settings().Start)
	assert.Equal(t, breath.CycleTimes{4, 8, 8, 3}, h.c.Settings().End)
	assert.Len(t, h.saved, 2)

	require.Error(t, h.c.SetCycleTime(conductor.StartBound, breath.NoPhase, 1))
}

func TestConductor_SelectDuration(t *testing.T) {
	t.Parallel()

	cfg := conductor.DefaultConfig()
	cfg.Limits.AllowUnbounded = true
	h := newHarness(t, cfg, conductor.DefaultSettings())

	require.True(t, h.c.SelectDuration(timer.Unbounded))
	assert.Equal(t, "∞", h.clock)
	assert.InDelta(t, 1801, h.slider, tolerance)

	h.c.Start()
	assert.False(t, h.c.SelectDuration(60), "only while idle")

	h.run(time.Hour)
	assert.Equal(t, conductor.Running, h.c.State(), "unbounded sessions never expire")
	assert.Zero(t, h.cues[cue.SessionEnd])
}

func TestConductor_ZeroCountdown(t *testing.T) {
	t.Parallel()

	cfg := conductor.DefaultConfig()
	cfg.CountdownFrom = 0
	h := newHarness(t, cfg, conductor.DefaultSettings())

	h.c.Start()
	assert.Equal(t, conductor.Running, h.c.State())
	assert.True(t, h.lock.held)
}

func TestConductor_Observers(t *testing.T) {
	t.Parallel()

	h := newHarness(t, conductor.DefaultConfig(), conductor.DefaultSettings())

	var snaps []conductor.Snapshot
	h.c.Observe(func(s conductor.Snapshot) { snaps = append(snaps, s) })

	h.c.Start()
	h.run(time.Second)

	require.Len(t, snaps, 5)
	assert.Equal(t, conductor.Countdown, snaps[0].State)
	assert.Equal(t, 5, snaps[0].Countdown)
	assert.Equal(t, 4, snaps[4].Countdown)
	assert.Equal(t, "Stop", snaps[4].ControlLabel)
}
