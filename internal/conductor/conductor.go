package conductor

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/cue"
	"github.com/alkime/breathe/internal/sched"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/internal/wakelock"
	"github.com/alkime/breathe/pkg/uictl"
)

const (
	labelStart = "Start"
	labelStop  = "Stop"
)

// Config holds the session sequencing parameters.
type Config struct {
	CountdownFrom int
	CountdownStep time.Duration
	Cooldown      time.Duration
	Limits        timer.Limits
}

// DefaultConfig counts down from 5 at one second intervals with a 2 second cooldown.
func DefaultConfig() Config {
	return Config{
		CountdownFrom: 5,
		CountdownStep: time.Second,
		Cooldown:      2 * time.Second,
		Limits:        timer.DefaultLimits(),
	}
}

// Display holds the UI setters the conductor writes to. Any may be nil.
type Display struct {
	// Remaining shows the live duration as MM:SS.
	Remaining uictl.Label
	// Duration is the duration control, in encoded seconds.
	Duration uictl.Slider[float64]
	// Control is the start/stop control label.
	Control uictl.Label
	// Status shows the countdown and phase names.
	Status uictl.Label
}

// Conductor owns the engine, timer and the pending one-shot of a session.
// It is not safe for concurrent use; drive it from one goroutine.
type Conductor struct {
	cfg     Config
	logger  *slog.Logger
	engine  *breath.Engine
	timer   *timer.Timer
	cues    *cue.Dispatcher
	lock    wakelock.Lock
	sched   *sched.Scheduler
	display Display

	state     State
	countdown int
	pending   sched.Handle
	frame     breath.Frame
	status    string
	clock     string

	observers []Observer
	listeners []func(Settings)
}

// Option configures a Conductor.
type Option func(*Conductor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Conductor) {
		c.logger = l
	}
}

// WithCues sets the cue dispatcher. Without one the session is silent.
func WithCues(d *cue.Dispatcher) Option {
	return func(c *Conductor) {
		c.cues = d
	}
}

// WithWakeLock injects the wake lock. Without one a Noop lock is used.
func WithWakeLock(l wakelock.Lock) Option {
	return func(c *Conductor) {
		c.lock = l
	}
}

// WithDisplay sets the UI setters.
func WithDisplay(d Display) Option {
	return func(c *Conductor) {
		c.display = d
	}
}

// New creates an idle conductor for settings.
func New(cfg Config, settings Settings, opts ...Option) (*Conductor, error) {
	engine, err := breath.NewEngine(settings.Start, settings.End)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	c := &Conductor{
		cfg:    cfg,
		engine: engine,
		timer:  timer.New(cfg.Limits, settings.Selected),
		sched:  sched.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.cues == nil {
		c.cues = cue.NewDispatcher(nil, c.logger)
	}
	if c.lock == nil {
		c.lock = &wakelock.Noop{}
	}

	c.frame = c.restingFrame()
	c.refresh()

	return c, nil
}

// Observe registers o for snapshots.
func (c *Conductor) Observe(o Observer) {
	c.observers = append(c.observers, o)
}

// OnSettingsChange registers fn, called whenever cycle times or the selected
// duration change.
func (c *Conductor) OnSettingsChange(fn func(Settings)) {
	c.listeners = append(c.listeners, fn)
}

// SetDisplay replaces the UI setters and repaints them.
func (c *Conductor) SetDisplay(d Display) {
	c.display = d
	c.refresh()
}

// State returns the lifecycle stage.
func (c *Conductor) State() State {
	return c.state
}

// Settings returns the current persisted settings.
func (c *Conductor) Settings() Settings {
	start, end := c.engine.CycleTimes()
	return Settings{Start: start, End: end, Selected: c.timer.Selected()}
}

// Snapshot returns the current view.
func (c *Conductor) Snapshot() Snapshot {
	return Snapshot{
		State:        c.state,
		Countdown:    c.countdown,
		Frame:        c.frame,
		Remaining:    c.timer.Remaining(),
		Settings:     c.Settings(),
		Limits:       c.cfg.Limits,
		ControlLabel: c.controlLabel(),
		Status:       c.status,
	}
}

// Tick advances the session by dt. Pending one-shots fire first; the engine
// and timer only run if the session was already running when the tick began.
func (c *Conductor) Tick(dt time.Duration) {
	wasRunning := c.state == Running

	c.sched.Advance(dt)

	if wasRunning && c.state == Running {
		c.step(dt.Seconds())
	}

	c.notify()
}

// Toggle starts an idle session or stops any other.
func (c *Conductor) Toggle() {
	if c.state == Idle {
		c.Start()
		return
	}
	c.Stop()
}

// Start begins the countdown. It reports false unless the conductor was idle.
func (c *Conductor) Start() bool {
	if c.state != Idle {
		return false
	}

	c.engine.Reset()
	c.timer.Reset()
	c.frame = c.restingFrame()

	c.setState(Countdown)
	c.countdown = c.cfg.CountdownFrom

	if c.countdown <= 0 {
		c.run()
	} else {
		c.status = strconv.Itoa(c.countdown)
		c.schedule(c.cfg.CountdownStep, c.countdownStep)
	}

	c.refresh()
	c.notify()

	return true
}

// Stop ends the session from any stage and cancels whatever was pending.
func (c *Conductor) Stop() {
	if c.state == Idle {
		return
	}

	c.finish()
	c.notify()
}

// AdjustDuration applies delta seconds to the live duration. While idle the
// selected baseline moves too; during the cooldown the change is ignored.
func (c *Conductor) AdjustDuration(delta float64) {
	if c.state == Stopping {
		return
	}

	idle := c.state == Idle
	c.timer.Adjust(delta, idle)

	c.refresh()
	if idle {
		c.settingsChanged()
	}
	c.notify()
}

// SelectDuration replaces the selected baseline. It only applies while idle.
func (c *Conductor) SelectDuration(d timer.Duration) bool {
	if c.state != Idle {
		return false
	}

	c.timer.Select(d)

	c.refresh()
	c.settingsChanged()
	c.notify()

	return true
}

// SetCycleTime changes one phase of the start or end cycle. It applies
// immediately, even mid-session.
func (c *Conductor) SetCycleTime(b Bound, p breath.Phase, seconds float64) error {
	if !p.Valid() {
		return fmt.Errorf("failed to set cycle time: invalid phase %d", p)
	}

	start, end := c.engine.CycleTimes()
	if b == EndBound {
		end = end.With(p, seconds)
	} else {
		start = start.With(p, seconds)
	}

	if err := c.engine.SetCycleTimes(start, end); err != nil {
		return fmt.Errorf("failed to set %s cycle: %w", b, err)
	}

	if c.state == Idle {
		c.frame = c.restingFrame()
	}

	c.settingsChanged()
	c.notify()

	return nil
}

// Apply replaces every setting, ending any session in progress.
func (c *Conductor) Apply(s Settings) error {
	if err := errors.Join(s.Start.Validate(), s.End.Validate()); err != nil {
		return fmt.Errorf("failed to apply settings: %w", err)
	}

	if c.state != Idle {
		c.finish()
	}

	if err := c.engine.SetCycleTimes(s.Start, s.End); err != nil {
		return fmt.Errorf("failed to apply settings: %w", err)
	}
	c.timer.Select(s.Selected)
	c.frame = c.restingFrame()

	c.refresh()
	c.settingsChanged()
	c.notify()

	return nil
}

// Close stops the session and releases the wake lock.
func (c *Conductor) Close() {
	c.Stop()
	c.sched.Clear()
}

func (c *Conductor) countdownStep() {
	c.countdown--

	if c.countdown > 0 {
		c.status = strconv.Itoa(c.countdown)
		uictl.SetLabel(c.display.Status, c.status)
		c.schedule(c.cfg.CountdownStep, c.countdownStep)
		return
	}

	c.run()
	c.refresh()
}

func (c *Conductor) run() {
	c.countdown = 0
	c.setState(Running)
	c.status = breath.Inhale.Label()

	if err := c.lock.Acquire(); err != nil {
		if errors.Is(err, wakelock.ErrUnavailable) {
			c.logger.Debug("running without wake lock", "error", err)
		} else {
			c.logger.Warn("failed to acquire wake lock", "error", err)
		}
	}
}

// step runs one tick of an active session. Expiry is checked before any
// geometry so the final transition never lands after the timer hits zero.
func (c *Conductor) step(dt float64) {
	if c.timer.Tick(dt) {
		c.expire()
		return
	}

	frame := c.engine.Advance(dt, c.timer.ElapsedFraction())
	if frame.Transition {
		c.cues.OnTransition(frame.Phase)
		c.engine.Acknowledge()

		c.status = frame.Phase.Label()
		uictl.SetLabel(c.display.Status, c.status)
	}
	c.frame = frame

	c.paintRemaining(false)
}

func (c *Conductor) expire() {
	c.setState(Stopping)
	c.cues.Play(cue.SessionEnd)

	c.status = ""
	c.refresh()

	c.schedule(c.cfg.Cooldown, c.finish)
}

// finish returns to idle: nothing pending, wake lock released, display
// showing the selected duration.
func (c *Conductor) finish() {
	if c.pending != 0 {
		c.sched.Cancel(c.pending)
		c.pending = 0
	}

	if c.lock.IsHeld() {
		if err := c.lock.Release(); err != nil {
			c.logger.Warn("failed to release wake lock", "error", err)
		}
	}

	c.timer.Reset()
	c.engine.Reset()
	c.frame = c.restingFrame()
	c.countdown = 0
	c.status = ""

	c.setState(Idle)
	c.refresh()
}

// schedule replaces the pending one-shot with fn.
func (c *Conductor) schedule(d time.Duration, fn func()) {
	if c.pending != 0 {
		c.sched.Cancel(c.pending)
	}

	var h sched.Handle
	h = c.sched.After(d, func() {
		if c.pending == h {
			c.pending = 0
		}
		fn()
	})
	c.pending = h
}

func (c *Conductor) setState(s State) {
	if s == c.state {
		return
	}

	c.logger.Debug("session state", "from", c.state.String(), "to", s.String())
	c.state = s
}

func (c *Conductor) controlLabel() string {
	if c.state == Idle {
		return labelStart
	}
	return labelStop
}

func (c *Conductor) restingFrame() breath.Frame {
	start, _ := c.engine.CycleTimes()

	return breath.Frame{
		State: c.engine.State(),
		Radii: c.engine.Radii(),
		Cycle: start,
	}
}

// refresh repaints every display setter.
func (c *Conductor) refresh() {
	c.paintRemaining(true)
	uictl.SetLabel(c.display.Control, c.controlLabel())
	uictl.SetLabel(c.display.Status, c.status)
}

// paintRemaining writes the clock and the duration control. Unless forced
// it only does so when the clock text changes.
func (c *Conductor) paintRemaining(force bool) {
	text := timer.Clock(c.timer.Remaining())
	if text == c.clock && !force {
		return
	}

	c.clock = text
	uictl.SetLabel(c.display.Remaining, text)
	uictl.SetSlider(c.display.Duration, c.cfg.Limits.Encode(c.timer.Remaining()))
}

func (c *Conductor) settingsChanged() {
	s := c.Settings()
	for _, fn := range c.listeners {
		fn(s)
	}
}

func (c *Conductor) notify() {
	if len(c.observers) == 0 {
		return
	}

	snap := c.Snapshot()
	for _, o := range c.observers {
		o(snap)
	}
}
