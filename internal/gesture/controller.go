package gesture

import (
	"time"
)

const (
	// DefaultTurn is the duration change of one full revolution.
	DefaultTurn = 4 * time.Minute
	// DefaultTapDistance is the largest movement, in input units, that still counts as a tap.
	DefaultTapDistance = 10.0
	// DefaultTapTimeout is the longest press that still counts as a tap.
	DefaultTapTimeout = 500 * time.Millisecond
)

// Target receives the duration changes produced by a drag.
type Target interface {
	// AdjustDuration applies delta seconds to the live duration, and to the
	// selected baseline when no session is running.
	AdjustDuration(delta float64)
	// Toggle starts or stops the session.
	Toggle()
}

// Config tunes a Controller.
type Config struct {
	Turn        time.Duration
	TapDistance float64
	TapTimeout  time.Duration
}

// DefaultConfig returns the stock gesture tuning.
func DefaultConfig() Config {
	return Config{
		Turn:        DefaultTurn,
		TapDistance: DefaultTapDistance,
		TapTimeout:  DefaultTapTimeout,
	}
}

// Controller tracks one pointer gesture at a time.
type Controller struct {
	cfg    Config
	target Target
	now    func() time.Time

	center   Point
	start    Point
	prev     Point
	began    time.Time
	travel   float64
	active   bool
	rotation float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used for tap timing.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController creates a controller feeding target.
func NewController(cfg Config, target Target, opts ...Option) *Controller {
	if cfg.Turn <= 0 {
		cfg.Turn = DefaultTurn
	}

	c := &Controller{
		cfg:    cfg,
		target: target,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Begin anchors a gesture at p around the indicator centered at center.
func (c *Controller) Begin(center, p Point) {
	c.center = center
	c.start = p
	c.prev = p
	c.began = c.now()
	c.travel = 0
	c.rotation = 0
	c.active = true
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	return c.active
}

// Move applies the rotation since the previous sample and re-anchors on p.
// It returns the duration delta applied.
func (c *Controller) Move(p Point) float64 {
	if !c.active {
		return 0
	}

	c.travel = max(c.travel, p.Sub(c.start).Len())

	rad := AngleDelta(c.center, c.prev, p)
	c.prev = p

	if !c.dragging() {
		// Pointer jitter during a tap must not nudge the duration.
		c.rotation += rad
		return 0
	}

	// Rotation held back while the gesture still looked like a tap.
	rad += c.rotation
	c.rotation = 0

	delta := DurationDelta(rad, c.cfg.Turn)
	if delta != 0 {
		c.target.AdjustDuration(delta)
	}

	return delta
}

// End finishes the gesture at p. A short, nearly stationary gesture toggles
// the session instead of adjusting it; End reports whether that happened.
func (c *Controller) End(p Point) bool {
	if !c.active {
		return false
	}

	c.Move(p)
	c.active = false

	if c.dragging() || c.now().Sub(c.began) >= c.cfg.TapTimeout {
		return false
	}

	c.target.Toggle()

	return true
}

// Cancel abandons the gesture without a toggle.
func (c *Controller) Cancel() {
	c.active = false
}

func (c *Controller) dragging() bool {
	return c.travel >= c.cfg.TapDistance
}
