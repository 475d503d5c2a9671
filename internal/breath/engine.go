package breath

import "fmt"

// Geometry constants, in percent of half the indicator's smallest dimension.
const (
	ReferenceRadius = 95.0
	MinRadius       = 25.0
	MaxRadius       = 75.0
	HoldSwell       = 15.0
	InnerInset      = 5.0
	AccentFloor     = 10.0
)

// Radii are the five circle radii of the indicator.
type Radii struct {
	// Reference is the fixed outer ring.
	Reference float64
	// Front and Back form the outer pair that expands and contracts.
	Front float64
	Back  float64
	// Inner tracks just inside the outer pair.
	Inner float64
	// Accent is the innermost ring; it dips during the hold after exhaling.
	Accent float64
}

// RestingRadii is the geometry before the first inhale.
func RestingRadii() Radii {
	return Radii{
		Reference: ReferenceRadius,
		Front:     MinRadius,
		Back:      MinRadius,
		Inner:     MinRadius - InnerInset,
		Accent:    MinRadius - InnerInset,
	}
}

// State is the position of the engine within the cycle.
type State struct {
	Phase    Phase
	Progress float64
	// LastPhase is the phase whose cue was last dispatched, NoPhase after a reset.
	LastPhase Phase
}

// Frame describes the engine after one Advance.
type Frame struct {
	State
	Radii Radii
	// Cycle holds the effective (drifted) cycle times used for this frame.
	Cycle CycleTimes
	// Transition is set when a phase was entered and not acknowledged yet.
	Transition bool
}

// shaper updates the radii for a phase given its completion fraction.
type shaper func(r Radii, fraction float64) Radii

// shapers maps each phase to its geometry.
var shapers = [NumPhases]shaper{
	Inhale: func(r Radii, f float64) Radii {
		r.Front = MaxRadius - (MaxRadius-MinRadius)*(1-Ease(min(f, 1)))
		r.Back = r.Front
		r.Inner = r.Front - InnerInset
		r.Accent = r.Inner
		return r
	},
	HoldIn: func(r Radii, f float64) Radii {
		r.Front = MaxRadius
		r.Back = MaxRadius + HoldSwell*Ease(2*f)
		r.Inner = MaxRadius - InnerInset
		r.Accent = r.Inner
		return r
	},
	Exhale: func(r Radii, f float64) Radii {
		r.Front = MaxRadius - (MaxRadius-MinRadius)*Ease(min(f, 1))
		r.Back = r.Front
		r.Inner = r.Front - InnerInset
		r.Accent = r.Inner
		return r
	},
	HoldOut: func(r Radii, f float64) Radii {
		r.Front = MinRadius
		r.Back = MinRadius
		r.Inner = MinRadius - InnerInset
		r.Accent = r.Inner - AccentFloor*Ease(2*f)
		return r
	},
}

// Engine advances the breathing cycle one tick at a time.
// It is not safe for concurrent use.
type Engine struct {
	start CycleTimes
	end   CycleTimes
	state State
	radii Radii

	// entered is set when a tick crossed a phase boundary, even when the
	// cascade wrapped back to the phase it started in.
	entered bool
}

// NewEngine creates an engine that morphs from start to end cycle times
// over the session.
func NewEngine(start, end CycleTimes) (*Engine, error) {
	e := &Engine{}
	if err := e.SetCycleTimes(start, end); err != nil {
		return nil, err
	}
	e.Reset()
	return e, nil
}

// SetCycleTimes replaces the start and end cycle times.
func (e *Engine) SetCycleTimes(start, end CycleTimes) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("invalid start cycle: %w", err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("invalid end cycle: %w", err)
	}

	e.start = start
	e.end = end

	return nil
}

// CycleTimes returns the start and end cycle times.
func (e *Engine) CycleTimes() (start, end CycleTimes) {
	return e.start, e.end
}

// Reset returns to the start of the inhale with no cue fired.
func (e *Engine) Reset() {
	e.state = State{Phase: Inhale, Progress: 0, LastPhase: NoPhase}
	e.radii = RestingRadii()
	e.entered = false
}

// State returns the current cycle position.
func (e *Engine) State() State {
	return e.state
}

// Radii returns the current geometry.
func (e *Engine) Radii() Radii {
	return e.radii
}

// IsTransition reports whether the current phase was entered and not
// acknowledged yet.
func (e *Engine) IsTransition() bool {
	return e.entered || e.state.Phase != e.state.LastPhase
}

// Acknowledge records that the cue for the current phase was dispatched.
func (e *Engine) Acknowledge() {
	e.state.LastPhase = e.state.Phase
	e.entered = false
}

// Advance moves the cycle forward by dt seconds. factor is the elapsed
// fraction of the session and selects the effective cycle times between
// start and end.
//
// Phases with zero duration are passed through within the same tick, but a
// single tick never covers more than one full cycle.
func (e *Engine) Advance(dt, factor float64) Frame {
	cycle := Lerp(e.start, e.end, min(max(factor, 0), 1))

	if dt > 0 {
		e.state.Progress += dt
	}

	if cycle.Total() <= 0 {
		e.state.Progress = 0
		return e.frame(cycle)
	}

	// The final pass only shapes the phase a full cascade landed in.
	for i := 0; ; i++ {
		d := cycle.Of(e.state.Phase)
		if d > 0 {
			e.radii = shapers[e.state.Phase](e.radii, e.state.Progress/d)
		}

		if e.state.Progress < d || i == NumPhases {
			break
		}

		e.state.Progress -= d
		e.state.Phase = e.state.Phase.Next()
		e.entered = true
	}

	return e.frame(cycle)
}

func (e *Engine) frame(cycle CycleTimes) Frame {
	return Frame{
		State:      e.state,
		Radii:      e.radii,
		Cycle:      cycle,
		Transition: e.IsTransition(),
	}
}
