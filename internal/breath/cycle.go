package breath

import (
	"errors"
	"fmt"
)

// ErrNegativeCycleTime is returned when a phase duration is below zero.
var ErrNegativeCycleTime = errors.New("cycle time must not be negative")

// CycleTimes holds the duration in seconds of each phase, indexed by Phase.
type CycleTimes [NumPhases]float64

// DefaultCycleTimes is inhale 4s, hold 8s, exhale 8s, no second hold.
var DefaultCycleTimes = CycleTimes{4, 8, 8, 0}

// Of returns the duration of phase p.
func (c CycleTimes) Of(p Phase) float64 {
	if !p.Valid() {
		return 0
	}
	return c[p]
}

// Total returns the length of one full cycle.
func (c CycleTimes) Total() float64 {
	var total float64
	for _, t := range c {
		total += t
	}
	return total
}

// Validate returns an error if any phase duration is negative.
func (c CycleTimes) Validate() error {
	for i, t := range c {
		if t < 0 {
			return fmt.Errorf("%s = %g: %w", Phase(i).Label(), t, ErrNegativeCycleTime)
		}
	}
	return nil
}

// With returns a copy of c with phase p set to seconds.
func (c CycleTimes) With(p Phase, seconds float64) CycleTimes {
	if p.Valid() {
		c[p] = max(0, seconds)
	}
	return c
}

// Lerp interpolates between start and end by factor (0 = start, 1 = end).
func Lerp(start, end CycleTimes, factor float64) CycleTimes {
	var out CycleTimes
	for i := range out {
		out[i] = start[i] + (end[i]-start[i])*factor
	}
	return out
}
