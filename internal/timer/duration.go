// Package timer tracks how long a breathing session has left to run.
package timer

import (
	"math"
	"time"
)

// Duration is a session length in seconds.
type Duration float64

// Unbounded is a session that never ends on its own.
var Unbounded = Duration(math.Inf(1))

// FromStd converts a time.Duration.
func FromStd(d time.Duration) Duration {
	return Duration(d.Seconds())
}

// IsUnbounded reports whether d never expires.
func (d Duration) IsUnbounded() bool {
	return math.IsInf(float64(d), 1)
}

// Seconds returns d as float seconds.
func (d Duration) Seconds() float64 {
	return float64(d)
}

// Std converts d to a time.Duration. Unbounded maps to the largest representable value.
func (d Duration) Std() time.Duration {
	if d.IsUnbounded() {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(float64(d) * float64(time.Second))
}

// SentinelStep is how far above Max the unbounded sentinel sits.
const SentinelStep Duration = 1

// Limits bounds the durations a user can select.
type Limits struct {
	// Max is the longest finite session.
	Max Duration
	// AllowUnbounded lets adjustments past Max reach Unbounded.
	AllowUnbounded bool
}

// DefaultLimits allows sessions up to 30 minutes.
func DefaultLimits() Limits {
	return Limits{Max: 30 * 60}
}

// Sentinel is the finite value that stands in for Unbounded on sliders and on disk.
func (l Limits) Sentinel() Duration {
	return l.Max + SentinelStep
}

// Clamp saturates d into [0, Max]. Values beyond Max become Unbounded when
// allowed, otherwise they pin at Max. The sentinel itself is never returned
// while unbounded sessions are disabled.
func (l Limits) Clamp(d Duration) Duration {
	switch {
	case math.IsNaN(float64(d)) || d < 0:
		return 0
	case d > l.Max:
		if l.AllowUnbounded {
			return Unbounded
		}
		return l.Max
	default:
		return d
	}
}

// Add applies delta seconds to d. An unbounded d is treated as the sentinel,
// so turning back from unbounded lands just under Max.
func (l Limits) Add(d Duration, delta float64) Duration {
	if d.IsUnbounded() {
		d = l.Sentinel()
	}
	return l.Clamp(d + Duration(delta))
}

// Encode returns the persisted form of d.
func (l Limits) Encode(d Duration) float64 {
	if d.IsUnbounded() {
		return float64(l.Sentinel())
	}
	return float64(d)
}

// Decode parses a persisted duration.
func (l Limits) Decode(seconds float64) Duration {
	return l.Clamp(Duration(seconds))
}
