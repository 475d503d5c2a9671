// Package gesture turns drags around the breathing indicator into session
// duration changes.
package gesture

import (
	"math"
	"time"
)

// Point is a position in the indicator's coordinate space. Y grows downward,
// as it does on screen, so a positive angle delta is a clockwise turn.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Len is the distance from the origin.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Angle is the signed angle in radians from center to p.
func Angle(center, p Point) float64 {
	v := p.Sub(center)
	return math.Atan2(v.Y, v.X)
}

// Unwrap folds a naive angle difference into [-π, π] so that crossing the
// ±π seam reads as a short step.
func Unwrap(delta float64) float64 {
	switch {
	case delta < -math.Pi:
		return delta + 2*math.Pi
	case delta > math.Pi:
		return delta - 2*math.Pi
	default:
		return delta
	}
}

// AngleDelta is the unwrapped rotation from prev to cur around center.
func AngleDelta(center, prev, cur Point) float64 {
	return Unwrap(Angle(center, cur) - Angle(center, prev))
}

// DurationDelta converts a rotation into seconds. One full clockwise turn
// removes turn from the session.
func DurationDelta(radians float64, turn time.Duration) float64 {
	degrees := radians * 180 / math.Pi
	return -degrees / 360 * turn.Seconds()
}
