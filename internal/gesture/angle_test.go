package gesture_test

import (
	"math"
	"testing"
	"time"

	"github.com/alkime/breathe/internal/gesture"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func polar(center gesture.Point, r, deg float64) gesture.Point {
	rad := deg * math.Pi / 180
	return gesture.Point{X: center.X + r*math.Cos(rad), Y: center.Y + r*math.Sin(rad)}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, gesture.Unwrap(0.5), tolerance)
	assert.InDelta(t, -0.5, gesture.Unwrap(-0.5), tolerance)
	assert.InDelta(t, 2*math.Pi-4, gesture.Unwrap(-4), tolerance)
	assert.InDelta(t, 4-2*math.Pi, gesture.Unwrap(4), tolerance)
}

func TestAngleDelta_CrossingSeam(t *testing.T) {
	t.Parallel()

	center := gesture.Point{X: 50, Y: 50}

	prev := polar(center, 40, 170)
	cur := polar(center, 40, -170)
	assert.InDelta(t, 20*math.Pi/180, gesture.AngleDelta(center, prev, cur), 1e-6)
	assert.InDelta(t, -20*math.Pi/180, gesture.AngleDelta(center, cur, prev), 1e-6)

	// Walk twice around in 7.5° steps; no step may read as a near-full turn.
	prev = polar(center, 40, 0)
	for deg := 7.5; deg <= 720; deg += 7.5 {
		cur := polar(center, 40, deg)
		d := gesture.AngleDelta(center, prev, cur)
		assert.LessOrEqual(t, math.Abs(d), math.Pi, "step to %g°", deg)
		assert.InDelta(t, 7.5*math.Pi/180, d, 1e-6, "step to %g°", deg)
		prev = cur
	}
}

func TestDurationDelta(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, -60, gesture.DurationDelta(math.Pi/2, gesture.DefaultTurn), tolerance)
	assert.InDelta(t, 60, gesture.DurationDelta(-math.Pi/2, gesture.DefaultTurn), tolerance)
	assert.InDelta(t, -240, gesture.DurationDelta(2*math.Pi, gesture.DefaultTurn), tolerance)
	assert.InDelta(t, -15, gesture.DurationDelta(math.Pi, 30*time.Second), tolerance)
}
