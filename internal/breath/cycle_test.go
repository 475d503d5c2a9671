package breath_test

import (
	"testing"

	"github.com/alkime/breathe/internal/breath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x, want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 0.5},
		{2, 0},
		{-1, 0},
		{3, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, breath.Ease(tt.x), tolerance, "Ease(%g)", tt.x)
	}

	assert.InDelta(t, breath.Ease(0.3), breath.Ease(1.7), tolerance, "mirrored about 1")
}

func TestLerp(t *testing.T) {
	t.Parallel()

	start := breath.CycleTimes{4, 8, 8, 0}
	end := breath.CycleTimes{6, 10, 10, 0}

	assert.Equal(t, start, breath.Lerp(start, end, 0))
	assert.Equal(t, breath.CycleTimes{5, 9, 9, 0}, breath.Lerp(start, end, 0.5))
	assert.Equal(t, end, breath.Lerp(start, end, 1))
}

func TestCycleTimes(t *testing.T) {
	t.Parallel()

	c := breath.CycleTimes{4, 7, 8, 0}

	assert.InDelta(t, 19, c.Total(), tolerance)
	assert.InDelta(t, 7, c.Of(breath.HoldIn), tolerance)
	assert.Zero(t, c.Of(breath.NoPhase))

	assert.Equal(t, breath.CycleTimes{4, 7, 8, 2}, c.With(breath.HoldOut, 2))
	assert.Equal(t, breath.CycleTimes{4, 7, 0, 0}, c.With(breath.Exhale, -3), "negative input clamps to zero")
	assert.Equal(t, breath.CycleTimes{4, 7, 8, 0}, c, "With does not mutate the receiver")

	require.NoError(t, c.Validate())
	err := breath.CycleTimes{1, 1, -0.5, 1}.Validate()
	require.ErrorIs(t, err, breath.ErrNegativeCycleTime)
	assert.Contains(t, err.Error(), "Exhale")
}

func TestPhase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, breath.HoldIn, breath.Inhale.Next())
	assert.Equal(t, breath.Inhale, breath.HoldOut.Next())
	assert.Equal(t, breath.Inhale, breath.NoPhase.Next())
	assert.False(t, breath.NoPhase.Valid())
	assert.Equal(t, "Hold 1", breath.HoldIn.Label())
	assert.Equal(t, "Hold 2", breath.HoldOut.Label())
	assert.Equal(t, "Exhale", breath.Exhale.String())
}
