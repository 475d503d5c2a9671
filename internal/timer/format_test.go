package timer_test

import (
	"testing"

	"github.com/alkime/breathe/internal/timer"
	"github.com/stretchr/testify/assert"
)

func TestMinutes_RoundsHalfAwayFromZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{29, 0},
		{30, 1},
		{89, 1},
		{90, 2},
		{149.9, 2},
		{150, 3},
		{300, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, timer.Minutes(timer.Duration(tt.seconds)), "%gs", tt.seconds)
	}
}

func TestClock(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "05:00", timer.Clock(300))
	assert.Equal(t, "05:00", timer.Clock(299.2), "partial seconds round up")
	assert.Equal(t, "00:01", timer.Clock(0.01))
	assert.Equal(t, "00:00", timer.Clock(0))
	assert.Equal(t, "00:00", timer.Clock(-2))
	assert.Equal(t, "30:00", timer.Clock(1800))
	assert.Equal(t, "∞", timer.Clock(timer.Unbounded))
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5 minutes", timer.Describe(300))
	assert.Equal(t, "1 minute", timer.Describe(80))
	assert.Equal(t, "20 seconds", timer.Describe(19.5))
	assert.Equal(t, "Unbounded", timer.Describe(timer.Unbounded))
}
