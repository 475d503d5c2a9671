package tui

import (
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/pkg/uictl"
)

// elapsedDial reads how far through its selected duration the session is.
// Unbounded sessions report a zero cap.
type elapsedDial struct {
	c *conductor.Conductor
}

var _ uictl.CappedDial[float64] = elapsedDial{}

func (d elapsedDial) Read() float64 {
	elapsed, _ := d.Cap()
	return elapsed
}

func (d elapsedDial) Cap() (float64, float64) {
	s := d.c.Snapshot()

	total := s.Settings.Selected
	if total.IsUnbounded() || s.Remaining.IsUnbounded() || total <= 0 {
		return 0, 0
	}

	return max(float64(total-s.Remaining), 0), float64(total)
}
