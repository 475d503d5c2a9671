package timer

import (
	"fmt"
	"math"
)

// Minutes rounds d to the nearest minute, halves away from zero.
func Minutes(d Duration) int {
	if d.IsUnbounded() {
		return math.MaxInt
	}
	return int(math.Round(float64(d) / 60))
}

// Clock formats d as MM:SS, rounding partial seconds up so the display
// only reads 00:00 once the session is over.
func Clock(d Duration) string {
	if d.IsUnbounded() {
		return "∞"
	}

	total := int(math.Ceil(max(float64(d), 0)))

	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Describe renders a selected duration for a settings label.
func Describe(d Duration) string {
	if d.IsUnbounded() {
		return "Unbounded"
	}

	if d < 30 {
		return fmt.Sprintf("%d seconds", int(math.Ceil(max(float64(d), 0))))
	}

	m := Minutes(d)
	if m == 1 {
		return "1 minute"
	}

	return fmt.Sprintf("%d minutes", m)
}
