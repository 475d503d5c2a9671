package gui

import (
	"github.com/alkime/breathe/internal/gesture"
)

// viewport maps window pixels to indicator radii, which are percentages of
// half the smallest dimension.
type viewport struct {
	width, height int
}

func (v viewport) half() float64 {
	return float64(min(v.width, v.height)) / 2
}

func (v viewport) center() gesture.Point {
	return gesture.Point{X: float64(v.width) / 2, Y: float64(v.height) / 2}
}

func (v viewport) point(x, y int) gesture.Point {
	return gesture.Point{X: float64(x), Y: float64(y)}
}

// pixels converts a radius percentage to pixels.
func (v viewport) pixels(percent float64) float32 {
	return float32(percent / 100 * v.half())
}
