package tui

import (
	"math"
	"strings"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/gesture"
	"github.com/alkime/breathe/internal/tui/style"
	"github.com/charmbracelet/lipgloss"
)

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

// ring glyphs, innermost first.
const (
	glyphAccent    = ' '
	glyphInner     = '█'
	glyphFront     = '▓'
	glyphBack      = '░'
	glyphReference = '·'
	glyphEmpty     = ' '
)

// indicator maps terminal cells onto the circle's coordinate space, where
// radii are percentages of half the smallest dimension.
type indicator struct {
	cols, rows int
}

// half is the length of a 100% radius in row units.
func (ind indicator) half() float64 {
	return math.Min(float64(ind.cols)/cellAspect, float64(ind.rows)) / 2
}

// center is the indicator's middle in point coordinates.
func (ind indicator) center() gesture.Point {
	return gesture.Point{X: float64(ind.cols) / cellAspect / 2, Y: float64(ind.rows) / 2}
}

// point converts a cell to point coordinates, with x compressed so both axes
// use the same unit.
func (ind indicator) point(col, row int) gesture.Point {
	return gesture.Point{X: (float64(col) + 0.5) / cellAspect, Y: float64(row) + 0.5}
}

// percent is the distance from the center to cell in radius percent.
func (ind indicator) percent(col, row int) float64 {
	h := ind.half()
	if h <= 0 {
		return math.Inf(1)
	}

	return ind.point(col, row).Sub(ind.center()).Len() / h * 100
}

// render draws the radii as concentric discs inside the reference ring.
func (ind indicator) render(r breath.Radii) string {
	if ind.cols <= 0 || ind.rows <= 0 {
		return ""
	}

	// Half a cell in percent, so the reference ring is one glyph thick.
	band := 50 / ind.half()

	var sb strings.Builder
	for row := range ind.rows {
		if row > 0 {
			sb.WriteByte('\n')
		}

		var line strings.Builder
		var run []rune
		var runStyle *lipgloss.Style

		flush := func() {
			if len(run) > 0 {
				line.WriteString(runStyle.Render(string(run)))
				run = run[:0]
			}
		}

		for col := range ind.cols {
			g, st := glyph(r, ind.percent(col, row), band)
			if st != runStyle {
				flush()
				runStyle = st
			}
			run = append(run, g)
		}
		flush()

		sb.WriteString(line.String())
	}

	return sb.String()
}

// glyph picks the character for a cell d percent from the center. The
// smallest disc containing the cell wins.
func glyph(r breath.Radii, d, band float64) (rune, *lipgloss.Style) {
	switch {
	case r.Accent < r.Inner && d <= r.Accent:
		return glyphAccent, &style.Accent
	case d <= r.Inner:
		return glyphInner, &style.Inner
	case d <= r.Front:
		return glyphFront, &style.Front
	case d <= r.Back:
		return glyphBack, &style.Back
	case math.Abs(d-r.Reference) <= band:
		return glyphReference, &style.Reference
	default:
		return glyphEmpty, &style.Muted
	}
}
