// Package trace draws a recent history of a value as a bar graph, newest on
// the right. The session screen uses it for the front radius.
package trace

import (
	"strings"

	"github.com/alkime/breathe/internal/tui/style"
	"github.com/alkime/breathe/pkg/uictl"
)

// Block characters for level visualization (8 levels, bottom to top).
// Index 0 = empty (space), 1-8 = increasing fill levels.
const blockChars = " ▁▂▃▄▅▆▇█"

// Model renders values read from a Levels control as vertical bars, one
// column per value, scaled so Ceiling fills the full height.
type Model struct {
	levels  uictl.Levels[float64]
	width   int
	height  int
	ceiling float64
}

// New creates a trace of width columns and height rows. Values at or above
// ceiling fill a column.
func New(levels uictl.Levels[float64], width, height int, ceiling float64) Model {
	return Model{
		levels:  levels,
		width:   max(width, 1),
		height:  max(height, 1),
		ceiling: ceiling,
	}
}

// Width is the number of values shown.
func (m Model) Width() int {
	return m.width
}

// SetWidth resizes the trace.
func (m Model) SetWidth(width int) Model {
	m.width = max(width, 1)
	return m
}

// View renders the trace. With fewer values than columns, the bars are
// right aligned so the newest value is always in the last column.
func (m Model) View() string {
	var values []float64
	if m.levels != nil {
		values = m.levels.Read()
	}

	if len(values) == 0 {
		return m.renderEmpty()
	}

	if len(values) > m.width {
		values = values[len(values)-m.width:]
	}

	return m.render(m.calculateLevels(values))
}

func (m Model) render(levels []int) string {
	runes := []rune(blockChars)

	var sb strings.Builder

	// Render row by row, from top to bottom
	for row := range m.height {
		if row > 0 {
			sb.WriteString("\n")
		}

		var rowSB strings.Builder
		for col := range m.width {
			rowSB.WriteRune(runes[m.blockIndexForRow(levels[col], row)])
		}

		sb.WriteString(style.Progress.Render(rowSB.String()))
	}

	return sb.String()
}

// calculateLevels maps each value to 0..height*8, padding on the left.
func (m Model) calculateLevels(values []float64) []int {
	levels := make([]int, m.width)
	maxLevel := m.height * 8
	offset := m.width - len(values)

	for i, v := range values {
		levels[offset+i] = valueToLevel(v, m.ceiling, maxLevel)
	}

	return levels
}

// blockIndexForRow returns the block character index (0-8) for a given column level at a row.
// Row 0 is the top, row (height-1) is the bottom.
func (m Model) blockIndexForRow(level, row int) int {
	rowFromBottom := m.height - 1 - row
	fillAmount := level - rowFromBottom*8

	switch {
	case fillAmount <= 0:
		return 0
	case fillAmount >= 8:
		return 8
	default:
		return fillAmount
	}
}

// renderEmpty draws a baseline when there is nothing to show.
func (m Model) renderEmpty() string {
	var sb strings.Builder

	for row := range m.height {
		if row > 0 {
			sb.WriteString("\n")
		}

		fill := " "
		if row == m.height-1 {
			fill = "▁"
		}

		sb.WriteString(style.Muted.Render(strings.Repeat(fill, m.width)))
	}

	return sb.String()
}

// valueToLevel scales v linearly into 0..maxLevel.
func valueToLevel(v, ceiling float64, maxLevel int) int {
	if v <= 0 || ceiling <= 0 {
		return 0
	}

	return min(int(v/ceiling*float64(maxLevel)), maxLevel)
}
