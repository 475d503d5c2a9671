// Package style defines lipgloss styles for the TUI.
package style

import "github.com/charmbracelet/lipgloss"

// UI styles using lipgloss.
// These are package-level for convenience; lipgloss styles are value types
// and safe for concurrent use.
//
// Variable names intentionally omit "Style" suffix since they're accessed
// via the style package (e.g., style.Title reads better than style.TitleStyle).
var (
	// Title is used for screen titles and the countdown.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Clock is the remaining session time.
	Clock = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Error is used for error messages.
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	// Warning is used for muted audio and rejected rows.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key is used for highlighting keyboard keys.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Progress is used for the breath trace.
	Progress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// Label is used for inline labels (e.g., "Start:", "End:").
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	// Muted is used for de-emphasized text.
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Selected marks the focused list item or cycle phase.
	Selected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Underline(true)

	// Bullet is used for list item markers.
	Bullet = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205"))
)

// Ring styles for the indicator, outermost first.
var (
	Reference = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	Back      = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	Front     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	Inner     = lipgloss.NewStyle().Foreground(lipgloss.Color("67"))
	Accent    = lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
)
