// Package countdown shows the seconds before a session starts next to a spinner.
package countdown

import (
	"strconv"
	"strings"

	"github.com/alkime/breathe/internal/tui/style"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model displays a spinner, a title and the remaining count.
type Model struct {
	Spinner spinner.Model
	Title   string
	Help    string
	count   int
}

// New creates a countdown with the given spinner style.
func New(s spinner.Spinner, title, help string) Model {
	sp := spinner.New()
	sp.Spinner = s

	return Model{
		Spinner: sp,
		Title:   title,
		Help:    help,
	}
}

// Count is the number on display.
func (m Model) Count() int {
	return m.count
}

// SetCount changes the number on display.
func (m Model) SetCount(n int) Model {
	m.count = n
	return m
}

// Init returns the initial command for the spinner.
func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles spinner tick messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tickMsg, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(tickMsg)

		return m, cmd
	}

	return m, nil
}

// View renders the spinner, title and count on one line with the help below.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.Spinner.View())
	sb.WriteString(" ")
	sb.WriteString(style.Title.Render(m.Title))
	if m.count > 0 {
		sb.WriteString(" ")
		sb.WriteString(style.Clock.Render(strconv.Itoa(m.count)))
	}

	if m.Help != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Help.Render(m.Help))
	}

	return sb.String()
}
