// Package screens switches between named full screen models, delegating
// messages to whichever one is showing.
package screens

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ShowMsg asks the container to switch to the named screen.
type ShowMsg struct {
	Name string
}

// Show returns a command that switches to the named screen.
func Show(name string) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Name: name}
	}
}

// Screen is a named model.
type Screen struct {
	Name string
	mdl  tea.Model
}

// NewScreen names mdl.
func NewScreen(name string, mdl tea.Model) Screen {
	return Screen{
		Name: name,
		mdl:  mdl,
	}
}

// Model holds the screens and which one is current. The first screen is
// shown initially.
type Model struct {
	screens []Screen
	curr    int
}

// New creates a container. It panics without screens.
func New(screens ...Screen) Model {
	if len(screens) == 0 {
		panic("screens: at least one screen is required")
	}

	return Model{screens: screens}
}

func (m Model) Init() tea.Cmd {
	return m.screens[m.curr].mdl.Init()
}

// Update handles ShowMsg itself. Window size messages go to every screen so
// hidden ones lay out correctly when shown; everything else goes to the
// current screen only.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case ShowMsg:
		for i, s := range m.screens {
			if s.Name == typed.Name && i != m.curr {
				m.curr = i
				return m, s.mdl.Init()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		cmds := make([]tea.Cmd, 0, len(m.screens))
		for i := range m.screens {
			var cmd tea.Cmd
			m.screens[i].mdl, cmd = m.screens[i].mdl.Update(typed)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.screens[m.curr].mdl, cmd = m.screens[m.curr].mdl.Update(msg)

	return m, cmd
}

func (m Model) View() string {
	return m.screens[m.curr].mdl.View()
}

// Current returns the name of the screen showing.
func (m Model) Current() string {
	return m.screens[m.curr].Name
}
