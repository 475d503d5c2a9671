package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/internal/tui/components/screens"
	"github.com/alkime/breathe/internal/tui/style"
	"github.com/alkime/breathe/pkg/collections"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// presetsLoadedMsg carries the result of reading the presets file.
type presetsLoadedMsg struct {
	presets []store.Preset
	err     error
}

// pickerModel lists presets and applies the chosen one.
type pickerModel struct {
	c       *conductor.Conductor
	store   Presets
	keys    PickerKeyMap
	logger  *slog.Logger
	presets []store.Preset
	cursor  int
	err     error
}

func newPickerModel(c *conductor.Conductor, presets Presets, logger *slog.Logger) *pickerModel {
	return &pickerModel{
		c:      c,
		store:  presets,
		keys:   DefaultPickerKeyMap(),
		logger: logger,
	}
}

// Init reloads the presets each time the picker is shown.
func (m *pickerModel) Init() tea.Cmd {
	return m.load
}

func (m *pickerModel) load() tea.Msg {
	presets, err := m.store.Load()
	return presetsLoadedMsg{presets: presets, err: err}
}

func (m *pickerModel) setPresets(presets []store.Preset, err error) {
	m.presets = presets
	m.err = err
	m.cursor = min(m.cursor, max(len(presets)-1, 0))
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case presetsLoadedMsg:
		m.setPresets(typed.presets, typed.err)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(typed)
	}

	return m, nil
}

func (m *pickerModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		return screens.Show(screenSession)

	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)

	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.presets)-1, 0))

	case key.Matches(msg, m.keys.Apply):
		if len(m.presets) == 0 {
			return nil
		}

		p := m.presets[m.cursor]
		if err := m.c.Apply(p.Settings); err != nil {
			m.err = fmt.Errorf("failed to apply %q: %w", p.Name, err)
			return nil
		}
		m.logger.Info("preset applied", "name", p.Name)

		return screens.Show(screenSession)

	case key.Matches(msg, m.keys.Delete):
		if len(m.presets) == 0 {
			return nil
		}

		name := m.presets[m.cursor].Name
		if err := m.store.Remove(name); err != nil {
			m.err = fmt.Errorf("failed to delete %q: %w", name, err)
			return nil
		}
		m.logger.Info("preset deleted", "name", name)

		return m.load
	}

	return nil
}

func (m *pickerModel) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Presets"))
	sb.WriteString("\n\n")

	if len(m.presets) == 0 {
		sb.WriteString(style.Subtitle.Render("No presets"))
		sb.WriteString("\n")
	}

	for i, p := range m.presets {
		line := fmt.Sprintf("%-16s %s → %s  %s",
			p.Name, formatCycle(p.Start[:]), formatCycle(p.End[:]), timer.Describe(p.Selected))

		if i == m.cursor {
			sb.WriteString(style.Selected.Render("> " + line))
		} else {
			sb.WriteString(style.Bullet.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(style.Error.Render(m.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(renderKeyHelp(m.keys.Up, " "))
	sb.WriteString(renderKeyHelp(m.keys.Down, " "))
	sb.WriteString(renderKeyHelp(m.keys.Apply, " "))
	sb.WriteString(renderKeyHelp(m.keys.Delete, " "))
	sb.WriteString(renderKeyHelp(m.keys.Back))

	return sb.String()
}

func formatCycle(values []float64) string {
	return strings.Join(collections.Apply(values, func(v float64) string {
		return strings.TrimSuffix(formatCycleTime(v), "s")
	}), "-")
}
