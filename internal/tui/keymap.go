package tui

import (
	"strings"

	"github.com/alkime/breathe/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings of the session screen.
type KeyMap struct {
	Toggle    key.Binding
	Longer    key.Binding
	Shorter   key.Binding
	NextPhase key.Binding
	Bound     key.Binding
	Increase  key.Binding
	Decrease  key.Binding
	Presets   key.Binding
	Save      key.Binding
	Mute      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start/stop"),
		),
		Longer: key.NewBinding(
			key.WithKeys("up", "+", "="),
			key.WithHelp("↑", "+1 min"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓", "-1 min"),
		),
		NextPhase: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next phase"),
		),
		Bound: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "start/end cycle"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "longer phase"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "shorter phase"),
		),
		Presets: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "presets"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save preset"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
	}
}

// PickerKeyMap defines the key bindings of the preset picker.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Apply  key.Binding
	Delete key.Binding
	Back   key.Binding
}

// DefaultPickerKeyMap returns the default preset picker bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "apply"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "p", "q"),
			key.WithHelp("esc", "back"),
		),
	}
}

func renderKeyHelp(keyBinding key.Binding, suffix ...string) string {
	s := style.Help.Render("[") + style.Key.Render(keyBinding.Help().Key) +
		style.Help.Render("] ") +
		style.Help.Render(keyBinding.Help().Desc)

	s += strings.Join(suffix, "")

	return s
}
