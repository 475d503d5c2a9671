// Package tui is the terminal frontend: the breathing indicator drawn with
// block characters, a breath trace, keyboard and mouse controls and a preset
// picker.
package tui

import (
	"log/slog"
	"time"

	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/cue"
	"github.com/alkime/breathe/internal/gesture"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/tui/components/screens"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	screenSession = "session"
	screenPresets = "presets"
)

// Presets is the preset storage behind the picker.
type Presets interface {
	Load() ([]store.Preset, error)
	Add(presets ...store.Preset) ([]store.Preset, error)
	Remove(name string) error
}

// Config holds the frontend parameters.
type Config struct {
	// TickInterval is how often the session advances and redraws.
	TickInterval time.Duration
	Gesture      gesture.Config
	// TraceLength is how many frames of history the breath trace keeps.
	TraceLength int
}

// DefaultConfig ticks at 30 frames per second.
func DefaultConfig() Config {
	return Config{
		TickInterval: time.Second / 30,
		Gesture:      gesture.DefaultConfig(),
		TraceLength:  512,
	}
}

// PresetsChangedMsg carries presets reloaded after the file changed on disk.
type PresetsChangedMsg struct {
	Presets []store.Preset
}

// tickMsg advances the session.
type tickMsg time.Time

// Model is the root model. It owns the tick so the session keeps running
// whichever screen is showing.
type Model struct {
	c        *conductor.Conductor
	screens  tea.Model
	session  *sessionModel
	picker   *pickerModel
	keys     KeyMap
	interval time.Duration
	last     time.Time
	logger   *slog.Logger
}

// New creates the frontend for c. cues may be nil. The conductor must only
// be used from the program's goroutine once the program runs.
func New(c *conductor.Conductor, presets Presets, cues *cue.Dispatcher, cfg Config, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.TraceLength <= 0 {
		cfg.TraceLength = DefaultConfig().TraceLength
	}

	session := newSessionModel(c, presets, cue.MuteKnob{Cues: cues}, cfg, logger)
	picker := newPickerModel(c, presets, logger)

	return &Model{
		c: c,
		screens: screens.New(
			screens.NewScreen(screenSession, session),
			screens.NewScreen(screenPresets, picker),
		),
		session:  session,
		picker:   picker,
		keys:     DefaultKeyMap(),
		interval: cfg.TickInterval,
		logger:   logger,
	}
}

// Init starts the tick and the current screen.
func (m *Model) Init() tea.Cmd {
	m.last = time.Now()
	return tea.Batch(m.tick(), m.screens.Init())
}

// Update advances the session on ticks and otherwise defers to the screens.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tickMsg:
		now := time.Time(typed)
		dt := min(now.Sub(m.last), maxStep)
		m.last = now

		m.c.Tick(dt)
		m.session.record()

		return m, m.tick()

	case tea.KeyMsg:
		if key.Matches(typed, m.keys.ForceQuit) {
			return m, tea.Quit
		}

	case PresetsChangedMsg:
		m.picker.setPresets(typed.Presets, nil)
		return m, nil
	}

	var cmd tea.Cmd
	m.screens, cmd = m.screens.Update(msg)

	return m, cmd
}

// View renders the current screen.
func (m *Model) View() string {
	return m.screens.View()
}

// maxStep caps a single tick after the terminal stalled.
const maxStep = 250 * time.Millisecond

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
