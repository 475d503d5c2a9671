package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/gesture"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/internal/tui/components/countdown"
	"github.com/alkime/breathe/internal/tui/components/screens"
	"github.com/alkime/breathe/internal/tui/components/trace"
	"github.com/alkime/breathe/internal/tui/style"
	"github.com/alkime/breathe/pkg/collections"
	"github.com/alkime/breathe/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// cycleStep is how much one key press changes a phase, in seconds.
	cycleStep = 0.5
	// durationStep is how much one key press changes the duration, in seconds.
	durationStep = 60.0
	// customPreset names presets saved from the session screen.
	customPreset = "Custom"

	headerLines = 2
	traceHeight = 3
	// footerLines covers the trace, progress, settings and help rows.
	footerLines = traceHeight + 6
	minRows     = 5
)

// sessionModel is the main screen.
type sessionModel struct {
	c        *conductor.Conductor
	presets  Presets
	mute     uictl.Knob
	elapsed  uictl.CappedDial[float64]
	keys     KeyMap
	gestures *gesture.Controller
	logger   *slog.Logger

	ind       indicator
	countdown countdown.Model
	trace     trace.Model
	history   *collections.Ring[float64]
	progress  progress.Model

	// Written by the conductor through its display.
	clock   string
	control string
	status  string

	phase  breath.Phase
	bound  conductor.Bound
	notice string
	err    error
}

func newSessionModel(
	c *conductor.Conductor, presets Presets, mute uictl.Knob, cfg Config, logger *slog.Logger,
) *sessionModel {
	m := &sessionModel{
		c:         c,
		presets:   presets,
		mute:      mute,
		elapsed:   elapsedDial{c: c},
		keys:      DefaultKeyMap(),
		gestures:  gesture.NewController(cfg.Gesture, c),
		logger:    logger,
		ind:       indicator{cols: 40, rows: 10},
		countdown: countdown.New(spinner.Points, "Get ready", ""),
		history:   collections.NewRing[float64](cfg.TraceLength),
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
		phase: breath.Inhale,
	}

	m.trace = trace.New(uictl.LevelsFunc[float64](func() []float64 {
		return m.history.Last(m.trace.Width())
	}), 40, traceHeight, breath.MaxRadius+breath.HoldSwell)

	c.SetDisplay(conductor.Display{
		Remaining: uictl.LabelFunc(func(text string) { m.clock = text }),
		Control:   uictl.LabelFunc(func(text string) { m.control = text }),
		Status:    uictl.LabelFunc(func(text string) { m.status = text }),
	})

	return m
}

// record adds the current front radius to the trace while a session runs.
func (m *sessionModel) record() {
	if m.c.State() != conductor.Running {
		return
	}

	m.history.Push(m.c.Snapshot().Frame.Radii.Front)
}

func (m *sessionModel) Init() tea.Cmd {
	return m.countdown.Init()
}

func (m *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(typed)

	case tea.MouseMsg:
		m.handleMouse(typed)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.countdown, cmd = m.countdown.Update(typed)
		return m, cmd
	}

	return m, nil
}

func (m *sessionModel) resize(width, height int) {
	rows := max(height-headerLines-footerLines, minRows)
	m.ind = indicator{cols: max(width, 1), rows: rows}
	m.trace = m.trace.SetWidth(max(width, 1))
	m.progress.Width = max(min(width-12, 60), 10)
}

func (m *sessionModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.notice = ""
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.c.Toggle()
		if m.c.State() == conductor.Countdown {
			m.history.Reset()
		}

	case key.Matches(msg, m.keys.Longer):
		m.c.AdjustDuration(durationStep)

	case key.Matches(msg, m.keys.Shorter):
		m.c.AdjustDuration(-durationStep)

	case key.Matches(msg, m.keys.NextPhase):
		m.phase = m.phase.Next()

	case key.Matches(msg, m.keys.Bound):
		if m.bound == conductor.StartBound {
			m.bound = conductor.EndBound
		} else {
			m.bound = conductor.StartBound
		}

	case key.Matches(msg, m.keys.Increase):
		m.stepCycle(cycleStep)

	case key.Matches(msg, m.keys.Decrease):
		m.stepCycle(-cycleStep)

	case key.Matches(msg, m.keys.Mute):
		m.mute.Toggle()

	case key.Matches(msg, m.keys.Save):
		m.save()

	case key.Matches(msg, m.keys.Presets):
		return screens.Show(screenPresets)
	}

	return nil
}

func (m *sessionModel) stepCycle(delta float64) {
	cycle := m.cycle(m.bound)
	seconds := max(cycle.Of(m.phase)+delta, 0)

	if err := m.c.SetCycleTime(m.bound, m.phase, seconds); err != nil {
		m.err = err
	}
}

func (m *sessionModel) cycle(b conductor.Bound) breath.CycleTimes {
	s := m.c.Settings()
	if b == conductor.EndBound {
		return s.End
	}
	return s.Start
}

func (m *sessionModel) save() {
	saved, err := m.presets.Add(store.Preset{Name: customPreset, Settings: m.c.Settings()})
	if err != nil {
		m.err = fmt.Errorf("failed to save preset: %w", err)
		return
	}

	if len(saved) > 0 {
		m.notice = "Saved preset " + strconv.Quote(saved[0].Name)
		m.logger.Info("preset saved", "name", saved[0].Name)
	}
}

// handleMouse feeds presses on the indicator to the gesture controller.
func (m *sessionModel) handleMouse(msg tea.MouseMsg) {
	row := msg.Y - headerLines
	p := m.ind.point(msg.X, row)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || row < 0 || row >= m.ind.rows {
			return
		}
		m.gestures.Begin(m.ind.center(), p)

	case tea.MouseActionMotion:
		m.gestures.Move(p)

	case tea.MouseActionRelease:
		if m.gestures.End(p) && m.c.State() == conductor.Countdown {
			m.history.Reset()
		}
	}
}

func (m *sessionModel) View() string {
	snap := m.c.Snapshot()

	var sb strings.Builder

	sb.WriteString(m.header(snap))
	sb.WriteString("\n")

	switch {
	case snap.State == conductor.Countdown:
		sb.WriteString(m.countdown.SetCount(snap.Countdown).View())
	case m.err != nil:
		sb.WriteString(style.Error.Render(m.err.Error()))
	case m.notice != "":
		sb.WriteString(style.Subtitle.Render(m.notice))
	}
	sb.WriteString("\n")

	sb.WriteString(m.ind.render(snap.Frame.Radii))
	sb.WriteString("\n")
	sb.WriteString(m.trace.View())
	sb.WriteString("\n")

	elapsed, total := m.elapsed.Cap()
	percent := 0.0
	if total > 0 {
		percent = elapsed / total
	}
	sb.WriteString(m.progress.ViewAs(percent))
	sb.WriteString(" ")
	sb.WriteString(style.Clock.Render(m.clock))
	sb.WriteString("\n\n")

	sb.WriteString(m.settings(snap.Settings))
	sb.WriteString("\n\n")

	sb.WriteString(renderKeyHelp(m.keys.Toggle, " "))
	sb.WriteString(renderKeyHelp(m.keys.Longer, " "))
	sb.WriteString(renderKeyHelp(m.keys.Shorter, " "))
	sb.WriteString(renderKeyHelp(m.keys.Presets, " "))
	sb.WriteString(renderKeyHelp(m.keys.Quit, "\n"))
	sb.WriteString(renderKeyHelp(m.keys.NextPhase, " "))
	sb.WriteString(renderKeyHelp(m.keys.Bound, " "))
	sb.WriteString(renderKeyHelp(m.keys.Increase, " "))
	sb.WriteString(renderKeyHelp(m.keys.Save, " "))
	sb.WriteString(renderKeyHelp(m.keys.Mute))

	return sb.String()
}

func (m *sessionModel) header(snap conductor.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Breathe"))
	sb.WriteString(" ")
	sb.WriteString(style.Subtitle.Render("[" + m.control + "]"))

	if snap.State == conductor.Running && m.status != "" {
		sb.WriteString(" ")
		sb.WriteString(style.Label.Render(m.status))
	}

	if m.mute.Read() {
		sb.WriteString(" ")
		sb.WriteString(style.Warning.Render("muted"))
	}

	return sb.String()
}

// settings lists both cycles and the selected duration, highlighting the
// phase the arrow keys change.
func (m *sessionModel) settings(s conductor.Settings) string {
	var sb strings.Builder

	for _, b := range []conductor.Bound{conductor.StartBound, conductor.EndBound} {
		cycle := s.Start
		if b == conductor.EndBound {
			cycle = s.End
		}

		sb.WriteString(style.Label.Render(boundLabel(b) + ":"))
		for _, p := range breath.Phases() {
			text := formatCycleTime(cycle.Of(p))
			sb.WriteString(" ")
			if b == m.bound && p == m.phase {
				sb.WriteString(style.Selected.Render("[" + text + "]"))
			} else {
				sb.WriteString(style.Muted.Render(text))
			}
		}
		sb.WriteString("  ")
	}

	sb.WriteString(style.Label.Render(m.phase.Label()))
	sb.WriteString(" ")
	sb.WriteString(style.Subtitle.Render(timer.Describe(s.Selected)))

	return sb.String()
}

func boundLabel(b conductor.Bound) string {
	if b == conductor.EndBound {
		return "End"
	}
	return "Start"
}

func formatCycleTime(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64) + "s"
}
