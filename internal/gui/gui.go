// Package gui is the windowed frontend: the breathing indicator drawn as
// filled circles, mouse drag and tap gestures, a YAML preset import dialog
// and a desktop notification when a session completes.
package gui

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/cue"
	"github.com/alkime/breathe/internal/gesture"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/pkg/uictl"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
)

const (
	durationStep = 60.0
	helpText     = "Space: start/stop  Up/Down: duration  M: mute  I: import presets  Q: quit"
)

var (
	colorBackground = color.RGBA{R: 12, G: 14, B: 22, A: 255}
	colorReference  = color.RGBA{R: 70, G: 76, B: 96, A: 255}
	colorBack       = color.RGBA{R: 52, G: 64, B: 110, A: 255}
	colorFront      = color.RGBA{R: 110, G: 150, B: 210, A: 255}
	colorInner      = color.RGBA{R: 70, G: 110, B: 170, A: 255}
)

// Presets receives imported presets.
type Presets interface {
	Add(presets ...store.Preset) ([]store.Preset, error)
}

// Dialogs are the desktop dialogs the window opens.
type Dialogs interface {
	// SelectPresetFile asks for a YAML presets file. It returns
	// zenity.ErrCanceled when the user backs out.
	SelectPresetFile() (string, error)
	Notify(text string) error
}

// Config holds the window parameters.
type Config struct {
	Width  int
	Height int
	// TPS is the update rate; every update ticks the session by 1/TPS.
	TPS     int
	Gesture gesture.Config
	Limits  timer.Limits
}

// DefaultConfig opens a 720x720 window updating 60 times a second.
func DefaultConfig() Config {
	return Config{
		Width:   720,
		Height:  720,
		TPS:     60,
		Gesture: gesture.DefaultConfig(),
		Limits:  timer.DefaultLimits(),
	}
}

type importResult struct {
	presets  []store.Preset
	rejected []store.RowError
	err      error
}

// Game implements ebiten.Game over a conductor. The conductor must only be
// used from the game loop once the window is running.
type Game struct {
	c        *conductor.Conductor
	presets  Presets
	mute     uictl.Knob
	dialogs  Dialogs
	gestures *gesture.Controller
	cfg      Config
	logger   *slog.Logger

	view    viewport
	step    time.Duration
	clock   string
	status  string
	control string
	notice  string

	imports   chan importResult
	importing bool
}

// New creates the window model. cues may be nil.
func New(
	c *conductor.Conductor, presets Presets, cues *cue.Dispatcher, dialogs Dialogs, cfg Config, logger *slog.Logger,
) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TPS <= 0 {
		cfg.TPS = DefaultConfig().TPS
	}

	g := &Game{
		c:        c,
		presets:  presets,
		mute:     cue.MuteKnob{Cues: cues},
		dialogs:  dialogs,
		gestures: gesture.NewController(cfg.Gesture, c),
		cfg:      cfg,
		logger:   logger,
		view:     viewport{width: cfg.Width, height: cfg.Height},
		step:     time.Second / time.Duration(cfg.TPS),
		imports:  make(chan importResult, 1),
	}

	c.SetDisplay(conductor.Display{
		Remaining: uictl.LabelFunc(func(text string) { g.clock = text }),
		Control:   uictl.LabelFunc(func(text string) { g.control = text }),
		Status:    uictl.LabelFunc(func(text string) { g.status = text }),
	})

	c.Observe(completionNotifier(func(text string) {
		go func() {
			if err := dialogs.Notify(text); err != nil {
				logger.Debug("notification failed", "error", err)
			}
		}()
	}))

	return g
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle("Breathe")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("failed to run window: %w", err)
	}

	return nil
}

// Update advances the session one step and handles input.
func (g *Game) Update() error {
	g.c.Tick(g.step)
	g.pollImport()

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if err := g.handleKey(k); err != nil {
			return err
		}
	}

	x, y := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.press(x, y)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.release(x, y)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.drag(x, y)
	}

	return nil
}

func (g *Game) handleKey(k ebiten.Key) error {
	switch k {
	case ebiten.KeySpace, ebiten.KeyEnter:
		g.c.Toggle()
	case ebiten.KeyArrowUp:
		g.c.AdjustDuration(durationStep)
	case ebiten.KeyArrowDown:
		g.c.AdjustDuration(-durationStep)
	case ebiten.KeyM:
		g.mute.Toggle()
	case ebiten.KeyI:
		g.startImport()
	case ebiten.KeyQ, ebiten.KeyEscape:
		return ebiten.Termination
	}

	return nil
}

func (g *Game) press(x, y int) {
	g.gestures.Begin(g.view.center(), g.view.point(x, y))
}

func (g *Game) drag(x, y int) {
	g.gestures.Move(g.view.point(x, y))
}

func (g *Game) release(x, y int) {
	g.gestures.End(g.view.point(x, y))
}

// startImport opens the file dialog off the game loop.
func (g *Game) startImport() {
	if g.importing {
		return
	}
	g.importing = true

	go func() {
		path, err := g.dialogs.SelectPresetFile()
		if err != nil {
			g.imports <- importResult{err: err}
			return
		}
		g.imports <- importPresetFile(path, g.cfg.Limits)
	}()
}

// pollImport stores the presets of a finished import. It reports whether
// one finished.
func (g *Game) pollImport() bool {
	var res importResult
	select {
	case res = <-g.imports:
	default:
		return false
	}
	g.importing = false

	switch {
	case errors.Is(res.err, zenity.ErrCanceled):
		return true
	case res.err != nil:
		g.notice = "Import failed: " + res.err.Error()
		g.logger.Warn("preset import failed", "error", res.err)
		return true
	}

	for _, re := range res.rejected {
		g.logger.Warn("skipped preset", "error", re)
	}

	saved, err := g.presets.Add(res.presets...)
	if err != nil {
		g.notice = "Import failed: " + err.Error()
		g.logger.Warn("failed to save imported presets", "error", err)
		return true
	}

	g.notice = "Imported " + strconv.Itoa(len(saved)) + " presets"
	if len(res.rejected) > 0 {
		g.notice += ", skipped " + strconv.Itoa(len(res.rejected))
	}

	return true
}

func importPresetFile(path string, limits timer.Limits) importResult {
	f, err := os.Open(path)
	if err != nil {
		return importResult{err: fmt.Errorf("failed to open presets: %w", err)}
	}
	defer f.Close()

	presets, rejected, err := store.ImportYAML(f, limits)

	return importResult{presets: presets, rejected: rejected, err: err}
}

// Draw paints the indicator and the labels.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	r := g.c.Snapshot().Frame.Radii
	c := g.view.center()
	cx, cy := float32(c.X), float32(c.Y)

	vector.StrokeCircle(screen, cx, cy, g.view.pixels(r.Reference), 2, colorReference, true)
	vector.DrawFilledCircle(screen, cx, cy, g.view.pixels(r.Back), colorBack, true)
	vector.DrawFilledCircle(screen, cx, cy, g.view.pixels(r.Front), colorFront, true)
	vector.DrawFilledCircle(screen, cx, cy, g.view.pixels(r.Inner), colorInner, true)
	if r.Accent < r.Inner {
		vector.DrawFilledCircle(screen, cx, cy, g.view.pixels(r.Accent), colorBackground, true)
	}

	ebitenutil.DebugPrintAt(screen, g.clock+"  ["+g.control+"]  "+g.status, 12, 12)
	if g.mute.Read() {
		ebitenutil.DebugPrintAt(screen, "muted", g.view.width-60, 12)
	}
	if g.notice != "" {
		ebitenutil.DebugPrintAt(screen, g.notice, 12, 28)
	}
	ebitenutil.DebugPrintAt(screen, helpText, 12, g.view.height-24)
}

// Layout follows the window size so the indicator stays round.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.view = viewport{width: outsideWidth, height: outsideHeight}
	return outsideWidth, outsideHeight
}

// completionNotifier calls notify once each time a running session runs out.
func completionNotifier(notify func(string)) conductor.Observer {
	last := conductor.Idle

	return func(s conductor.Snapshot) {
		if last == conductor.Running && s.State == conductor.Stopping {
			notify("Session complete")
		}
		last = s.State
	}
}

// ZenityDialogs opens native dialogs.
type ZenityDialogs struct{}

func (ZenityDialogs) SelectPresetFile() (string, error) {
	//nolint:wrapcheck // callers match zenity.ErrCanceled
	return zenity.SelectFile(
		zenity.Title("Import presets"),
		zenity.FileFilters{{
			Name:     "YAML presets",
			Patterns: []string{"*.yaml", "*.yml"},
		}},
	)
}

func (ZenityDialogs) Notify(text string) error {
	//nolint:wrapcheck // best effort
	return zenity.Notify(text, zenity.Title("Breathe"), zenity.InfoIcon)
}
