// Package app assembles a breathing session from configuration: stores,
// audio output, wake lock and the conductor.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alkime/breathe/internal/audio"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/config"
	"github.com/alkime/breathe/internal/cue"
	"github.com/alkime/breathe/internal/gesture"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/internal/wakelock"
	"github.com/alkime/breathe/internal/workdir"
)

// Limits derives the duration bounds from cfg.
func Limits(cfg *config.Config) timer.Limits {
	return timer.Limits{
		Max:            timer.FromStd(cfg.MaxDuration),
		AllowUnbounded: cfg.AllowUnbounded,
	}
}

// ConductorConfig derives the session sequencing from cfg.
func ConductorConfig(cfg *config.Config) conductor.Config {
	c := conductor.DefaultConfig()
	c.CountdownFrom = cfg.CountdownFrom
	c.Cooldown = cfg.Cooldown
	c.Limits = Limits(cfg)

	return c
}

// GestureConfig derives the drag and tap parameters from cfg.
func GestureConfig(cfg *config.Config) gesture.Config {
	return gesture.Config{
		Turn:        cfg.TurnDuration,
		TapDistance: cfg.TapDistance,
		TapTimeout:  cfg.TapTimeout,
	}
}

// OutputOpener opens the audio output. It is replaced in tests.
type OutputOpener func(ctx context.Context, conf audio.DeviceConfig) (*audio.Output, error)

type options struct {
	openOutput OutputOpener
	lock       wakelock.Lock
	display    conductor.Display
}

// Option configures New.
type Option func(*options)

// WithOutput replaces how the audio output is opened. A nil opener runs the
// session without sound.
func WithOutput(open OutputOpener) Option {
	return func(o *options) {
		o.openOutput = open
	}
}

// WithWakeLock overrides the wake lock chosen from configuration.
func WithWakeLock(l wakelock.Lock) Option {
	return func(o *options) {
		o.lock = l
	}
}

// WithDisplay sets the conductor's UI setters.
func WithDisplay(d conductor.Display) Option {
	return func(o *options) {
		o.display = d
	}
}

// App owns everything a frontend needs to run sessions. Conductor is not
// safe for concurrent use; frontends that tick from one goroutine and take
// commands from others go through a Driver.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Dir       workdir.Dir
	Sessions  *store.SessionStore
	Presets   *store.PresetStore
	Cues      *cue.Dispatcher
	Conductor *conductor.Conductor

	output *audio.Output
	lock   wakelock.Lock
}

// New resolves the data directory, restores the last session and opens
// audio and the wake lock. Missing audio or wake lock support only degrades
// the session.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{openOutput: audio.OpenOutput}
	for _, opt := range opts {
		opt(&o)
	}

	if logger == nil {
		logger = slog.Default()
	}

	dir, err := workdir.Resolve(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if err := dir.Prep(); err != nil {
		return nil, err
	}

	limits := Limits(cfg)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Dir:      dir,
		Sessions: store.NewSessionStore(dir.FilePath(workdir.SessionFile), limits, logger),
		Presets:  store.NewPresetStore(dir.FilePath(workdir.PresetsFile), limits, logger),
	}

	a.Cues = cue.NewDispatcher(a.openCues(ctx, o.openOutput), logger)
	a.Cues.SetMuted(cfg.Mute)
	a.Cues.Preload()

	a.lock = o.lock
	if a.lock == nil {
		a.lock = newWakeLock(cfg, logger)
	}

	c, err := conductor.New(ConductorConfig(cfg), a.Sessions.Load(),
		conductor.WithLogger(logger),
		conductor.WithCues(a.Cues),
		conductor.WithWakeLock(a.lock),
		conductor.WithDisplay(o.display),
	)
	if err != nil {
		return nil, errors.Join(err, a.closeOutput(ctx))
	}
	c.OnSettingsChange(a.persist)
	a.Conductor = c

	logger.Debug("app ready", "dir", string(dir), "mute", cfg.Mute, "max_duration", cfg.MaxDuration)

	return a, nil
}

// ApplyPreset loads the named preset into the conductor, ending any session.
func (a *App) ApplyPreset(name string) (store.Preset, error) {
	p, err := a.Presets.Get(name)
	if err != nil {
		return store.Preset{}, err
	}

	if err := a.Conductor.Apply(p.Settings); err != nil {
		return store.Preset{}, fmt.Errorf("failed to apply preset %q: %w", name, err)
	}

	a.Logger.Info("preset applied", "name", p.Name)

	return p, nil
}

// SaveAsPreset stores the current settings under name and returns the name
// it was saved as.
func (a *App) SaveAsPreset(name string) (string, error) {
	added, err := a.Presets.Add(store.Preset{Name: name, Settings: a.Conductor.Settings()})
	if err != nil {
		return "", err
	}

	return added[0].Name, nil
}

// Close ends any session, releases the wake lock and stops audio.
func (a *App) Close(ctx context.Context) error {
	if a.Conductor != nil {
		a.Conductor.Close()
	}

	var errs []error
	if c, ok := a.lock.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.closeOutput(ctx))

	return errors.Join(errs...)
}

func (a *App) persist(s conductor.Settings) {
	if err := a.Sessions.Save(s); err != nil {
		a.Logger.Warn("failed to persist session", "error", err)
	}
}

// openCues prefers files from the cue directory and falls back to
// synthesized chimes. Without an output device every cue is silent.
func (a *App) openCues(ctx context.Context, open OutputOpener) cue.Loader {
	if open == nil {
		return nil
	}

	out, err := open(ctx, audio.DefaultDeviceConfig())
	if err != nil {
		a.Logger.Warn("audio unavailable, cues disabled", "error", err)
		return nil
	}
	a.output = out

	return cue.FirstOf(
		audio.NewLibrary(a.Dir.Cues(a.Config.CueDir), out.Player, a.Logger),
		audio.NewSynthLoader(out.Player),
	)
}

func (a *App) closeOutput(ctx context.Context) error {
	if a.output == nil {
		return nil
	}

	out := a.output
	a.output = nil

	return out.Close(ctx)
}

func newWakeLock(cfg *config.Config, logger *slog.Logger) wakelock.Lock {
	if !cfg.WakeLock {
		return &wakelock.Noop{}
	}
	return wakelock.NewAsync(wakelock.NewDBus(logger), logger)
}
