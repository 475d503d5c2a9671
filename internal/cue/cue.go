// Package cue plays the audio cues that mark phase changes and the end of a
// session.
package cue

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/pkg/uictl"
)

// Slot identifies one of the five cues.
type Slot int

// Slots 0-3 are the phase entered; SessionEnd closes a session.
const (
	InhaleStart Slot = iota
	Hold1Start
	ExhaleStart
	Hold2Start
	SessionEnd

	NumSlots = 5
)

// ForPhase returns the slot played when p is entered.
func ForPhase(p breath.Phase) (Slot, bool) {
	if !p.Valid() {
		return 0, false
	}
	return Slot(p), true
}

// Slots lists every slot in order.
func Slots() []Slot {
	return []Slot{InhaleStart, Hold1Start, ExhaleStart, Hold2Start, SessionEnd}
}

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	return s >= InhaleStart && s < NumSlots
}

func (s Slot) String() string {
	switch s {
	case InhaleStart:
		return "inhale"
	case Hold1Start:
		return "hold1"
	case ExhaleStart:
		return "exhale"
	case Hold2Start:
		return "hold2"
	case SessionEnd:
		return "end"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// Sound is a loaded cue. Play must return without waiting for playback.
type Sound interface {
	Play()
}

// Loader resolves a slot to a playable sound. A nil Sound means the cue is
// unavailable.
type Loader interface {
	Load(s Slot) (Sound, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(s Slot) (Sound, error)

// Load implements Loader.
func (f LoaderFunc) Load(s Slot) (Sound, error) {
	return f(s)
}

// FirstOf returns a Loader that tries each loader in turn and returns the
// first sound found. Errors are only reported when every loader fails.
func FirstOf(loaders ...Loader) Loader {
	return LoaderFunc(func(s Slot) (Sound, error) {
		var errs []error
		for _, l := range loaders {
			snd, err := l.Load(s)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if snd != nil {
				return snd, nil
			}
		}
		return nil, errors.Join(errs...)
	})
}

// Dispatcher plays at most one cue per call. Sounds are loaded once, on
// first use; a slot that fails to load stays silent.
type Dispatcher struct {
	loader Loader
	logger *slog.Logger
	cache  [NumSlots]Sound
	tried  [NumSlots]bool
	muted  bool
}

// NewDispatcher creates a dispatcher. A nil loader makes every cue silent.
func NewDispatcher(loader Loader, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{loader: loader, logger: logger}
}

// SetMuted silences or restores all cues.
func (d *Dispatcher) SetMuted(muted bool) {
	d.muted = muted
}

// Muted reports whether cues are silenced.
func (d *Dispatcher) Muted() bool {
	return d.muted
}

// MuteKnob exposes a dispatcher's mute switch to the frontends. A nil
// dispatcher reads as muted and ignores changes.
type MuteKnob struct {
	Cues *Dispatcher
}

var _ uictl.Knob = MuteKnob{}

func (k MuteKnob) Read() bool {
	return k.Cues == nil || k.Cues.Muted()
}

func (k MuteKnob) On() {
	if k.Cues != nil {
		k.Cues.SetMuted(true)
	}
}

func (k MuteKnob) Off() {
	if k.Cues != nil {
		k.Cues.SetMuted(false)
	}
}

func (k MuteKnob) Toggle() {
	if k.Read() {
		k.Off()
	} else {
		k.On()
	}
}

// OnTransition plays the cue for the phase just entered.
func (d *Dispatcher) OnTransition(p breath.Phase) bool {
	s, ok := ForPhase(p)
	if !ok {
		return false
	}
	return d.Play(s)
}

// Play fires the cue in slot s. It reports whether a sound was started.
func (d *Dispatcher) Play(s Slot) bool {
	if d.muted || !s.Valid() {
		return false
	}

	snd := d.sound(s)
	if snd == nil {
		return false
	}

	snd.Play()

	return true
}

// Preload loads every slot up front so the first cue does not pay the decode cost.
func (d *Dispatcher) Preload() {
	for _, s := range Slots() {
		d.sound(s)
	}
}

// Invalidate drops cached sounds, forcing a reload on next use.
func (d *Dispatcher) Invalidate() {
	d.cache = [NumSlots]Sound{}
	d.tried = [NumSlots]bool{}
}

func (d *Dispatcher) sound(s Slot) Sound {
	if d.tried[s] {
		return d.cache[s]
	}
	d.tried[s] = true

	if d.loader == nil {
		return nil
	}

	snd, err := d.loader.Load(s)
	if err != nil {
		d.logger.Warn("cue unavailable", "slot", s.String(), "error", err)
		return nil
	}

	d.cache[s] = snd

	return snd
}
