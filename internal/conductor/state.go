// Package conductor sequences a breathing session: countdown, running,
// cooldown and back to idle.
package conductor

import (
	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/timer"
)

// State is the session lifecycle stage.
type State int

const (
	Idle State = iota
	Countdown
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Countdown:
		return "countdown"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Settings is the persisted part of a session.
type Settings struct {
	Start    breath.CycleTimes
	End      breath.CycleTimes
	Selected timer.Duration
}

// DefaultSettings is a five minute session at the default cycle.
func DefaultSettings() Settings {
	return Settings{
		Start:    breath.DefaultCycleTimes,
		End:      breath.DefaultCycleTimes,
		Selected: 300,
	}
}

// Bound selects the start or end cycle times.
type Bound int

const (
	StartBound Bound = iota
	EndBound
)

func (b Bound) String() string {
	if b == EndBound {
		return "end"
	}
	return "start"
}

// Snapshot is a read-only view of the conductor after a tick or command.
type Snapshot struct {
	State State
	// Countdown is the number on display during Countdown.
	Countdown int
	Frame     breath.Frame
	Remaining timer.Duration
	Settings  Settings
	Limits    timer.Limits
	// ControlLabel is the text of the start/stop control.
	ControlLabel string
	// Status is the countdown number, the current phase label or empty.
	Status string
}

// Observer receives a snapshot after every tick and command.
type Observer func(Snapshot)
