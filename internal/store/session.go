package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/timer"
)

// ErrMalformed marks persisted data that could not be used.
var ErrMalformed = errors.New("malformed data")

type sessionFile struct {
	Start    []float64 `json:"start_cycle_times"`
	End      []float64 `json:"end_cycle_times"`
	Selected *float64  `json:"selected_duration"`
}

// SessionStore reads and writes session.json.
type SessionStore struct {
	path   string
	limits timer.Limits
	logger *slog.Logger
}

// NewSessionStore creates a store for the file at path.
func NewSessionStore(path string, limits timer.Limits, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{path: path, limits: limits, logger: logger}
}

// Path is the session file location.
func (s *SessionStore) Path() string {
	return s.path
}

// Load returns the stored settings. A missing or malformed file yields the
// defaults; the problem is logged, never returned.
func (s *SessionStore) Load() conductor.Settings {
	settings, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("no saved session, using defaults", "path", s.path)
		} else {
			s.logger.Warn("ignoring saved session", "path", s.path, "error", err)
		}
		return conductor.DefaultSettings()
	}

	return settings
}

// Save writes settings.
func (s *SessionStore) Save(settings conductor.Settings) error {
	selected := s.limits.Encode(settings.Selected)
	f := sessionFile{
		Start:    settings.Start[:],
		End:      settings.End[:],
		Selected: &selected,
	}

	if err := writeJSON(s.path, f); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *SessionStore) read() (conductor.Settings, error) {
	var f sessionFile
	if err := readJSON(s.path, &f); err != nil {
		return conductor.Settings{}, err
	}

	start, err := cycleFrom(f.Start)
	if err != nil {
		return conductor.Settings{}, fmt.Errorf("start_cycle_times: %w", err)
	}
	end, err := cycleFrom(f.End)
	if err != nil {
		return conductor.Settings{}, fmt.Errorf("end_cycle_times: %w", err)
	}
	if f.Selected == nil || *f.Selected < 0 {
		return conductor.Settings{}, fmt.Errorf("selected_duration: %w", ErrMalformed)
	}

	return conductor.Settings{
		Start:    start,
		End:      end,
		Selected: s.limits.Decode(*f.Selected),
	}, nil
}

// cycleFrom converts a persisted list of exactly four non-negative values.
func cycleFrom(values []float64) (breath.CycleTimes, error) {
	var c breath.CycleTimes
	if len(values) != breath.NumPhases {
		return c, fmt.Errorf("want %d values, got %d: %w", breath.NumPhases, len(values), ErrMalformed)
	}

	copy(c[:], values)
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return c, nil
}
