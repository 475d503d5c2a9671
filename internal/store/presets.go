package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/timer"
	"github.com/alkime/breathe/pkg/collections"
)

// ErrPresetNotFound is returned when a named preset does not exist.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named set of session settings.
type Preset struct {
	Name string
	conductor.Settings
}

// DefaultPresets are written when no usable presets file exists.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "Box", Settings: conductor.Settings{
			Start: breath.CycleTimes{4, 4, 4, 4}, End: breath.CycleTimes{4, 4, 4, 4}, Selected: 300,
		}},
		{Name: "Calm", Settings: conductor.DefaultSettings()},
		{Name: "Coherent", Settings: conductor.Settings{
			Start: breath.CycleTimes{5.5, 0, 5.5, 0}, End: breath.CycleTimes{5.5, 0, 5.5, 0}, Selected: 600,
		}},
		{Name: "Deepening", Settings: conductor.Settings{
			Start: breath.CycleTimes{4, 8, 8, 0}, End: breath.CycleTimes{6, 10, 10, 0}, Selected: 1800,
		}},
		{Name: "Relax 4-7-8", Settings: conductor.Settings{
			Start: breath.CycleTimes{4, 7, 8, 0}, End: breath.CycleTimes{4, 7, 8, 0}, Selected: 300,
		}},
	}
}

type presetEntry struct {
	Start    []float64 `json:"start"`
	End      []float64 `json:"end"`
	Duration *float64  `json:"duration_seconds"`
}

// PresetStore reads and writes presets.json.
type PresetStore struct {
	path   string
	limits timer.Limits
	logger *slog.Logger
}

// NewPresetStore creates a store for the file at path.
func NewPresetStore(path string, limits timer.Limits, logger *slog.Logger) *PresetStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &PresetStore{path: path, limits: limits, logger: logger}
}

// Path is the presets file location.
func (s *PresetStore) Path() string {
	return s.path
}

// Load returns the presets sorted by name. A missing or unreadable file is
// replaced with DefaultPresets; individual bad entries are skipped.
func (s *PresetStore) Load() ([]Preset, error) {
	var entries map[string]presetEntry
	if err := readJSON(s.path, &entries); err != nil || len(entries) == 0 {
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("presets file unusable, restoring defaults", "path", s.path, "error", err)
		}

		defaults := DefaultPresets()
		if err := s.Save(defaults); err != nil {
			return defaults, err
		}

		return defaults, nil
	}

	presets := make([]Preset, 0, len(entries))
	for _, name := range collections.SortedKeys(entries) {
		p, err := s.fromEntry(name, entries[name])
		if err != nil {
			s.logger.Warn("skipping preset", "name", name, "error", err)
			continue
		}
		presets = append(presets, p)
	}

	return presets, nil
}

// Save replaces the file with presets. Colliding names get a numeric suffix.
func (s *PresetStore) Save(presets []Preset) error {
	entries := make(map[string]presetEntry, len(presets))
	for _, p := range Dedupe(presets) {
		entries[p.Name] = s.toEntry(p)
	}

	if err := writeJSON(s.path, entries); err != nil {
		return fmt.Errorf("failed to save presets: %w", err)
	}

	return nil
}

// Get returns the named preset.
func (s *PresetStore) Get(name string) (Preset, error) {
	presets, err := s.Load()
	if err != nil {
		return Preset{}, err
	}

	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}

	return Preset{}, fmt.Errorf("%q: %w", name, ErrPresetNotFound)
}

// Add stores additional presets next to the existing ones and returns them
// under the names they were saved as.
func (s *PresetStore) Add(added ...Preset) ([]Preset, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}

	all := Dedupe(append(existing, added...))
	if err := s.Save(all); err != nil {
		return nil, err
	}

	return all[len(existing):], nil
}

// Remove deletes the named preset.
func (s *PresetStore) Remove(name string) error {
	presets, err := s.Load()
	if err != nil {
		return err
	}

	kept := presets[:0]
	for _, p := range presets {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(presets) {
		return fmt.Errorf("%q: %w", name, ErrPresetNotFound)
	}

	return s.Save(kept)
}

func (s *PresetStore) fromEntry(name string, e presetEntry) (Preset, error) {
	start, err := cycleFrom(e.Start)
	if err != nil {
		return Preset{}, fmt.Errorf("start: %w", err)
	}
	end, err := cycleFrom(e.End)
	if err != nil {
		return Preset{}, fmt.Errorf("end: %w", err)
	}
	if e.Duration == nil || *e.Duration < 0 {
		return Preset{}, fmt.Errorf("duration_seconds: %w", ErrMalformed)
	}

	return Preset{Name: name, Settings: conductor.Settings{
		Start:    start,
		End:      end,
		Selected: s.limits.Decode(*e.Duration),
	}}, nil
}

func (s *PresetStore) toEntry(p Preset) presetEntry {
	d := s.limits.Encode(p.Selected)
	return presetEntry{Start: p.Start[:], End: p.End[:], Duration: &d}
}

// Dedupe renames later presets whose names collide with earlier ones by
// appending " 2", " 3" and so on. Blank names become "Preset".
func Dedupe(presets []Preset) []Preset {
	seen := make(map[string]bool, len(presets))
	out := make([]Preset, 0, len(presets))

	for _, p := range presets {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			p.Name = "Preset"
		}

		name := p.Name
		for n := 2; seen[name]; n++ {
			name = p.Name + " " + strconv.Itoa(n)
		}

		p.Name = name
		seen[name] = true
		out = append(out, p)
	}

	return out
}
