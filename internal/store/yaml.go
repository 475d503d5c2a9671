package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/timer"
	"gopkg.in/yaml.v3"
)

type yamlPreset struct {
	Name     string    `yaml:"name"`
	Start    []float64 `yaml:"start"`
	End      []float64 `yaml:"end"`
	Duration float64   `yaml:"duration_seconds"`
}

type yamlDocument struct {
	Presets []yamlPreset `yaml:"presets"`
}

// ExportYAML writes presets as a YAML document.
func ExportYAML(w io.Writer, presets []Preset, limits timer.Limits) error {
	doc := yamlDocument{Presets: make([]yamlPreset, 0, len(presets))}
	for _, p := range presets {
		doc.Presets = append(doc.Presets, yamlPreset{
			Name:     p.Name,
			Start:    p.Start[:],
			End:      p.End[:],
			Duration: limits.Encode(p.Selected),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}

	return nil
}

// ImportYAML reads a document written by ExportYAML. Entries that fail
// validation are reported the same way as bad rows, numbered from 1.
func ImportYAML(r io.Reader, limits timer.Limits) ([]Preset, []RowError, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("failed to decode presets: %w", err)
	}

	var (
		presets []Preset
		bad     []RowError
	)

	for i, y := range doc.Presets {
		p, err := fromYAML(y, limits)
		if err != nil {
			bad = append(bad, RowError{Line: i + 1, Name: y.Name, Err: err})
			continue
		}
		presets = append(presets, p)
	}

	return presets, bad, nil
}

func fromYAML(y yamlPreset, limits timer.Limits) (Preset, error) {
	if y.Name == "" {
		return Preset{}, fmt.Errorf("%w: missing name", ErrMalformedRow)
	}

	start, err := cycleFrom(y.Start)
	if err != nil {
		return Preset{}, fmt.Errorf("%w: start: %w", ErrMalformedRow, err)
	}
	end, err := cycleFrom(y.End)
	if err != nil {
		return Preset{}, fmt.Errorf("%w: end: %w", ErrMalformedRow, err)
	}
	if y.Duration < 0 {
		return Preset{}, fmt.Errorf("%w: negative duration", ErrMalformedRow)
	}

	return Preset{Name: y.Name, Settings: conductor.Settings{
		Start:    start,
		End:      end,
		Selected: limits.Decode(y.Duration),
	}}, nil
}
