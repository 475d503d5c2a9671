package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/timer"
)

// ErrMalformedRow marks a preset row that was skipped.
var ErrMalformedRow = errors.New("malformed preset row")

// rowFields is name, four start times, four end times and the duration.
const rowFields = 1 + 2*breath.NumPhases + 1

const rowsHeader = `# One preset per line:
#   name, inhale, hold 1, exhale, hold 2, end inhale, end hold 1, end exhale, end hold 2, duration seconds
# Lines starting with # are ignored. Rows that do not parse are skipped.
`

// RowError describes a skipped row.
type RowError struct {
	Line int
	Name string
	Err  error
}

func (e RowError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Name, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// FormatRows writes presets in the editable row format.
func FormatRows(w io.Writer, presets []Preset, limits timer.Limits) error {
	if _, err := io.WriteString(w, rowsHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	cw := csv.NewWriter(w)
	for _, p := range presets {
		record := make([]string, 0, rowFields)
		record = append(record, p.Name)
		for _, v := range p.Start {
			record = append(record, formatSeconds(v))
		}
		for _, v := range p.End {
			record = append(record, formatSeconds(v))
		}
		record = append(record, formatSeconds(limits.Encode(p.Selected)))

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write preset %q: %w", p.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush presets: %w", err)
	}

	return nil
}

// ParseRows reads presets in the row format. Bad rows are reported and
// skipped; the rest are returned. The error is only set when r fails.
func ParseRows(r io.Reader, limits timer.Limits) ([]Preset, []RowError, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		presets []Preset
		bad     []RowError
	)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var perr *csv.ParseError
		if errors.As(err, &perr) {
			bad = append(bad, RowError{Line: perr.Line, Err: fmt.Errorf("%w: %w", ErrMalformedRow, perr.Err)})
			continue
		}
		if err != nil {
			return presets, bad, fmt.Errorf("failed to read presets: %w", err)
		}

		line, _ := cr.FieldPos(0)

		p, err := parseRow(record, limits)
		if err != nil {
			bad = append(bad, RowError{Line: line, Name: strings.TrimSpace(record[0]), Err: err})
			continue
		}

		presets = append(presets, p)
	}

	return presets, bad, nil
}

func parseRow(record []string, limits timer.Limits) (Preset, error) {
	if len(record) != rowFields {
		return Preset{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRow, rowFields, len(record))
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return Preset{}, fmt.Errorf("%w: missing name", ErrMalformedRow)
	}

	values := make([]float64, 0, rowFields-1)
	for i, field := range record[1:] {
		v, err := parseSeconds(field)
		if err != nil {
			return Preset{}, fmt.Errorf("%w: field %d: %w", ErrMalformedRow, i+2, err)
		}
		values = append(values, v)
	}

	var start, end breath.CycleTimes
	copy(start[:], values[:breath.NumPhases])
	copy(end[:], values[breath.NumPhases:2*breath.NumPhases])

	return Preset{Name: name, Settings: conductor.Settings{
		Start:    start,
		End:      end,
		Selected: limits.Decode(values[2*breath.NumPhases]),
	}}, nil
}

func parseSeconds(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", strings.TrimSpace(field))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", strings.TrimSpace(field))
	}
	if v < 0 {
		return 0, fmt.Errorf("%g is negative", v)
	}
	return v, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
