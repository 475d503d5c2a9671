package server

import (
	"github.com/alkime/breathe/internal/breath"
	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/internal/store"
	"github.com/alkime/breathe/internal/timer"
)

type radiiView struct {
	Reference float64 `json:"reference"`
	Front     float64 `json:"front"`
	Back      float64 `json:"back"`
	Inner     float64 `json:"inner"`
	Accent    float64 `json:"accent"`
}

type sessionView struct {
	State     string    `json:"state"`
	Countdown int       `json:"countdown"`
	Phase     string    `json:"phase"`
	Progress  float64   `json:"progress"`
	Radii     radiiView `json:"radii"`
	// Remaining and Selected are null for unbounded sessions.
	Remaining    *float64          `json:"remaining_seconds"`
	Clock        string            `json:"remaining_clock"`
	Selected     *float64          `json:"selected_seconds"`
	Unbounded    bool              `json:"unbounded"`
	Cycle        breath.CycleTimes `json:"cycle_times"`
	Start        breath.CycleTimes `json:"start_cycle_times"`
	End          breath.CycleTimes `json:"end_cycle_times"`
	ControlLabel string            `json:"control_label"`
	Status       string            `json:"status"`
}

func newSessionView(s conductor.Snapshot) sessionView {
	r := s.Frame.Radii

	return sessionView{
		State:     s.State.String(),
		Countdown: s.Countdown,
		Phase:     s.Frame.Phase.String(),
		Progress:  s.Frame.Progress,
		Radii: radiiView{
			Reference: r.Reference,
			Front:     r.Front,
			Back:      r.Back,
			Inner:     r.Inner,
			Accent:    r.Accent,
		},
		Remaining:    seconds(s.Remaining),
		Clock:        timer.Clock(s.Remaining),
		Selected:     seconds(s.Settings.Selected),
		Unbounded:    s.Settings.Selected.IsUnbounded(),
		Cycle:        s.Frame.Cycle,
		Start:        s.Settings.Start,
		End:          s.Settings.End,
		ControlLabel: s.ControlLabel,
		Status:       s.Status,
	}
}

type presetView struct {
	Name     string            `json:"name"`
	Start    breath.CycleTimes `json:"start_cycle_times"`
	End      breath.CycleTimes `json:"end_cycle_times"`
	Selected *float64          `json:"selected_seconds"`
	Label    string            `json:"duration_label"`
}

func newPresetView(p store.Preset) presetView {
	return presetView{
		Name:     p.Name,
		Start:    p.Start,
		End:      p.End,
		Selected: seconds(p.Selected),
		Label:    timer.Describe(p.Selected),
	}
}
