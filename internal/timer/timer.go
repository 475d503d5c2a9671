package timer

// Timer counts a session down independently of the breathing cycle.
// It is not safe for concurrent use.
type Timer struct {
	limits   Limits
	selected Duration
	current  Duration
	expired  bool
}

// New creates a timer whose baseline and live value are selected.
func New(limits Limits, selected Duration) *Timer {
	selected = limits.Clamp(selected)

	return &Timer{
		limits:   limits,
		selected: selected,
		current:  selected,
	}
}

// Tick counts down by dt seconds. It returns true on the tick that expires
// the session and false on every later tick until Reset.
func (t *Timer) Tick(dt float64) bool {
	if t.expired || t.current.IsUnbounded() {
		return false
	}

	if dt > 0 {
		t.current -= Duration(dt)
	}

	if t.current <= 0 {
		t.current = 0
		t.expired = true

		return true
	}

	return false
}

// Expired reports whether the live duration ran out.
func (t *Timer) Expired() bool {
	return t.expired
}

// Reset restores the live duration to the selected baseline.
func (t *Timer) Reset() {
	t.current = t.selected
	t.expired = false
}

// Remaining returns the live duration.
func (t *Timer) Remaining() Duration {
	return t.current
}

// Selected returns the baseline duration.
func (t *Timer) Selected() Duration {
	return t.selected
}

// Limits returns the adjustment bounds.
func (t *Timer) Limits() Limits {
	return t.limits
}

// Select replaces the baseline and the live duration.
func (t *Timer) Select(d Duration) {
	t.selected = t.limits.Clamp(d)
	t.Reset()
}

// Adjust applies delta seconds to the live duration. When idle the baseline
// moves with it; during a session only the live countdown changes.
func (t *Timer) Adjust(delta float64, idle bool) {
	t.current = t.limits.Add(t.current, delta)
	if idle {
		t.selected = t.limits.Add(t.selected, delta)
	}
}

// ElapsedFraction is how far through the session the live duration is, in
// [0,1]. It is 0 for an empty or unbounded baseline.
func (t *Timer) ElapsedFraction() float64 {
	if t.selected <= 0 || t.selected.IsUnbounded() || t.current.IsUnbounded() {
		return 0
	}

	f := float64((t.selected - t.current) / t.selected)

	return min(max(f, 0), 1)
}
