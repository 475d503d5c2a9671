// Package sched runs one-shot callbacks on a virtual clock that the owner
// advances from its tick loop. Nothing here spawns goroutines.
package sched

import (
	"cmp"
	"slices"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

type entry struct {
	id  Handle
	at  time.Duration
	fn  func()
	seq uint64
}

// Scheduler holds pending callbacks ordered by due time. It is not safe for
// concurrent use.
type Scheduler struct {
	now     time.Duration
	next    Handle
	seq     uint64
	pending []entry
}

// New creates an empty scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now is the virtual time elapsed since creation.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once d from now.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	s.next++
	s.seq++

	e := entry{id: s.next, at: s.now + max(d, 0), fn: fn, seq: s.seq}

	i, _ := slices.BinarySearchFunc(s.pending, e, func(a, b entry) int {
		if a.at != b.at {
			return cmp.Compare(a.at, b.at)
		}
		return cmp.Compare(a.seq, b.seq)
	})
	s.pending = slices.Insert(s.pending, i, e)

	return e.id
}

// Cancel removes a pending callback. It reports whether h was still pending.
func (s *Scheduler) Cancel(h Handle) bool {
	i := slices.IndexFunc(s.pending, func(e entry) bool { return e.id == h })
	if i < 0 {
		return false
	}

	s.pending = slices.Delete(s.pending, i, i+1)

	return true
}

// Pending reports whether h has yet to run.
func (s *Scheduler) Pending(h Handle) bool {
	return slices.ContainsFunc(s.pending, func(e entry) bool { return e.id == h })
}

// Len is the number of pending callbacks.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Advance moves the clock forward by dt and runs every callback that falls
// due, in due order. Callbacks may schedule or cancel others; a callback
// scheduled for a time inside this step also runs.
func (s *Scheduler) Advance(dt time.Duration) int {
	target := s.now + max(dt, 0)
	ran := 0

	for len(s.pending) > 0 && s.pending[0].at <= target {
		e := s.pending[0]
		s.pending = s.pending[1:]

		s.now = e.at
		e.fn()
		ran++
	}

	s.now = target

	return ran
}

// Clear drops every pending callback.
func (s *Scheduler) Clear() {
	s.pending = nil
}
