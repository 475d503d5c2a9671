// Package wakelock keeps the display awake while a session runs.
package wakelock

import "errors"

// ErrUnavailable is returned once the platform has no wake-lock service.
var ErrUnavailable = errors.New("wake lock unavailable")

// Lock prevents the screen from dimming while held.
type Lock interface {
	Acquire() error
	Release() error
	IsHeld() bool
}

// Noop is a Lock for platforms without a wake-lock service. It tracks the
// held flag so callers see consistent state.
type Noop struct {
	held bool
}

// Acquire implements Lock.
func (n *Noop) Acquire() error {
	n.held = true
	return nil
}

// Release implements Lock.
func (n *Noop) Release() error {
	n.held = false
	return nil
}

// IsHeld implements Lock.
func (n *Noop) IsHeld() bool {
	return n.held
}
