package wakelock

import (
	"log/slog"
	"sync"

	"github.com/alkime/breathe/pkg/channels"
)

// Async forwards Acquire and Release to another Lock on its own goroutine,
// so callers on the session tick never wait for the platform service.
// IsHeld reports the requested state. Requests that arrive faster than the
// worker applies them are coalesced into the latest one.
type Async struct {
	lock   Lock
	logger *slog.Logger

	mu     sync.Mutex
	want   bool
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

// NewAsync starts the worker. Call Close to stop it.
func NewAsync(lock Lock, logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.Default()
	}

	a := &Async{
		lock:   lock,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go a.loop()

	return a
}

// Acquire implements Lock.
func (a *Async) Acquire() error {
	a.request(true)
	return nil
}

// Release implements Lock.
func (a *Async) Release() error {
	a.request(false)
	return nil
}

// IsHeld implements Lock.
func (a *Async) IsHeld() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.want
}

// Close stops the worker after it applied the last request, then releases
// and closes the wrapped lock.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.want = false
	a.mu.Unlock()

	close(a.wake)
	<-a.done

	if c, ok := a.lock.(interface{ Close() error }); ok {
		return c.Close()
	}

	return nil
}

func (a *Async) request(want bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.want = want

	// A full channel already has a wake-up queued.
	_ = channels.SendNonBlock(a.wake, struct{}{})
}

func (a *Async) loop() {
	defer close(a.done)

	for range a.wake {
		a.apply()
	}
	a.apply()
}

func (a *Async) apply() {
	a.mu.Lock()
	want := a.want
	a.mu.Unlock()

	if want == a.lock.IsHeld() {
		return
	}

	if want {
		if err := a.lock.Acquire(); err != nil {
			a.logger.Debug("wake lock not acquired", "error", err)
		}
		return
	}

	if err := a.lock.Release(); err != nil {
		a.logger.Warn("failed to release wake lock", "error", err)
	}
}
