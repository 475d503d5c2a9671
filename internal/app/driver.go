package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alkime/breathe/internal/conductor"
)

// MaxStep caps the time fed to one tick so a stalled process does not skip
// whole phases when it resumes.
const MaxStep = 250 * time.Millisecond

// ErrStopped is returned by Do after Run has returned.
var ErrStopped = errors.New("driver stopped")

type command struct {
	fn   func(*conductor.Conductor)
	done chan struct{}
}

// Driver ticks a conductor on a ticker and serializes commands from other
// goroutines onto the same loop.
type Driver struct {
	c        *conductor.Conductor
	interval time.Duration
	logger   *slog.Logger
	cmds     chan command
	stopped  chan struct{}
}

// NewDriver creates a driver ticking c every interval.
func NewDriver(c *conductor.Conductor, interval time.Duration, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{
		c:        c,
		interval: interval,
		logger:   logger,
		cmds:     make(chan command),
		stopped:  make(chan struct{}),
	}
}

// Run ticks until ctx is done. Observers registered on the conductor are
// called from this goroutine.
func (d *Driver) Run(ctx context.Context) error {
	defer close(d.stopped)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Debug("driver started", "interval", d.interval)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("driver stopped")
			return nil

		case now := <-ticker.C:
			dt := min(now.Sub(last), MaxStep)
			last = now
			d.c.Tick(dt)

		case cmd := <-d.cmds:
			cmd.fn(d.c)
			close(cmd.done)
		}
	}
}

// Do runs fn on the driver goroutine and waits for it to finish.
func (d *Driver) Do(ctx context.Context, fn func(*conductor.Conductor)) error {
	cmd := command{fn: fn, done: make(chan struct{})}

	select {
	case d.cmds <- cmd:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot reads the conductor's current view.
func (d *Driver) Snapshot(ctx context.Context) (conductor.Snapshot, error) {
	var snap conductor.Snapshot
	err := d.Do(ctx, func(c *conductor.Conductor) {
		snap = c.Snapshot()
	})

	return snap, err
}
