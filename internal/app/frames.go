package app

import (
	"context"
	"fmt"

	"github.com/alkime/breathe/internal/conductor"
	"github.com/alkime/breathe/pkg/channels"
)

// Frames publishes every conductor snapshot to a broadcaster until ctx is
// done. Call it before the driver starts; snapshots are dropped rather than
// stalling the tick when the broadcaster falls behind.
func (a *App) Frames(ctx context.Context) (*channels.Broadcaster[conductor.Snapshot], error) {
	frames := channels.NewBroadcaster[conductor.Snapshot]()

	input, err := frames.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start frame broadcaster: %w", err)
	}

	a.Conductor.Observe(func(s conductor.Snapshot) {
		if err := channels.SendNonBlock(input, s); err != nil {
			a.Logger.Debug("frame dropped", "error", err)
		}
	})

	return frames, nil
}
