package audio

import (
	"context"
	"fmt"
)

// Output is a Player wired to a running playback device.
type Output struct {
	*Player
	device Device
}

// OpenOutput starts a playback device fed by a new Player.
func OpenOutput(ctx context.Context, conf DeviceConfig) (*Output, error) {
	player := NewPlayer(conf.SampleRate)
	dev := NewDevice(conf)

	if err := dev.Open(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to open playback device: %w", err)
	}

	if err := dev.Start(ctx); err != nil {
		dev.Dealloc(ctx)
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	return &Output{Player: player, device: dev}, nil
}

// Close stops the device and frees it.
func (o *Output) Close(ctx context.Context) error {
	o.Clear()

	err := o.device.Stop(ctx)
	o.device.Dealloc(ctx)

	if err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	return nil
}
