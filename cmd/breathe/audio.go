package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alkime/breathe/internal/audio"
	"github.com/alkime/breathe/internal/config"
	"github.com/alkime/breathe/internal/workdir"
	"github.com/faiface/beep"
)

// CuesCmd groups cue sound subcommands.
type CuesCmd struct {
	Render CuesRenderCmd `cmd:"" help:"Synthesize the five cue chimes into the cue directory"`
}

// CuesRenderCmd writes synthesized cues so they can be replaced or tuned.
type CuesRenderCmd struct {
	Format     string `flag:"" enum:"mp3,wav" default:"mp3" help:"File format (mp3 or wav)"`
	Dir        string `flag:"" optional:"" type:"path" help:"Output directory (default: the cue directory)"`
	SampleRate int    `flag:"" default:"44100" help:"Sample rate in Hz"`
}

// Run executes the render command.
func (c *CuesRenderCmd) Run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := signalContext()
	defer cancel()

	dir := c.Dir
	if dir == "" {
		wd, err := workdir.Resolve(cfg.DataDir)
		if err != nil {
			return err
		}
		dir = wd.Cues(cfg.CueDir)
	}

	written, err := audio.RenderCues(ctx, dir, audio.RenderFormat(c.Format), beep.SampleRate(c.SampleRate))
	for _, path := range written {
		fmt.Println(path)
	}
	if err != nil {
		return err
	}

	log.Debug("cues rendered", "dir", dir, "format", c.Format, "count", len(written))

	return nil
}

// DevicesCmd lists available audio devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run(log *slog.Logger) error {
	log.Info("Enumerating audio devices...")

	adev := audio.NewDevice(audio.DefaultDeviceConfig())
	devices, err := adev.EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		log.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formatCount", dev.FormatCount,
			"formats", dev.Formats,
		)
	}

	return nil
}
