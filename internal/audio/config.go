// Package audio plays the breathing cues: decoding, mixing, synthesis and
// the playback device.
package audio

import (
	"errors"
	"time"

	"github.com/faiface/beep"
	"github.com/gen2brain/malgo"
)

const (
	// DefaultPlaybackRate is the mixer and device sample rate.
	DefaultPlaybackRate beep.SampleRate = 44100
	// DefaultPlaybackChannels is stereo.
	DefaultPlaybackChannels = 2
	// DefaultPeriod is the device callback period.
	DefaultPeriod = 20 * time.Millisecond
	// ResampleQuality is passed to beep.Resample.
	ResampleQuality = 4
)

// DeviceConfig configures the playback device.
type DeviceConfig struct {
	Format           malgo.FormatType
	PlaybackChannels int
	SampleRate       beep.SampleRate
	Period           time.Duration
}

// DefaultDeviceConfig is 16 bit stereo at DefaultPlaybackRate.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		Format:           malgo.FormatS16,
		PlaybackChannels: DefaultPlaybackChannels,
		SampleRate:       DefaultPlaybackRate,
		Period:           DefaultPeriod,
	}
}

// Validate returns an error if the config cannot drive a device.
func (c DeviceConfig) Validate() error {
	if c.Format != malgo.FormatS16 {
		return errors.New("only 16 bit playback is supported")
	}
	if c.PlaybackChannels != 1 && c.PlaybackChannels != 2 {
		return errors.New("playback channels must be 1 or 2")
	}
	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}
	return nil
}
