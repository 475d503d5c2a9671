package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alkime/breathe/internal/cue"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// RenderFormat is the file type written by RenderCues.
type RenderFormat string

const (
	RenderWAV RenderFormat = "wav"
	RenderMP3 RenderFormat = "mp3"
)

const renderChunk = 2048

// WriteWAV encodes s as 16 bit stereo WAV.
func WriteWAV(w io.WriteSeeker, s beep.Streamer, sr beep.SampleRate) error {
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, s, format); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}

	return nil
}

// WriteMP3 encodes s as MP3 through a StreamingEncoder.
func WriteMP3(ctx context.Context, w io.Writer, s beep.Streamer, sr beep.SampleRate) error {
	input := make(chan []byte, 4)

	enc, err := NewStreamingEncoder(EncoderConfig{SampleRate: int(sr)}.WithDefaults(), input, w)
	if err != nil {
		return err
	}
	if err := enc.Start(ctx); err != nil {
		return err
	}

	samples := make([][2]float64, renderChunk)

feed:
	for {
		n, ok := s.Stream(samples)
		if n > 0 {
			pcm := make([]byte, n*2)
			putS16(pcm, samples[:n], 1)

			select {
			case input <- pcm:
			case <-enc.Done():
				break feed
			}
		}
		if !ok {
			break
		}
	}

	close(input)

	if err := enc.Wait(); err != nil {
		return fmt.Errorf("failed to encode mp3: %w", err)
	}

	return nil
}

// RenderCues synthesizes every cue into dir and returns the files written.
func RenderCues(ctx context.Context, dir string, format RenderFormat, sr beep.SampleRate) ([]string, error) {
	if format != RenderWAV && format != RenderMP3 {
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cue directory: %w", err)
	}

	var written []string
	for _, slot := range cue.Slots() {
		path := filepath.Join(dir, slot.String()+"."+string(format))

		if err := renderFile(ctx, path, format, Chime(sr, Tones[slot]), sr); err != nil {
			return written, fmt.Errorf("failed to render %s cue: %w", slot, err)
		}

		written = append(written, path)
	}

	return written, nil
}

func renderFile(ctx context.Context, path string, format RenderFormat, s beep.Streamer, sr beep.SampleRate) (err error) {
	//nolint:gosec // path is built from the cue directory
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if format == RenderMP3 {
		return WriteMP3(ctx, f, s, sr)
	}

	return WriteWAV(f, s, sr)
}
