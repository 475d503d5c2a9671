package audio_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/alkime/breathe/internal/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      audio.EncoderConfig
		expectError string
	}{
		{"defaults are valid", audio.EncoderConfig{}.WithDefaults(), ""},
		{"zero sample rate", audio.EncoderConfig{Channels: 1, BufferThreshold: 1}, "sample rate must be positive"},
		{"stereo input", audio.EncoderConfig{SampleRate: 44100, Channels: 2, BufferThreshold: 1}, "only mono"},
		{"zero threshold", audio.EncoderConfig{SampleRate: 44100, Channels: 1}, "buffer threshold must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.expectError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	assert.Equal(t, audio.EncoderConfig{
		SampleRate:      22050,
		Channels:        audio.DefaultChannels,
		BufferThreshold: audio.DefaultBufferThreshold,
	}, audio.EncoderConfig{SampleRate: 22050}.WithDefaults())
}

func TestNewStreamingEncoder_ValidatesInputs(t *testing.T) {
	t.Parallel()

	valid := audio.EncoderConfig{}.WithDefaults()

	tests := []struct {
		name        string
		config      audio.EncoderConfig
		input       <-chan []byte
		output      io.Writer
		expectError string
	}{
		{"invalid config", audio.EncoderConfig{}, make(chan []byte), &bytes.Buffer{}, "invalid encoder config"},
		{"nil input channel", valid, nil, &bytes.Buffer{}, "input channel cannot be nil"},
		{"nil output writer", valid, make(chan []byte), nil, "output writer cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc, err := audio.NewStreamingEncoder(tt.config, tt.input, tt.output)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
			assert.Nil(t, enc)
		})
	}
}

func TestStreamingEncoder_EncodesBatches(t *testing.T) {
	t.Parallel()

	input := make(chan []byte, 16)
	var out bytes.Buffer

	enc, err := audio.NewStreamingEncoder(audio.EncoderConfig{BufferThreshold: 256}.WithDefaults(), input, &out)
	require.NoError(t, err)
	require.NoError(t, enc.Start(context.Background()))
	require.ErrorContains(t, enc.Start(context.Background()), "encoder already started")

	for i := range 10 {
		chunk := make([]byte, 100)
		for j := range chunk {
			chunk[j] = byte(i + j)
		}
		input <- chunk
	}
	// A trailing odd byte is ignored rather than misread.
	input <- []byte{1}
	close(input)

	require.NoError(t, enc.Wait())
	assert.Positive(t, out.Len(), "expected MP3 data to be written")

	select {
	case <-enc.Done():
	default:
		t.Fatal("done is not closed after Wait")
	}
}

func TestStreamingEncoder_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	enc, err := audio.NewStreamingEncoder(audio.EncoderConfig{}.WithDefaults(), make(chan []byte), &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, enc.Start(ctx))

	cancel()

	err = enc.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
