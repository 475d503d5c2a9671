package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/breathe/internal/cue"
	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

var (
	// ErrUnsupportedFormat is returned for files that are not WAV, MP3 or FLAC.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrCueNotFound is returned when no file exists for a cue.
	ErrCueNotFound = errors.New("cue file not found")
)

// Extensions are tried in order when looking up a cue file.
var Extensions = []string{".wav", ".mp3", ".flac"}

// Decode opens and decodes an audio file by extension.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	//nolint:gosec // path comes from the cue directory
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	return streamer, format, nil
}

// Library loads cue sounds from a directory. Files are named after the slot:
// inhale, hold1, exhale, hold2 and end, with any supported extension.
type Library struct {
	dir    string
	player *Player
	logger *slog.Logger
}

// NewLibrary creates a library that plays through player.
func NewLibrary(dir string, player *Player, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}

	return &Library{dir: dir, player: player, logger: logger}
}

// Dir is the cue directory.
func (l *Library) Dir() string {
	return l.dir
}

// Path returns the file used for s.
func (l *Library) Path(s cue.Slot) (string, error) {
	for _, ext := range Extensions {
		p := filepath.Join(l.dir, s.String()+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%s in %s: %w", s, l.dir, ErrCueNotFound)
}

// Load implements cue.Loader. The whole file is decoded and resampled to the
// player rate up front so Play does no I/O.
func (l *Library) Load(s cue.Slot) (cue.Sound, error) {
	path, err := l.Path(s)
	if err != nil {
		return nil, err
	}

	streamer, format, err := Decode(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := streamer.Close(); err != nil {
			l.logger.Warn("failed to close cue file", "path", path, "error", err)
		}
	}()

	target := l.player.Format()
	buf := beep.NewBuffer(target)

	var src beep.Streamer = streamer
	if format.SampleRate != target.SampleRate {
		src = beep.Resample(ResampleQuality, format.SampleRate, target.SampleRate, streamer)
	}
	buf.Append(src)

	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	l.logger.Debug("cue loaded", "slot", s.String(), "path", path, "samples", buf.Len())

	return &Clip{buf: buf, player: l.player}, nil
}

// Clip is a decoded sound held in memory.
type Clip struct {
	buf    *beep.Buffer
	player *Player
}

// NewClip buffers s at the player's format.
func NewClip(player *Player, s beep.Streamer) *Clip {
	buf := beep.NewBuffer(player.Format())
	buf.Append(s)

	return &Clip{buf: buf, player: player}
}

// Len is the clip length in samples.
func (c *Clip) Len() int {
	return c.buf.Len()
}

// Play implements cue.Sound.
func (c *Clip) Play() {
	c.player.Play(c.buf.Streamer(0, c.buf.Len()))
}
