package audio

import (
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// Player mixes any number of sounds into one stream. Play never blocks on
// the device; the device pulls mixed samples through Stream.
type Player struct {
	mu     sync.Mutex
	mixer  beep.Mixer
	volume effects.Volume
	format beep.Format
}

// NewPlayer creates a player producing stereo samples at sr.
func NewPlayer(sr beep.SampleRate) *Player {
	p := &Player{
		format: beep.Format{SampleRate: sr, NumChannels: DefaultPlaybackChannels, Precision: 2},
	}
	p.volume = effects.Volume{Streamer: &p.mixer, Base: 2}

	return p
}

// Format is the format of the mixed stream.
func (p *Player) Format() beep.Format {
	return p.format
}

// Play starts s alongside anything already playing.
func (p *Player) Play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mixer.Add(s)
}

// SetVolume sets the gain in halvings: 0 is unchanged, -1 half, 1 double.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume.Volume = v
}

// Active is the number of sounds still playing.
func (p *Player) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.mixer.Len()
}

// Clear stops everything.
func (p *Player) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.mixer.Clear()
}

// Stream implements beep.Streamer. It always fills samples, with silence
// when nothing plays.
func (p *Player) Stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.volume.Stream(samples)
}

// Err implements beep.Streamer.
func (p *Player) Err() error {
	return nil
}
