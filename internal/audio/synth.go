package audio

import (
	"math"
	"time"

	"github.com/alkime/breathe/internal/cue"
	"github.com/faiface/beep"
)

// Tone describes a synthesized chime.
type Tone struct {
	// Partials are the frequencies in Hz, mixed with falling weight.
	Partials []float64
	Length   time.Duration
	// Decay is the exponential decay rate per second.
	Decay float64
	Gain  float64
}

const attack = 5 * time.Millisecond

// Tones holds the chime for every cue slot.
var Tones = [cue.NumSlots]Tone{
	cue.InhaleStart: {Partials: []float64{523.25, 1046.5}, Length: 1200 * time.Millisecond, Decay: 3, Gain: 0.5},
	cue.Hold1Start:  {Partials: []float64{659.25, 1318.5}, Length: 900 * time.Millisecond, Decay: 4, Gain: 0.4},
	cue.ExhaleStart: {Partials: []float64{392.0, 784.0}, Length: 1200 * time.Millisecond, Decay: 3, Gain: 0.5},
	cue.Hold2Start:  {Partials: []float64{329.63, 659.25}, Length: 900 * time.Millisecond, Decay: 4, Gain: 0.4},
	cue.SessionEnd:  {Partials: []float64{523.25, 783.99, 1046.5}, Length: 3 * time.Second, Decay: 1.2, Gain: 0.5},
}

// Chime renders tone at sr. The stream ends after tone.Length.
func Chime(sr beep.SampleRate, tone Tone) beep.Streamer {
	total := sr.N(tone.Length)
	rise := float64(sr.N(attack))
	rate := float64(sr)

	weight := 0.0
	for i := range tone.Partials {
		weight += 1 / float64(i+1)
	}

	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}

		n := 0
		for ; n < len(samples) && pos < total; n++ {
			t := float64(pos) / rate

			env := math.Exp(-tone.Decay * t)
			if f := float64(pos); f < rise {
				env *= f / rise
			}

			v := 0.0
			for i, hz := range tone.Partials {
				v += math.Sin(2*math.Pi*hz*t) / float64(i+1)
			}
			if weight > 0 {
				v = v / weight * env * tone.Gain
			}

			samples[n] = [2]float64{v, v}
			pos++
		}

		return n, true
	})
}

// SynthLoader is a cue.Loader that plays synthesized chimes, for when no cue
// files are installed.
type SynthLoader struct {
	player *Player
}

// NewSynthLoader creates a loader playing through player.
func NewSynthLoader(player *Player) *SynthLoader {
	return &SynthLoader{player: player}
}

// Load implements cue.Loader.
func (s *SynthLoader) Load(slot cue.Slot) (cue.Sound, error) {
	if !slot.Valid() {
		return nil, nil
	}
	return NewClip(s.player, Chime(s.player.Format().SampleRate, Tones[slot])), nil
}
