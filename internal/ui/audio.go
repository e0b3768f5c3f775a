package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCheck
	SoundCastle
	SoundInvalid
	SoundGameEnd
)

const sampleRate = 44100

// AudioManager handles sound effect playback.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates a new audio manager. Only one may exist per process.
func NewAudioManager(enabled bool) *AudioManager {
	return &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  generateSounds(),
		enabled: enabled,
		volume:  0.5,
	}
}

// generateSounds synthesizes every effect up front.
func generateSounds() map[SoundType][]byte {
	click := func(freq float64) func(t, _ float64) float64 {
		return func(t, _ float64) float64 {
			wood := (math.Sin(t*sampleRate*0.3) + math.Sin(t*sampleRate*0.7)) * 0.3
			return (math.Sin(2*math.Pi*freq*t) + wood) * math.Exp(-t*30)
		}
	}

	move := synth(0.08, 0.3, click(440))
	capture := synth(0.12, 0.5, click(330))
	castle := concat(move, silence(0.05), synth(0.06, 0.25, click(480)))

	check := synth(0.15, 0.4, func(t, p float64) float64 {
		return math.Sin(2*math.Pi*880*t) * attackDecay(p, 0.1)
	})
	invalid := synth(0.1, 0.15, func(t, p float64) float64 {
		wave := math.Sin(2*math.Pi*150*t) + 0.3*math.Sin(4*math.Pi*150*t)
		return wave * (1 - p)
	})
	gameEnd := synth(0.4, 0.5, func(t, p float64) float64 {
		chord := 0.0
		for _, f := range []float64{261.63, 329.63, 392.00} {
			chord += math.Sin(2 * math.Pi * f * t)
		}
		env := 1.0
		if p < 0.1 {
			env = p / 0.1
		} else if p > 0.7 {
			env = (1 - p) / 0.3
		}
		return chord / 3 * env
	})

	return map[SoundType][]byte{
		SoundMove:    move,
		SoundCapture: capture,
		SoundCastle:  castle,
		SoundCheck:   check,
		SoundInvalid: invalid,
		SoundGameEnd: gameEnd,
	}
}

func attackDecay(progress, attack float64) float64 {
	if progress < attack {
		return progress / attack
	}
	return 1 - (progress-attack)/(1-attack)
}

// synth renders wave(t, progress) as 16-bit stereo PCM.
func synth(duration, amplitude float64, wave func(t, progress float64) float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		v := wave(t, t/duration) * amplitude
		v = math.Max(-1, math.Min(1, v))
		val := int16(v * 32767)
		for ch := 0; ch < 2; ch++ {
			data[i*4+ch*2] = byte(val)
			data[i*4+ch*2+1] = byte(val >> 8)
		}
	}
	return data
}

func silence(duration float64) []byte {
	return make([]byte, int(sampleRate*duration)*4)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Play plays a sound effect.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	// A new player per call lets sounds overlap.
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
