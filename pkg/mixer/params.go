// ABOUTME: Parameter Update API for playing channels
// ABOUTME: Translates volume, separation and pitch into gains and resample steps
package mixer

import (
	"log"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio/resample"
)

const (
	// MaxGain is the loudest per-side channel gain
	MaxGain = 127

	// NormSeparation pans a sound to the centre
	NormSeparation = 128

	// NormPriority is the default request priority
	NormPriority = 64
)

// Params are the caller-facing playback parameters of a channel
type Params struct {
	// Volume 0-127
	Volume int

	// Separation 0-255, 128 is centre
	Separation int

	// Pitch 0-255, 128 is unchanged; ignored without pitch variation
	Pitch int

	// Priority ranks the channel for eviction
	Priority int

	Loop bool

	// LoopTimeout is the tic after which ExpireLoops stops the loop
	LoopTimeout int
}

// DefaultParams returns full volume, centred, unpitched parameters
func DefaultParams() Params {
	return Params{
		Volume:     MaxGain,
		Separation: NormSeparation,
		Pitch:      resample.NormPitch,
		Priority:   NormPriority,
	}
}

// UpdateParams recomputes step and gains of a playing channel. The pool
// lock is held for the whole update so the mixer never sees a new gain
// with a stale step.
func (m *Mixer) UpdateParams(slot int, p Params) error {
	if !m.checkHandle(slot) {
		return ErrBadHandle
	}

	left, right := m.gains(p)

	m.mu.Lock()
	defer m.mu.Unlock()

	c := &m.channels[slot]
	if !c.active() {
		return ErrNotPlaying
	}

	c.step = m.stepFor(c.sample.SampleRate, p.Pitch)
	c.left = left
	c.right = right
	c.loop = p.Loop
	c.loopTimeout = p.LoopTimeout
	c.params.Volume = p.Volume
	c.params.Separation = p.Separation
	c.params.Pitch = p.Pitch
	c.params.Loop = p.Loop
	c.params.LoopTimeout = p.LoopTimeout
	return nil
}

// stepFor returns the 16.16 step for a sample rate. Caller holds m.mu.
func (m *Mixer) stepFor(sampleRate, pitch int) uint32 {
	if m.config.PitchVariation {
		return m.pitch.Step(sampleRate, m.sampleRate, pitch)
	}
	return resample.Step(sampleRate, m.sampleRate)
}

// gains computes the stereo gains and logs when they had to be clamped
func (m *Mixer) gains(p Params) (int, int) {
	left, right, clamped := StereoGains(p.Volume, p.Separation)
	if clamped {
		m.clampWarn.Do(func() {
			log.Printf("Warning: gain out of range (volume=%d, separation=%d), clamped to %d/%d",
				p.Volume, p.Separation, left, right)
		})
	}
	return left, right
}

// StereoGains splits volume into left/right gains with an x² pan law.
// The result is always within [0,127]; clamped reports whether the raw
// values fell outside that range.
func StereoGains(volume, separation int) (left, right int, clamped bool) {
	sep := int64(separation) + 1
	vol := int64(volume)

	l := vol - (vol*sep*sep)>>16
	sep -= 257
	r := vol - (vol*sep*sep)>>16

	left, lc := clampGain(l)
	right, rc := clampGain(r)
	return left, right, lc || rc
}

func clampGain(g int64) (int, bool) {
	if g < 0 {
		return 0, true
	}
	if g > MaxGain {
		return MaxGain, true
	}
	return int(g), false
}
