// ABOUTME: Audio output interface definition
// ABOUTME: Common pull-model interface, master volume and the frame pull helper for backends
package output

import (
	"encoding/binary"
	"errors"
	"log"
	"sync/atomic"
)

// ErrNotOpen is returned when a backend is used before Open
var ErrNotOpen = errors.New("output not initialized")

// Callback fills an interleaved stereo int16 buffer. It runs on the
// backend's audio thread and must not block.
type Callback func(frames []int16)

// Output represents an audio output device driven by a callback
type Output interface {
	// Open starts the device and registers fill as its periodic callback.
	// It returns the sample rate the device actually granted.
	Open(sampleRate, bufferFrames int, fill Callback) (int, error)

	// Close stops the callback and releases the device
	Close() error
}

// VolumeControl is implemented by outputs with a master volume applied
// after mixing
type VolumeControl interface {
	SetVolume(volume int)
	SetMuted(muted bool)
	GetVolume() int
	IsMuted() bool
}

// masterVolume is a 0-100 volume and mute flag read by the audio thread
type masterVolume struct {
	volume atomic.Int32
	muted  atomic.Bool
}

func (v *masterVolume) initVolume() {
	v.volume.Store(100)
}

// SetVolume sets the master volume (0-100)
func (v *masterVolume) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	v.volume.Store(int32(volume))
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets mute state
func (v *masterVolume) SetMuted(muted bool) {
	v.muted.Store(muted)
	log.Printf("Muted: %v", muted)
}

// GetVolume returns current volume
func (v *masterVolume) GetVolume() int {
	return int(v.volume.Load())
}

// IsMuted returns mute state
func (v *masterVolume) IsMuted() bool {
	return v.muted.Load()
}

func (v *masterVolume) apply(samples []int16) {
	applyVolume(samples, int(v.volume.Load()), v.muted.Load())
}

// pull renders whole frames from fill into scratch and serialises them
// little-endian into p. scratch is never grown, so a request larger than
// scratch is served short. It returns the number of bytes written.
func pull(p []byte, scratch []int16, fill Callback, v *masterVolume) int {
	samples := min(len(p)/2, len(scratch)) &^ 1
	buf := scratch[:samples]

	fill(buf)
	v.apply(buf)

	for i, sample := range buf {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(sample))
	}
	return samples * 2
}

// applyVolume scales samples in place by a 0-100 master volume
func applyVolume(samples []int16, volume int, muted bool) {
	if volume >= 100 && !muted {
		return
	}
	multiplier := getVolumeMultiplier(volume, muted)
	for i, sample := range samples {
		samples[i] = int16(int32(sample) * multiplier / 100)
	}
}

// getVolumeMultiplier calculates volume multiplier in percent
func getVolumeMultiplier(volume int, muted bool) int32 {
	if muted {
		return 0
	}
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return int32(volume)
}
