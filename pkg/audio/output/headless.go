// ABOUTME: Headless audio output
// ABOUTME: Drives the callback synchronously for tests and offline rendering
package output

import (
	"sync"
)

// Headless is an output without a device. Frames are produced only
// when Pump is called.
type Headless struct {
	masterVolume

	mu           sync.Mutex
	fill         Callback
	grantedRate  int
	sampleRate   int
	bufferFrames int
	pumped       int
}

// NewHeadless creates a headless output that grants any requested rate
func NewHeadless() *Headless {
	h := &Headless{}
	h.initVolume()
	return h
}

// NewHeadlessWithRate creates a headless output that always negotiates
// the given rate, like a device that refuses the requested one
func NewHeadlessWithRate(rate int) *Headless {
	h := &Headless{grantedRate: rate}
	h.initVolume()
	return h
}

// Open registers the callback
func (h *Headless) Open(sampleRate, bufferFrames int, fill Callback) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fill = fill
	h.sampleRate = sampleRate
	if h.grantedRate > 0 {
		h.sampleRate = h.grantedRate
	}
	h.bufferFrames = bufferFrames
	return h.sampleRate, nil
}

// Pump invokes the callback for the given number of frames and returns
// the interleaved stereo result after the master volume
func (h *Headless) Pump(frames int) ([]int16, error) {
	h.mu.Lock()
	fill := h.fill
	h.mu.Unlock()

	if fill == nil {
		return nil, ErrNotOpen
	}

	buf := make([]int16, frames*2)
	fill(buf)
	h.apply(buf)

	h.mu.Lock()
	h.pumped += frames
	h.mu.Unlock()

	return buf, nil
}

// SampleRate returns the negotiated rate
func (h *Headless) SampleRate() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sampleRate
}

// BufferFrames returns the buffer depth requested at Open
func (h *Headless) BufferFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bufferFrames
}

// Pumped returns the total number of frames produced so far
func (h *Headless) Pumped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pumped
}

// Close unregisters the callback
func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fill = nil
	return nil
}
