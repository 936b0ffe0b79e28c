//go:build headless

// ABOUTME: Oto stub for headless builds
// ABOUTME: Reports that no audio device is available so callers fall back to no sound
package output

import (
	"fmt"
)

// Oto output implementation (stub)
type Oto struct {
	masterVolume
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	o := &Oto{}
	o.initVolume()
	return o
}

// Open always fails in headless builds
func (o *Oto) Open(sampleRate, bufferFrames int, fill Callback) (int, error) {
	return 0, fmt.Errorf("oto support not enabled (built with -tags headless)")
}

// Close releases resources
func (o *Oto) Close() error {
	return nil
}
