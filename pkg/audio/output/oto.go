//go:build !headless

// ABOUTME: Oto-based audio output implementation
// ABOUTME: Pull-model backend where oto reads mixed frames from the callback
package output

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

var (
	// oto allows a single context per process
	globalOtoMutex sync.Mutex
	globalContext  *oto.Context
	globalRate     int
)

// Oto output implementation using oto library
type Oto struct {
	masterVolume

	mu         sync.Mutex
	player     *oto.Player
	fill       atomic.Pointer[Callback]
	scratch    []int16
	sampleRate int
}

// NewOto creates a new Oto output
func NewOto() *Oto {
	o := &Oto{}
	o.initVolume()
	return o
}

// Open initializes the oto context and starts pulling from fill
func (o *Oto) Open(sampleRate, bufferFrames int, fill Callback) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player != nil {
		return 0, fmt.Errorf("output already open")
	}

	ctx, rate, err := otoContext(sampleRate, bufferFrames)
	if err != nil {
		return 0, err
	}

	o.sampleRate = rate
	// Sized for the player buffer so Read never allocates.
	o.scratch = make([]int16, bufferFrames*2)
	o.fill.Store(&fill)

	o.player = ctx.NewPlayer(o)
	o.player.SetBufferSize(bufferFrames * 4)
	o.player.Play()

	log.Printf("Audio output initialized: %dHz, 2 channels, %d frame buffer", rate, bufferFrames)

	return rate, nil
}

// otoContext returns the process-wide context, creating it on first use
func otoContext(sampleRate, bufferFrames int) (*oto.Context, int, error) {
	globalOtoMutex.Lock()
	defer globalOtoMutex.Unlock()

	if globalContext != nil {
		if globalRate != sampleRate {
			log.Printf("Warning: oto context already running at %dHz, ignoring requested %dHz", globalRate, sampleRate)
		}
		return globalContext, globalRate, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferFrames) * time.Second / time.Duration(sampleRate),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	globalContext = ctx
	globalRate = sampleRate
	return ctx, sampleRate, nil
}

// Read is called by oto on its audio thread
func (o *Oto) Read(p []byte) (int, error) {
	fill := o.fill.Load()
	if fill == nil {
		clear(p)
		return len(p), nil
	}

	n := pull(p, o.scratch, *fill, &o.masterVolume)
	if n == 0 {
		clear(p)
		return len(p), nil
	}
	return n, nil
}

// Close stops pulling from the callback
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.fill.Store(nil)
	if o.player != nil {
		err := o.player.Close()
		o.player = nil
		if err != nil {
			return fmt.Errorf("failed to close oto player: %w", err)
		}
	}
	return nil
}
