// ABOUTME: Mixer construction, configuration and backend bridge
// ABOUTME: Owns the channel pool, the sample cache and the pool lock
package mixer

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio/output"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/resample"
	"golang.org/x/time/rate"
)

const (
	// MaxChannels is the number of pre-allocated channel slots
	MaxChannels = 32

	// NoChannel is returned when no slot was claimed
	NoChannel = -1

	// DefaultSampleRate is the output rate requested when none is configured
	DefaultSampleRate = 44100

	// TicRate is the game tic frequency used to size the default buffer
	TicRate = 35
)

var (
	// ErrNoChannel is returned when the priority policy rejects a request
	ErrNoChannel = errors.New("no channel available")

	// ErrLoopRefreshed is returned when a request only refreshed a running loop
	ErrLoopRefreshed = errors.New("loop already playing, timeout refreshed")

	// ErrBadHandle is returned for channel indexes outside the pool
	ErrBadHandle = errors.New("channel handle out of range")

	// ErrNotPlaying is returned when updating a free channel
	ErrNotPlaying = errors.New("channel not playing")

	// ErrEmptySample is returned for samples without audio data
	ErrEmptySample = errors.New("sample has no audio data")
)

// Config holds mixer configuration
type Config struct {
	// SampleRate is the requested output rate (default: 44100)
	SampleRate int

	// BufferFrames is the backend buffer depth (default: about one tic)
	BufferFrames int

	// Channels is the number of usable slots, 1-32 (default: 32)
	Channels int

	// PitchVariation enables the pitch offset on resample steps
	PitchVariation bool

	// StrictHandles makes out-of-range channel indexes panic
	StrictHandles bool
}

// Stats summarises the mixer state
type Stats struct {
	SampleRate   int
	BufferFrames int
	Channels     int
	Active       int
	CacheEntries int
	CacheBytes   int64
}

// Mixer mixes the channel pool into stereo output
type Mixer struct {
	config Config

	// mu guards everything below it
	mu          sync.Mutex
	channels    [MaxChannels]channel
	numChannels int
	sampleRate  int
	pitch       *resample.PitchTable
	clock       uint64
	rotor       int
	ambient     int

	sink    output.Output
	dumping atomic.Bool
	cache   *Cache

	clampWarn rate.Sometimes
}

// New creates a mixer. The pool is usable before Open; output rate
// defaults to the requested one until a backend negotiates another.
func New(config Config) *Mixer {
	if config.SampleRate <= 0 {
		config.SampleRate = DefaultSampleRate
	}
	if config.BufferFrames <= 0 {
		config.BufferFrames = DefaultBufferFrames(config.SampleRate)
	}
	if config.Channels <= 0 || config.Channels > MaxChannels {
		config.Channels = MaxChannels
	}

	return &Mixer{
		config:      config,
		numChannels: config.Channels,
		sampleRate:  config.SampleRate,
		pitch:       resample.NewPitchTable(config.SampleRate),
		ambient:     NoChannel,
		cache:       NewCache(),
		clampWarn:   rate.Sometimes{First: 5, Interval: 10 * time.Second},
	}
}

// DefaultBufferFrames returns the power of two closest to one tic of audio
func DefaultBufferFrames(sampleRate int) int {
	target := sampleRate / TicRate
	frames := 1
	for frames*2 <= target {
		frames *= 2
	}
	if target-frames > frames*2-target {
		frames *= 2
	}
	if frames < 64 {
		frames = 64
	}
	return frames
}

// Open registers Mix as the callback of sink and adopts the negotiated rate
func (m *Mixer) Open(sink output.Output) error {
	rate, err := sink.Open(m.config.SampleRate, m.config.BufferFrames, m.Mix)
	if err != nil {
		return fmt.Errorf("failed to open audio output: %w", err)
	}

	if rate != m.config.SampleRate {
		log.Printf("Audio output negotiated %dHz instead of %dHz", rate, m.config.SampleRate)
	}

	m.SetSampleRate(rate)

	m.mu.Lock()
	m.sink = sink
	m.mu.Unlock()

	return nil
}

// Close stops every channel and releases the backend
func (m *Mixer) Close() error {
	m.mu.Lock()
	sink := m.sink
	m.sink = nil
	m.mu.Unlock()

	m.StopAll()

	if sink != nil {
		return sink.Close()
	}
	return nil
}

// SetSampleRate switches the mix rate, rebuilding the pitch table and the
// step of every playing channel
func (m *Mixer) SetSampleRate(rate int) {
	if rate <= 0 {
		return
	}

	table := resample.NewPitchTable(rate)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sampleRate = rate
	m.pitch = table
	for i := 0; i < m.numChannels; i++ {
		c := &m.channels[i]
		if c.active() {
			c.step = m.stepFor(c.sample.SampleRate, c.params.Pitch)
		}
	}
}

// SampleRate returns the current mix rate
func (m *Mixer) SampleRate() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sampleRate
}

// BufferFrames returns the configured backend buffer depth
func (m *Mixer) BufferFrames() int {
	return m.config.BufferFrames
}

// Channels returns the number of usable slots
func (m *Mixer) Channels() int {
	return m.numChannels
}

// Cache returns the mixer's sample cache
func (m *Mixer) Cache() *Cache {
	return m.cache
}

// SetDumping silences the live callback so only Capture advances channels
func (m *Mixer) SetDumping(dumping bool) {
	m.dumping.Store(dumping)
}

// Dumping reports whether capture mode is active
func (m *Mixer) Dumping() bool {
	return m.dumping.Load()
}

// Stats returns a summary of the mixer state
func (m *Mixer) Stats() Stats {
	m.mu.Lock()
	stats := Stats{
		SampleRate:   m.sampleRate,
		BufferFrames: m.config.BufferFrames,
		Channels:     m.numChannels,
		Active:       m.activeLocked(),
	}
	m.mu.Unlock()

	stats.CacheEntries = m.cache.Len()
	stats.CacheBytes = m.cache.Bytes()
	return stats
}

// checkHandle validates a slot index, panicking in strict mode
func (m *Mixer) checkHandle(slot int) bool {
	if slot >= 0 && slot < m.numChannels {
		return true
	}
	if m.config.StrictHandles {
		panic(fmt.Sprintf("mixer: channel %d out of range [0,%d)", slot, m.numChannels))
	}
	return false
}
