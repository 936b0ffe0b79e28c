// ABOUTME: Channel pool state and lifecycle
// ABOUTME: Slot claiming, release, lookup, loop expiry and snapshots
package mixer

import (
	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
)

// OriginID identifies an in-world sound emitter
type OriginID uint64

// NoOrigin marks sounds that are not attached to an emitter
const NoOrigin OriginID = 0

// Unlimited lifts the per-sound instance limit
const Unlimited = -1

// Tag identifies what a channel is playing, for duplicate detection
type Tag struct {
	Sound  int
	Origin OriginID
}

// SoundDef describes a sound effect for the priority policy
type SoundDef struct {
	ID   int
	Name string

	// Priority ranks the sound's ambient use and is the default request priority
	Priority int

	// MaxInstances caps concurrent channels of this sound among emitters.
	// Zero or Unlimited means no cap.
	MaxInstances int
}

// ChannelInfo is a read-only snapshot of one slot
type ChannelInfo struct {
	Slot        int
	Active      bool
	Tag         Tag
	SoundName   string
	SampleID    string
	Left        int
	Right       int
	Priority    int
	Loop        bool
	LoopTimeout int
	Step        uint32
	Position    int
	Length      int
	StartTime   uint64
}

type channel struct {
	// sample is borrowed from the cache or the asset provider; nil means free
	sample *audio.Sample
	data   []byte
	width  int

	// byte cursors into data
	pos   int
	start int
	end   int

	// 16.16 fixed-point advance
	step      uint32
	remainder uint32

	left  int
	right int

	loop        bool
	loopTimeout int
	startTime   uint64
	tag         Tag
	sound       *SoundDef
	priority    int
	params      Params
}

func (c *channel) active() bool {
	return c.sample != nil
}

func (c *channel) info(slot int) ChannelInfo {
	info := ChannelInfo{Slot: slot, Active: c.active()}
	if !info.Active {
		return info
	}
	info.Tag = c.tag
	info.SampleID = c.sample.ID
	if c.sound != nil {
		info.SoundName = c.sound.Name
	}
	info.Left = c.left
	info.Right = c.right
	info.Priority = c.priority
	info.Loop = c.loop
	info.LoopTimeout = c.loopTimeout
	info.Step = c.step
	info.Position = c.pos / c.width
	info.Length = c.end / c.width
	info.StartTime = c.startTime
	return info
}

// claim starts sample on slot. Caller holds m.mu and has released the slot.
func (m *Mixer) claim(slot int, s *audio.Sample, tag Tag, def *SoundDef, p Params, left, right int) {
	width := s.BytesPerSample()
	m.clock++

	m.channels[slot] = channel{
		sample:      s,
		data:        s.Data,
		width:       width,
		end:         len(s.Data) - len(s.Data)%width,
		step:        m.stepFor(s.SampleRate, p.Pitch),
		left:        left,
		right:       right,
		loop:        p.Loop,
		loopTimeout: p.LoopTimeout,
		startTime:   m.clock,
		tag:         tag,
		sound:       def,
		priority:    p.Priority,
		params:      p,
	}
}

// release frees slot. Caller holds m.mu.
func (m *Mixer) release(slot int) {
	m.channels[slot] = channel{}
	if m.ambient == slot {
		m.ambient = NoChannel
	}
}

func (m *Mixer) activeLocked() int {
	n := 0
	for i := 0; i < m.numChannels; i++ {
		if m.channels[i].active() {
			n++
		}
	}
	return n
}

// Stop frees a channel. Stopping a free channel is a no-op.
func (m *Mixer) Stop(slot int) error {
	if !m.checkHandle(slot) {
		return ErrBadHandle
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.release(slot)
	return nil
}

// StopOrigin frees every channel owned by origin and returns how many
func (m *Mixer) StopOrigin(origin OriginID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	stopped := 0
	for i := 0; i < m.numChannels; i++ {
		c := &m.channels[i]
		if c.active() && c.tag.Origin == origin {
			m.release(i)
			stopped++
		}
	}
	return stopped
}

// StopAll frees every channel
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < m.numChannels; i++ {
		m.release(i)
	}
	m.ambient = NoChannel
}

// IsPlaying reports whether slot holds a sample
func (m *Mixer) IsPlaying(slot int) bool {
	if !m.checkHandle(slot) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[slot].active()
}

// Active returns the number of playing channels
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked()
}

// Lookup returns the first playing slot with the given tag
func (m *Mixer) Lookup(tag Tag) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < m.numChannels; i++ {
		c := &m.channels[i]
		if c.active() && c.tag == tag {
			return i, true
		}
	}
	return NoChannel, false
}

// ExpireLoops stops looping channels whose timeout tic is before tic.
// A zero timeout never expires.
func (m *Mixer) ExpireLoops(tic int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for i := 0; i < m.numChannels; i++ {
		c := &m.channels[i]
		if c.active() && c.loop && c.loopTimeout > 0 && c.loopTimeout < tic {
			m.release(i)
			expired++
		}
	}
	return expired
}

// Snapshot returns the state of every usable slot
func (m *Mixer) Snapshot() []ChannelInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]ChannelInfo, m.numChannels)
	for i := 0; i < m.numChannels; i++ {
		infos[i] = m.channels[i].info(i)
	}
	return infos
}

// Info returns the snapshot of one slot
func (m *Mixer) Info(slot int) (ChannelInfo, error) {
	if !m.checkHandle(slot) {
		return ChannelInfo{}, ErrBadHandle
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[slot].info(slot), nil
}

func checkSample(s *audio.Sample) error {
	if s == nil || s.Frames() == 0 {
		return ErrEmptySample
	}
	return nil
}
