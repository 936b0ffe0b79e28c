// ABOUTME: Channel allocation policies
// ABOUTME: Direct-slot claiming and the priority policy with instance limits
package mixer

import (
	"errors"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
)

// ErrNoSound is returned when a priority request carries no sound definition
var ErrNoSound = errors.New("request has no sound definition")

// Request is a playback request for the priority policy
type Request struct {
	Sound  *SoundDef
	Origin OriginID

	// Listener marks the primary viewpoint emitter, which may hold any
	// number of channels
	Listener bool

	// Ambient requests share a single channel
	Ambient bool

	// Params.Priority of zero falls back to Sound.Priority
	Params Params
}

// PlayDirect starts s on slot, evicting whatever plays there. Duplicate
// suppression is up to the caller, see Lookup.
func (m *Mixer) PlayDirect(slot int, s *audio.Sample, tag Tag, p Params) (int, error) {
	if !m.checkHandle(slot) {
		return NoChannel, ErrBadHandle
	}
	if err := checkSample(s); err != nil {
		return NoChannel, err
	}

	left, right := m.gains(p)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.release(slot)
	m.claim(slot, s, tag, nil, p, left, right)
	return slot, nil
}

// Play starts s on a channel chosen by the priority policy. No channel is
// mutated when the request is rejected.
func (m *Mixer) Play(req Request, s *audio.Sample) (int, error) {
	if req.Sound == nil {
		return NoChannel, ErrNoSound
	}
	if err := checkSample(s); err != nil {
		return NoChannel, err
	}

	p := req.Params
	if p.Priority == 0 {
		p.Priority = req.Sound.Priority
	}
	tag := Tag{Sound: req.Sound.ID, Origin: req.Origin}
	left, right := m.gains(p)

	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Loop && m.refreshLoop(tag, p.LoopTimeout) {
		return NoChannel, ErrLoopRefreshed
	}

	slot, victim, ok := m.pickChannel(req, p.Priority)
	if !ok {
		return NoChannel, ErrNoChannel
	}

	if victim != NoChannel && victim != slot {
		m.release(victim)
	}
	m.release(slot)
	m.claim(slot, s, tag, req.Sound, p, left, right)
	if req.Ambient {
		m.ambient = slot
	}
	return slot, nil
}

// refreshLoop pushes back the timeout of a loop already playing tag
func (m *Mixer) refreshLoop(tag Tag, timeout int) bool {
	for i := 0; i < m.numChannels; i++ {
		c := &m.channels[i]
		if c.active() && c.loop && c.tag == tag {
			c.loopTimeout = timeout
			c.params.LoopTimeout = timeout
			return true
		}
	}
	return false
}

// pickChannel selects the slot for a request. victim is an instance of
// the same sound that must also be freed. Caller holds m.mu.
func (m *Mixer) pickChannel(req Request, priority int) (slot, victim int, ok bool) {
	victim, ok = m.makeRoomForInstance(req.Sound, priority)
	if !ok {
		return NoChannel, NoChannel, false
	}

	if !req.Listener && req.Origin != NoOrigin {
		for i := 0; i < m.numChannels; i++ {
			c := &m.channels[i]
			if c.active() && c.tag.Origin == req.Origin {
				return i, victim, true
			}
		}
	}

	// A stronger ambient sound takes over the ambient role; the one it
	// displaces keeps playing on its own channel.
	if req.Ambient && m.ambient != NoChannel {
		current := &m.channels[m.ambient]
		if current.active() && current.sound != nil && req.Sound.Priority <= current.sound.Priority {
			return NoChannel, NoChannel, false
		}
	}

	if victim != NoChannel {
		return victim, NoChannel, true
	}

	for i := 0; i < m.numChannels; i++ {
		if !m.channels[i].active() {
			return i, NoChannel, true
		}
	}

	// Pool is full. The rotor advances on every scan so evictions spread
	// across slots; the lowest priority at or below the request's wins.
	m.rotor = (m.rotor + 1) % m.numChannels
	best := NoChannel
	for k := 0; k < m.numChannels; k++ {
		i := (m.rotor + k) % m.numChannels
		c := &m.channels[i]
		if priority < c.priority {
			continue
		}
		if best == NoChannel || c.priority < m.channels[best].priority {
			best = i
		}
	}
	if best == NoChannel {
		return NoChannel, NoChannel, false
	}
	return best, NoChannel, true
}

// makeRoomForInstance enforces SoundDef.MaxInstances among emitters. It
// returns the instance to evict, or NoChannel when under the limit.
func (m *Mixer) makeRoomForInstance(def *SoundDef, priority int) (int, bool) {
	if def.MaxInstances <= 0 {
		return NoChannel, true
	}

	instances := 0
	lowest := NoChannel
	for i := 0; i < m.numChannels; i++ {
		c := &m.channels[i]
		if !c.active() || c.sound == nil || c.sound.ID != def.ID || c.tag.Origin == NoOrigin {
			continue
		}
		instances++
		if lowest == NoChannel || lowerInstance(c, &m.channels[lowest]) {
			lowest = i
		}
	}

	if instances < def.MaxInstances {
		return NoChannel, true
	}

	c := &m.channels[lowest]
	if priority > c.priority || (priority == c.priority && !c.loop) {
		return lowest, true
	}
	return NoChannel, false
}

// lowerInstance orders instances by priority, one-shots before loops
func lowerInstance(a, b *channel) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return !a.loop && b.loop
}
