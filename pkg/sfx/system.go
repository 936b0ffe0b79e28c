// ABOUTME: Sound system construction and playback requests
// ABOUTME: Bridges asset providers and sound definitions to the mixer
package sfx

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/decode"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/output"
	"github.com/Resonate-Protocol/sfxmix/pkg/mixer"
	"github.com/hako/durafmt"
)

const (
	// MaxSfxVolume is the top of the user-facing volume scale
	MaxSfxVolume = 15

	// DefaultSfxVolume is used when Config.SfxVolume is nil
	DefaultSfxVolume = 8
)

// Provider supplies raw sound lumps by name
type Provider interface {
	FetchRawSamples(name string) ([]byte, error)
}

// Config holds sound system configuration
type Config struct {
	// SampleRate is the requested output rate (default: 44100)
	SampleRate int

	// BufferFrames is the output buffer depth (default: about one tic)
	BufferFrames int

	// Channels is the number of mixer channels (default: 32)
	Channels int

	// PitchVariation enables random-pitch support in the mixer
	PitchVariation bool

	// StrictHandles panics on out-of-range channel indexes
	StrictHandles bool

	// SfxVolume is the initial volume on the 0-15 scale. nil uses
	// DefaultSfxVolume; zero starts silent.
	SfxVolume *int

	// PrecacheWorkers bounds parallel decoding in Precache (default: 4)
	PrecacheWorkers int
}

// StartParams are the per-request playback parameters
type StartParams struct {
	// Volume 0-127 before the sound volume is applied
	Volume int

	// Separation 0-255, 128 is centre
	Separation int

	// Pitch 0-255, 128 is unchanged
	Pitch int

	// Priority overrides the sound's priority when non-zero
	Priority int

	Loop bool

	// LoopTics is how many tics a loop keeps playing without a refresh.
	// Zero loops until stopped.
	LoopTics int

	// Listener marks sounds from the primary viewpoint
	Listener bool

	// Ambient routes the sound to the single ambient channel
	Ambient bool
}

// DefaultStartParams returns full volume, centred, unpitched parameters
func DefaultStartParams() StartParams {
	p := mixer.DefaultParams()
	return StartParams{
		Volume:     p.Volume,
		Separation: p.Separation,
		Pitch:      p.Pitch,
	}
}

// System is the sound system
type System struct {
	config   Config
	provider Provider
	mixer    *mixer.Mixer
	noSound  bool

	mu        sync.Mutex
	sounds    map[int]*mixer.SoundDef
	byName    map[string]int
	sfxVolume int
	tic       int
}

// New creates the sound system and opens sink. A nil or failing sink
// puts the system in no-sound mode.
func New(config Config, provider Provider, sink output.Output) *System {
	level := DefaultSfxVolume
	if config.SfxVolume != nil {
		level = *config.SfxVolume
	}
	if config.PrecacheWorkers <= 0 {
		config.PrecacheWorkers = 4
	}

	m := mixer.New(mixer.Config{
		SampleRate:     config.SampleRate,
		BufferFrames:   config.BufferFrames,
		Channels:       config.Channels,
		PitchVariation: config.PitchVariation,
		StrictHandles:  config.StrictHandles,
	})

	s := &System{
		config:   config,
		provider: provider,
		mixer:    m,
		sounds:   make(map[int]*mixer.SoundDef),
		byName:   make(map[string]int),
	}
	s.SetSfxVolume(level)

	if sink == nil || provider == nil {
		log.Printf("Sound disabled: no output or asset provider")
		s.noSound = true
		return s
	}

	if err := m.Open(sink); err != nil {
		log.Printf("Sound disabled: %v", err)
		s.noSound = true
		return s
	}

	latency := time.Duration(m.BufferFrames()) * time.Second / time.Duration(m.SampleRate())
	log.Printf("Sound initialized: %dHz, %d channels, %d frame buffer (%s)",
		m.SampleRate(), m.Channels(), m.BufferFrames(), durafmt.Parse(latency).LimitFirstN(2))

	return s
}

// NoSound reports whether the system runs without output
func (s *System) NoSound() bool {
	return s.noSound
}

// Mixer returns the underlying mixer
func (s *System) Mixer() *mixer.Mixer {
	return s.mixer
}

// Close stops every sound and releases the output
func (s *System) Close() error {
	return s.mixer.Close()
}

// Register adds or replaces sound definitions
func (s *System) Register(defs ...mixer.SoundDef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range defs {
		def := defs[i]
		if old, ok := s.sounds[def.ID]; ok {
			delete(s.byName, old.Name)
		}
		s.sounds[def.ID] = &def
		if def.Name != "" {
			s.byName[def.Name] = def.ID
		}
	}
}

// SoundID returns the id registered under name
func (s *System) SoundID(name string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[name]
	return id, ok
}

// Sounds returns the registered definitions
func (s *System) Sounds() []mixer.SoundDef {
	s.mu.Lock()
	defer s.mu.Unlock()

	defs := make([]mixer.SoundDef, 0, len(s.sounds))
	for _, def := range s.sounds {
		defs = append(defs, *def)
	}
	return defs
}

func (s *System) sound(id int) (*mixer.SoundDef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.sounds[id]
	return def, ok
}

// SetSfxVolume sets the sound volume on the 0-15 scale
func (s *System) SetSfxVolume(level int) {
	if level < 0 {
		level = 0
	}
	if level > MaxSfxVolume {
		level = MaxSfxVolume
	}

	volume := level * 8
	if volume > mixer.MaxGain {
		volume = mixer.MaxGain
	}

	s.mu.Lock()
	s.sfxVolume = volume
	s.mu.Unlock()
}

// SfxVolume returns the mixer-scale sound volume, 0-127
func (s *System) SfxVolume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sfxVolume
}

// load fetches and resolves the sample of def. Missing or degenerate
// lumps fail here, before the mixer is touched.
func (s *System) load(def *mixer.SoundDef) (*audio.Sample, error) {
	raw, err := s.provider.FetchRawSamples(def.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", def.Name, err)
	}
	if len(raw) <= decode.MinLength {
		return nil, fmt.Errorf("%s: %w (%d bytes)", def.Name, decode.ErrTooShort, len(raw))
	}
	return s.mixer.Cache().Resolve(def.Name, raw)
}

// params converts request parameters to mixer parameters
func (s *System) params(p StartParams) mixer.Params {
	s.mu.Lock()
	volume := p.Volume * s.sfxVolume / mixer.MaxGain
	tic := s.tic
	s.mu.Unlock()

	mp := mixer.Params{
		Volume:     volume,
		Separation: p.Separation,
		Pitch:      p.Pitch,
		Priority:   p.Priority,
		Loop:       p.Loop,
	}
	if p.Loop && p.LoopTics > 0 {
		mp.LoopTimeout = tic + p.LoopTics
	}
	return mp
}

// StartSound plays soundID from origin using the priority policy and
// returns the channel, or NoChannel when nothing new started
func (s *System) StartSound(origin mixer.OriginID, soundID int, p StartParams) int {
	if s.noSound {
		return mixer.NoChannel
	}

	def, ok := s.sound(soundID)
	if !ok {
		log.Printf("StartSound: unknown sound %d", soundID)
		return mixer.NoChannel
	}

	sample, err := s.load(def)
	if err != nil {
		log.Printf("StartSound: %v", err)
		return mixer.NoChannel
	}

	slot, err := s.mixer.Play(mixer.Request{
		Sound:    def,
		Origin:   origin,
		Listener: p.Listener,
		Ambient:  p.Ambient,
		Params:   s.params(p),
	}, sample)
	if err != nil && !errors.Is(err, mixer.ErrLoopRefreshed) && !errors.Is(err, mixer.ErrNoChannel) {
		log.Printf("StartSound %s: %v", def.Name, err)
	}
	return slot
}

// StartSoundAt plays soundID on a caller-chosen channel, evicting its
// occupant
func (s *System) StartSoundAt(slot, soundID int, p StartParams) int {
	if s.noSound {
		return mixer.NoChannel
	}

	def, ok := s.sound(soundID)
	if !ok {
		log.Printf("StartSoundAt: unknown sound %d", soundID)
		return mixer.NoChannel
	}

	sample, err := s.load(def)
	if err != nil {
		log.Printf("StartSoundAt: %v", err)
		return mixer.NoChannel
	}

	slot, err = s.mixer.PlayDirect(slot, sample, mixer.Tag{Sound: def.ID}, s.params(p))
	if err != nil {
		log.Printf("StartSoundAt %s: %v", def.Name, err)
		return mixer.NoChannel
	}
	return slot
}

// UpdateSoundParams changes the parameters of a playing channel
func (s *System) UpdateSoundParams(slot int, p StartParams) error {
	if s.noSound {
		return nil
	}
	return s.mixer.UpdateParams(slot, s.params(p))
}

// StopSound stops every channel owned by origin
func (s *System) StopSound(origin mixer.OriginID) int {
	if s.noSound {
		return 0
	}
	return s.mixer.StopOrigin(origin)
}

// StopChannel stops one channel
func (s *System) StopChannel(slot int) error {
	if s.noSound {
		return nil
	}
	return s.mixer.Stop(slot)
}

// StopAll stops every channel
func (s *System) StopAll() {
	s.mixer.StopAll()
}

// IsPlaying reports whether slot is playing
func (s *System) IsPlaying(slot int) bool {
	if s.noSound {
		return false
	}
	return s.mixer.IsPlaying(slot)
}

// Tick advances the game tic and stops loops that were not refreshed
func (s *System) Tick(tic int) int {
	s.mu.Lock()
	s.tic = tic
	s.mu.Unlock()

	if s.noSound {
		return 0
	}
	return s.mixer.ExpireLoops(tic)
}

// Snapshot returns the state of every channel
func (s *System) Snapshot() []mixer.ChannelInfo {
	return s.mixer.Snapshot()
}

// Stats returns the mixer summary
func (s *System) Stats() mixer.Stats {
	return s.mixer.Stats()
}
