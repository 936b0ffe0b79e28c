// ABOUTME: Interactive sound board application orchestration
// ABOUTME: Coordinates assets, the sound system, the game tic loop and the TUI
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Resonate-Protocol/sfxmix/internal/assets"
	"github.com/Resonate-Protocol/sfxmix/internal/ui"
	"github.com/Resonate-Protocol/sfxmix/internal/version"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/output"
	"github.com/Resonate-Protocol/sfxmix/pkg/mixer"
	"github.com/Resonate-Protocol/sfxmix/pkg/sfx"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// BoardPriority is the priority of board sounds
const BoardPriority = 64

// Config holds board configuration
type Config struct {
	AssetsDir      string
	SampleRate     int
	BufferFrames   int
	Channels       int
	PitchVariation bool
	StrictHandles  bool
	UseTUI         bool

	// Output overrides the audio device (default: oto)
	Output output.Output
}

// Board represents the sound board application
type Board struct {
	config   Config
	session  string
	provider *assets.Dir
	system   *sfx.System
	master   output.VolumeControl
	sounds   []string
	tuiProg  *tea.Program
	controls *ui.Controls
	ctx      context.Context
	cancel   context.CancelFunc
}

// New loads the asset directory and opens the sound system
func New(config Config) (*Board, error) {
	provider := assets.NewDir(config.AssetsDir)
	names, err := provider.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	sink := config.Output
	if sink == nil {
		sink = output.NewOto()
	}

	system := sfx.New(sfx.Config{
		SampleRate:     config.SampleRate,
		BufferFrames:   config.BufferFrames,
		Channels:       config.Channels,
		PitchVariation: config.PitchVariation,
		StrictHandles:  config.StrictHandles,
	}, provider, sink)

	for i, name := range names {
		system.Register(mixer.SoundDef{
			ID:           i + 1,
			Name:         name,
			Priority:     BoardPriority,
			MaxInstances: 2,
		})
	}

	ctx, cancel := context.WithCancel(context.Background())

	// nil when the sink has no master volume
	master, _ := sink.(output.VolumeControl)

	b := &Board{
		config:   config,
		session:  uuid.New().String(),
		provider: provider,
		system:   system,
		master:   master,
		sounds:   names,
		ctx:      ctx,
		cancel:   cancel,
	}

	log.Printf("%s session %s: %d sounds from %s", version.String(), b.session, len(names), config.AssetsDir)
	return b, nil
}

// Session returns the unique id of this run
func (b *Board) Session() string {
	return b.session
}

// Sounds returns the board sound names in key order
func (b *Board) Sounds() []string {
	return b.sounds
}

// System returns the underlying sound system
func (b *Board) System() *sfx.System {
	return b.system
}

// Start runs the tic loop and, if enabled, the TUI
func (b *Board) Start() error {
	if b.config.UseTUI {
		b.controls = ui.NewControls()
		tuiProg, err := ui.Run(b.controls)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		b.tuiProg = tuiProg

		go func() {
			if _, err := b.tuiProg.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
			b.cancel()
		}()
		go b.handleControls()
		go b.statusLoop()

		noSound := b.system.NoSound()
		status := ui.StatusMsg{Sounds: b.sounds, NoSound: &noSound, Volume: sfx.DefaultSfxVolume}
		if b.master != nil {
			level, muted := b.master.GetVolume(), b.master.IsMuted()
			status.Master, status.Muted = &level, &muted
		}
		b.tuiProg.Send(status)
	}

	go b.ticLoop()

	b.system.Precache()
	return nil
}

// Done is closed when the board stops
func (b *Board) Done() <-chan struct{} {
	return b.ctx.Done()
}

// Trigger plays a board sound. Each key acts as its own emitter, so
// pressing it again replaces the sound it is still playing.
func (b *Board) Trigger(index, separation int) int {
	if index < 0 || index >= len(b.sounds) {
		return mixer.NoChannel
	}

	p := sfx.DefaultStartParams()
	p.Separation = separation
	slot := b.system.StartSound(mixer.OriginID(index+1), index+1, p)
	if slot == mixer.NoChannel {
		log.Printf("No channel for %s", b.sounds[index])
	}
	return slot
}

// SetMasterVolume sets the output volume (0-100) applied after mixing.
// It reports false when the sink has no master volume.
func (b *Board) SetMasterVolume(level int) bool {
	if b.master == nil {
		return false
	}
	b.master.SetVolume(level)
	return true
}

// SetMuted mutes or unmutes the output. It reports false when the sink
// has no master volume.
func (b *Board) SetMuted(muted bool) bool {
	if b.master == nil {
		return false
	}
	b.master.SetMuted(muted)
	return true
}

// PlayAll plays every board sound once, waiting interval between them
func (b *Board) PlayAll(interval time.Duration) {
	for i, name := range b.sounds {
		slot := b.Trigger(i, mixer.NormSeparation)
		log.Printf("Playing %s on channel %d", name, slot)

		select {
		case <-time.After(interval):
		case <-b.ctx.Done():
			return
		}
	}
}

// ticLoop drives loop expiry at the game tic rate
func (b *Board) ticLoop() {
	ticker := time.NewTicker(time.Second / mixer.TicRate)
	defer ticker.Stop()

	tic := 0
	for {
		select {
		case <-ticker.C:
			tic++
			if n := b.system.Tick(tic); n > 0 {
				log.Printf("Expired %d loops at tic %d", n, tic)
			}
		case <-b.ctx.Done():
			return
		}
	}
}

// handleControls processes requests from the TUI
func (b *Board) handleControls() {
	for {
		select {
		case msg := <-b.controls.Trigger:
			b.Trigger(msg.Index, msg.Separation)
		case level := <-b.controls.Volume:
			log.Printf("Sound volume: %d", level)
			b.system.SetSfxVolume(level)
		case level := <-b.controls.Master:
			b.SetMasterVolume(level)
		case muted := <-b.controls.Mute:
			b.SetMuted(muted)
		case <-b.controls.StopAll:
			b.system.StopAll()
		case <-b.controls.Quit:
			b.cancel()
			return
		case <-b.ctx.Done():
			return
		}
	}
}

// statusLoop periodically updates the TUI with the channel pool
func (b *Board) statusLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := b.system.Stats()
			b.tuiProg.Send(ui.StatusMsg{
				Stats: &stats,
				Slots: b.system.Snapshot(),
			})
		case <-b.ctx.Done():
			return
		}
	}
}

// Stop stops the board
func (b *Board) Stop() {
	b.cancel()

	if err := b.system.Close(); err != nil {
		log.Printf("Error closing sound system: %v", err)
	}

	if b.tuiProg != nil {
		b.tuiProg.Quit()
	}
}
