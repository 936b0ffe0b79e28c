// ABOUTME: Tests for the sound system facade
// ABOUTME: Tests asset short-circuits, no-sound mode, volume, loops, precache and dumps
package sfx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Resonate-Protocol/sfxmix/internal/assets"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/output"
	"github.com/Resonate-Protocol/sfxmix/pkg/mixer"
)

// memoryProvider serves the given lumps by name
func memoryProvider(lumps map[string][]byte) *assets.Memory {
	provider := assets.NewMemory()
	for name, lump := range lumps {
		provider.Add(name, lump)
	}
	return provider
}

type brokenOutput struct{}

func (brokenOutput) Open(int, int, output.Callback) (int, error) {
	return 0, errors.New("device busy")
}

func (brokenOutput) Close() error { return nil }

func rawLump(rate uint16, frames int) []byte {
	lump := make([]byte, 8+frames)
	binary.LittleEndian.PutUint16(lump[2:], rate)
	for i := 8; i < len(lump); i++ {
		lump[i] = byte(i)
	}
	return lump
}

func wavLump(rate uint32, pcm []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, rate)
	binary.Write(buf, binary.LittleEndian, rate)
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(8))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

func newTestSystem(t *testing.T) (*System, *output.Headless) {
	t.Helper()

	provider := memoryProvider(map[string][]byte{
		"dspistol": rawLump(11025, 2000),
		"dsshotgn": wavLump(11025, make([]byte, 2000)),
		"dsstnmov": rawLump(11025, 2000),
		"dstiny":   rawLump(11025, 0),
	})
	sink := output.NewHeadless()
	s := New(Config{SampleRate: 11025, Channels: 8}, provider, sink)
	if s.NoSound() {
		t.Fatal("expected sound to be enabled")
	}

	s.Register(
		mixer.SoundDef{ID: 1, Name: "dspistol", Priority: 64},
		mixer.SoundDef{ID: 2, Name: "dsshotgn", Priority: 64},
		mixer.SoundDef{ID: 3, Name: "dsstnmov", Priority: 70},
		mixer.SoundDef{ID: 4, Name: "dsmissing", Priority: 64},
		mixer.SoundDef{ID: 5, Name: "dstiny", Priority: 64},
	)
	return s, sink
}

func TestNewOpensOutput(t *testing.T) {
	s, sink := newTestSystem(t)
	defer s.Close()

	if sink.SampleRate() != 11025 {
		t.Errorf("expected sink opened at 11025, got %d", sink.SampleRate())
	}
	if s.SfxVolume() != DefaultSfxVolume*8 {
		t.Errorf("expected default volume %d, got %d", DefaultSfxVolume*8, s.SfxVolume())
	}
}

func TestNoSoundFallback(t *testing.T) {
	tests := []struct {
		name string
		sink output.Output
	}{
		{"failing output", brokenOutput{}},
		{"no output", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{}, memoryProvider(map[string][]byte{"dspistol": rawLump(11025, 100)}), tt.sink)
			if !s.NoSound() {
				t.Fatal("expected no-sound mode")
			}
			s.Register(mixer.SoundDef{ID: 1, Name: "dspistol", Priority: 64})

			if slot := s.StartSound(1, 1, DefaultStartParams()); slot != mixer.NoChannel {
				t.Errorf("expected NoChannel, got %d", slot)
			}
			if slot := s.StartSoundAt(0, 1, DefaultStartParams()); slot != mixer.NoChannel {
				t.Errorf("expected NoChannel, got %d", slot)
			}
			if err := s.UpdateSoundParams(0, DefaultStartParams()); err != nil {
				t.Errorf("expected no-op update, got %v", err)
			}
			if err := s.StopChannel(99); err != nil {
				t.Errorf("expected no-op stop, got %v", err)
			}
			if s.Stats().Active != 0 {
				t.Error("expected no active channels")
			}
		})
	}
}

func TestStartSoundShortCircuits(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	for _, id := range []int{4, 5, 99} {
		if slot := s.StartSound(1, id, DefaultStartParams()); slot != mixer.NoChannel {
			t.Errorf("sound %d: expected NoChannel, got %d", id, slot)
		}
	}
	if s.Stats().Active != 0 {
		t.Errorf("expected pool untouched, got %d active", s.Stats().Active)
	}
}

func TestStartSound(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	raw := s.StartSound(1, 1, DefaultStartParams())
	if raw == mixer.NoChannel {
		t.Fatal("expected raw sound to start")
	}
	wav := s.StartSound(2, 2, DefaultStartParams())
	if wav == mixer.NoChannel {
		t.Fatal("expected WAV sound to start")
	}
	if raw == wav {
		t.Error("expected distinct channels for distinct origins")
	}

	stats := s.Stats()
	if stats.Active != 2 {
		t.Errorf("expected 2 active, got %d", stats.Active)
	}
	if stats.CacheEntries != 1 {
		t.Errorf("expected only the WAV cached, got %d entries", stats.CacheEntries)
	}
	if !s.IsPlaying(raw) || !s.IsPlaying(wav) {
		t.Error("expected both channels playing")
	}

	if n := s.StopSound(1); n != 1 {
		t.Errorf("expected 1 channel stopped, got %d", n)
	}
}

func TestStartSoundAppliesSfxVolume(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	s.SetSfxVolume(MaxSfxVolume + 5)
	if s.SfxVolume() != 120 {
		t.Fatalf("expected volume 120, got %d", s.SfxVolume())
	}

	slot := s.StartSound(1, 1, DefaultStartParams())
	info, _ := s.Mixer().Info(slot)
	left, right, _ := mixer.StereoGains(120, 128)
	if info.Left != left || info.Right != right {
		t.Errorf("expected gains %d/%d, got %d/%d", left, right, info.Left, info.Right)
	}

	s.SetSfxVolume(-1)
	if s.SfxVolume() != 0 {
		t.Errorf("expected volume 0, got %d", s.SfxVolume())
	}
}

func TestNewStartsSilent(t *testing.T) {
	silent := 0
	s := New(Config{SampleRate: 11025, SfxVolume: &silent},
		memoryProvider(map[string][]byte{"dspistol": rawLump(11025, 100)}), output.NewHeadless())
	defer s.Close()
	s.Register(mixer.SoundDef{ID: 1, Name: "dspistol", Priority: 64})

	if s.SfxVolume() != 0 {
		t.Fatalf("expected silent start, got %d", s.SfxVolume())
	}

	slot := s.StartSound(1, 1, DefaultStartParams())
	if slot == mixer.NoChannel {
		t.Fatal("expected silent sounds to still get a channel")
	}
	info, _ := s.Mixer().Info(slot)
	if info.Left != 0 || info.Right != 0 {
		t.Errorf("expected zero gains, got %d/%d", info.Left, info.Right)
	}
}

func TestStartSoundAt(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	if slot := s.StartSoundAt(5, 1, DefaultStartParams()); slot != 5 {
		t.Errorf("expected slot 5, got %d", slot)
	}
	if slot := s.StartSoundAt(5, 2, DefaultStartParams()); slot != 5 {
		t.Errorf("expected slot 5 reused, got %d", slot)
	}
	if s.Stats().Active != 1 {
		t.Errorf("expected 1 active, got %d", s.Stats().Active)
	}
	if slot := s.StartSoundAt(50, 1, DefaultStartParams()); slot != mixer.NoChannel {
		t.Errorf("expected NoChannel for bad slot, got %d", slot)
	}

	if err := s.StopChannel(5); err != nil {
		t.Errorf("stop failed: %v", err)
	}
	if s.IsPlaying(5) {
		t.Error("expected slot 5 stopped")
	}
}

func TestLoopTimeouts(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	s.Tick(10)

	p := DefaultStartParams()
	p.Loop = true
	p.LoopTics = 5
	slot := s.StartSound(7, 3, p)
	if slot == mixer.NoChannel {
		t.Fatal("expected loop to start")
	}

	if again := s.StartSound(7, 3, p); again != mixer.NoChannel {
		t.Errorf("expected refresh without a new channel, got %d", again)
	}

	if n := s.Tick(15); n != 0 {
		t.Errorf("expected loop alive at its timeout tic, %d expired", n)
	}
	if n := s.Tick(16); n != 1 {
		t.Errorf("expected loop expired, %d expired", n)
	}
	if s.IsPlaying(slot) {
		t.Error("expected loop channel free")
	}
}

func TestUpdateSoundParams(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	slot := s.StartSound(1, 1, DefaultStartParams())

	p := DefaultStartParams()
	p.Separation = 0
	if err := s.UpdateSoundParams(slot, p); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	info, _ := s.Mixer().Info(slot)
	if info.Right != 0 {
		t.Errorf("expected hard pan, got %d/%d", info.Left, info.Right)
	}
}

func TestRegisterAndLookup(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	if id, ok := s.SoundID("dsshotgn"); !ok || id != 2 {
		t.Errorf("expected id 2, got %d %v", id, ok)
	}

	s.Register(mixer.SoundDef{ID: 2, Name: "dsdshtgn", Priority: 64})
	if _, ok := s.SoundID("dsshotgn"); ok {
		t.Error("expected old name dropped")
	}
	if id, ok := s.SoundID("dsdshtgn"); !ok || id != 2 {
		t.Errorf("expected new name mapped to 2, got %d %v", id, ok)
	}
	if len(s.Sounds()) != 5 {
		t.Errorf("expected 5 sounds, got %d", len(s.Sounds()))
	}
}

func TestPrecache(t *testing.T) {
	s, _ := newTestSystem(t)
	defer s.Close()

	if n := s.Precache(); n != 3 {
		t.Errorf("expected 3 sounds resolved, got %d", n)
	}
	if s.Stats().CacheEntries != 1 {
		t.Errorf("expected 1 cached container, got %d", s.Stats().CacheEntries)
	}

	if n := s.Precache(2, 4, 404); n != 1 {
		t.Errorf("expected 1 named sound resolved, got %d", n)
	}
}

func TestCaptureWithoutDevice(t *testing.T) {
	s := New(Config{SampleRate: 11025}, memoryProvider(map[string][]byte{"dspistol": rawLump(11025, 100)}), nil)
	out := s.Capture(64)
	if len(out) != 128 {
		t.Fatalf("expected 128 samples, got %d", len(out))
	}
	for _, v := range out {
		if v != 0 {
			t.Fatal("expected silence from an empty pool")
		}
	}
}

func TestDump(t *testing.T) {
	s, sink := newTestSystem(t)
	defer s.Close()

	s.StartSound(1, 1, DefaultStartParams())

	pcm := new(bytes.Buffer)
	if err := s.Dump(pcm, 300, "pcm"); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if pcm.Len() != 300*4 {
		t.Errorf("expected %d bytes, got %d", 300*4, pcm.Len())
	}
	if s.Mixer().Dumping() {
		t.Error("expected dumping mode restored")
	}

	wav := new(bytes.Buffer)
	if err := s.Dump(wav, 100, "wav"); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	if !bytes.HasPrefix(wav.Bytes(), []byte("RIFF")) || wav.Len() <= 100*4 {
		t.Errorf("expected WAV output, got %d bytes", wav.Len())
	}

	if err := s.Dump(new(bytes.Buffer), 10, "ogg"); err == nil {
		t.Error("expected error for unsupported codec")
	}

	if sink.Pumped() != 0 {
		t.Errorf("expected the live output untouched, pumped %d", sink.Pumped())
	}
}
