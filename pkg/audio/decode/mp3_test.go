// ABOUTME: Tests for MP3 decoder
// ABOUTME: Tests stereo downmix, decoding of a silent mono stream and rejection of malformed MP3 lumps
package decode

import (
	"encoding/binary"
	"testing"
)

func TestDownmixStereo16(t *testing.T) {
	stereo := make([]byte, 12)
	frames := [][2]int16{{100, 300}, {-1000, 1000}, {32767, 32767}}
	for i, f := range frames {
		binary.LittleEndian.PutUint16(stereo[i*4:], uint16(f[0]))
		binary.LittleEndian.PutUint16(stereo[i*4+2:], uint16(f[1]))
	}

	mono := downmixStereo16(stereo)
	if len(mono) != 6 {
		t.Fatalf("expected 6 bytes, got %d", len(mono))
	}

	expected := []int16{200, 0, 32767}
	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(mono[i*2:]))
		if got != want {
			t.Errorf("frame %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestDownmixStereo16_PartialFrame(t *testing.T) {
	mono := downmixStereo16([]byte{1, 2, 3})
	if len(mono) != 0 {
		t.Errorf("expected partial frame to be dropped, got %d bytes", len(mono))
	}
}

// silentMP3 builds MPEG-1 Layer III mono frames at 128 kbps and 44100 Hz
// whose side info and main data are all zero.
func silentMP3(frames int) []byte {
	const frameSize = 144 * 128000 / 44100
	lump := make([]byte, 0, frames*frameSize)
	for i := 0; i < frames; i++ {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0xC0})
		lump = append(lump, frame...)
	}
	return lump
}

func TestMP3Decode_SilentMono(t *testing.T) {
	lump := silentMP3(3)
	if codec := Detect(lump); codec != CodecMP3 {
		t.Fatalf("expected %s, got %s", CodecMP3, codec)
	}

	sample, err := Decode("dsmp3", lump)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if sample.SampleRate != 44100 {
		t.Errorf("expected rate 44100, got %d", sample.SampleRate)
	}
	if sample.BitDepth != 16 {
		t.Errorf("expected 16-bit, got %d", sample.BitDepth)
	}

	// 1152 samples per frame, downmixed to one 16-bit channel
	if want := 3 * 1152 * 2; len(sample.Data) != want {
		t.Fatalf("expected %d bytes, got %d", want, len(sample.Data))
	}
	for i, b := range sample.Data {
		if b != 0 {
			t.Fatalf("byte %d: expected silence, got %d", i, b)
		}
	}
}

func TestMP3Decode_Malformed(t *testing.T) {
	lump := append([]byte("ID3\x04\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)

	sample, err := NewMP3().Decode("broken", lump)
	if err == nil {
		t.Fatal("expected error for malformed stream, got nil")
	}
	if sample != nil {
		t.Fatal("expected nil sample for malformed stream")
	}
}
