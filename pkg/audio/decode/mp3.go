// ABOUTME: MP3 sound decoder
// ABOUTME: Decodes MP3 lumps with go-mp3 and downmixes them to mono 16-bit
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 lumps
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3() Decoder {
	return &MP3Decoder{}
}

// Decode reads the whole stream and averages the two output channels
func (d *MP3Decoder) Decode(id string, data []byte) (*audio.Sample, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder for %s: %w", id, err)
	}

	// go-mp3 always outputs 16-bit little-endian stereo
	stereo, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error in %s: %w", id, err)
	}

	return &audio.Sample{
		ID:         id,
		Data:       downmixStereo16(stereo),
		SampleRate: decoder.SampleRate(),
		BitDepth:   16,
	}, nil
}

// downmixStereo16 averages interleaved 16-bit stereo frames into mono
func downmixStereo16(stereo []byte) []byte {
	frames := len(stereo) / 4
	mono := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		l := int32(int16(binary.LittleEndian.Uint16(stereo[i*4:])))
		r := int32(int16(binary.LittleEndian.Uint16(stereo[i*4+2:])))
		binary.LittleEndian.PutUint16(mono[i*2:], uint16(int16((l+r)/2)))
	}
	return mono
}
