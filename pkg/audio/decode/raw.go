// ABOUTME: Headerless raw sound decoder
// ABOUTME: Strips the 8-byte lump header and exposes unsigned 8-bit samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
)

const (
	// RawHeaderSize is the size of the leading header of a raw lump
	RawHeaderSize = 8

	rawRateOffset = 2
)

// RawDecoder decodes headerless raw sound lumps
type RawDecoder struct{}

// NewRaw creates a new raw decoder
func NewRaw() Decoder {
	return &RawDecoder{}
}

// Decode returns a sample that aliases the lump bytes after the header
func (d *RawDecoder) Decode(id string, data []byte) (*audio.Sample, error) {
	if len(data) <= RawHeaderSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", id, ErrTooShort, len(data))
	}

	rate := int(binary.LittleEndian.Uint16(data[rawRateOffset:]))
	if rate == 0 {
		return nil, fmt.Errorf("%w: %s declares a zero sample rate", ErrUnsupportedFormat, id)
	}

	return &audio.Sample{
		ID:         id,
		Data:       data[RawHeaderSize:],
		SampleRate: rate,
		BitDepth:   8,
	}, nil
}
