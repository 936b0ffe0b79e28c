// ABOUTME: Raw PCM dump encoder
// ABOUTME: Writes headerless little-endian 16-bit or unsigned 8-bit frames
package encode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
)

// PCMEncoder writes headerless PCM
type PCMEncoder struct {
	w        io.Writer
	bitDepth int
	buf      []byte
}

// NewPCM creates a new raw PCM encoder
func NewPCM(w io.Writer, format audio.Format) (Encoder, error) {
	if format.Codec != CodecPCM {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	return &PCMEncoder{
		w:        w,
		bitDepth: format.BitDepth,
	}, nil
}

// Encode converts frames to PCM bytes and writes them
func (e *PCMEncoder) Encode(frames []int16) error {
	width := e.bitDepth / 8
	size := len(frames) * width
	if cap(e.buf) < size {
		e.buf = make([]byte, size)
	}
	out := e.buf[:size]

	if e.bitDepth == 8 {
		for i, sample := range frames {
			out[i] = audio.Sample16To8(sample)
		}
	} else {
		for i, sample := range frames {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
		}
	}

	if _, err := e.w.Write(out); err != nil {
		return fmt.Errorf("failed to write PCM: %w", err)
	}
	return nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}
