// ABOUTME: Encoder interface definition
// ABOUTME: Common interface and format validation for all dump encoders
package encode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
)

// Codec names accepted by New
const (
	CodecPCM = "pcm"
	CodecWAV = "wav"
)

// Encoder writes interleaved stereo frames to an underlying writer
type Encoder interface {
	// Encode writes len(frames)/2 stereo frames
	Encode(frames []int16) error

	// Close flushes the encoder. The underlying writer is left open.
	Close() error
}

// New returns the encoder for format.Codec. frames is the total frame
// count, needed up front by containers that write a length header.
func New(w io.Writer, format audio.Format, frames int) (Encoder, error) {
	switch format.Codec {
	case CodecPCM:
		return NewPCM(w, format)
	case CodecWAV:
		return NewWAV(w, format, frames)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", format.Codec)
	}
}

// checkFormat validates the output layout against what the mixer produces
func checkFormat(format audio.Format) error {
	if format.Channels != 2 {
		return fmt.Errorf("unsupported channel count: %d (supported: 2)", format.Channels)
	}
	if format.BitDepth != 8 && format.BitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 8, 16)", format.BitDepth)
	}
	if format.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}
	return nil
}
