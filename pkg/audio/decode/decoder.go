// ABOUTME: Decoder interface definition
// ABOUTME: Common interface and format sniffing for all sound lump decoders
package decode

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
)

// Codec names returned by Detect
const (
	CodecRaw  = "raw"
	CodecWAV  = "wav"
	CodecFLAC = "flac"
	CodecMP3  = "mp3"
)

// MinLength is the largest lump size that is still rejected as degenerate
const MinLength = 8

var (
	// ErrTooShort is returned for lumps of MinLength bytes or fewer
	ErrTooShort = errors.New("sound lump too short")

	// ErrUnsupportedFormat is returned for containers the mixer cannot play
	ErrUnsupportedFormat = errors.New("unsupported sample format")
)

// Decoder converts a sound lump to a mono PCM sample
type Decoder interface {
	// Decode converts the lump bytes to a Sample tagged with id
	Decode(id string, data []byte) (*audio.Sample, error)
}

// New returns the decoder for a codec name
func New(codec string) (Decoder, error) {
	switch codec {
	case CodecRaw:
		return NewRaw(), nil
	case CodecWAV:
		return NewWAV(), nil
	case CodecFLAC:
		return NewFLAC(), nil
	case CodecMP3:
		return NewMP3(), nil
	default:
		return nil, fmt.Errorf("unsupported codec: %s", codec)
	}
}

// Detect sniffs the container magic of a lump
func Detect(data []byte) string {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return CodecWAV
	case len(data) >= 4 && bytes.Equal(data[0:4], []byte("fLaC")):
		return CodecFLAC
	case len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")):
		return CodecMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return CodecMP3
	default:
		return CodecRaw
	}
}

// IsContainer reports whether the lump carries a tagged container header
func IsContainer(data []byte) bool {
	return Detect(data) != CodecRaw
}

// Decode sniffs the lump and decodes it with the matching decoder
func Decode(id string, data []byte) (*audio.Sample, error) {
	if len(data) <= MinLength {
		return nil, fmt.Errorf("%s: %w (%d bytes)", id, ErrTooShort, len(data))
	}

	decoder, err := New(Detect(data))
	if err != nil {
		return nil, err
	}
	return decoder.Decode(id, data)
}

// checkPCM validates the container format against what the mixer plays
func checkPCM(codec string, channels, bitDepth int, integer bool) error {
	if channels != 1 {
		return fmt.Errorf("%w: %s with %d channels (supported: 1)", ErrUnsupportedFormat, codec, channels)
	}
	if !integer {
		return fmt.Errorf("%w: %s with non-integer encoding", ErrUnsupportedFormat, codec)
	}
	if bitDepth != 8 && bitDepth != 16 {
		return fmt.Errorf("%w: %s bit depth %d (supported: 8, 16)", ErrUnsupportedFormat, codec, bitDepth)
	}
	return nil
}
