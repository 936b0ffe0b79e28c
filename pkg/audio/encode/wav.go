// ABOUTME: WAV dump encoder
// ABOUTME: Wraps youpy/go-wav to write stereo RIFF/WAVE files
package encode

import (
	"fmt"
	"io"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
	"github.com/youpy/go-wav"
)

// WAVEncoder writes a RIFF/WAVE stream
type WAVEncoder struct {
	writer   *wav.Writer
	bitDepth int
	samples  []wav.Sample
}

// NewWAV creates a WAV encoder for exactly frames stereo frames
func NewWAV(w io.Writer, format audio.Format, frames int) (Encoder, error) {
	if format.Codec != CodecWAV {
		return nil, fmt.Errorf("invalid codec for WAV encoder: %s", format.Codec)
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if frames < 0 {
		return nil, fmt.Errorf("invalid frame count: %d", frames)
	}

	return &WAVEncoder{
		writer:   wav.NewWriter(w, uint32(frames), uint16(format.Channels), uint32(format.SampleRate), uint16(format.BitDepth)),
		bitDepth: format.BitDepth,
	}, nil
}

// Encode writes frames as WAV samples
func (e *WAVEncoder) Encode(frames []int16) error {
	n := len(frames) / 2
	if cap(e.samples) < n {
		e.samples = make([]wav.Sample, n)
	}
	samples := e.samples[:n]

	for i := range samples {
		left, right := frames[i*2], frames[i*2+1]
		if e.bitDepth == 8 {
			samples[i].Values[0] = int(audio.Sample16To8(left))
			samples[i].Values[1] = int(audio.Sample16To8(right))
		} else {
			samples[i].Values[0] = int(left)
			samples[i].Values[1] = int(right)
		}
	}

	if err := e.writer.WriteSamples(samples); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}
	return nil
}

// Close releases resources
func (e *WAVEncoder) Close() error {
	return nil
}
