// ABOUTME: WAV sound decoder
// ABOUTME: Validates RIFF/WAVE lumps and copies mono 8/16-bit PCM data
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
	"github.com/youpy/go-wav"
)

// WAVDecoder decodes RIFF/WAVE lumps
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV() Decoder {
	return &WAVDecoder{}
}

// Decode parses the fmt chunk, validates it and copies the data chunk
func (d *WAVDecoder) Decode(id string, data []byte) (*audio.Sample, error) {
	reader := wav.NewReader(bytes.NewReader(data))

	format, err := reader.Format()
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV format of %s: %w", id, err)
	}

	if err := checkPCM(CodecWAV, int(format.NumChannels), int(format.BitsPerSample),
		format.AudioFormat == wav.AudioFormatPCM); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	pcm, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data of %s: %w", id, err)
	}

	if format.BitsPerSample == 16 {
		pcm = pcm[:len(pcm)&^1]
	}

	return &audio.Sample{
		ID:         id,
		Data:       pcm,
		SampleRate: int(format.SampleRate),
		BitDepth:   int(format.BitsPerSample),
	}, nil
}
