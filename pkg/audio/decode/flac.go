// ABOUTME: FLAC sound decoder
// ABOUTME: Decodes mono 8/16-bit FLAC lumps frame by frame with mewkiz/flac
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC lumps
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC() Decoder {
	return &FLACDecoder{}
}

// Decode parses every frame of the stream into a contiguous sample buffer
func (d *FLACDecoder) Decode(id string, data []byte) (*audio.Sample, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC %s: %w", id, err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	// FLAC is always integer PCM
	if err := checkPCM(CodecFLAC, channels, bitDepth, true); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	width := bitDepth / 8
	pcm := make([]byte, 0, int(info.NSamples)*width)

	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to parse FLAC frame of %s: %w", id, err)
		}

		for _, sample := range frame.Subframes[0].Samples {
			if bitDepth == 8 {
				// FLAC stores 8-bit audio signed
				pcm = append(pcm, byte(sample+audio.Unsigned8Bias))
			} else {
				pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(sample)))
			}
		}
	}

	return &audio.Sample{
		ID:         id,
		Data:       pcm,
		SampleRate: int(info.SampleRate),
		BitDepth:   bitDepth,
	}, nil
}
