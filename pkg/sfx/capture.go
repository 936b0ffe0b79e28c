// ABOUTME: Capture tap and offline dumping
// ABOUTME: Renders frames outside the output cadence and encodes them to a writer
package sfx

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
	"github.com/Resonate-Protocol/sfxmix/pkg/audio/encode"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

// Capture renders frames stereo frames from the current channel state.
// It works in no-sound mode too, so offline renders need no device.
func (s *System) Capture(frames int) []int16 {
	out := make([]int16, frames*2)
	s.mixer.Capture(out)
	return out
}

// Dump renders frames stereo frames into w with the given codec. The live
// output is silenced for the duration so the dump owns channel progress.
func (s *System) Dump(w io.Writer, frames int, codec string) error {
	rate := s.mixer.SampleRate()
	encoder, err := encode.New(w, audio.Format{
		Codec:      codec,
		SampleRate: rate,
		Channels:   2,
		BitDepth:   16,
	}, frames)
	if err != nil {
		return fmt.Errorf("failed to create %s encoder: %w", codec, err)
	}
	defer encoder.Close()

	wasDumping := s.mixer.Dumping()
	s.mixer.SetDumping(true)
	defer s.mixer.SetDumping(wasDumping)

	chunk := s.mixer.BufferFrames()
	buf := make([]int16, chunk*2)
	written := 0
	for written < frames {
		n := chunk
		if frames-written < n {
			n = frames - written
		}
		s.mixer.Capture(buf[:n*2])
		if err := encoder.Encode(buf[:n*2]); err != nil {
			return err
		}
		written += n
	}

	length := time.Duration(frames) * time.Second / time.Duration(rate)
	log.Printf("Dumped %s of audio (%d frames, %s)",
		durafmt.Parse(length).LimitFirstN(2), frames, humanize.Bytes(uint64(frames*4)))
	return nil
}
