// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats and decoded sound effect samples
package audio

const (
	// 16-bit output range constants
	Max16Bit = 32767
	Min16Bit = -32768

	// Bias of unsigned 8-bit PCM
	Unsigned8Bias = 128
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Sample is a decoded mono sound effect.
//
// 8-bit data is unsigned with a bias of 128, 16-bit data is signed
// little-endian. A Sample is never mutated once handed out.
type Sample struct {
	ID         string
	Data       []byte
	SampleRate int
	BitDepth   int
}

// BytesPerSample returns the width of one sample in Data
func (s *Sample) BytesPerSample() int {
	if s.BitDepth == 16 {
		return 2
	}
	return 1
}

// Frames returns the number of samples held in Data
func (s *Sample) Frames() int {
	return len(s.Data) / s.BytesPerSample()
}

// Format returns the stream format of the sample
func (s *Sample) Format() Format {
	return Format{
		Codec:      "pcm",
		SampleRate: s.SampleRate,
		Channels:   1,
		BitDepth:   s.BitDepth,
	}
}

// ClampInt16 saturates a mix accumulator to the signed 16-bit range
func ClampInt16(v int32) int16 {
	if v > Max16Bit {
		return Max16Bit
	}
	if v < Min16Bit {
		return Min16Bit
	}
	return int16(v)
}

// Sample16To8 narrows a signed 16-bit sample to unsigned 8-bit
func Sample16To8(sample int16) byte {
	return byte(int(sample>>8) + Unsigned8Bias)
}
