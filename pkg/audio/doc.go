// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Sample types and sample conversion functions
// Package audio provides fundamental audio types shared by the sfxmix packages.
//
// This package defines core types used throughout the library:
//   - Format: Describes audio stream format (codec, sample rate, channels, bit depth)
//   - Sample: A decoded mono sound effect (unsigned 8-bit or signed 16-bit LE)
//
// It also provides small helpers for the mixer's output range:
//   - 16-bit to unsigned 8-bit narrowing
//   - saturating int32 → int16 clamp
//
// Example:
//
//	s := &audio.Sample{
//	    ID:         "dspistol",
//	    Data:       pcm,
//	    SampleRate: 11025,
//	    BitDepth:   8,
//	}
//
//	frames := s.Frames()
package audio
