// ABOUTME: Audio encoder package for writing captured mixer output
// ABOUTME: Provides Encoder interface and implementations for raw PCM and WAV
// Package encode writes interleaved stereo int16 frames produced by the
// mixer's capture tap.
//
// Supports: raw PCM (16-bit or 8-bit), WAV (16-bit or 8-bit)
//
// Example:
//
//	format := audio.Format{Codec: encode.CodecWAV, SampleRate: 44100, Channels: 2, BitDepth: 16}
//	encoder, err := encode.New(f, format, frames)
//	err = encoder.Encode(buf)
//	err = encoder.Close()
package encode
