// ABOUTME: Sound effect decoder package for lump formats
// ABOUTME: Provides Decoder interface and implementations for raw DMX, WAV, FLAC, MP3
// Package decode turns raw sound lumps into audio.Sample values.
//
// Supports: headerless raw (8-byte header, unsigned 8-bit), WAV, FLAC, MP3
//
// Tagged containers are recognised by their leading magic. WAV and FLAC
// must be mono integer PCM at 8 or 16 bits; MP3 is downmixed to mono
// 16-bit. Anything without a known magic is treated as headerless raw.
//
// Example:
//
//	codec := decode.Detect(lump)
//	decoder, err := decode.New(codec)
//	sample, err := decoder.Decode("dspistol", lump)
package decode
