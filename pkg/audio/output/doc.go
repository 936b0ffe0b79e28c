// ABOUTME: Audio output package for playing mixed audio
// ABOUTME: Provides Output interface with oto and headless implementations
// Package output provides callback-driven audio playback backends.
//
// A backend pulls interleaved 16-bit stereo frames from a Callback at its
// own cadence. Oto plays through the system device; build with
// -tags headless to compile without it. Headless produces frames only on
// Pump and is meant for tests and offline rendering.
//
// Example:
//
//	out := output.NewOto()
//	rate, err := out.Open(44100, 1024, mixer.Mix)
//	defer out.Close()
package output
