// ABOUTME: Real-time sound effect mixer package
// ABOUTME: Channel pool, allocation policies, mixing callback and sample cache
// Package mixer implements a fixed-size pool of playback channels mixed in
// software into interleaved 16-bit stereo.
//
// A Mixer owns:
//   - 32 pre-allocated channels, of which Config.Channels are used
//   - a sample Cache keyed by sound identifier
//   - a single mutex that serialises the audio callback and every mutation
//
// Channels are claimed either directly (PlayDirect, the caller names the
// slot) or through the priority policy (Play), which honours per-sound
// instance limits, one channel per emitter and priority-based eviction.
//
// The audio backend calls Mix; Capture renders the same frames on demand
// for offline dumps while SetDumping(true) silences the live path.
//
// Example:
//
//	m := mixer.New(mixer.Config{SampleRate: 44100})
//	if err := m.Open(output.NewOto()); err != nil {
//	    log.Printf("no sound: %v", err)
//	}
//	sample, err := m.Cache().Resolve("dspistol", lump)
//	slot, err := m.Play(mixer.Request{
//	    Sound:  &pistol,
//	    Origin: 42,
//	    Params: mixer.DefaultParams(),
//	}, sample)
package mixer
