// ABOUTME: Sound system facade over the mixer
// ABOUTME: Asset lookup, no-sound fallback, sound volume and loop timeouts
// Package sfx is the game-facing sound API.
//
// A System owns a mixer, fetches sound lumps from a Provider, resolves
// them through the mixer's sample cache and starts them with the
// priority policy. When the output cannot be opened the System keeps
// working in no-sound mode, where every call is a no-op.
//
// Example:
//
//	system := sfx.New(sfx.Config{}, provider, output.NewOto())
//	defer system.Close()
//
//	system.Register(mixer.SoundDef{ID: 1, Name: "dspistol", Priority: 64})
//	slot := system.StartSound(playerID, 1, sfx.DefaultStartParams())
package sfx
