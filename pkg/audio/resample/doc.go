// ABOUTME: Fixed-point resampling step package
// ABOUTME: Provides 16.16 step computation and the pitch variation table
// Package resample computes the fixed-point steps the mixer uses to walk
// through a sample at a different rate than the output device.
//
// A step is a 16.16 value: 65536 advances one source sample per output
// frame. Pitch variation offsets the base step by a value from a table
// built once for the negotiated output rate.
//
// Example:
//
//	table := resample.NewPitchTable(44100)
//	step := table.Step(11025, 44100, 140) // slightly sharp
package resample
