// ABOUTME: Fixed-point resample step and pitch table
// ABOUTME: Converts sample-rate ratios and pitch offsets into 16.16 steps
package resample

import "math"

const (
	// Unity is the 16.16 step that reads one source sample per output frame
	Unity = 1 << 16

	// NormPitch is the pitch value that leaves the step unchanged
	NormPitch = 128

	// PitchRange is the number of distinct pitch values
	PitchRange = 256

	// referenceRate is the rate the pitch curve was tuned for
	referenceRate = 11025
)

// Step returns the 16.16 step for playing srcRate material at dstRate
func Step(srcRate, dstRate int) uint32 {
	if srcRate <= 0 || dstRate <= 0 {
		return 0
	}
	return uint32((int64(srcRate) << 16) / int64(dstRate))
}

// PitchTable holds the pitch multipliers for one output rate
type PitchTable struct {
	rate  int
	steps [PitchRange]uint32
}

// NewPitchTable builds the table for the given output rate.
// Entry i holds round(1.2^((i-128)/(64*rate/11025)) * 65536).
func NewPitchTable(rate int) *PitchTable {
	t := &PitchTable{rate: rate}
	scale := 64.0 * float64(rate) / referenceRate
	for i := 0; i < PitchRange; i++ {
		exp := float64(i-NormPitch) / scale
		t.steps[i] = uint32(math.Round(math.Pow(1.2, exp) * Unity))
	}
	return t
}

// Rate returns the output rate the table was built for
func (t *PitchTable) Rate() int {
	return t.rate
}

// Multiplier returns the raw table entry for a pitch value
func (t *PitchTable) Multiplier(pitch int) uint32 {
	return t.steps[ClampPitch(pitch)]
}

// Step returns the base step for srcRate offset by the pitch delta
func (t *PitchTable) Step(srcRate, dstRate, pitch int) uint32 {
	base := int64(Step(srcRate, dstRate))
	step := int64(t.Multiplier(pitch)) + base - Unity
	if step < 0 {
		return 0
	}
	return uint32(step)
}

// ClampPitch limits a pitch value to the table range
func ClampPitch(pitch int) int {
	if pitch < 0 {
		return 0
	}
	if pitch >= PitchRange {
		return PitchRange - 1
	}
	return pitch
}
