// ABOUTME: Mixing engine for the channel pool
// ABOUTME: Resamples, interpolates, pans and clips every active channel into stereo int16
package mixer

import (
	"encoding/binary"

	"github.com/Resonate-Protocol/sfxmix/pkg/audio"
)

// mixHeadroom divides scaled samples so gain 127 lands at 127/192 of full scale
const mixHeadroom = 192 << 8

// Mix fills out with interleaved stereo frames. It is the output
// callback: it never allocates and only blocks on the pool lock. While
// dumping, the live callback produces silence and leaves channels alone.
func (m *Mixer) Mix(out []int16) {
	if m.dumping.Load() {
		clear(out)
		return
	}
	m.mix(out)
}

// Capture renders len(out)/2 frames outside the output callback cadence.
// The result is identical to what Mix would have produced for the same
// channel state.
func (m *Mixer) Capture(out []int16) {
	m.mix(out)
}

func (m *Mixer) mix(out []int16) {
	clear(out)
	frames := len(out) / 2

	m.mu.Lock()
	defer m.mu.Unlock()

	for f := 0; f < frames; f++ {
		var left, right int64

		for i := 0; i < m.numChannels; i++ {
			c := &m.channels[i]
			if !c.active() {
				continue
			}

			s := c.interpolate()
			left += s * int64(c.left) / mixHeadroom
			right += s * int64(c.right) / mixHeadroom

			c.advance()
			if c.pos >= c.end {
				if c.loop {
					c.pos = c.start
				} else {
					m.release(i)
				}
			}
		}

		out[f*2] = audio.ClampInt16(int32(left))
		out[f*2+1] = audio.ClampInt16(int32(right))
	}
}

// interpolate returns the sample under the cursor scaled to 24 bits,
// blended with the next one by the fractional position. Loops blend the
// last sample into the loop start.
func (c *channel) interpolate() int64 {
	next := c.pos + c.width
	if next >= c.end {
		if c.loop {
			next = c.start
		} else {
			next = c.pos
		}
	}
	rem := int64(c.remainder)

	if c.width == 2 {
		a := int64(int16(binary.LittleEndian.Uint16(c.data[c.pos:])))
		b := int64(int16(binary.LittleEndian.Uint16(c.data[next:])))
		return (a*(65536-rem) + b*rem) >> 8
	}

	u0 := int64(c.data[c.pos])
	u1 := int64(c.data[next])
	return u0*(65536-rem) + u1*rem - audio.Unsigned8Bias<<16
}

func (c *channel) advance() {
	c.remainder += c.step
	c.pos += int(c.remainder>>16) * c.width
	c.remainder &= 0xffff
}
