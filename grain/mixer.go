// SPDX-License-Identifier: EPL-2.0

package grain

import "math"

// PanGains returns the constant-power left and right gains for pan in
// [-1, 1]. Values outside the range are clamped.
func PanGains(pan float64) (left, right float64) {
	theta := (clamp(pan, -1, 1) + 1) * 0.5 * math.Pi * 0.5

	return math.Cos(theta), math.Sin(theta)
}

// mixIn adds src scaled by gain into dst.
func mixIn(dst, src []float32, gain float32) {
	dst = dst[:len(src)]
	for i, x := range src {
		dst[i] += x * gain
	}
}

// blockSmoother is a one-pole low-pass over the final stereo block. It only
// engages above half smoothing.
type blockSmoother struct {
	prev [2]float32
}

func (b *blockSmoother) reset() {
	b.prev = [2]float32{}
}

func (b *blockSmoother) process(left, right []float32, smoothing float64) {
	if smoothing <= 0.5 {
		return
	}

	k := float32(max(0.1, 1-0.5*smoothing))

	for c, buf := range [2][]float32{left, right} {
		y := b.prev[c]
		for i, x := range buf {
			y = x*k + y*(1-k)
			buf[i] = y
		}

		b.prev[c] = y
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}

	return min(max(v, lo), hi)
}
