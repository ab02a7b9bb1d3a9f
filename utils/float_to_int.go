// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1, 1] and scales it to the int16 range.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from overflowing
	return int16(x * 32767.0)
}

// InterleaveInt16 writes the planar channels into dst as interleaved int16
// PCM and returns the number of samples written. dst must hold
// len(channels)*frames samples where frames is the shortest channel length.
func InterleaveInt16(dst []int16, channels ...[]float32) int {
	if len(channels) == 0 {
		return 0
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}

	n := len(channels)
	frames = min(frames, len(dst)/n)

	for f := range frames {
		for c, ch := range channels {
			dst[f*n+c] = Float32ToInt16(ch[f])
		}
	}

	return frames * n
}
