// SPDX-License-Identifier: EPL-2.0

package utils

// FullScale returns the magnitude of the most negative value of signed
// integer PCM with the given bit depth. Unknown depths fall back to 16 bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

// IntToFloat32 converts signed integer PCM samples of bitDepth bits into
// dst in [-1, 1) and returns the count converted.
func IntToFloat32(dst []float32, src []int, bitDepth int) int {
	n := min(len(dst), len(src))
	scale := 1 / FullScale(bitDepth)

	for i := range n {
		dst[i] = float32(src[i]) * scale
	}

	return n
}
