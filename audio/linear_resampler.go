// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audgrain/utils"
)

// LinearResampler converts a Ring of planar input to output frames at a
// fixed input/output ratio using linear interpolation. A ratio above 1 reads
// faster than it writes (pitch up). The fractional read phase carries over
// between calls.
type LinearResampler struct {
	ratio float64
	phase float64
}

func NewLinearResampler(ratio float64) *LinearResampler {
	r := &LinearResampler{}
	r.Reset(ratio)

	return r
}

// Reset sets a new ratio and rewinds the phase.
func (r *LinearResampler) Reset(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 1
	}

	r.ratio = ratio
	r.phase = 0
}

func (r *LinearResampler) Ratio() float64 { return r.ratio }

// InputFramesNeeded is the number of buffered input frames required to
// produce outFrames output frames from the current phase.
func (r *LinearResampler) InputFramesNeeded(outFrames int) int {
	if outFrames <= 0 {
		return 0
	}

	return int(math.Floor(r.phase+float64(outFrames-1)*r.ratio)) + 2
}

// Process writes up to frames output frames into out[c][:frames] and
// consumes the input it has moved past. It returns the frames produced,
// which is short when in runs dry.
func (r *LinearResampler) Process(in *Ring, out [][]float32, frames int) int {
	avail := in.Len()
	channels := min(in.Channels(), len(out))
	pos := r.phase
	produced := 0

	for produced < frames {
		i0 := int(pos)
		if i0+1 >= avail {
			break
		}

		frac := float32(pos - float64(i0))
		for c := range channels {
			out[c][produced] = utils.LinearInterpolate(in.At(c, i0), in.At(c, i0+1), frac)
		}

		produced++
		pos += r.ratio
	}

	consumed := min(int(pos), avail)
	in.Discard(consumed)
	r.phase = pos - float64(consumed)

	return produced
}
