// SPDX-License-Identifier: EPL-2.0

package audio

import "slices"

// Deinterleaver splits interleaved PCM into planar channels.
type Deinterleaver struct {
	channels int
}

func NewDeinterleaver(channels int) (*Deinterleaver, error) {
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	return &Deinterleaver{channels: channels}, nil
}

func (d *Deinterleaver) Channels() int { return d.channels }

// Process writes whole frames of interleaved into planar and returns the
// frame count. It stops at the shortest planar channel.
func (d *Deinterleaver) Process(interleaved []float32, planar [][]float32) int {
	if len(planar) < d.channels {
		return 0
	}

	frames := len(interleaved) / d.channels
	for c := range d.channels {
		frames = min(frames, len(planar[c]))
	}

	switch d.channels {
	case 1:
		copy(planar[0][:frames], interleaved[:frames])
	case 2:
		left, right := planar[0], planar[1]
		for f := range frames {
			idx := f << 1
			left[f] = interleaved[idx]
			right[f] = interleaved[idx+1]
		}
	default:
		for f := range frames {
			base := f * d.channels
			for c := range d.channels {
				planar[c][f] = interleaved[base+c]
			}
		}
	}

	return frames
}

// ReversePlanar reverses the first frames samples of every channel in place.
func ReversePlanar(planar [][]float32, frames int) {
	for c := range planar {
		slices.Reverse(planar[c][:min(frames, len(planar[c]))])
	}
}
