// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer is a Source that averages all channels of src into one.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src: src,
		tmp: make([]float32, defaultLoadBufSize),
	}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("mono mixer: %w", err)
	}

	return nil
}

func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, max(need, 2*defaultLoadBufSize))
	}

	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}

	frames := n / channels
	inv := 1 / float32(channels)

	switch channels {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	default:
		for f := range frames {
			base := f * channels

			var sum float32
			for c := range channels {
				sum += m.tmp[base+c]
			}

			dst[f] = sum * inv
		}
	}

	return frames, err
}

// Downmix averages the first frames samples of every planar channel into
// dst and returns the frame count written.
func Downmix(dst []float32, planar [][]float32, frames int) int {
	frames = min(frames, len(dst))
	if len(planar) == 0 || frames <= 0 {
		return 0
	}

	for c := range planar {
		frames = min(frames, len(planar[c]))
	}

	switch len(planar) {
	case 1:
		copy(dst[:frames], planar[0][:frames])
	case 2:
		left, right := planar[0], planar[1]
		for f := range frames {
			dst[f] = (left[f] + right[f]) * 0.5
		}
	default:
		inv := 1 / float32(len(planar))
		for f := range frames {
			var sum float32
			for c := range planar {
				sum += planar[c][f]
			}

			dst[f] = sum * inv
		}
	}

	return frames
}
