// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audgrain/utils"
)

// Resampler is a Source that converts src to another sample rate with
// Catmull-Rom interpolation. It keeps the channel count. When downsampling
// a one-pole low-pass runs ahead of the interpolator.
//
// Load uses it to bring decoded files to the engine rate; per-grain pitch
// shifting uses LinearResampler instead.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	// history[0..3] hold frames t-1, t, t+1, t+2
	history [4][]float32
	valid   [4]bool
	primed  bool
	done    bool

	pos    float64
	frame  []float32
	srcEOF bool

	lowpass     bool
	alpha       float32
	filterState []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		dstRate:     dstRate,
		step:        step,
		channels:    channels,
		frame:       make([]float32, channels),
		lowpass:     step > 1,
		alpha:       0.5,
		filterState: make([]float32, channels),
	}

	for i := range r.history {
		r.history[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}

	return nil
}

// readFrame pulls one source frame into r.frame. ok is false once the
// source has nothing more to give.
func (r *Resampler) readFrame() (bool, error) {
	if r.srcEOF {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.frame)
	if errors.Is(err, io.EOF) {
		r.srcEOF = true
	} else if err != nil {
		return false, fmt.Errorf("resampler: %w", err)
	}

	if n < r.channels {
		r.srcEOF = true

		return false, nil
	}

	if r.lowpass {
		for c, x := range r.frame {
			y := r.alpha*x + (1-r.alpha)*r.filterState[c]
			r.frame[c] = y
			r.filterState[c] = y
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	for i := range r.history {
		if i == 0 && r.lowpass {
			// seed the filter with the first frame to avoid a fade-in
			n, err := r.src.ReadSamples(r.frame)
			if n == r.channels {
				copy(r.filterState, r.frame)
				copy(r.history[0], r.frame)
				r.valid[0] = true
			}

			if errors.Is(err, io.EOF) || n < r.channels {
				r.srcEOF = true
			} else if err != nil {
				return fmt.Errorf("resampler: %w", err)
			}

			if !r.valid[0] {
				return io.EOF
			}

			continue
		}

		ok, err := r.readFrame()
		if err != nil {
			return err
		}

		if !ok {
			if i == 0 {
				return io.EOF
			}

			// hold the last frame so the interpolator has neighbours
			for j := i; j < len(r.history); j++ {
				copy(r.history[j], r.history[i-1])
				r.valid[j] = true
			}

			break
		}

		copy(r.history[i], r.frame)
		r.valid[i] = true
	}

	r.primed = true

	return nil
}

// advance shifts the history by one frame.
func (r *Resampler) advance() error {
	copy(r.history[0], r.history[1])
	copy(r.history[1], r.history[2])
	copy(r.history[2], r.history[3])
	r.valid[0], r.valid[1], r.valid[2] = r.valid[1], r.valid[2], r.valid[3]

	ok, err := r.readFrame()
	if err != nil {
		return err
	}

	r.valid[3] = ok
	if ok {
		copy(r.history[3], r.frame)
	}

	if !r.valid[2] {
		return io.EOF
	}

	return nil
}

// ReadSamples produces interleaved samples at the destination rate.
// len(dst) must be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if r.done {
		return 0, io.EOF
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			r.done = errors.Is(err, io.EOF)

			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1 {
			r.pos--

			if err := r.advance(); err != nil {
				r.done = errors.Is(err, io.EOF)

				if written == 0 {
					return 0, err
				}

				return written * r.channels, err
			}
		}

		x := float32(r.pos)
		base := written * r.channels

		for c := range r.channels {
			y1 := r.history[1][c]
			y2 := r.history[2][c]

			y0 := y1
			if r.valid[0] {
				y0 = r.history[0][c]
			}

			y3 := y2
			if r.valid[3] {
				y3 = r.history[3][c]
			}

			dst[base+c] = utils.CubicInterpolate(y0, y1, y2, y3, x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
