// SPDX-License-Identifier: EPL-2.0

package audgrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/ik5/audgrain/audio"
	"github.com/ik5/audgrain/grain"
	"github.com/ik5/audgrain/utils"
)

var (
	ErrInvalidLength = errors.New("render length must be positive")
	ErrNotPlayable   = errors.New("engine refused the asset")
)

// RenderOptions describes an offline render.
type RenderOptions struct {
	Config grain.Config
	Params grain.Params
	// Seconds of output. It is rounded up to whole blocks.
	Seconds float64
}

// RenderStereo plays asset through a new engine from the first frame and
// returns Seconds of planar stereo output.
func RenderStereo(asset audio.Asset, opts RenderOptions) (left, right []float32, err error) {
	if !(opts.Seconds > 0) || math.IsInf(opts.Seconds, 0) {
		return nil, nil, fmt.Errorf("%v seconds: %w", opts.Seconds, ErrInvalidLength)
	}

	e, err := grain.New(opts.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("render: %w", err)
	}

	bs := opts.Config.BlockSize
	blocks := int(math.Ceil(opts.Seconds * float64(opts.Config.SampleRate) / float64(bs)))

	left = make([]float32, 0, blocks*bs)
	right = make([]float32, 0, blocks*bs)

	in := grain.Input{Asset: asset, Params: opts.Params, Play: []int{0}}

	defer e.Reset()

	for range blocks {
		out := e.Process(&in)
		in.Play = nil

		if !e.IsPlaying() {
			return nil, nil, ErrNotPlayable
		}

		left = append(left, out.Left...)
		right = append(right, out.Right...)
	}

	return left, right, nil
}

// RenderStereo16 is RenderStereo with interleaved int16 output.
func RenderStereo16(asset audio.Asset, opts RenderOptions) ([]int16, error) {
	left, right, err := RenderStereo(asset, opts)
	if err != nil {
		return nil, err
	}

	pcm := make([]int16, 2*len(left))
	utils.InterleaveInt16(pcm, left, right)

	return pcm, nil
}
