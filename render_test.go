// SPDX-License-Identifier: EPL-2.0

package audgrain

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/ik5/audgrain/grain"
	"github.com/ik5/audgrain/internal/audiotest"
)

func renderOptions(seconds float64) RenderOptions {
	p := grain.DefaultParams()
	p.ActiveVoices = 3
	p.WarmStart = true

	return RenderOptions{
		Config: grain.Config{
			SampleRate: 8000,
			BlockSize:  256,
			Seed:       99,
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		Params:  p,
		Seconds: seconds,
	}
}

func TestRenderStereo(t *testing.T) {
	t.Parallel()

	asset := audiotest.NewSineAsset(8000, 2, 1, 440)

	left, right, err := RenderStereo(asset, renderOptions(0.5))
	if err != nil {
		t.Fatalf("RenderStereo() error = %v", err)
	}

	// 4000 frames round up to 16 blocks
	if len(left) != 4096 || len(right) != 4096 {
		t.Fatalf("rendered %d/%d frames, want 4096", len(left), len(right))
	}

	var peak float64
	for i := range left {
		peak = max(peak, math.Abs(float64(left[i])), math.Abs(float64(right[i])))
	}

	if peak == 0 {
		t.Error("render is silent")
	}

	if asset.Live() != 0 {
		t.Errorf("%d readers left open", asset.Live())
	}
}

func TestRenderStereo16(t *testing.T) {
	t.Parallel()

	asset := audiotest.NewConstantAsset(8000, 1, 1, 0.5)

	pcm, err := RenderStereo16(asset, renderOptions(0.1))
	if err != nil {
		t.Fatalf("RenderStereo16() error = %v", err)
	}

	if len(pcm) != 2*4*256 {
		t.Fatalf("len = %d, want %d", len(pcm), 2*4*256)
	}

	nonZero := 0
	for _, s := range pcm {
		if s != 0 {
			nonZero++
		}
	}

	if nonZero == 0 {
		t.Error("render is silent")
	}
}

func TestRenderStereo_Errors(t *testing.T) {
	t.Parallel()

	asset := audiotest.NewSineAsset(8000, 1, 1, 440)

	bad := renderOptions(1)
	bad.Config.SampleRate = 0

	tests := []struct {
		name string
		opts RenderOptions
		want error
	}{
		{name: "zero length", opts: renderOptions(0), want: ErrInvalidLength},
		{name: "nan length", opts: renderOptions(math.NaN()), want: ErrInvalidLength},
		{name: "bad config", opts: bad, want: grain.ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := RenderStereo(asset, tt.opts); !errors.Is(err, tt.want) {
				t.Errorf("RenderStereo() error = %v, want %v", err, tt.want)
			}
		})
	}

	short := audiotest.BrokenAsset{Rate: 8000, NumChannel: 1, Frames: 4}
	if _, err := RenderStereo16(short, renderOptions(1)); !errors.Is(err, ErrNotPlayable) {
		t.Errorf("RenderStereo16(short asset) error = %v, want ErrNotPlayable", err)
	}
}

func BenchmarkRenderStereo(b *testing.B) {
	asset := audiotest.NewSineAsset(8000, 2, 2, 440)
	opts := renderOptions(1)

	b.ReportAllocs()

	for b.Loop() {
		if _, _, err := RenderStereo(asset, opts); err != nil {
			b.Fatal(err)
		}
	}
}
