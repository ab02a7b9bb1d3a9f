// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/dsp/window"
)

func TestEnvelope_GainStaysInRange(t *testing.T) {
	t.Parallel()

	shapes := []WindowShape{
		WindowDefault, WindowLinear, WindowParabolic, WindowGaussian, WindowCosine,
		WindowHann, WindowBlackman, WindowTriangular, WindowRectangular,
	}
	laws := []CrossfadeLaw{CrossfadeLinear, CrossfadeEqualPower, CrossfadeSmooth}

	for _, shape := range shapes {
		for _, law := range laws {
			for _, s := range []float64{0, 0.3, 1} {
				env := Envelope{
					Shape:       shape,
					Crossfade:   law,
					Attack:      0.3,
					Decay:       0.4,
					AttackCurve: 2.5,
					DecayCurve:  0.3,
					Smoothing:   s,
					PhaseOffset: 0.05 * s,
				}

				for _, total := range []int{1, 7, 480} {
					for f := range total {
						g := env.Gain(f, total)
						if g < 0 || g > 1 || math.IsNaN(g) {
							t.Fatalf("%v/%v s=%v: Gain(%d, %d) = %v out of [0, 1]", shape, law, s, f, total, g)
						}
					}
				}
			}
		}
	}
}

func TestEnvelope_ZeroLength(t *testing.T) {
	t.Parallel()

	env := Envelope{Shape: WindowRectangular}
	if g := env.Gain(0, 0); g != 0 {
		t.Errorf("Gain(0, 0) = %v, want 0", g)
	}
}

func TestEnvelope_DefaultShape(t *testing.T) {
	t.Parallel()

	env := Envelope{Attack: 0.25, Decay: 0.25, AttackCurve: 1, DecayCurve: 1}

	tests := []struct {
		frame int
		want  float64
	}{
		{frame: 0, want: 0},
		{frame: 10, want: 0.4},
		{frame: 25, want: 1},
		{frame: 50, want: 1},
		{frame: 74, want: 1},
		{frame: 90, want: 0.4},
		{frame: 99, want: 0.04},
	}

	for _, tt := range tests {
		if got := env.Gain(tt.frame, 100); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Gain(%d, 100) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestEnvelope_CurvesBendRamps(t *testing.T) {
	t.Parallel()

	linear := Envelope{Attack: 0.5, Decay: 0.5, AttackCurve: 1, DecayCurve: 1}
	steep := Envelope{Attack: 0.5, Decay: 0.5, AttackCurve: 3, DecayCurve: 3}

	for _, f := range []int{10, 25, 40, 60, 75, 90} {
		if steep.Gain(f, 100) >= linear.Gain(f, 100) {
			t.Errorf("frame %d: curve 3 gain %v not below linear %v", f, steep.Gain(f, 100), linear.Gain(f, 100))
		}
	}
}

func TestEnvelope_MatchesReferenceWindows(t *testing.T) {
	t.Parallel()

	const total = 64

	tests := []struct {
		name  string
		shape WindowShape
		ref   func([]float64) []float64
	}{
		{name: "hann", shape: WindowHann, ref: window.Hann},
		{name: "blackman", shape: WindowBlackman, ref: window.Blackman},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// A window of total+1 points sampled over [0, total) matches a
			// grain of total frames.
			seq := make([]float64, total+1)
			for i := range seq {
				seq[i] = 1
			}

			tt.ref(seq)

			env := Envelope{Shape: tt.shape}
			for f := range total {
				if got, want := env.Gain(f, total), max(0, seq[f]); math.Abs(got-want) > 1e-9 {
					t.Errorf("Gain(%d) = %v, want %v", f, got, want)
				}
			}
		})
	}
}

func TestEnvelope_HannCrossfadeLaws(t *testing.T) {
	t.Parallel()

	const total = 200

	for _, law := range []CrossfadeLaw{CrossfadeLinear, CrossfadeEqualPower, CrossfadeSmooth} {
		env := Envelope{Shape: WindowHann, Crossfade: law}

		if g := env.Gain(0, total); g > 1e-12 {
			t.Errorf("%v: Gain at start = %v, want 0", law, g)
		}

		if g := env.Gain(total/2, total); math.Abs(g-1) > 1e-9 {
			t.Errorf("%v: Gain at middle = %v, want 1", law, g)
		}
	}

	shifted := Envelope{Shape: WindowHann, PhaseOffset: 0.05}
	if g := shifted.Gain(0, total); g <= 0 {
		t.Errorf("phase offset Gain(0) = %v, want > 0", g)
	}
}

func TestEnvelope_SmoothingSoftens(t *testing.T) {
	t.Parallel()

	plain := Envelope{Shape: WindowTriangular}
	soft := Envelope{Shape: WindowTriangular, Smoothing: 1}

	g, s := plain.Gain(20, 100), soft.Gain(20, 100)
	if want := math.Pow(g, 0.7); math.Abs(s-want) > 1e-12 {
		t.Errorf("softened gain = %v, want %v", s, want)
	}

	if s <= g {
		t.Errorf("softened gain %v not above %v", s, g)
	}
}

func TestEnvelope_GaussianPeak(t *testing.T) {
	t.Parallel()

	env := Envelope{Shape: WindowGaussian}
	if g := env.Gain(50, 100); math.Abs(g-1) > 1e-12 {
		t.Errorf("Gain at center = %v, want 1", g)
	}

	if env.Gain(10, 100) >= env.Gain(40, 100) {
		t.Error("gaussian does not rise toward the center")
	}
}

func TestAdaptSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		attack, decay float64
		overlap       float64
		wantA, wantD  float64
	}{
		{name: "no overlap", attack: 0.2, decay: 0.3, overlap: 1, wantA: 0.2, wantD: 0.3},
		{name: "double overlap", attack: 0.2, decay: 0.3, overlap: 2, wantA: 0.1, wantD: 0.15},
		{name: "floor", attack: 0.1, decay: 0.1, overlap: 5, wantA: 0.05, wantD: 0.05},
		{name: "ceiling", attack: 1, decay: 0, overlap: 1, wantA: 0.95, wantD: 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, d := adaptSegments(tt.attack, tt.decay, tt.overlap)
			if math.Abs(a-tt.wantA) > 1e-12 || math.Abs(d-tt.wantD) > 1e-12 {
				t.Errorf("adaptSegments() = (%v, %v), want (%v, %v)", a, d, tt.wantA, tt.wantD)
			}
		})
	}
}

func TestWindowShape_Text(t *testing.T) {
	t.Parallel()

	var p struct {
		Window    WindowShape  `json:"window"`
		Crossfade CrossfadeLaw `json:"crossfade"`
	}

	if err := json.Unmarshal([]byte(`{"window":"blackman","crossfade":"equal-power"}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if p.Window != WindowBlackman || p.Crossfade != CrossfadeEqualPower {
		t.Errorf("got %v/%v, want blackman/equal-power", p.Window, p.Crossfade)
	}

	err := json.Unmarshal([]byte(`{"window":"kaiser"}`), &p)
	if !errors.Is(err, ErrUnknownName) {
		t.Errorf("unknown window error = %v, want ErrUnknownName", err)
	}

	if s := WindowShape(42).String(); s != "WindowShape(42)" {
		t.Errorf("String() = %q", s)
	}
}

func BenchmarkEnvelope_Gain(b *testing.B) {
	env := Envelope{Shape: WindowHann, Crossfade: CrossfadeSmooth, Smoothing: 0.4, PhaseOffset: 0.01}

	b.ReportAllocs()

	for i := 0; b.Loop(); i++ {
		_ = env.Gain(i%4410, 4410)
	}
}
