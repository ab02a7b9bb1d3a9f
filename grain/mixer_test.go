// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"math"
	"testing"
)

func TestPanGains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		pan         float64
		left, right float64
	}{
		{name: "hard left", pan: -1, left: 1, right: 0},
		{name: "center", pan: 0, left: math.Sqrt2 / 2, right: math.Sqrt2 / 2},
		{name: "hard right", pan: 1, left: 0, right: 1},
		{name: "clamped", pan: 3, left: 0, right: 1},
		{name: "nan", pan: math.NaN(), left: 1, right: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, r := PanGains(tt.pan)
			if math.Abs(l-tt.left) > 1e-12 || math.Abs(r-tt.right) > 1e-12 {
				t.Errorf("PanGains(%v) = (%v, %v), want (%v, %v)", tt.pan, l, r, tt.left, tt.right)
			}
		})
	}
}

func TestPanGains_ConstantPower(t *testing.T) {
	t.Parallel()

	for pan := -1.0; pan <= 1; pan += 0.05 {
		l, r := PanGains(pan)
		if p := l*l + r*r; math.Abs(p-1) > 1e-12 {
			t.Errorf("pan %v: power = %v, want 1", pan, p)
		}
	}
}

func TestMixIn(t *testing.T) {
	t.Parallel()

	dst := []float32{1, 1, 1, 1}
	mixIn(dst, []float32{1, 2, 3}, 0.5)

	want := []float32{1.5, 2, 2.5, 1}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestBlockSmoother(t *testing.T) {
	t.Parallel()

	t.Run("inactive at half", func(t *testing.T) {
		t.Parallel()

		var b blockSmoother

		left, right := []float32{1, 0, 1}, []float32{0, 1, 0}
		b.process(left, right, 0.5)

		if left[1] != 0 || right[1] != 1 {
			t.Errorf("smoothing 0.5 changed the block: %v %v", left, right)
		}
	})

	t.Run("step response", func(t *testing.T) {
		t.Parallel()

		var b blockSmoother

		// k = 0.5 at full smoothing
		left, right := []float32{1, 1, 1}, []float32{0, 0, 0}
		b.process(left, right, 1)

		want := []float32{0.5, 0.75, 0.875}
		for i := range want {
			if left[i] != want[i] {
				t.Errorf("left[%d] = %v, want %v", i, left[i], want[i])
			}
		}

		if right[2] != 0 {
			t.Errorf("right channel leaked: %v", right)
		}

		next := []float32{1}
		b.process(next, []float32{0}, 1)

		if next[0] != 0.9375 {
			t.Errorf("state not carried across blocks: %v", next[0])
		}

		b.reset()

		next[0] = 1
		b.process(next, []float32{0}, 1)

		if next[0] != 0.5 {
			t.Errorf("reset did not clear state: %v", next[0])
		}
	})
}
