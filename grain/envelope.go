// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"fmt"
	"math"
)

// WindowShape selects the per-grain amplitude window.
type WindowShape int

const (
	// WindowDefault ramps with power curves over the attack and decay
	// fractions and holds 1 in between.
	WindowDefault WindowShape = iota
	WindowLinear
	WindowParabolic
	WindowGaussian
	WindowCosine
	WindowHann
	WindowBlackman
	WindowTriangular
	WindowRectangular
)

var windowNames = [...]string{"default", "linear", "parabolic", "gaussian", "cosine", "hann", "blackman", "triangular", "rectangular"}

func (w WindowShape) String() string {
	if w < 0 || int(w) >= len(windowNames) {
		return fmt.Sprintf("WindowShape(%d)", int(w))
	}

	return windowNames[w]
}

func (w WindowShape) MarshalText() ([]byte, error) {
	if w < 0 || int(w) >= len(windowNames) {
		return nil, fmt.Errorf("window shape %d: %w", int(w), ErrUnknownName)
	}

	return []byte(windowNames[w]), nil
}

func (w *WindowShape) UnmarshalText(text []byte) error {
	i, err := lookupName(windowNames[:], text)
	if err != nil {
		return fmt.Errorf("window shape: %w", err)
	}

	*w = WindowShape(i)

	return nil
}

// CrossfadeLaw shapes the Hann window.
type CrossfadeLaw int

const (
	CrossfadeLinear CrossfadeLaw = iota
	CrossfadeEqualPower
	CrossfadeSmooth
)

var crossfadeNames = [...]string{"linear", "equal-power", "smooth"}

func (c CrossfadeLaw) String() string {
	if c < 0 || int(c) >= len(crossfadeNames) {
		return fmt.Sprintf("CrossfadeLaw(%d)", int(c))
	}

	return crossfadeNames[c]
}

func (c CrossfadeLaw) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(crossfadeNames) {
		return nil, fmt.Errorf("crossfade law %d: %w", int(c), ErrUnknownName)
	}

	return []byte(crossfadeNames[c]), nil
}

func (c *CrossfadeLaw) UnmarshalText(text []byte) error {
	i, err := lookupName(crossfadeNames[:], text)
	if err != nil {
		return fmt.Errorf("crossfade law: %w", err)
	}

	*c = CrossfadeLaw(i)

	return nil
}

// Envelope computes the gain of one grain as a function of its progress.
// Attack and Decay are fractions of the grain length; Decay is expected to
// be at most 1-Attack. Smoothing is in [0, 1].
type Envelope struct {
	Shape       WindowShape
	Crossfade   CrossfadeLaw
	Attack      float64
	Decay       float64
	AttackCurve float64
	DecayCurve  float64
	Smoothing   float64
	// PhaseOffset shifts the Hann window by PhaseOffset*π/4.
	PhaseOffset float64
}

// Gain returns the envelope value in [0, 1] at frame of a grain of total
// frames.
func (e *Envelope) Gain(frame, total int) float64 {
	if total <= 0 {
		return 0
	}

	var g float64

	switch e.Shape {
	case WindowLinear, WindowParabolic:
		g = e.ramp(frame, total)
		if e.Shape == WindowParabolic {
			g *= g
		}
	case WindowGaussian:
		s := e.Smoothing
		center := float64(total) * (0.5 + 0.1*s)
		width := float64(total) * (0.25 + 0.1*s)
		d := (float64(frame) - center) / width
		g = math.Exp(-0.5 * d * d)
	case WindowCosine:
		g = 0.5 * (1 - math.Cos(2*math.Pi*float64(frame)/float64(total)))
	case WindowHann:
		g = e.hann(frame, total)
	case WindowBlackman:
		x := float64(frame) / float64(total)
		g = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	case WindowTriangular:
		x := float64(frame) / float64(total)
		g = 1 - math.Abs(2*x-1)
	case WindowRectangular:
		g = 1
	default:
		g = e.powerCurve(frame, total)
	}

	if e.Smoothing > 0 && g > 0 && g < 1 {
		g = math.Pow(g, 1-0.3*e.Smoothing)
	}

	return clamp(g, 0, 1)
}

func (e *Envelope) segments(total int) (attack, decay int) {
	attack = int(math.Ceil(float64(total) * e.Attack))
	decay = int(math.Ceil(float64(total) * e.Decay))

	return attack, decay
}

func (e *Envelope) powerCurve(frame, total int) float64 {
	attack, decay := e.segments(total)

	switch {
	case frame < attack:
		return math.Pow(float64(frame)/float64(attack), e.AttackCurve)
	case frame >= total-decay:
		if decay <= 0 {
			return 0
		}

		return math.Pow(float64(total-frame)/float64(decay), e.DecayCurve)
	default:
		return 1
	}
}

func (e *Envelope) ramp(frame, total int) float64 {
	attack, decay := e.segments(total)

	switch {
	case frame < attack:
		return float64(frame) / float64(attack)
	case frame >= total-decay:
		if decay <= 0 {
			return 0
		}

		return float64(total-frame) / float64(decay)
	default:
		return 1
	}
}

func (e *Envelope) hann(frame, total int) float64 {
	phase := math.Pi*float64(frame)/float64(total) + e.PhaseOffset*math.Pi/4

	switch e.Crossfade {
	case CrossfadeEqualPower:
		s := math.Sin(phase)

		return s * s
	case CrossfadeSmooth:
		return math.Pow(0.5*(1-math.Cos(2*phase)), 0.7+0.6*e.Smoothing)
	default:
		return 0.5 * (1 - math.Cos(2*phase))
	}
}

// adaptSegments narrows the attack and decay of the shaped windows as grains
// overlap more. overlap is in [1, 5].
func adaptSegments(attack, decay, overlap float64) (float64, float64) {
	comp := min(1, 1/overlap)

	return clamp(attack*comp, 0.05, 0.95), clamp(decay*comp, 0.05, 0.95)
}
