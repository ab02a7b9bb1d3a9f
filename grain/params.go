// SPDX-License-Identifier: EPL-2.0

package grain

import "math"

// Params are the per-block controls. They may change on every call to
// Process; out of range values are clamped, never rejected.
type Params struct {
	GrainDurationMs float64 `json:"grain_duration_ms"`
	DurationRandMs  float64 `json:"duration_rand_ms"`
	// ActiveVoices is the density target: grains overlapping on average.
	ActiveVoices    float64 `json:"active_voices"`
	GrainsPerSecond float64 `json:"grains_per_second"`
	// TimeJitterPercent varies each interval by up to that share of itself.
	TimeJitterPercent float64 `json:"time_jitter_percent"`

	StartPointSeconds float64 `json:"start_point_seconds"`
	// EndPointSeconds, when in (0, duration), wraps start points before
	// the end of the source.
	EndPointSeconds  float64 `json:"end_point_seconds"`
	StartPointRandMs float64 `json:"start_point_rand_ms"`

	ReverseChancePercent float64 `json:"reverse_chance_percent"`

	// Attack and Decay are fractions of the grain length in [0, 1].
	Attack      float64 `json:"attack"`
	Decay       float64 `json:"decay"`
	AttackCurve float64 `json:"attack_curve"`
	DecayCurve  float64 `json:"decay_curve"`

	PitchShiftSemitones float64 `json:"pitch_shift_semitones"`
	PitchRandSemitones  float64 `json:"pitch_rand_semitones"`
	Pan                 float64 `json:"pan"`
	PanRand             float64 `json:"pan_rand"`
	VolumeRandPercent   float64 `json:"volume_rand_percent"`

	// SpeedPercent and PositionPercent drive PositionContinuous.
	SpeedPercent    float64 `json:"speed_percent"`
	PositionPercent float64 `json:"position_percent"`

	SmoothingPercent float64      `json:"smoothing_percent"`
	GrainOverlap     float64      `json:"grain_overlap"`
	Window           WindowShape  `json:"window"`
	Crossfade        CrossfadeLaw `json:"crossfade"`

	WarmStart bool `json:"warm_start"`
}

// DefaultParams returns 100 ms grains, one voice of density, ten grains
// per second and 10% attack and decay at normal speed.
func DefaultParams() Params {
	return Params{
		GrainDurationMs: 100,
		ActiveVoices:    1,
		GrainsPerSecond: 10,
		Attack:          0.1,
		Decay:           0.1,
		AttackCurve:     1,
		DecayCurve:      1,
		SpeedPercent:    100,
		GrainOverlap:    1,
	}
}

// smallestExponent keeps curve exponents away from zero.
const smallestExponent = 1e-8

// settings is Params after clamping, in seconds and fractions.
type settings struct {
	baseDur       float64
	durRand       float64
	activeVoices  float64
	grainsPerSec  float64
	jitter        float64
	startPoint    float64
	endPoint      float64
	startRand     float64
	reverseChance float64
	pitch         float64
	pitchRand     float64
	pan           float64
	panRand       float64
	volRand       float64
	speed         float64
	position      float64
	smoothing     float64
	warmStart     bool
	env           Envelope
}

func (p *Params) resolve() settings {
	s := settings{
		baseDur:       max(MinGrainDurationSeconds, finite(p.GrainDurationMs)/1000),
		durRand:       max(0, finite(p.DurationRandMs)/1000),
		activeVoices:  finite(p.ActiveVoices),
		grainsPerSec:  finite(p.GrainsPerSecond),
		jitter:        clamp(p.TimeJitterPercent, 0, 100) / 100,
		startPoint:    finite(p.StartPointSeconds),
		endPoint:      finite(p.EndPointSeconds),
		startRand:     max(0, finite(p.StartPointRandMs)/1000),
		reverseChance: clamp(p.ReverseChancePercent, 0, 100),
		pitch:         clamp(p.PitchShiftSemitones, -MaxAbsPitchShiftSemitones, MaxAbsPitchShiftSemitones),
		pitchRand:     max(0, finite(p.PitchRandSemitones)),
		pan:           clamp(p.Pan, -1, 1),
		panRand:       clamp(p.PanRand, 0, 1),
		volRand:       clamp(p.VolumeRandPercent, 0, 100) / 100,
		speed:         clamp(p.SpeedPercent, 0, 800) / 100,
		position:      clamp(p.PositionPercent, 0, 100) / 100,
		smoothing:     clamp(p.SmoothingPercent, 0, 100) / 100,
		warmStart:     p.WarmStart,
	}

	attack := clamp(p.Attack, 0, 1)
	decay := min(clamp(p.Decay, 0, 1), 1-attack)

	shape := p.Window
	if shape < WindowDefault || shape > WindowRectangular {
		shape = WindowDefault
	}

	if shape == WindowLinear || shape == WindowParabolic {
		attack, decay = adaptSegments(attack, decay, clamp(p.GrainOverlap, 1, 5))
	}

	crossfade := p.Crossfade
	if crossfade < CrossfadeLinear || crossfade > CrossfadeSmooth {
		crossfade = CrossfadeLinear
	}

	s.env = Envelope{
		Shape:       shape,
		Crossfade:   crossfade,
		Attack:      attack,
		Decay:       decay,
		AttackCurve: max(smallestExponent, finite(p.AttackCurve)),
		DecayCurve:  max(smallestExponent, finite(p.DecayCurve)),
		Smoothing:   s.smoothing,
	}

	return s
}

// frozen reports whether the continuous play head is held in place.
func (s *settings) frozen() bool {
	return s.speed < 0.001
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}
