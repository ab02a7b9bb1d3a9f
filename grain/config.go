// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/ik5/audgrain/internal/log"
)

const (
	// MaxVoices is the capacity of the voice pool.
	MaxVoices = 32
	// MinGrainDurationSeconds is the floor applied to every grain.
	MinGrainDurationSeconds = 0.005
	// MaxAbsPitchShiftSemitones bounds the per-grain pitch.
	MaxAbsPitchShiftSemitones = 60.0
	// DecodeChunkFrames is the most a voice pulls from its reader per feed.
	DecodeChunkFrames = 256
	// MaxFrameRatio is the largest resampling ratio a voice accepts
	// (+60 semitones).
	MaxFrameRatio = 32.0
	// DefaultMaxReverseSeconds bounds the source span a reversed grain
	// may buffer.
	DefaultMaxReverseSeconds = 8.0
)

// Scheduling picks how the interval between grains is derived.
type Scheduling int

const (
	// SchedulingDensity spaces grains by duration / ActiveVoices.
	SchedulingDensity Scheduling = iota
	// SchedulingRate spaces grains by 1 / GrainsPerSecond.
	SchedulingRate
)

var schedulingNames = [...]string{"density", "rate"}

func (s Scheduling) String() string {
	if s < 0 || int(s) >= len(schedulingNames) {
		return fmt.Sprintf("Scheduling(%d)", int(s))
	}

	return schedulingNames[s]
}

func (s Scheduling) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(schedulingNames) {
		return nil, fmt.Errorf("scheduling %d: %w", int(s), ErrUnknownName)
	}

	return []byte(schedulingNames[s]), nil
}

func (s *Scheduling) UnmarshalText(text []byte) error {
	i, err := lookupName(schedulingNames[:], text)
	if err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}

	*s = Scheduling(i)

	return nil
}

// PositionMode picks where grain start points come from.
type PositionMode int

const (
	// PositionTrigger starts grains around Params.StartPointSeconds.
	PositionTrigger PositionMode = iota
	// PositionContinuous advances a play head at Params.SpeedPercent and
	// freezes it at Params.PositionPercent when the speed is zero.
	PositionContinuous
)

var positionNames = [...]string{"trigger", "continuous"}

func (p PositionMode) String() string {
	if p < 0 || int(p) >= len(positionNames) {
		return fmt.Sprintf("PositionMode(%d)", int(p))
	}

	return positionNames[p]
}

func (p PositionMode) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(positionNames) {
		return nil, fmt.Errorf("position mode %d: %w", int(p), ErrUnknownName)
	}

	return []byte(positionNames[p]), nil
}

func (p *PositionMode) UnmarshalText(text []byte) error {
	i, err := lookupName(positionNames[:], text)
	if err != nil {
		return fmt.Errorf("position mode: %w", err)
	}

	*p = PositionMode(i)

	return nil
}

func lookupName(names []string, text []byte) (int, error) {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%q: %w", name, ErrUnknownName)
}

// Config holds the settings fixed for the lifetime of an Engine.
type Config struct {
	SampleRate int
	BlockSize  int
	Scheduling Scheduling
	Position   PositionMode
	// Seed feeds the grain RNG. Zero picks a random seed.
	Seed uint64
	// MaxReverseSeconds caps the source span one reversed grain buffers.
	// Zero means DefaultMaxReverseSeconds.
	MaxReverseSeconds float64
	// Logger defaults to the package logger from internal/log.
	Logger *slog.Logger
}

func (c Config) validate() (Config, error) {
	if c.SampleRate <= 0 {
		return c, fmt.Errorf("sample rate %d: %w", c.SampleRate, ErrInvalidSampleRate)
	}

	if c.BlockSize <= 0 {
		return c, fmt.Errorf("block size %d: %w", c.BlockSize, ErrInvalidBlockSize)
	}

	if c.MaxReverseSeconds <= 0 {
		c.MaxReverseSeconds = DefaultMaxReverseSeconds
	}

	if c.Seed == 0 {
		c.Seed = rand.Uint64()
	}

	if c.Logger == nil {
		c.Logger = log.L()
	}

	return c, nil
}
