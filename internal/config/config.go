// SPDX-License-Identifier: EPL-2.0

// Package config reads the grainplay JSON configuration and watches it for
// edits.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ik5/audgrain/grain"
)

// defaultConfig is written to disk when the configured path does not exist.
const defaultConfig = `{
	"watch_config": true,
	"engine": {
		"sample_rate": 48000,
		"block_size": 512,
		"scheduling": "density",
		"position": "trigger",
		"seed": 0,
		"max_reverse_seconds": 10
	},
	"params": {
		"grain_duration_ms": 100,
		"duration_rand_ms": 20,
		"active_voices": 4,
		"grains_per_second": 10,
		"time_jitter_percent": 10,
		"start_point_seconds": 0,
		"end_point_seconds": 0,
		"start_point_rand_ms": 250,
		"reverse_chance_percent": 0,
		"attack": 0.25,
		"decay": 0.25,
		"attack_curve": 1,
		"decay_curve": 1,
		"pitch_shift_semitones": 0,
		"pitch_rand_semitones": 0,
		"pan": 0,
		"pan_rand": 0.3,
		"volume_rand_percent": 10,
		"speed_percent": 100,
		"position_percent": 0,
		"smoothing_percent": 0,
		"grain_overlap": 1,
		"window": "hann",
		"crossfade": "equal-power",
		"warm_start": true
	}
}
`

var (
	ErrInvalidSampleRate = errors.New("engine sample rate must be positive")
	ErrInvalidBlockSize  = errors.New("engine block size must be positive")
)

// Engine holds the settings fixed for an engine's lifetime. Changing them
// takes effect on the next start of grainplay only.
type Engine struct {
	SampleRate        int                `json:"sample_rate"`
	BlockSize         int                `json:"block_size"`
	Scheduling        grain.Scheduling   `json:"scheduling"`
	Position          grain.PositionMode `json:"position"`
	Seed              uint64             `json:"seed"`
	MaxReverseSeconds float64            `json:"max_reverse_seconds"`
}

type Config struct {
	WatchConfig bool         `json:"watch_config"`
	Engine      Engine       `json:"engine"`
	Params      grain.Params `json:"params"`
}

// Default returns the embedded configuration.
func Default() *Config {
	c, err := Parse([]byte(defaultConfig))
	if err != nil {
		panic(fmt.Sprintf("config: embedded default: %v", err))
	}

	return c
}

// Parse decodes data. Fields missing from data keep grain.DefaultParams and
// a 48 kHz, 512 frame engine.
func Parse(data []byte) (*Config, error) {
	c := Config{
		Engine: Engine{SampleRate: 48000, BlockSize: 512},
		Params: grain.DefaultParams(),
	}

	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshalling: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Read loads the file at p, writing the default configuration there first
// when it does not exist.
func Read(p string) (*Config, error) {
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(p, []byte(defaultConfig), 0o644); err != nil {
			return nil, fmt.Errorf("can't write default config: %w", err)
		}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("can't read config: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return c, nil
}

func (c *Config) validate() error {
	if c.Engine.SampleRate <= 0 {
		return fmt.Errorf("%d: %w", c.Engine.SampleRate, ErrInvalidSampleRate)
	}

	if c.Engine.BlockSize <= 0 {
		return fmt.Errorf("%d: %w", c.Engine.BlockSize, ErrInvalidBlockSize)
	}

	return nil
}

// GrainConfig converts the engine section for grain.New.
func (c *Config) GrainConfig(logger *slog.Logger) grain.Config {
	return grain.Config{
		SampleRate:        c.Engine.SampleRate,
		BlockSize:         c.Engine.BlockSize,
		Scheduling:        c.Engine.Scheduling,
		Position:          c.Engine.Position,
		Seed:              c.Engine.Seed,
		MaxReverseSeconds: c.Engine.MaxReverseSeconds,
		Logger:            logger,
	}
}
