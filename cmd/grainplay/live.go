// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audgrain/audio"
	"github.com/ik5/audgrain/grain"
	"github.com/ik5/audgrain/internal/config"
	"github.com/ik5/audgrain/internal/log"
)

// playerBlocks is the device buffer length in engine blocks.
const playerBlocks = 4

func runLive(ctx context.Context, cfg *config.Config, opts options, asset audio.Asset) error {
	engine, err := grain.New(cfg.GrainConfig(log.L()))
	if err != nil {
		return err
	}

	sr, bs := cfg.Engine.SampleRate, cfg.Engine.BlockSize

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sr,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(playerBlocks*bs) * time.Second / time.Duration(sr),
	})
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	s := newStream(engine, asset, cfg.Params, bs)

	if cfg.WatchConfig {
		done := make(chan struct{})
		defer close(done)

		if err := watchParams(opts.configPath, cfg.Engine, s, done); err != nil {
			log.Warn("config reload disabled", "error", err)
		}
	}

	player := otoCtx.NewPlayer(s)
	defer player.Close()

	player.Play()
	log.Info("playing", "engine", engine.ID(), "sample_rate", sr, "block_size", bs)

	var limit <-chan time.Time
	if opts.seconds > 0 {
		limit = time.After(time.Duration(opts.seconds * float64(time.Second)))
	}

	select {
	case <-ctx.Done():
	case <-limit:
	case <-s.Finished():
	}

	s.Stop()

	// let the stop block reach the device
	select {
	case <-s.Finished():
	case <-time.After(time.Second):
	}

	log.Info("stopped", "grains", s.Grains())

	return nil
}
