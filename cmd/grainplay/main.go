// SPDX-License-Identifier: EPL-2.0

// grainplay granulates an audio file. It renders to a WAV file, or to
// stdout with -out -, and otherwise plays live through the default audio
// device while reloading grain parameters from its config file.
//
// Usage:
//
//	grainplay [flags] input.wav
//	grainplay -seconds 30 -out cloud.wav input.mp3
//	grainplay -out - input.ogg | aplay
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/audgrain"
	"github.com/ik5/audgrain/audio"
	"github.com/ik5/audgrain/formats/wav"
	"github.com/ik5/audgrain/internal/config"
	"github.com/ik5/audgrain/internal/log"
)

var errUsage = errors.New("usage: grainplay [flags] input")

type options struct {
	input      string
	out        string
	configPath string
	seconds    float64
	mono       bool
}

func main() {
	var opts options

	flag.StringVar(&opts.out, "out", "", "render to this WAV file instead of playing (- for stdout)")
	flag.StringVar(&opts.configPath, "config", "grainplay.json", "config file, created with defaults when missing")
	flag.Float64Var(&opts.seconds, "seconds", 10, "length to render, or to play live (0 plays until interrupted)")
	flag.BoolVar(&opts.mono, "mono", false, "mix the input down to mono before granulating")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), errUsage)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	opts.input = flag.Arg(0)

	log.Init(*level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Error("grainplay failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return err
	}

	asset, err := audgrain.LoadFile(opts.input, audgrain.LoadOptions{
		SampleRate: cfg.Engine.SampleRate,
		Mono:       opts.mono,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", opts.input, err)
	}

	log.Info("loaded",
		"file", opts.input,
		"channels", asset.Channels(),
		"sample_rate", asset.SampleRate(),
		"frames", asset.NumFrames())

	if opts.out == "" {
		return runLive(ctx, cfg, opts, asset)
	}

	return renderFile(cfg, opts, asset)
}

func renderFile(cfg *config.Config, opts options, asset audio.Asset) error {
	pcm, err := audgrain.RenderStereo16(asset, audgrain.RenderOptions{
		Config:  cfg.GrainConfig(log.L()),
		Params:  cfg.Params,
		Seconds: opts.seconds,
	})
	if err != nil {
		return err
	}

	if opts.out == "-" {
		return wav.WriteWAV16(os.Stdout, cfg.Engine.SampleRate, 2, pcm)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := wav.Encode(f, cfg.Engine.SampleRate, 2, pcm); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Info("rendered", "file", opts.out, "seconds", opts.seconds)

	return nil
}
