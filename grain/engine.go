// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/ik5/audgrain/audio"
)

// Engine renders granular stereo audio one block at a time. It is not safe
// for concurrent use; the host serializes calls to Process.
type Engine struct {
	cfg   Config
	id    uuid.UUID
	log   *slog.Logger
	debug bool

	sched    scheduler
	pool     voicePool
	src      sourceState
	play     playback
	smoother blockSmoother

	events  []event
	mono    []float32
	ringCap int

	out Output
}

type eventKind int

const (
	eventPlay eventKind = iota
	eventStop
)

type event struct {
	frame int
	kind  eventKind
}

// New validates cfg and allocates every buffer the engine needs.
func New(cfg Config) (*Engine, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("grain: %w", err)
	}

	id := uuid.New()
	logger := cfg.Logger.With("engine", id.String())

	e := &Engine{
		cfg:     cfg,
		id:      id,
		log:     logger,
		debug:   logger.Enabled(context.Background(), slog.LevelDebug),
		sched:   newScheduler(cfg),
		events:  make([]event, 0, 8),
		mono:    make([]float32, cfg.BlockSize),
		ringCap: DecodeChunkFrames + cfg.BlockSize*int(math.Ceil(MaxFrameRatio)) + 4,
		out: Output{
			Left:       make([]float32, cfg.BlockSize),
			Right:      make([]float32, cfg.BlockSize),
			OnPlay:     newTrigger(4),
			OnFinished: newTrigger(4),
			OnGrain:    newTrigger(MaxVoices),
		},
	}

	for i := range e.pool.voices {
		e.pool.voices[i].volume = 1
	}

	logger.Debug("engine created",
		"sample_rate", cfg.SampleRate,
		"block_size", cfg.BlockSize,
		"scheduling", cfg.Scheduling.String(),
		"position", cfg.Position.String(),
		"seed", cfg.Seed,
	)

	return e, nil
}

// ID identifies the engine in log records.
func (e *Engine) ID() uuid.UUID { return e.id }

// IsPlaying reports whether the last block ended in the playing state.
func (e *Engine) IsPlaying() bool { return e.play.playing }

// ActiveVoices is the number of grains currently sounding.
func (e *Engine) ActiveVoices() int { return e.pool.active() }

// Reset stops playback without firing OnFinished and clears every piece of
// runtime state: voices, clock, play head and smoothing.
func (e *Engine) Reset() {
	e.pool.reset()
	e.src.teardown()
	e.play = playback{}
	e.sched.countdown = 0
	e.smoother.reset()
	e.resetOutput()
	e.out.LastGrain = GrainInfo{}
	e.out.PositionSeconds = 0
}

func (e *Engine) resetOutput() {
	clear(e.out.Left)
	clear(e.out.Right)
	e.out.OnPlay.reset()
	e.out.OnFinished.reset()
	e.out.OnGrain.reset()
}

// Process renders one block. The returned Output belongs to the engine and
// is overwritten by the next call.
func (e *Engine) Process(in *Input) *Output {
	e.resetOutput()

	set := in.Params.resolve()

	// a play trigger re-reads the asset itself
	if e.play.playing && len(in.Play) == 0 {
		e.refreshSource(in.Asset)
	}

	playFrame := e.applyTriggers(in, &set)

	if !e.play.playing {
		e.pool.reset()
		e.out.PositionSeconds = e.play.position

		return &e.out
	}

	base, frozen := e.startBase(&set)
	e.schedule(&set, base, frozen, playFrame)

	for i := range e.pool.voices {
		if e.pool.voices[i].active {
			e.renderVoice(i, &set)
		}
	}

	e.smoother.process(e.out.Left, e.out.Right, set.smoothing)
	e.out.PositionSeconds = e.play.position

	return &e.out
}

// refreshSource follows the asset while playing. A new identity restarts
// streaming, a missing or unusable asset stops playback.
func (e *Engine) refreshSource(asset audio.Asset) {
	if asset == nil {
		e.log.Warn("source asset removed while playing")
		e.stop(0)

		return
	}

	if sameAsset(asset, e.src.asset) && e.src.valid() {
		return
	}

	e.pool.reset()

	if err := e.src.init(asset, e.cfg.BlockSize); err != nil {
		e.log.Warn("cannot switch source", "error", err)
		e.stop(0)

		return
	}

	e.log.Info("source changed",
		"channels", e.src.channels,
		"sample_rate", e.src.sampleRate,
		"duration", e.src.duration,
	)
}

// applyTriggers runs the block's play and stop events in frame order, play
// first on equal frames. It returns the frame of the play event that left
// the engine playing, or -1.
func (e *Engine) applyTriggers(in *Input, set *settings) int {
	if len(in.Play) == 0 && len(in.Stop) == 0 {
		return -1
	}

	last := e.cfg.BlockSize - 1

	e.events = e.events[:0]
	for _, f := range in.Play {
		e.events = append(e.events, event{frame: min(max(f, 0), last), kind: eventPlay})
	}

	for _, f := range in.Stop {
		e.events = append(e.events, event{frame: min(max(f, 0), last), kind: eventStop})
	}

	slices.SortStableFunc(e.events, func(a, b event) int {
		if a.frame != b.frame {
			return a.frame - b.frame
		}

		return int(a.kind) - int(b.kind)
	})

	playFrame := -1

	for _, ev := range e.events {
		switch ev.kind {
		case eventPlay:
			if e.start(in.Asset, set, ev.frame) {
				playFrame = ev.frame
			} else {
				playFrame = -1
			}
		case eventStop:
			if e.play.playing {
				e.stop(ev.frame)
			}

			playFrame = -1
		}
	}

	return playFrame
}

// start begins playback at frame. Playing again while already playing is a
// hard reset of the voices and the clock.
func (e *Engine) start(asset audio.Asset, set *settings, frame int) bool {
	e.pool.reset()

	if err := e.src.init(asset, e.cfg.BlockSize); err != nil {
		e.log.Warn("cannot start playback", "error", err)
		e.play.playing = false
		e.src.teardown()
		e.out.OnFinished.fire(frame)

		return false
	}

	restart := e.play.playing

	e.play.playing = true
	e.play.frozen = set.frozen()
	e.play.hold = true
	e.play.position = 0

	if e.cfg.Position == PositionContinuous {
		e.play.position = set.position * e.src.duration
		if e.play.frozen {
			e.play.position = frozenPosition(set, e.src.duration)
		}
	}

	e.sched.countdown = 0
	e.smoother.reset()
	e.out.OnPlay.fire(frame)

	e.log.Info("playback started",
		"frame", frame,
		"restart", restart,
		"channels", e.src.channels,
		"duration", e.src.duration,
	)

	return true
}

// stop ends playback at frame and fires OnFinished.
func (e *Engine) stop(frame int) {
	e.pool.reset()
	e.src.teardown()
	e.play.playing = false
	e.sched.countdown = 0
	e.out.OnFinished.fire(frame)

	e.log.Info("playback stopped", "frame", frame)
}

// schedule starts the grains due in this block. On the play block a warm
// start seeds several grains at once and primes the clock one interval
// past the play frame.
func (e *Engine) schedule(set *settings, base float64, frozen bool, playFrame int) {
	interval := e.sched.interval(set)
	bs := e.cfg.BlockSize

	if playFrame >= 0 && set.warmStart {
		n := 0
		if v := set.activeVoices; v > 0 && v < 1 {
			n = 1
		} else if v >= 1 {
			n = int(min(math.Floor(v), MaxVoices))
		}

		for range n {
			e.trigger(set, base, frozen, playFrame)
		}

		// the clock runs from the play frame, not the next block
		e.sched.countdown = max(0, interval-float64(bs-playFrame))

		return
	}

	count := e.sched.advance(bs, interval, set.jitter)

	for i := range count {
		frame := e.sched.triggerFrame(i, count, bs, interval)
		if playFrame >= 0 {
			frame = max(frame, playFrame)
		}

		e.trigger(set, base, frozen, frame)
	}
}

// trigger draws one grain and starts it on a free voice.
func (e *Engine) trigger(set *settings, base float64, frozen bool, frame int) {
	src := grainSource{
		duration:   e.src.duration,
		sampleRate: float64(e.src.sampleRate),
		rateScale:  float64(e.src.sampleRate) / float64(e.cfg.SampleRate),
		maxReverse: e.cfg.MaxReverseSeconds,
	}

	g, ok := e.sched.draw(set, src, base, frozen)
	if !ok {
		if e.debug {
			e.log.Debug("grain dropped", "reason", "empty reverse span")
		}

		return
	}

	if !e.activate(&g) {
		return
	}

	e.out.OnGrain.fire(frame)
	e.out.LastGrain = g.info()
}

// activate places g in a free voice.
func (e *Engine) activate(g *grainSpec) bool {
	idx := e.pool.free()
	if idx < 0 {
		if e.debug {
			e.log.Debug("grain dropped", "reason", "no free voice")
		}

		return false
	}

	r, err := e.src.asset.Open(audio.StreamSettings{
		StartSeconds:   g.start,
		Looping:        !g.reversed,
		MaxChunkFrames: DecodeChunkFrames,
	})
	if err != nil {
		if e.debug {
			e.log.Debug("grain dropped", "reason", "open failed", "error", err)
		}

		return false
	}

	v := &e.pool.voices[idx]
	v.prepare(e.src.channels, e.ringCap)
	v.resampler.Reset(g.ratio)

	total := g.frames

	if g.reversed {
		read := v.loadReversed(r, g.spanFrames, e.src.deint)
		_ = r.Close()

		if read == 0 {
			v.release()

			if e.debug {
				e.log.Debug("grain dropped", "reason", "reverse span unreadable")
			}

			return false
		}

		total = min(g.frames, max(1, int(math.Ceil(float64(read)/v.resampler.Ratio()))))
	} else {
		v.reader = r
	}

	v.active = true
	v.reversed = g.reversed
	v.played = 0
	v.remaining = total
	v.total = total
	v.pan = g.pan
	v.volume = g.volume
	v.smoothing = g.smoothing
	v.phaseOffset = g.phaseOffset

	return true
}

// renderVoice mixes one block of voice i into the output. A panic while
// rendering retires only that voice.
func (e *Engine) renderVoice(i int, set *settings) {
	v := &e.pool.voices[i]

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("voice render failed", "voice", i, "panic", r)
			v.release()
		}
	}()

	e.render(v, set)
}

func (e *Engine) render(v *voice, set *settings) {
	frames := min(e.cfg.BlockSize, v.remaining)
	need := v.resampler.InputFramesNeeded(frames)

	stalls := 0
	for v.ring.Len() < need && stalls < 2 {
		before := v.ring.Len()

		if err := v.feed(e.src.deint, e.src.chunk); err != nil && e.debug {
			e.log.Debug("voice source failed", "error", err)
		}

		if v.ring.Len() == before {
			stalls++
		} else {
			stalls = 0
		}
	}

	produced := v.resampler.Process(&v.ring, e.src.resampled, frames)
	if produced == 0 && stalls >= 2 {
		v.release()

		return
	}

	mono := e.mono[:frames]
	audio.Downmix(mono, e.src.resampled, produced)
	clear(mono[produced:])

	env := set.env
	env.Smoothing = v.smoothing
	env.PhaseOffset = v.phaseOffset

	for f := range mono {
		mono[f] *= float32(env.Gain(v.played+f, v.total))
	}

	l, r := PanGains(v.pan)
	mixIn(e.out.Left, mono, float32(l*v.volume))
	mixIn(e.out.Right, mono, float32(r*v.volume))

	v.played += frames
	v.remaining -= frames

	if v.remaining <= 0 {
		v.release()
	}
}
