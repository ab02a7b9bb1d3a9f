// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/ik5/audgrain/audio"
	"github.com/ik5/audgrain/grain"
)

// bytesPerFrame is one stereo float32 frame.
const bytesPerFrame = 2 * 4

// stream pulls blocks from an engine and serves them as interleaved
// float32 little-endian stereo. Read runs on the audio goroutine, which
// owns the engine; params may be swapped from any goroutine.
type stream struct {
	engine *grain.Engine
	params atomic.Pointer[grain.Params]
	in     grain.Input

	pending []byte
	buf     []byte

	stopping atomic.Bool
	grains   atomic.Int64
	finished chan struct{}
	closed   bool
}

func newStream(engine *grain.Engine, asset audio.Asset, params grain.Params, blockSize int) *stream {
	s := &stream{
		engine:   engine,
		in:       grain.Input{Asset: asset, Play: []int{0}},
		buf:      make([]byte, blockSize*bytesPerFrame),
		finished: make(chan struct{}),
	}

	s.params.Store(&params)

	return s
}

// SetParams takes effect from the next block.
func (s *stream) SetParams(p grain.Params) { s.params.Store(&p) }

// Stop queues a stop at the start of the next block.
func (s *stream) Stop() { s.stopping.Store(true) }

// Finished is closed once the engine stops playing.
func (s *stream) Finished() <-chan struct{} { return s.finished }

// Grains is the number of grains triggered so far.
func (s *stream) Grains() int64 { return s.grains.Load() }

func (s *stream) Read(p []byte) (int, error) {
	n := len(p) - len(p)%bytesPerFrame

	written := 0
	for written < n {
		if len(s.pending) == 0 {
			s.next()
		}

		c := copy(p[written:n], s.pending)
		s.pending = s.pending[c:]
		written += c
	}

	return written, nil
}

func (s *stream) next() {
	if s.closed {
		clear(s.buf)
		s.pending = s.buf
		return
	}

	s.in.Params = *s.params.Load()
	if s.stopping.Load() {
		s.in.Stop = append(s.in.Stop[:0], 0)
	}

	out := s.engine.Process(&s.in)
	s.in.Play = s.in.Play[:0]

	s.grains.Add(int64(out.OnGrain.Count()))

	for f := range out.Left {
		binary.LittleEndian.PutUint32(s.buf[f*bytesPerFrame:], math.Float32bits(out.Left[f]))
		binary.LittleEndian.PutUint32(s.buf[f*bytesPerFrame+4:], math.Float32bits(out.Right[f]))
	}

	s.pending = s.buf[:len(out.Left)*bytesPerFrame]

	if out.OnFinished.Fired() {
		s.closed = true
		close(s.finished)
	}
}
