// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"errors"
	"io"

	"github.com/ik5/audgrain/audio"
)

// voice is one grain in flight. Slots live in the pool arena and keep their
// buffers across grains.
type voice struct {
	active    bool
	channels  int
	played    int
	remaining int
	total     int

	pan         float64
	volume      float64
	reversed    bool
	smoothing   float64
	phaseOffset float64

	// forward grains stream from reader
	reader       audio.Source
	readerFailed bool
	interleaved  []float32

	// reversed grains play segment[c][:segmentFrames] from segmentOffset
	segment       [][]float32
	segmentFrames int
	segmentOffset int
	views         [][]float32

	ring      audio.Ring
	resampler audio.LinearResampler
}

// prepare sizes the slot buffers for a source of channels channels.
func (v *voice) prepare(channels, ringCap int) {
	v.channels = channels
	v.ring.Reset(channels, ringCap)

	if n := DecodeChunkFrames * channels; cap(v.interleaved) < n {
		v.interleaved = make([]float32, n)
	} else {
		v.interleaved = v.interleaved[:n]
	}

	if cap(v.views) < channels {
		v.views = make([][]float32, channels)
	}

	v.views = v.views[:channels]
}

// growSegment makes room for frames frames per channel.
func (v *voice) growSegment(frames int) {
	if cap(v.segment) < v.channels {
		grown := make([][]float32, v.channels)
		copy(grown, v.segment[:cap(v.segment)])
		v.segment = grown
	}

	v.segment = v.segment[:v.channels]

	for c := range v.segment {
		if cap(v.segment[c]) < frames {
			v.segment[c] = make([]float32, frames)
		}

		v.segment[c] = v.segment[c][:frames]
	}
}

// loadReversed pulls up to span frames from r, deinterleaves them into the
// segment and reverses it. It returns the frames read.
func (v *voice) loadReversed(r audio.Source, span int, d *audio.Deinterleaver) int {
	v.growSegment(span)

	ch := v.channels
	read := 0

	for read < span {
		want := min(DecodeChunkFrames, span-read)

		n, err := r.ReadSamples(v.interleaved[:want*ch])
		frames := n / ch

		if frames > 0 {
			for c := range ch {
				v.views[c] = v.segment[c][read:span]
			}

			read += d.Process(v.interleaved[:frames*ch], v.views)
		}

		if err != nil || frames == 0 {
			break
		}
	}

	for c := range v.segment {
		v.segment[c] = v.segment[c][:read]
	}

	audio.ReversePlanar(v.segment, read)
	v.segmentFrames = read
	v.segmentOffset = 0

	return read
}

// feed tops the ring up with at most one decode chunk. scratch holds at
// least DecodeChunkFrames frames per channel.
func (v *voice) feed(d *audio.Deinterleaver, scratch [][]float32) error {
	if v.reversed {
		k := min(DecodeChunkFrames, v.segmentFrames-v.segmentOffset, v.ring.Free())
		if k <= 0 {
			return nil
		}

		for c := range v.channels {
			v.views[c] = v.segment[c][v.segmentOffset : v.segmentOffset+k]
		}

		v.segmentOffset += v.ring.Push(v.views, k)

		return nil
	}

	if v.reader == nil || v.readerFailed {
		return nil
	}

	n, err := v.reader.ReadSamples(v.interleaved)
	if err != nil && !errors.Is(err, io.EOF) {
		v.readerFailed = true
	}

	if frames := n / v.channels; frames > 0 {
		d.Process(v.interleaved[:frames*v.channels], scratch)
		v.ring.Push(scratch, frames)
	}

	if v.readerFailed {
		return err
	}

	return nil
}

// release retires the voice and closes its reader. Buffers stay allocated.
func (v *voice) release() {
	if v.reader != nil {
		_ = v.reader.Close()
		v.reader = nil
	}

	v.active = false
	v.readerFailed = false
	v.played = 0
	v.remaining = 0
	v.total = 0
	v.pan = 0
	v.volume = 1
	v.reversed = false
	v.smoothing = 0
	v.phaseOffset = 0
	v.segmentFrames = 0
	v.segmentOffset = 0
	v.ring.Clear()
}

// voicePool is a fixed arena of voices addressed by index.
type voicePool struct {
	voices [MaxVoices]voice
}

// free returns the first inactive slot or -1.
func (p *voicePool) free() int {
	for i := range p.voices {
		if !p.voices[i].active {
			return i
		}
	}

	return -1
}

func (p *voicePool) active() int {
	n := 0

	for i := range p.voices {
		if p.voices[i].active {
			n++
		}
	}

	return n
}

func (p *voicePool) reset() {
	for i := range p.voices {
		p.voices[i].release()
	}
}
