// SPDX-License-Identifier: EPL-2.0

package audio

// Ring is a bounded multichannel FIFO of planar frames.
// All channels advance together.
type Ring struct {
	buf      [][]float32
	head     int
	size     int
	capacity int
}

// NewRing allocates a ring holding up to capacity frames per channel.
func NewRing(channels, capacity int) *Ring {
	r := &Ring{}
	r.Reset(channels, capacity)

	return r
}

// Reset empties the ring and resizes it. Existing backing arrays are reused
// when they are large enough.
func (r *Ring) Reset(channels, capacity int) {
	channels = max(0, channels)
	capacity = max(0, capacity)

	if cap(r.buf) < channels {
		grown := make([][]float32, channels)
		copy(grown, r.buf[:cap(r.buf)])
		r.buf = grown
	}

	r.buf = r.buf[:channels]

	for c := range r.buf {
		if cap(r.buf[c]) < capacity {
			r.buf[c] = make([]float32, capacity)
		}

		r.buf[c] = r.buf[c][:capacity]
	}

	r.capacity = capacity
	r.head = 0
	r.size = 0
}

// Clear drops all buffered frames.
func (r *Ring) Clear() {
	r.head = 0
	r.size = 0
}

func (r *Ring) Channels() int { return len(r.buf) }
func (r *Ring) Len() int      { return r.size }
func (r *Ring) Cap() int      { return r.capacity }
func (r *Ring) Free() int     { return r.capacity - r.size }

// Push appends frames from planar[c][:frames] and returns how many fit.
func (r *Ring) Push(planar [][]float32, frames int) int {
	if len(planar) < len(r.buf) {
		return 0
	}

	frames = min(frames, r.Free())
	for c := range r.buf {
		frames = min(frames, len(planar[c]))
	}

	if frames <= 0 {
		return 0
	}

	tail := (r.head + r.size) % r.capacity
	first := min(frames, r.capacity-tail)

	for c := range r.buf {
		src := planar[c]
		copy(r.buf[c][tail:tail+first], src[:first])
		copy(r.buf[c][:frames-first], src[first:frames])
	}

	r.size += frames

	return frames
}

// At returns the i-th oldest buffered sample of channel ch.
func (r *Ring) At(ch, i int) float32 {
	return r.buf[ch][(r.head+i)%r.capacity]
}

// Discard drops up to n of the oldest frames.
func (r *Ring) Discard(n int) {
	n = min(n, r.size)
	if n <= 0 {
		return
	}

	r.head = (r.head + n) % r.capacity
	r.size -= n
}
