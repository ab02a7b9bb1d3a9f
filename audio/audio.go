// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"sync"
)

// Source is a pull-based stream of interleaved PCM.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// StreamSettings controls how an Asset opens a reader.
type StreamSettings struct {
	// StartSeconds positions the reader. Looping readers wrap it
	// modulo the asset duration, others clamp it to the asset bounds.
	StartSeconds float64
	// Looping readers restart from frame 0 when they reach the end and never
	// report io.EOF on a non-empty asset.
	Looping bool
	// MaxChunkFrames caps the frames returned by a single ReadSamples call.
	// Zero means no cap.
	MaxChunkFrames int
}

// Asset is a read-only handle on decoded audio. It may be shared by any
// number of readers; opening a reader never mutates the asset.
type Asset interface {
	SampleRate() int
	Channels() int
	NumFrames() int
	Open(settings StreamSettings) (Source, error)
}

// Duration returns the length of a in seconds, or 0 when a is nil or has no
// valid sample rate.
func Duration(a Asset) float64 {
	if a == nil || a.SampleRate() <= 0 {
		return 0
	}

	return float64(a.NumFrames()) / float64(a.SampleRate())
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]

	return d, ok
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
