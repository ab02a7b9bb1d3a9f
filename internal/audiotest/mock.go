// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds sources and assets for tests.
package audiotest

import (
	"errors"
	"io"
	"math"
	"sync/atomic"

	"github.com/ik5/audgrain/audio"
)

// ErrRead is returned by failing readers.
var ErrRead = errors.New("audiotest: read failure")

// MockSource generates totalSamples frames from a waveform function.
type MockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // frames to generate
	generated    int
	waveform     func(sample int, channel int) float32
}

// NewMockSource creates a new mock audio source.
// totalSamples is the number of frames to generate.
func NewMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalSamples int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalSamples, 0)
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalSamples int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(sample int, _ int) float32 {
		t := float64(sample) / float64(sampleRate)

		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalSamples int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }
func (m *MockSource) Close() error    { return nil }

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for frame := range frames {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(m.generated+frame, ch)
		}
	}

	m.generated += frames

	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// Asset wraps a PCMAsset and counts opened and closed readers. Readers can
// be made to fail after a number of frames, and Open can be made to fail.
type Asset struct {
	*audio.PCMAsset

	// OpenErr, when set, is returned by Open.
	OpenErr error
	// FailAfterFrames makes readers return ErrRead once they have produced
	// that many frames. Zero disables it.
	FailAfterFrames int

	opened atomic.Int64
	closed atomic.Int64
}

// NewAsset builds an Asset of frames frames from waveform.
func NewAsset(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *Asset {
	samples := make([]float32, frames*channels)
	for f := range frames {
		for c := range channels {
			samples[f*channels+c] = waveform(f, c)
		}
	}

	pcm, err := audio.NewPCMAsset(sampleRate, channels, samples)
	if err != nil {
		panic(err)
	}

	return &Asset{PCMAsset: pcm}
}

// NewSineAsset builds a sine asset of the given length in seconds.
func NewSineAsset(sampleRate, channels int, seconds, frequency float64) *Asset {
	return NewAsset(sampleRate, channels, int(seconds*float64(sampleRate)), func(f, _ int) float32 {
		return float32(0.5 * math.Sin(2*math.Pi*frequency*float64(f)/float64(sampleRate)))
	})
}

// NewConstantAsset builds an asset where every sample equals value.
func NewConstantAsset(sampleRate, channels int, seconds float64, value float32) *Asset {
	return NewAsset(sampleRate, channels, int(seconds*float64(sampleRate)), func(int, int) float32 {
		return value
	})
}

// NewRampAsset builds a mono asset whose sample f equals f/frames, so the
// value read reveals the source position.
func NewRampAsset(sampleRate int, seconds float64) *Asset {
	frames := int(seconds * float64(sampleRate))

	return NewAsset(sampleRate, 1, frames, func(f, _ int) float32 {
		return float32(f) / float32(frames)
	})
}

// Open returns a counting reader.
func (a *Asset) Open(settings audio.StreamSettings) (audio.Source, error) {
	if a.OpenErr != nil {
		return nil, a.OpenErr
	}

	a.opened.Add(1)

	return &trackedSource{Stream: a.OpenStream(settings), asset: a}, nil
}

// Opened returns how many readers were opened.
func (a *Asset) Opened() int { return int(a.opened.Load()) }

// Closed returns how many readers were closed.
func (a *Asset) Closed() int { return int(a.closed.Load()) }

// Live returns the readers opened and not yet closed.
func (a *Asset) Live() int { return a.Opened() - a.Closed() }

type trackedSource struct {
	*audio.Stream

	asset    *Asset
	produced int
	closed   bool
}

func (s *trackedSource) ReadSamples(dst []float32) (int, error) {
	limit := s.asset.FailAfterFrames
	if limit > 0 {
		if s.produced >= limit {
			return 0, ErrRead
		}

		room := (limit - s.produced) * s.Channels()
		dst = dst[:min(len(dst), room)]
	}

	n, err := s.Stream.ReadSamples(dst)
	s.produced += n / s.Channels()

	return n, err
}

func (s *trackedSource) Close() error {
	if !s.closed {
		s.closed = true
		s.asset.closed.Add(1)
	}

	return s.Stream.Close()
}

// BrokenAsset reports arbitrary metadata and refuses to open readers.
type BrokenAsset struct {
	Rate       int
	NumChannel int
	Frames     int
}

func (b BrokenAsset) SampleRate() int { return b.Rate }
func (b BrokenAsset) Channels() int   { return b.NumChannel }
func (b BrokenAsset) NumFrames() int  { return b.Frames }

func (b BrokenAsset) Open(audio.StreamSettings) (audio.Source, error) {
	return nil, ErrRead
}
