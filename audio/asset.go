// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"
)

const defaultLoadBufSize = 4096

// PCMAsset is an in-memory Asset holding interleaved float32 samples.
type PCMAsset struct {
	sampleRate int
	channels   int
	samples    []float32
}

// NewPCMAsset wraps interleaved samples. The slice is not copied.
func NewPCMAsset(sampleRate, channels int, samples []float32) (*PCMAsset, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if channels <= 0 {
		return nil, ErrNoChannels
	}

	if len(samples)%channels != 0 {
		return nil, ErrInvalidDstSize
	}

	return &PCMAsset{
		sampleRate: sampleRate,
		channels:   channels,
		samples:    samples,
	}, nil
}

// Load reads src to the end into a PCMAsset. When targetRate is positive and
// differs from the source rate, the audio passes through a Resampler first.
// Load does not close src.
func Load(src Source, targetRate int) (*PCMAsset, error) {
	if src.Channels() <= 0 {
		return nil, ErrNoChannels
	}

	if targetRate > 0 && targetRate != src.SampleRate() {
		src = NewResampler(src, targetRate)
	}

	channels := src.Channels()

	bufSize := src.BufSize()
	if bufSize <= 0 {
		bufSize = defaultLoadBufSize
	}

	bufSize -= bufSize % channels
	if bufSize == 0 {
		bufSize = channels
	}

	buf := make([]float32, bufSize)
	samples := make([]float32, 0, bufSize)

	for {
		n, err := src.ReadSamples(buf)
		samples = append(samples, buf[:n-n%channels]...)

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}

		if n == 0 {
			break
		}
	}

	if len(samples) == 0 {
		return nil, ErrEmptyAsset
	}

	return NewPCMAsset(src.SampleRate(), channels, samples)
}

func (a *PCMAsset) SampleRate() int { return a.sampleRate }
func (a *PCMAsset) Channels() int   { return a.channels }
func (a *PCMAsset) NumFrames() int  { return len(a.samples) / a.channels }

// Samples exposes the interleaved backing slice.
func (a *PCMAsset) Samples() []float32 { return a.samples }

// Open returns a Stream positioned at settings.StartSeconds.
func (a *PCMAsset) Open(settings StreamSettings) (Source, error) {
	return a.OpenStream(settings), nil
}

// OpenStream is Open with a concrete return type.
func (a *PCMAsset) OpenStream(settings StreamSettings) *Stream {
	s := &Stream{asset: a}
	s.Reset(settings)

	return s
}

// Stream is a reader over a PCMAsset. It is not safe for concurrent use,
// but any number of streams may share one asset.
type Stream struct {
	asset    *PCMAsset
	pos      int
	looping  bool
	maxChunk int
	closed   bool
}

// Reset repositions the stream and reopens it if it was closed.
func (s *Stream) Reset(settings StreamSettings) {
	s.looping = settings.Looping
	s.maxChunk = max(0, settings.MaxChunkFrames)
	s.closed = false
	s.pos = s.frameAt(settings.StartSeconds)
}

func (s *Stream) frameAt(seconds float64) int {
	total := s.asset.NumFrames()
	if total == 0 || math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}

	frame := int(seconds * float64(s.asset.sampleRate))
	if s.looping {
		return frame % total
	}

	return min(frame, total)
}

func (s *Stream) SampleRate() int { return s.asset.sampleRate }
func (s *Stream) Channels() int   { return s.asset.channels }

func (s *Stream) BufSize() int {
	if s.maxChunk > 0 {
		return s.maxChunk * s.asset.channels
	}

	return defaultLoadBufSize
}

// Position returns the index of the next frame to be read.
func (s *Stream) Position() int { return s.pos }

func (s *Stream) Close() error {
	s.closed = true

	return nil
}

// ReadSamples copies up to len(dst)/Channels() frames, capped by
// MaxChunkFrames. A looping stream fills the whole request.
func (s *Stream) ReadSamples(dst []float32) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}

	ch := s.asset.channels
	if len(dst)%ch != 0 {
		return 0, ErrInvalidDstSize
	}

	total := s.asset.NumFrames()
	if total == 0 {
		return 0, io.EOF
	}

	want := len(dst) / ch
	if s.maxChunk > 0 {
		want = min(want, s.maxChunk)
	}

	written := 0

	for written < want {
		if s.pos >= total {
			if !s.looping {
				break
			}

			s.pos = 0
		}

		n := min(want-written, total-s.pos)
		copy(dst[written*ch:(written+n)*ch], s.asset.samples[s.pos*ch:(s.pos+n)*ch])
		written += n
		s.pos += n
	}

	if written == 0 && want > 0 {
		return 0, io.EOF
	}

	return written * ch, nil
}
