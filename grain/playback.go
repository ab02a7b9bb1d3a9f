// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/ik5/audgrain/audio"
)

var (
	errNoAsset        = errors.New("no source asset")
	errSourceTooShort = errors.New("source shorter than the minimum grain")
)

// sourceState caches what the engine knows about the current asset.
type sourceState struct {
	asset      audio.Asset
	channels   int
	sampleRate int
	duration   float64
	deint      *audio.Deinterleaver

	// scratch planar buffers shared by all voices
	chunk     [][]float32
	resampled [][]float32
}

func (s *sourceState) init(asset audio.Asset, blockSize int) error {
	s.teardown()

	if asset == nil {
		return errNoAsset
	}

	channels := asset.Channels()
	if channels <= 0 {
		return fmt.Errorf("source: %w", audio.ErrNoChannels)
	}

	if asset.SampleRate() <= 0 {
		return fmt.Errorf("source: %w", audio.ErrInvalidSampleRate)
	}

	duration := audio.Duration(asset)
	if duration < MinGrainDurationSeconds {
		return fmt.Errorf("source duration %.4fs: %w", duration, errSourceTooShort)
	}

	deint, err := audio.NewDeinterleaver(channels)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}

	s.asset = asset
	s.channels = channels
	s.sampleRate = asset.SampleRate()
	s.duration = duration
	s.deint = deint
	s.chunk = sizePlanar(s.chunk, channels, DecodeChunkFrames)
	s.resampled = sizePlanar(s.resampled, channels, blockSize)

	return nil
}

func (s *sourceState) teardown() {
	s.asset = nil
	s.channels = 0
	s.sampleRate = 0
	s.duration = 0
	s.deint = nil
}

func (s *sourceState) valid() bool {
	return s.asset != nil && s.channels > 0 && s.deint != nil && s.duration >= MinGrainDurationSeconds
}

// sizePlanar reshapes buf to channels x frames, reusing its arrays.
func sizePlanar(buf [][]float32, channels, frames int) [][]float32 {
	if cap(buf) < channels {
		grown := make([][]float32, channels)
		copy(grown, buf[:cap(buf)])
		buf = grown
	}

	buf = buf[:channels]
	for c := range buf {
		if cap(buf[c]) < frames {
			buf[c] = make([]float32, frames)
		}

		buf[c] = buf[c][:frames]
	}

	return buf
}

// sameAsset compares asset identity. Assets whose dynamic type cannot be
// compared are assumed unchanged.
func sameAsset(a, b audio.Asset) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}

	if !ta.Comparable() {
		return true
	}

	return a == b
}

// playback is the engine-wide play state and the continuous play head.
type playback struct {
	playing  bool
	position float64
	frozen   bool
	// hold skips advancing the play head for one block.
	hold bool
}

// frozenPosition maps the position control onto the source, leaving room
// for the longest grain.
func frozenPosition(set *settings, duration float64) float64 {
	limit := max(0, duration-(set.baseDur+set.durRand))

	return min(set.position*duration, limit)
}

// startBase returns the position grains are drawn around for this block
// and whether the play head is frozen. It moves the continuous play head.
func (e *Engine) startBase(set *settings) (float64, bool) {
	if e.cfg.Position != PositionContinuous {
		return set.startPoint, false
	}

	frozen := set.frozen()
	changed := frozen != e.play.frozen
	e.play.frozen = frozen

	if changed {
		// keep voices, only prompt a new grain
		e.sched.countdown = 0

		if e.debug {
			e.log.Debug("play head freeze changed", "frozen", frozen, "position", e.play.position)
		}
	}

	duration := e.src.duration

	if frozen {
		p := frozenPosition(set, duration)
		if math.Abs(p-e.play.position) > 0.01 {
			e.sched.countdown = 0
		}

		e.play.position = p
		e.play.hold = false

		return p, true
	}

	if !changed && !e.play.hold {
		e.play.position += float64(e.cfg.BlockSize) / float64(e.cfg.SampleRate) * set.speed
	}

	e.play.hold = false

	if e.play.position >= duration {
		e.play.position = wrap(e.play.position, duration)
	}

	return e.play.position, false
}
