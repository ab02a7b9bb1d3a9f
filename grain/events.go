// SPDX-License-Identifier: EPL-2.0

package grain

import "github.com/ik5/audgrain/audio"

// Trigger records the frames within one block at which an event fired.
type Trigger struct {
	frames []int
}

func newTrigger(capacity int) Trigger {
	return Trigger{frames: make([]int, 0, capacity)}
}

// Fired reports whether the event fired at least once.
func (t *Trigger) Fired() bool { return len(t.frames) > 0 }

// Count is the number of times the event fired.
func (t *Trigger) Count() int { return len(t.frames) }

// Frames returns the firing frames in the order they were recorded. The
// slice is reused by the next block.
func (t *Trigger) Frames() []int { return t.frames }

func (t *Trigger) fire(frame int) { t.frames = append(t.frames, frame) }

func (t *Trigger) reset() { t.frames = t.frames[:0] }

// GrainInfo describes a triggered grain.
type GrainInfo struct {
	StartSeconds    float64
	DurationSeconds float64
	Reversed        bool
	Volume          float64
	PitchSemitones  float64
	Pan             float64
}

// Input is everything the engine reads for one block.
type Input struct {
	// Play and Stop hold frame offsets within the block.
	Play []int
	Stop []int
	// Asset is the source to granulate. A change of identity while playing
	// restarts streaming from the new asset; nil stops playback.
	Asset  audio.Asset
	Params Params
}

// Output is owned by the Engine and is overwritten by the next Process call.
type Output struct {
	Left  []float32
	Right []float32

	OnPlay     Trigger
	OnFinished Trigger
	OnGrain    Trigger

	// LastGrain describes the most recently started grain.
	LastGrain GrainInfo
	// PositionSeconds is the continuous play head.
	PositionSeconds float64
}
