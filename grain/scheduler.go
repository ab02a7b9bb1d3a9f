// SPDX-License-Identifier: EPL-2.0

package grain

import (
	"math"
	"math/rand/v2"
)

// reverseEpsilon is the shortest reverse span, in seconds, worth playing.
const reverseEpsilon = 1e-6

// scheduler owns the grain clock and the RNG used for every per-grain draw.
type scheduler struct {
	rng        *rand.Rand
	sampleRate float64
	mode       Scheduling
	// countdown is the number of samples until the next grain is due,
	// measured from the start of the next block.
	countdown float64
}

func newScheduler(cfg Config) scheduler {
	return scheduler{
		rng:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		sampleRate: float64(cfg.SampleRate),
		mode:       cfg.Scheduling,
	}
}

func (s *scheduler) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// interval returns the base number of samples between grains.
func (s *scheduler) interval(set *settings) float64 {
	if s.mode == SchedulingRate {
		return s.sampleRate / max(0.1, set.grainsPerSec)
	}

	return set.baseDur / max(0.01, set.activeVoices) * s.sampleRate
}

// advance moves the clock over one block and returns how many grains fell
// inside it. Each interval is jittered and never shorter than one sample.
func (s *scheduler) advance(blockLen int, base, jitter float64) int {
	elapsed := float64(blockLen)
	count := 0

	for s.countdown <= elapsed {
		count++
		s.countdown += max(1, base+s.uniform(-1, 1)*base*jitter)
	}

	s.countdown -= elapsed

	return count
}

// triggerFrame estimates where grain i of count landed in the block.
func (s *scheduler) triggerFrame(i, count, blockLen int, base float64) int {
	at := float64(blockLen) - (s.countdown + float64(count-1-i)*base)

	return int(clamp(at, 0, float64(blockLen-1)))
}

// grainSpec is one grain's resolved parameters.
type grainSpec struct {
	// start is the reader position in seconds: the grain start when
	// playing forward, the beginning of the span when reversed.
	start    float64
	duration float64
	frames   int
	pitch    float64
	ratio    float64
	reversed bool
	// spanFrames is the number of source frames a reversed grain buffers.
	spanFrames  int
	pan         float64
	volume      float64
	phaseOffset float64
	smoothing   float64
}

func (g *grainSpec) info() GrainInfo {
	return GrainInfo{
		StartSeconds:    g.start,
		DurationSeconds: g.duration,
		Reversed:        g.reversed,
		Volume:          g.volume,
		PitchSemitones:  g.pitch,
		Pan:             g.pan,
	}
}

// grainSource is what the scheduler needs to know about the source.
type grainSource struct {
	duration   float64
	sampleRate float64
	// rateScale converts engine frames to source frames.
	rateScale  float64
	maxReverse float64
}

// draw derives one grain around base. A frozen play head jitters the start
// symmetrically instead of forward. ok is false when the grain collapses to
// nothing and must be dropped.
func (s *scheduler) draw(set *settings, src grainSource, base float64, frozen bool) (g grainSpec, ok bool) {
	dur := src.duration

	var start float64
	if frozen {
		j := max(0.0005, set.startRand/2)
		start = clamp(s.uniform(base-j, base+j), 0, dur-MinGrainDurationSeconds)
	} else {
		regionEnd := dur
		if set.endPoint > 0 && set.endPoint < dur {
			regionEnd = set.endPoint
		}

		start = wrap(base+s.uniform(0, set.startRand), regionEnd)
	}

	g.duration = max(MinGrainDurationSeconds, set.baseDur+s.uniform(0, set.durRand))
	g.frames = max(1, int(math.Ceil(g.duration*s.sampleRate)))

	g.pitch = clamp(set.pitch+s.uniform(-set.pitchRand, set.pitchRand), -MaxAbsPitchShiftSemitones, MaxAbsPitchShiftSemitones)
	pitchRatio := math.Pow(2, g.pitch/12)
	g.ratio = clamp(pitchRatio*src.rateScale, 1/MaxFrameRatio, MaxFrameRatio)

	g.reversed = s.uniform(0, 100) < set.reverseChance

	if g.reversed {
		need := min(g.duration*pitchRatio, src.maxReverse)
		if need < reverseEpsilon {
			return g, false
		}

		end := start
		spanStart := max(0, end-need)
		spanEnd := min(dur, end)

		if spanStart == 0 {
			spanEnd = min(dur, need)
		}

		if spanStart >= spanEnd-reverseEpsilon {
			return g, false
		}

		g.start = spanStart
		g.spanFrames = int(math.Ceil((spanEnd - spanStart) * src.sampleRate))

		if g.spanFrames <= 0 {
			return g, false
		}
	} else {
		g.start = clamp(start, 0, dur-MinGrainDurationSeconds)
	}

	if set.smoothing > 0 {
		g.smoothing = set.smoothing
		g.phaseOffset = s.uniform(0, 1) * 0.05 * set.smoothing

		if !g.reversed {
			nudged := g.start + s.uniform(0, set.smoothing*0.010)
			g.start = clamp(nudged, 0, max(0, dur-g.duration))
		}
	}

	g.pan = clamp(set.pan+s.uniform(-set.panRand, set.panRand), -1, 1)
	g.volume = s.uniform(1-set.volRand, 1)

	return g, true
}

// wrap folds t into [0, length).
func wrap(t, length float64) float64 {
	if length <= 0 {
		return 0
	}

	t = math.Mod(t, length)
	if t < 0 {
		t += length
	}

	return t
}
