// SPDX-License-Identifier: EPL-2.0

// Package grain implements a real-time granular synthesis engine.
//
// An Engine granulates one audio.Asset. Every call to Process renders a
// fixed-size stereo block: play and stop events are applied in frame order,
// the scheduler decides how many grains start in the block, each grain is
// placed on a free voice from a fixed pool of MaxVoices, and every active
// voice streams its slice of the source through a pitch resampler, an
// amplitude envelope and a constant-power panner into the output.
//
//	e, err := grain.New(grain.Config{SampleRate: 48000, BlockSize: 256})
//	if err != nil {
//	    return err
//	}
//
//	in := grain.Input{Asset: asset, Params: grain.DefaultParams(), Play: []int{0}}
//	for {
//	    out := e.Process(&in)
//	    in.Play = nil
//	    write(out.Left, out.Right)
//	}
//
// # Scheduling
//
// In SchedulingDensity mode the grain interval is the grain duration divided
// by Params.ActiveVoices, so roughly that many grains overlap. In
// SchedulingRate mode grains start Params.GrainsPerSecond times per second.
// Either interval can be jittered by Params.TimeJitterPercent.
//
// # Position
//
// PositionTrigger draws grains around Params.StartPointSeconds.
// PositionContinuous moves a play head through the source at
// Params.SpeedPercent; a speed of zero freezes it at Params.PositionPercent
// and lets the position control scrub.
//
// # Real-time behaviour
//
// Once every voice has played a grain, Process allocates only inside the
// Asset's Open and reader calls. Failures inside the audio path never
// surface as errors: an unusable asset stops playback and fires OnFinished,
// a grain that cannot be placed is dropped, and a voice whose reader fails
// or panics is retired early.
package grain
