// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming primitives the grain engine is built on.
//
// # Sources and assets
//
// A Source is a pull-based stream of interleaved float32 PCM:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders in the formats packages return Sources. An Asset is a shared,
// read-only handle on decoded audio that can open any number of independent
// Sources, each with its own start position, looping mode and chunk cap:
//
//	asset, err := audio.Load(src, 48000)
//	stream, err := asset.Open(audio.StreamSettings{
//	    StartSeconds:   1.5,
//	    Looping:        true,
//	    MaxChunkFrames: 256,
//	})
//
// Load runs the source through a cubic Resampler when its rate differs from
// the requested one.
//
// # Planar processing
//
// Deinterleaver splits interleaved chunks into planar channels, Ring buffers
// planar frames in a bounded FIFO, and LinearResampler reads a Ring at a
// fixed ratio to shift pitch:
//
//	ring := audio.NewRing(2, 1024)
//	ring.Push(planar, frames)
//	need := r.InputFramesNeeded(256)
//	n := r.Process(ring, out, 256)
//
// Downmix and MonoMixer average channels; ReversePlanar reverses a planar
// segment in place.
//
// None of the planar types allocate once sized, and none are safe for
// concurrent use.
//
// Samples are float32, nominally in [-1, 1]. Every Source signals its end
// with io.EOF, possibly alongside the last samples; Stream readers that
// loop never reach it. Decoder read errors are prefixed with the format
// name.
package audio
