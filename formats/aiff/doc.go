// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Integer PCM of 8, 16, 24 and 32 bits is supported at any sample rate and
// channel count; compressed AIFF-C is not. Samples come out as interleaved
// float32 in [-1, 1):
//
//	f, _ := os.Open("loop.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // ...
//	}
//
// Like WAV, the container is parsed with seeks, so plain io.Readers are read
// into memory first.
package aiff
