// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes PCM WAV files.
//
// Decoding goes through github.com/go-audio/wav and accepts integer PCM of
// 8, 16, 24 or 32 bits with any channel count and sample rate:
//
//	f, _ := os.Open("input.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// Readers that cannot seek are buffered in memory first, since the RIFF
// parser jumps between chunks.
//
// Two writers produce 16-bit PCM from interleaved int16 samples. Encode uses
// the go-audio encoder and needs an io.WriteSeeker such as an *os.File.
// WriteWAV16 computes the header up front and works on any io.Writer,
// including stdout:
//
//	err := wav.Encode(f, 48000, 2, samples)
//	err = wav.WriteWAV16(os.Stdout, 48000, 2, samples)
package wav
