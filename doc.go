// SPDX-License-Identifier: EPL-2.0

// Package audgrain is a real-time granular synthesis engine.
//
// The engine itself lives in the grain package and consumes any
// audio.Asset. This package wires it to the rest of the module for offline
// use: it decodes files through the format packages and renders fixed
// lengths of granulated stereo audio.
//
// # Loading
//
// NewRegistry returns a decoder registry for every bundled format, keyed by
// file extension:
//
//	asset, err := audgrain.LoadFile("loop.ogg", audgrain.LoadOptions{SampleRate: 48000})
//
// LoadOptions.Mono folds the file to one channel through audio.MonoMixer.
//
// # Rendering
//
//	left, right, err := audgrain.RenderStereo(asset, audgrain.RenderOptions{
//	    Config:  grain.Config{SampleRate: 48000, BlockSize: 256},
//	    Params:  grain.DefaultParams(),
//	    Seconds: 10,
//	})
//
// RenderStereo16 returns the same audio interleaved as 16-bit PCM, ready
// for wav.Encode.
//
// # Formats
//
//   - WAV (integer PCM, 8 to 32 bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (integer PCM, 8 to 32 bit) via formats/aiff
package audgrain
