// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always outputs 16-bit stereo, so every Source from this package
// reports two channels; mono files come out with both channels equal. Use
// audio.MonoMixer to fold them back:
//
//	src, err := mp3.Decoder{}.Decode(f)
//	mono := audio.NewMonoMixer(src)
package mp3
