// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The Source decodes directly into the caller's buffer, so reads do not
// allocate:
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	asset, err := audio.Load(src, 48000)
package vorbis
