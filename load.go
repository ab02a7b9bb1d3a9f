// SPDX-License-Identifier: EPL-2.0

package audgrain

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audgrain/audio"
	"github.com/ik5/audgrain/formats/aiff"
	"github.com/ik5/audgrain/formats/mp3"
	"github.com/ik5/audgrain/formats/vorbis"
	"github.com/ik5/audgrain/formats/wav"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// NewRegistry returns a registry holding every bundled decoder under its
// usual file extensions.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})

	return reg
}

// FormatFromPath returns the lower-case extension of path without the dot.
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// LoadOptions controls how a file becomes an asset.
type LoadOptions struct {
	// SampleRate resamples the audio when positive and different from the
	// file's rate.
	SampleRate int
	// Mono averages all channels into one.
	Mono bool
	// Registry defaults to NewRegistry().
	Registry *audio.Registry
}

// Load decodes r as format into memory.
func Load(r io.Reader, format string, opts LoadOptions) (*audio.PCMAsset, error) {
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	dec, ok := reg.Get(format)
	if !ok {
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	defer src.Close()

	if opts.Mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}

	asset, err := audio.Load(src, opts.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", format, err)
	}

	return asset, nil
}

// LoadFile opens path and loads it with the decoder matching its extension.
func LoadFile(path string, opts LoadOptions) (*audio.PCMAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return Load(f, FormatFromPath(path), opts)
}
