// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

// mockAiffReader serves ints and reports io.EOF with the final batch, like
// aiff.Decoder does.
type mockAiffReader struct {
	samples []int
	offset  int
	err     error
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: 44100, NumChannels: 2}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	if m.offset >= len(m.samples) {
		return n, io.EOF
	}

	return n, nil
}

// writeAIFF encodes samples with the go-audio encoder into a temp file.
func writeAIFF(t *testing.T, rate, channels, depth int, samples []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "in.aiff")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := aiff.NewEncoder(f, rate, depth, channels)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		Data:           samples,
		SourceBitDepth: depth,
	}

	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("encode close: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestDecoder_RejectsInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("RIFF....WAVEfmt definitely not a FORM chunk")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotAiffFile) {
			t.Errorf("Decode(%q) error = %v, want ErrNotAiffFile", data, err)
		}
	}
}

func TestDecoder_File(t *testing.T) {
	t.Parallel()

	samples := []int{-32768, 32767, 16384, -16384, 0, 100}
	path := writeAIFF(t, 22050, 2, 16, samples)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// non-seekable input
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz x %d", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 8)

	n, err := src.ReadSamples(dst)
	if n != len(samples) || err != io.EOF {
		t.Fatalf("ReadSamples() = %d, %v; want %d, EOF", n, err, len(samples))
	}

	for i, s := range samples {
		if want := float32(s) / 32768; dst[i] != want {
			t.Errorf("sample %d = %v, want %v", i, dst[i], want)
		}
	}
}

func TestSource_EOFWithLastBatch(t *testing.T) {
	t.Parallel()

	s := &source{dec: &mockAiffReader{samples: []int{1 << 22, -(1 << 22)}}, sampleRate: 44100, channels: 2, bitDepth: 24}
	dst := make([]float32, 2)

	n, err := s.ReadSamples(dst)
	if n != 2 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 2, nil", n, err)
	}

	if dst[0] != 0.5 || dst[1] != -0.5 {
		t.Errorf("24-bit samples = %v", dst)
	}

	if n, err := s.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() at end = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	s := &source{dec: &mockAiffReader{err: io.ErrUnexpectedEOF}, sampleRate: 44100, channels: 2, bitDepth: 16}

	if _, err := s.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want ErrUnexpectedEOF", err)
	}

	if n, err := s.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("empty ReadSamples() = %d, %v", n, err)
	}

	if s.BufSize() != 4 {
		t.Errorf("BufSize() = %d, want 4", s.BufSize())
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	dec := &mockAiffReader{samples: make([]int, 1<<16)}
	s := &source{dec: dec, sampleRate: 44100, channels: 2, bitDepth: 16}
	dst := make([]float32, 1024)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := s.ReadSamples(dst); err != nil {
			dec.offset = 0
		}
	}
}
