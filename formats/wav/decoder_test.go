// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockPCMReader serves ints from memory like wav.Decoder.PCMBuffer.
type mockPCMReader struct {
	data []int
	pos  int
	err  error
}

func (m *mockPCMReader) Format() *goaudio.Format {
	return &goaudio.Format{NumChannels: 2, SampleRate: 8000}
}

func (m *mockPCMReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	n := copy(buf.Data, m.data[m.pos:])
	m.pos += n

	return n, nil
}

func TestDecoder_RejectsInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("this is not a RIFF file at all, not even close to it")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotWavFile) {
				t.Errorf("Decode() error = %v, want ErrNotWavFile", err)
			}
		})
	}
}

func TestDecoder_StreamedStereo(t *testing.T) {
	t.Parallel()

	samples := []int16{-32768, 16384, 0, -16384, 8192, 32767}

	var file bytes.Buffer
	if err := WriteWAV16(&file, 22050, 2, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	// a plain io.Reader goes through the in-memory path
	src, err := Decoder{}.Decode(io.MultiReader(&file))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz x %d, want 22050 Hz x 2", src.SampleRate(), src.Channels())
	}

	dst := make([]float32, 16)

	n, err := src.ReadSamples(dst)
	if n != len(samples) || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want %d, EOF", n, err, len(samples))
	}

	for i, s := range samples {
		if want := float32(s) / 32768; dst[i] != want {
			t.Errorf("sample %d = %v, want %v", i, dst[i], want)
		}
	}

	if n, err := src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after end = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_ChunkedReads(t *testing.T) {
	t.Parallel()

	data := make([]int, 10)
	for i := range data {
		data[i] = i * 1000
	}

	s := &source{dec: &mockPCMReader{data: data}, sampleRate: 8000, channels: 2, bitDepth: 16}

	dst := make([]float32, 4)
	total := 0

	for {
		n, err := s.ReadSamples(dst)
		total += n

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if total != len(data) {
		t.Errorf("read %d samples, want %d", total, len(data))
	}

	if s.BufSize() != 4 {
		t.Errorf("BufSize() = %d, want 4", s.BufSize())
	}
}

func TestSource_EightBitIsUnsigned(t *testing.T) {
	t.Parallel()

	s := &source{dec: &mockPCMReader{data: []int{0, 128, 192}}, sampleRate: 8000, channels: 1, bitDepth: 8}

	dst := make([]float32, 3)
	if _, err := s.ReadSamples(dst); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	want := []float32{-1, 0, 0.5}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestSource_ReaderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := &source{dec: &mockPCMReader{err: boom}, sampleRate: 8000, channels: 1, bitDepth: 16}

	if _, err := s.ReadSamples(make([]float32, 8)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want wrapped boom", err)
	}

	if n, err := s.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("empty read = %d, %v", n, err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := make([]int, 1<<16)
	dec := &mockPCMReader{data: data}
	s := &source{dec: dec, sampleRate: 48000, channels: 2, bitDepth: 24}
	dst := make([]float32, 512)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := s.ReadSamples(dst); err != nil {
			dec.pos = 0
		}
	}
}
