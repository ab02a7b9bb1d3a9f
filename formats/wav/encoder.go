// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	headerSize    = 44
	writeChunk    = 8192
	bitsPerSample = 16
)

// Encode writes interleaved 16-bit samples as a PCM WAV file. The encoder
// patches chunk sizes after the data, so ws must be seekable; use WriteWAV16
// for pipes.
func Encode(ws io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if err := validate(sampleRate, channels); err != nil {
		return err
	}

	enc := wav.NewEncoder(ws, sampleRate, bitsPerSample, channels, formatPCM)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, 0, min(len(samples), writeChunk)),
		SourceBitDepth: bitsPerSample,
	}

	for i := 0; i < len(samples); i += writeChunk {
		end := min(i+writeChunk, len(samples))

		buf.Data = buf.Data[:0]
		for _, s := range samples[i:end] {
			buf.Data = append(buf.Data, int(s))
		}

		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wav encode: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav encode: %w", err)
	}

	return nil
}

// WriteWAV16 streams interleaved 16-bit samples as a PCM WAV file to any
// writer. The header is written up front from len(samples).
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if err := validate(sampleRate, channels); err != nil {
		return err
	}

	blockAlign := channels * bitsPerSample / 8
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, headerSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("wav header: %w", err)
	}

	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), writeChunk)*2)

	for i := 0; i < len(samples); i += writeChunk {
		chunk := samples[i:min(i+writeChunk, len(samples))]
		out := buf[:len(chunk)*2]

		for j, s := range chunk {
			binary.LittleEndian.PutUint16(out[j*2:], uint16(s))
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("wav data: %w", err)
		}
	}

	return nil
}

func validate(sampleRate, channels int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate %d: %w", sampleRate, ErrInvalidSampleRate)
	}

	if channels <= 0 {
		return fmt.Errorf("channels %d: %w", channels, ErrInvalidChannels)
	}

	return nil
}
