// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/audgrain/audio"
	"github.com/ik5/audgrain/formats/wav"
)

// Example writes a short stereo file and loads it back as an asset.
func Example() {
	samples := make([]int16, 2*800)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}

	var file bytes.Buffer
	if err := wav.WriteWAV16(&file, 8000, 2, samples); err != nil {
		fmt.Println("write:", err)
		return
	}

	src, err := wav.Decoder{}.Decode(bytes.NewReader(file.Bytes()))
	if err != nil {
		fmt.Println("decode:", err)
		return
	}
	defer src.Close()

	asset, err := audio.Load(src, 0)
	if err != nil {
		fmt.Println("load:", err)
		return
	}

	fmt.Printf("Channels: %d\n", asset.Channels())
	fmt.Printf("Duration: %.2fs\n", audio.Duration(asset))
	// Output:
	// Channels: 2
	// Duration: 0.10s
}
