package transcode

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeFile writes channels as 16-bit PCM WAV. Channels must have equal
// length; samples are clipped to [-1, 1].
func EncodeFile(filename string, channels [][]float64, sampleRate int) error {
	if len(channels) == 0 {
		return fmt.Errorf("no channels to encode")
	}
	numFrames := len(channels[0])
	for ch, data := range channels {
		if len(data) != numFrames {
			return fmt.Errorf("channel %d has %d samples, want %d", ch, len(data), numFrames)
		}
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("output file creation error: %w", err)
	}
	defer outFile.Close()

	const bitDepth = 16
	encoder := wav.NewEncoder(outFile, sampleRate, bitDepth, len(channels), 1) // 1 = PCM

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(channels),
			SampleRate:  sampleRate,
		},
		Data:           make([]int, numFrames*len(channels)),
		SourceBitDepth: bitDepth,
	}

	for i := range numFrames {
		for ch, data := range channels {
			v := math.Max(-1, math.Min(1, data[i]))
			buf.Data[i*len(channels)+ch] = int(math.Round(v * 32767))
		}
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("data writing error: %w", err)
	}

	return encoder.Close()
}
