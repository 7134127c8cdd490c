package transcode

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pcm16Step = 1.0 / 32768.0

func writeWAV(t *testing.T, channels [][]float64, sampleRate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.wav")
	require.NoError(t, EncodeFile(path, channels, sampleRate))
	return path
}

func TestEncodeDecodeStereo(t *testing.T) {
	left := []float64{0, 0.5, -0.25, 1.5, -1}
	right := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	path := writeWAV(t, [][]float64{left, right}, 8000)

	data, err := NewDecoder(nil).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8000, data.SampleRate)
	assert.Equal(t, 5, data.NumFrames)
	assert.Equal(t, 2, data.NumChannels())
	assert.Equal(t, path, data.Metadata.Path)
	assert.Equal(t, 16, data.Metadata.BitDepth)

	// Out-of-range input is clipped
	assert.InDeltaSlice(t, []float64{0, 0.5, -0.25, 1, -1}, data.Channels[0], 2*pcm16Step)
	assert.InDeltaSlice(t, right, data.Channels[1], 2*pcm16Step)

	l, r, err := data.Stereo()
	require.NoError(t, err)
	assert.Equal(t, data.Channels[0], l)
	assert.Equal(t, data.Channels[1], r)

	mono := data.Mono()
	assert.InDelta(t, 0.35, mono[1], 2*pcm16Step)
}

func TestDecodeMono(t *testing.T) {
	samples := make([]float64, 2000)
	for i := range samples {
		samples[i] = 0.25
	}
	path := writeWAV(t, [][]float64{samples}, 1000)

	data, err := NewDecoder(DefaultDecoderConfig()).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, data.Duration)
	assert.Equal(t, data.Channels[0], data.Mono())

	_, _, err = data.Stereo()
	assert.Error(t, err)
}

func TestDecodeMaxDuration(t *testing.T) {
	path := writeWAV(t, [][]float64{make([]float64, 2000)}, 1000)

	data, err := NewDecoder(&DecoderConfig{MaxDuration: 500 * time.Millisecond}).DecodeFile(path)
	require.NoError(t, err)

	assert.Equal(t, 500, data.NumFrames)
	assert.Len(t, data.Channels[0], 500)
}

func TestDecodeInvalidInput(t *testing.T) {
	_, err := NewDecoder(nil).DecodeReader(bytes.NewReader([]byte("definitely not a wav file")))
	assert.ErrorIs(t, err, ErrInvalidWAV)

	_, err = NewDecoder(nil).DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestEncodeRejectsRaggedChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	assert.Error(t, EncodeFile(path, nil, 8000))
	assert.Error(t, EncodeFile(path, [][]float64{{0, 0}, {0}}, 8000))
}

func TestFrames(t *testing.T) {
	signal := []float64{0, 1, 2, 3, 4, 5, 6}

	frames := Frames(signal, 4, 2)
	require.Len(t, frames, 2)
	assert.Equal(t, []float64{0, 1, 2, 3}, frames[0])
	assert.Equal(t, []float64{2, 3, 4, 5}, frames[1])

	assert.Empty(t, Frames(signal, 8, 2))
	assert.Empty(t, Frames(signal, 4, 0))

	assert.InDelta(t, 0.5, FrameTime(2, 1000, 4000), 1e-12)
	assert.Zero(t, FrameTime(2, 1000, 0))
}
