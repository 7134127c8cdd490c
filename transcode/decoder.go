package transcode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/demrdev/canl-dinleme/logging"
)

// ErrInvalidWAV is returned for input that is not a PCM WAV stream
var ErrInvalidWAV = errors.New("invalid WAV file")

// AudioData represents decoded audio, one float slice per channel scaled to [-1, 1)
type AudioData struct {
	Channels   [][]float64    `json:"-"`
	SampleRate int            `json:"sample_rate"`
	NumFrames  int            `json:"num_frames"` // Samples per channel
	Duration   time.Duration  `json:"duration"`
	Metadata   *AudioMetadata `json:"metadata,omitempty"`
}

// AudioMetadata describes the source file
type AudioMetadata struct {
	Path        string `json:"path,omitempty"`
	Format      string `json:"format"`
	BitDepth    int    `json:"bit_depth"`
	NumChannels int    `json:"num_channels"`
}

// NumChannels returns the channel count
func (a *AudioData) NumChannels() int {
	return len(a.Channels)
}

// Mono returns the per-sample mean of all channels
func (a *AudioData) Mono() []float64 {
	if len(a.Channels) == 1 {
		return a.Channels[0]
	}

	mono := make([]float64, a.NumFrames)
	if len(a.Channels) == 0 {
		return mono
	}

	scale := 1.0 / float64(len(a.Channels))
	for _, ch := range a.Channels {
		for i, v := range ch {
			mono[i] += v * scale
		}
	}
	return mono
}

// Stereo returns the first two channels, or an error for mono input
func (a *AudioData) Stereo() (left, right []float64, err error) {
	if len(a.Channels) < 2 {
		return nil, nil, fmt.Errorf("stereo input required, got %d channel(s)", len(a.Channels))
	}
	return a.Channels[0], a.Channels[1], nil
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	MaxDuration time.Duration `json:"max_duration" yaml:"max_duration" mapstructure:"max_duration"` // 0 = no limit
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		MaxDuration: 0,
	}
}

// Decoder reads PCM WAV files with go-audio
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a decoder; nil config uses defaults
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}

	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// DecodeFile decodes a WAV file from disk
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"file":     filename,
	})

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	data, err := d.DecodeReader(file)
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	data.Metadata.Path = filename

	logger.Debug("Decoded audio file", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.NumChannels(),
		"duration":    data.Duration.String(),
	})

	return data, nil
}

// DecodeReader decodes a WAV stream
func (d *Decoder) DecodeReader(r io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format information", ErrInvalidWAV)
	}

	return d.fromIntBuffer(buf)
}

// fromIntBuffer de-interleaves and scales integer PCM to floats
func (d *Decoder) fromIntBuffer(buf *audio.IntBuffer) (*AudioData, error) {
	numChannels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}

	numFrames := len(buf.Data) / numChannels
	if d.config.MaxDuration > 0 {
		limit := int(d.config.MaxDuration.Seconds() * float64(sampleRate))
		numFrames = min(numFrames, limit)
	}

	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	// 8-bit WAV is unsigned
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	channels := make([][]float64, numChannels)
	for ch := range channels {
		channels[ch] = make([]float64, numFrames)
	}

	for i := range numFrames {
		for ch := range numChannels {
			channels[ch][i] = float64(buf.Data[i*numChannels+ch]-offset) * scale
		}
	}

	return &AudioData{
		Channels:   channels,
		SampleRate: sampleRate,
		NumFrames:  numFrames,
		Duration:   time.Duration(float64(numFrames) / float64(sampleRate) * float64(time.Second)),
		Metadata: &AudioMetadata{
			Format:      "wav",
			BitDepth:    bitDepth,
			NumChannels: numChannels,
		},
	}, nil
}
