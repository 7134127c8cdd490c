package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demrdev/canl-dinleme/algorithms/filters"
	"github.com/demrdev/canl-dinleme/listener/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig(), cfg)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canl-dinleme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
output_format: json
audio:
  frame_size: 1024
  hop_size: 256
  window_function: hamming
  max_duration: 30s
prefilter:
  enabled: true
  gain: 10
session:
  rhythm:
    consolidate_beats: false
    min_bpm: 50
  distance:
    reference_level_db: -30
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 1024, cfg.Audio.FrameSize)
	assert.Equal(t, 256, cfg.Audio.HopSize)
	assert.Equal(t, "hamming", cfg.Audio.WindowFunction)
	assert.Equal(t, 30*time.Second, cfg.Audio.MaxDuration)

	assert.True(t, cfg.Prefilter.Enabled)
	assert.Equal(t, 10.0, cfg.Prefilter.Gain)
	assert.Len(t, cfg.Prefilter.Bands, 3, "bands keep their defaults")

	assert.False(t, cfg.Session.Rhythm.ConsolidateBeats)
	assert.Equal(t, 50, cfg.Session.Rhythm.MinBPM)
	assert.Equal(t, 200, cfg.Session.Rhythm.MaxBPM)
	assert.Equal(t, -30.0, cfg.Session.Distance.ReferenceLevelDB)
	assert.Equal(t, config.DefaultClassifierConfig(), cfg.Session.Classifier)
}

func TestLoadConfigReplacesTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canl-dinleme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefilter:
  bands:
    - center_freq: 90
      q: 2
session:
  classifier:
    categories:
      - category: vehicle
        rules:
          - feature: energy
            above: 0.9
            points: 10
  distance:
    corrections:
      - min_ratio: 0.4
        factor: 0.9
  rhythm:
    bands:
      - min_bpm: 60
        max_bpm: 70
        label: only
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))

	categories := cfg.Session.Classifier.Categories
	require.Len(t, categories, 1)
	assert.Equal(t, config.CategoryVehicle, categories[0].Category)
	assert.Empty(t, categories[0].MFCCPattern)

	require.Len(t, categories[0].Rules, 1)
	rule := categories[0].Rules[0]
	assert.Equal(t, config.FeatureEnergy, rule.Feature)
	require.NotNil(t, rule.Above)
	assert.Equal(t, 0.9, *rule.Above)
	assert.Nil(t, rule.Below)
	assert.Equal(t, 10.0, rule.Points)
	assert.Equal(t, 20.0, cfg.Session.Classifier.MFCCWeight, "scalars keep their defaults")

	assert.Equal(t, []config.RateBand{{MinBPM: 60, MaxBPM: 70, Label: "only"}}, cfg.Session.Rhythm.Bands)
	assert.Equal(t, config.DefaultRhythmConfig().UnusualBand, cfg.Session.Rhythm.UnusualBand)

	assert.Equal(t, []config.FrequencyCorrection{{MinRatio: 0.4, Factor: 0.9}}, cfg.Session.Distance.Corrections)
	assert.Equal(t, []filters.Band{{CenterFreq: 90, Q: 2}}, cfg.Prefilter.Bands)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"output format", func(c *Config) { c.OutputFormat = "xml" }},
		{"frame size", func(c *Config) { c.Audio.FrameSize = 1 }},
		{"hop size", func(c *Config) { c.Audio.HopSize = 0 }},
		{"max duration", func(c *Config) { c.Audio.MaxDuration = -time.Second }},
		{"window", func(c *Config) { c.Audio.WindowFunction = "kaiser" }},
		{"prefilter bands", func(c *Config) {
			c.Prefilter.Enabled = true
			c.Prefilter.Bands = nil
		}},
		{"session", func(c *Config) { c.Session.Distance.SNRBins = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.modify(cfg)
			assert.ErrorIs(t, ValidateConfig(cfg), config.ErrInvalidConfig)
		})
	}
}
