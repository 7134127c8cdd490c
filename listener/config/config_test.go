package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, DefaultSessionConfig().Validate())
	require.NoError(t, DefaultClassifierConfig().Validate())
	require.NoError(t, DefaultDistanceConfig().Validate())
	require.NoError(t, DefaultDirectionConfig().Validate())
	require.NoError(t, DefaultRhythmConfig().Validate())
}

func TestDefaultClassifierTable(t *testing.T) {
	cfg := DefaultClassifierConfig()

	assert.Len(t, cfg.Categories, len(Categories))
	assert.Empty(t, cfg.RulesFor(CategoryMechanical).Rules)
	assert.Empty(t, cfg.RulesFor(CategoryElectronic).Rules)
	assert.Len(t, cfg.RulesFor(CategoryHuman).Rules, 3)
	assert.Equal(t, []float64{1.5, -0.8, 0.2, -0.4}, cfg.RulesFor(CategoryEmergency).MFCCPattern)

	missing := ClassifierConfig{}.RulesFor(CategoryMusic)
	assert.Equal(t, CategoryMusic, missing.Category)
	assert.Empty(t, missing.Rules)
}

func TestRuleMatchesStrictBounds(t *testing.T) {
	lo, hi := 50.0, 200.0
	rule := Rule{Feature: FeatureSpectralCentroid, Above: &lo, Below: &hi, Points: 30}

	assert.True(t, rule.Matches(100))
	assert.False(t, rule.Matches(50))
	assert.False(t, rule.Matches(200))

	open := Rule{Feature: FeatureEnergy, Above: &lo}
	assert.True(t, open.Matches(1e9))
}

func TestRuleValidate(t *testing.T) {
	lo, hi := 1.0, 2.0

	tests := []struct {
		name string
		rule Rule
	}{
		{"unknown feature", Rule{Feature: "loudness", Above: &lo}},
		{"no bounds", Rule{Feature: FeatureEnergy}},
		{"empty range", Rule{Feature: FeatureEnergy, Above: &hi, Below: &lo}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.rule.Validate(), ErrInvalidConfig)
		})
	}
}

func TestClassifierConfigValidate(t *testing.T) {
	cfg := DefaultClassifierConfig()
	cfg.Categories = append(cfg.Categories, CategoryRules{Category: CategoryHuman})
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultClassifierConfig()
	cfg.Categories = append(cfg.Categories[:0:0], CategoryRules{Category: CategoryUnknown})
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestDistanceConfigValidate(t *testing.T) {
	cfg := DefaultDistanceConfig()
	cfg.Corrections = []FrequencyCorrection{{MinRatio: 0.1, Factor: 1.2}, {MinRatio: 0.5, Factor: 0.8}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultDistanceConfig()
	cfg.SNRBins = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestRhythmConfigValidate(t *testing.T) {
	cfg := DefaultRhythmConfig()
	cfg.MinBPM, cfg.MaxBPM = 200, 40
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultRhythmConfig()
	cfg.Bands[0].MinBPM = 500
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultRhythmConfig()
	cfg.OutlierK = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultRhythmConfig()
	cfg.MinConfidenceIntervals = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestRateBandContains(t *testing.T) {
	band := RateBand{MinBPM: 50, MaxBPM: 120}

	assert.True(t, band.Contains(50))
	assert.True(t, band.Contains(120))
	assert.False(t, band.Contains(121))
}

func TestWithSampleRate(t *testing.T) {
	cfg := DefaultSessionConfig().WithSampleRate(22050)

	assert.Equal(t, 22050, cfg.SampleRate)
	assert.Equal(t, 22050, cfg.MFCC.SampleRate)
	assert.Equal(t, 22050, cfg.Direction.SampleRate)
	assert.Equal(t, 22050, cfg.Rhythm.SampleRate)
	assert.Equal(t, 48000, DefaultSessionConfig().SampleRate)
}
