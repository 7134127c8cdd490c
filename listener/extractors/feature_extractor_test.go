package extractors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demrdev/canl-dinleme/algorithms/spectral"
	"github.com/demrdev/canl-dinleme/listener/config"
)

func TestExtractSilence(t *testing.T) {
	fe, err := NewFeatureExtractor(spectral.DefaultMFCCParams())
	require.NoError(t, err)

	features := fe.Extract(make([]float64, 1024), make([]float64, 2048))

	assert.Zero(t, features.SpectralCentroid)
	assert.Zero(t, features.SpectralRolloff)
	assert.Zero(t, features.SpectralBandwidth)
	assert.Zero(t, features.ZeroCrossingRate)
	assert.Zero(t, features.Energy)
	assert.Zero(t, features.SpectralFlux)
	assert.Zero(t, features.HarmonicRatio)
	assert.Len(t, features.MFCC, 13)
}

func TestExtractTone(t *testing.T) {
	fe, err := NewFeatureExtractor(spectral.DefaultMFCCParams())
	require.NoError(t, err)

	frame := make([]float64, 2048)
	for i := range frame {
		frame[i] = 0.5 * math.Sin(2*math.Pi*64*float64(i)/2048)
	}
	spectrum := spectral.NewFFT().MagnitudeSpectrum(frame)

	first := fe.Extract(spectrum, frame)
	assert.InDelta(t, 64, first.SpectralCentroid, 1)
	assert.InDelta(t, 0.125, first.Energy, 1e-9)
	assert.InDelta(t, 128.0/2048.0, first.ZeroCrossingRate, 1.0/2048.0)
	assert.Greater(t, first.HarmonicRatio, 0.3)
	assert.Positive(t, first.SpectralFlux)

	second := fe.Extract(spectrum, frame)
	assert.Zero(t, second.SpectralFlux)

	fe.Reset()
	assert.Equal(t, first.SpectralFlux, fe.Extract(spectrum, frame).SpectralFlux)
}

func TestFeatureVectorValue(t *testing.T) {
	fv := &FeatureVector{
		SpectralCentroid:  1,
		SpectralRolloff:   2,
		SpectralBandwidth: 3,
		ZeroCrossingRate:  4,
		Energy:            5,
		SpectralFlux:      6,
		HarmonicRatio:     7,
	}

	features := []config.Feature{
		config.FeatureSpectralCentroid,
		config.FeatureSpectralRolloff,
		config.FeatureSpectralBandwidth,
		config.FeatureZeroCrossingRate,
		config.FeatureEnergy,
		config.FeatureSpectralFlux,
		config.FeatureHarmonicRatio,
	}
	for i, feature := range features {
		value, ok := fv.Value(feature)
		assert.True(t, ok, feature)
		assert.Equal(t, float64(i+1), value, feature)
	}

	_, ok := fv.Value("loudness")
	assert.False(t, ok)
}

func TestNewFeatureExtractorRejectsBadParams(t *testing.T) {
	_, err := NewFeatureExtractor(spectral.MFCCParams{})
	assert.Error(t, err)
}
