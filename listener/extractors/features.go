package extractors

import (
	"github.com/demrdev/canl-dinleme/listener/config"
)

// FeatureVector is the per-frame feature set consumed by the classifier
type FeatureVector struct {
	SpectralCentroid  float64   `json:"spectral_centroid"`  // Bin-index units
	SpectralRolloff   float64   `json:"spectral_rolloff"`   // Normalized position in [0, 1]
	SpectralBandwidth float64   `json:"spectral_bandwidth"` // Bin-index units
	ZeroCrossingRate  float64   `json:"zero_crossing_rate"` // Crossings per sample
	MFCC              []float64 `json:"mfcc"`
	Energy            float64   `json:"energy"` // Mean square amplitude
	SpectralFlux      float64   `json:"spectral_flux"`
	HarmonicRatio     float64   `json:"harmonic_ratio"`
}

// Value returns the named scalar feature
func (fv *FeatureVector) Value(feature config.Feature) (float64, bool) {
	switch feature {
	case config.FeatureSpectralCentroid:
		return fv.SpectralCentroid, true
	case config.FeatureSpectralRolloff:
		return fv.SpectralRolloff, true
	case config.FeatureSpectralBandwidth:
		return fv.SpectralBandwidth, true
	case config.FeatureZeroCrossingRate:
		return fv.ZeroCrossingRate, true
	case config.FeatureEnergy:
		return fv.Energy, true
	case config.FeatureSpectralFlux:
		return fv.SpectralFlux, true
	case config.FeatureHarmonicRatio:
		return fv.HarmonicRatio, true
	default:
		return 0, false
	}
}
