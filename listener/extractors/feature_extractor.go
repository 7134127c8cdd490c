package extractors

import (
	"fmt"

	"github.com/demrdev/canl-dinleme/algorithms/spectral"
	"github.com/demrdev/canl-dinleme/algorithms/temporal"
	"github.com/demrdev/canl-dinleme/logging"
)

// FeatureExtractor turns one (spectrum, frame) pair into a FeatureVector.
// It holds the spectral flux history, so frames of one stream must go
// through the same extractor in order. Not safe for concurrent use.
type FeatureExtractor struct {
	centroid  *spectral.SpectralCentroid
	rolloff   *spectral.SpectralRolloff
	bandwidth *spectral.SpectralBandwidth
	zcr       *spectral.ZeroCrossingRate
	flux      *spectral.SpectralFlux
	harmonic  *spectral.HarmonicRatio
	mfcc      *spectral.MFCC
	energy    *temporal.Energy

	logger logging.Logger
}

// NewFeatureExtractor creates an extractor with the given MFCC parameters
func NewFeatureExtractor(mfccParams spectral.MFCCParams) (*FeatureExtractor, error) {
	mfcc, err := spectral.NewMFCCWithParams(mfccParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create MFCC extractor: %w", err)
	}

	return &FeatureExtractor{
		centroid:  spectral.NewSpectralCentroid(),
		rolloff:   spectral.NewSpectralRolloff(),
		bandwidth: spectral.NewSpectralBandwidth(),
		zcr:       spectral.NewZeroCrossingRate(),
		flux:      spectral.NewSpectralFlux(),
		harmonic:  spectral.NewHarmonicRatio(),
		mfcc:      mfcc,
		energy:    temporal.NewEnergy(),
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}, nil
}

// Extract computes every feature. Flux is taken against the spectrum of the
// previous call (zeros on the first call).
func (fe *FeatureExtractor) Extract(spectrum, frame []float64) *FeatureVector {
	if len(spectrum) < 2 || len(frame) < 2 {
		fe.logger.Warn("Degenerate input frame", logging.Fields{
			"spectrum_len": len(spectrum),
			"frame_len":    len(frame),
		})
	}

	centroid := fe.centroid.Compute(spectrum)

	features := &FeatureVector{
		SpectralCentroid:  centroid,
		SpectralRolloff:   fe.rolloff.Compute(spectrum, spectral.DefaultRolloffThreshold),
		SpectralBandwidth: fe.bandwidth.Compute(spectrum, centroid),
		ZeroCrossingRate:  fe.zcr.Compute(frame),
		MFCC:              fe.mfcc.Compute(spectrum),
		Energy:            fe.energy.Compute(frame),
		SpectralFlux:      fe.flux.Compute(spectrum),
		HarmonicRatio:     fe.harmonic.Compute(spectrum),
	}

	fe.logger.Debug("Extracted features", logging.Fields{
		"centroid": features.SpectralCentroid,
		"flux":     features.SpectralFlux,
		"energy":   features.Energy,
	})

	return features
}

// Reset forgets the previous spectrum
func (fe *FeatureExtractor) Reset() {
	fe.flux.Reset()
}
