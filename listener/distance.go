package listener

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/demrdev/canl-dinleme/algorithms/common"
	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/logging"
)

// DistanceEstimate is a level-based distance guess
type DistanceEstimate struct {
	DistanceMeters    float64 `json:"distance"`
	ConfidencePercent float64 `json:"confidence"`
	Unit              string  `json:"unit"`

	LevelDB               float64 `json:"level_db"`
	FrequencyCorrection   float64 `json:"frequency_correction"`
	SignalToNoiseEstimate float64 `json:"snr_estimate"`
}

// DistanceEstimator infers source distance from the frame level against a
// calibrated reference, corrected by the high/low spectral balance
type DistanceEstimator struct {
	config config.DistanceConfig
	logger logging.Logger
}

// NewDistanceEstimator creates a distance estimator
func NewDistanceEstimator(cfg config.DistanceConfig) (*DistanceEstimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &DistanceEstimator{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "distance_estimator",
		}),
	}, nil
}

// Estimate computes distance (rounded to 0.1 m) and confidence (rounded to
// an integer percent). For a fixed spectrum, distance never increases as
// frame RMS increases.
func (de *DistanceEstimator) Estimate(spectrum, frame []float64) *DistanceEstimate {
	levelDB := common.AmplitudeToDB(common.RMS(frame))

	// Free-field falloff: 6 dB per doubling of distance
	fromLevel := math.Pow(10, (de.config.ReferenceLevelDB-levelDB)/20)
	correction := de.FrequencyCorrection(spectrum)
	distance := fromLevel * correction * de.config.EnvironmentalFactor

	snr := de.EstimateSNR(spectrum)
	confidence := de.levelConfidence(levelDB) * snr / 100

	estimate := &DistanceEstimate{
		DistanceMeters:        common.RoundTo(distance, 1),
		ConfidencePercent:     math.Round(confidence),
		Unit:                  "meters",
		LevelDB:               levelDB,
		FrequencyCorrection:   correction,
		SignalToNoiseEstimate: snr,
	}

	de.logger.Debug("Estimated distance", logging.Fields{
		"level_db":   levelDB,
		"distance":   estimate.DistanceMeters,
		"confidence": estimate.ConfidencePercent,
	})

	return estimate
}

// FrequencyCorrection compares mean magnitude of the upper half of the
// spectrum to the lowest tenth. More high-frequency content means closer.
// Spectra too short to have a low band get the default correction.
func (de *DistanceEstimator) FrequencyCorrection(spectrum []float64) float64 {
	n := len(spectrum)
	startBin := int(math.Floor(float64(n) * de.config.HighBandStart))
	endBin := int(math.Floor(float64(n) * de.config.LowBandEnd))

	if endBin == 0 || startBin >= n {
		return de.config.DefaultCorrection
	}

	high := floats.Sum(spectrum[startBin:]) / float64(n-startBin)
	low := floats.Sum(spectrum[:endBin]) / float64(endBin)
	ratio := high / (low + common.Epsilon)

	for _, corr := range de.config.Corrections {
		if ratio > corr.MinRatio {
			return corr.Factor
		}
	}

	return de.config.DefaultCorrection
}

// EstimateSNR returns min(100, 10 * mean(top bins) / mean(bottom bins)).
// Both means divide by SNRBins even when the spectrum is shorter.
func (de *DistanceEstimator) EstimateSNR(spectrum []float64) float64 {
	sorted := slices.Clone(spectrum)
	slices.Sort(sorted)
	slices.Reverse(sorted)

	k := min(de.config.SNRBins, len(sorted))
	bins := float64(de.config.SNRBins)

	signal := floats.Sum(sorted[:k]) / bins
	noise := floats.Sum(sorted[len(sorted)-k:]) / bins

	return math.Min(100, signal/(noise+common.Epsilon)*10)
}

// levelConfidence maps dB linearly from [floor, ceiling] onto [0, 100]
func (de *DistanceEstimator) levelConfidence(levelDB float64) float64 {
	span := de.config.CeilingDB - de.config.FloorDB
	return common.Clamp((levelDB-de.config.FloorDB)/span*100, 0, 100)
}
