package spectral

import (
	"math"
)

// SpectralBandwidth computes the magnitude-weighted spread of bin indices
// around the centroid
type SpectralBandwidth struct{}

// NewSpectralBandwidth creates a new spectral bandwidth calculator
func NewSpectralBandwidth() *SpectralBandwidth {
	return &SpectralBandwidth{}
}

// Compute calculates sqrt(sum(S[i]*(i-c)^2) / sum(S[i])) given the centroid c
func (sb *SpectralBandwidth) Compute(spectrum []float64, centroid float64) float64 {
	numerator := 0.0
	denominator := 0.0

	for i, mag := range spectrum {
		diff := float64(i) - centroid
		numerator += diff * diff * mag
		denominator += mag
	}

	if denominator <= 0 {
		return 0
	}

	return math.Sqrt(numerator / denominator)
}
