package spectral

import (
	"math"
)

// SpectralFlux computes the positive spectral change between consecutive
// spectra. It remembers the previous spectrum, so one instance must follow
// one stream of frames.
type SpectralFlux struct {
	previous []float64
}

// NewSpectralFlux creates a new spectral flux calculator with an all-zero history
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Compute returns sqrt(sum(max(0, S[i]-prev[i])^2)) and stores S as the new
// previous spectrum. The first call compares against zeros. A change in
// spectrum length restarts the history at zero.
func (sf *SpectralFlux) Compute(spectrum []float64) float64 {
	if len(sf.previous) != len(spectrum) {
		sf.previous = make([]float64, len(spectrum))
	}

	sum := 0.0
	for i, mag := range spectrum {
		diff := mag - sf.previous[i]
		if diff > 0 { // Only positive changes (energy increases)
			sum += diff * diff
		}
	}

	copy(sf.previous, spectrum)
	return math.Sqrt(sum)
}

// Reset clears the previous spectrum
func (sf *SpectralFlux) Reset() {
	sf.previous = nil
}
