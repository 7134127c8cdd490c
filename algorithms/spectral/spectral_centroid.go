package spectral

// SpectralCentroid computes the spectral centroid (center of mass) of a
// magnitude spectrum, in bin-index units
type SpectralCentroid struct{}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid() *SpectralCentroid {
	return &SpectralCentroid{}
}

// Compute calculates sum(i*S[i]) / sum(S[i]) for a single spectrum.
// Returns 0 for an empty or all-zero spectrum.
func (sc *SpectralCentroid) Compute(spectrum []float64) float64 {
	numerator := 0.0
	denominator := 0.0

	for i, mag := range spectrum {
		numerator += float64(i) * mag
		denominator += mag
	}

	if denominator <= 0 {
		return 0
	}

	return numerator / denominator
}
