package spectral

// DefaultRolloffThreshold is the cumulative-magnitude fraction used for rolloff
const DefaultRolloffThreshold = 0.85

// SpectralRolloff computes the normalized bin position below which a given
// fraction of the total spectral magnitude lies
type SpectralRolloff struct{}

// NewSpectralRolloff creates a new spectral rolloff calculator
func NewSpectralRolloff() *SpectralRolloff {
	return &SpectralRolloff{}
}

// Compute returns the smallest i/len(spectrum) at which the running sum of
// magnitudes reaches threshold*total (threshold: typically 0.85).
// An all-zero spectrum rolls off at 0; 1 is returned if the target is never reached.
func (sr *SpectralRolloff) Compute(spectrum []float64, threshold float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	total := 0.0
	for _, mag := range spectrum {
		total += mag
	}

	target := total * threshold
	cumulative := 0.0

	for i, mag := range spectrum {
		cumulative += mag
		if cumulative >= target {
			return float64(i) / float64(len(spectrum))
		}
	}

	return 1.0
}
