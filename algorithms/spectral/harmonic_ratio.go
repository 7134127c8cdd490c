package spectral

// DefaultNumHarmonics is the number of harmonics (fundamental included) summed
const DefaultNumHarmonics = 5

// HarmonicRatio estimates how much of the spectral magnitude sits on the
// harmonic series of the strongest bin in the lower half of the spectrum
type HarmonicRatio struct {
	numHarmonics int
}

// NewHarmonicRatio creates a harmonic ratio calculator summing five harmonics
func NewHarmonicRatio() *HarmonicRatio {
	return &HarmonicRatio{numHarmonics: DefaultNumHarmonics}
}

// Compute picks the fundamental as the bin of maximum magnitude among
// 1 <= i < len/2, then returns sum(S[h*f0]) for h = 1..5 (bins in range)
// divided by sum(S). Returns 0 for an all-zero spectrum.
func (hr *HarmonicRatio) Compute(spectrum []float64) float64 {
	fundamental := hr.FundamentalBin(spectrum)

	harmonicSum := 0.0
	for h := 1; h <= hr.numHarmonics; h++ {
		bin := fundamental * h
		if bin < len(spectrum) {
			harmonicSum += spectrum[bin]
		}
	}

	total := 0.0
	for _, mag := range spectrum {
		total += mag
	}

	if total <= 0 {
		return 0.0
	}

	return harmonicSum / total
}

// FundamentalBin returns the strongest bin in [1, len/2), or 0 if none is positive
func (hr *HarmonicRatio) FundamentalBin(spectrum []float64) int {
	maxBin := 0
	maxValue := 0.0

	for i := 1; 2*i < len(spectrum); i++ {
		if spectrum[i] > maxValue {
			maxValue = spectrum[i]
			maxBin = i
		}
	}

	return maxBin
}
