package spectral

import (
	"fmt"
	"math"
)

// MelScale provides mel frequency conversion utilities
type MelScale struct{}

// NewMelScale creates a new mel scale converter
func NewMelScale() *MelScale {
	return &MelScale{}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// MelFilterBank is an immutable bank of triangular filters. Each filter has
// FFTSize/2 weights, weight j applying to frequency j*SampleRate/FFTSize.
type MelFilterBank struct {
	Filters    [][]float64 `json:"filters"`
	NumFilters int         `json:"num_filters"`
	FFTSize    int         `json:"fft_size"`
	SampleRate int         `json:"sample_rate"`
}

// NewMelFilterBank builds numFilters triangular filters spanning 0 Hz to
// Nyquist. The edges are numFilters+2 points equally spaced on the mel
// scale; each filter rises linearly from edge m-1 to m and falls to m+1.
func NewMelFilterBank(numFilters, fftSize, sampleRate int) (*MelFilterBank, error) {
	if numFilters <= 0 {
		return nil, fmt.Errorf("invalid number of mel filters: %d", numFilters)
	}
	if fftSize < 2 {
		return nil, fmt.Errorf("invalid FFT size: %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	ms := NewMelScale()
	minMel := ms.HzToMel(0)
	maxMel := ms.HzToMel(float64(sampleRate) / 2.0)

	// Edge frequencies in Hz
	edges := make([]float64, numFilters+2)
	melStep := (maxMel - minMel) / float64(numFilters+1)
	for i := range edges {
		edges[i] = ms.MelToHz(minMel + float64(i)*melStep)
	}

	numWeights := fftSize / 2
	filters := make([][]float64, numFilters)

	for m := 1; m <= numFilters; m++ {
		start, center, end := edges[m-1], edges[m], edges[m+1]
		filter := make([]float64, numWeights)

		for j := range numWeights {
			freq := float64(j) * float64(sampleRate) / float64(fftSize)

			switch {
			case freq >= start && freq <= center && center > start:
				filter[j] = (freq - start) / (center - start)
			case freq >= center && freq <= end && end > center:
				filter[j] = (end - freq) / (end - center)
			}
		}

		filters[m-1] = filter
	}

	return &MelFilterBank{
		Filters:    filters,
		NumFilters: numFilters,
		FFTSize:    fftSize,
		SampleRate: sampleRate,
	}, nil
}

// Apply returns the weighted sum of the spectrum under each filter, over the
// first min(len(spectrum), len(filter)) bins
func (fb *MelFilterBank) Apply(spectrum []float64) []float64 {
	energies := make([]float64, len(fb.Filters))

	for i, filter := range fb.Filters {
		n := min(len(spectrum), len(filter))
		sum := 0.0
		for j := range n {
			sum += spectrum[j] * filter[j]
		}
		energies[i] = sum
	}

	return energies
}
