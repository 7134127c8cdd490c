package temporal

import (
	"github.com/demrdev/canl-dinleme/algorithms/common"
)

// Peak is a local maximum of a time-domain signal
type Peak struct {
	Index     int     `json:"index"`
	Amplitude float64 `json:"amplitude"`
	Time      float64 `json:"time"` // Index / sampleRate, seconds
}

// DynamicThreshold returns mean(|x|) + k * std(|x|) with the population
// standard deviation
func DynamicThreshold(signal []float64, k float64) float64 {
	if len(signal) == 0 {
		return 0.0
	}

	magnitudes := common.Abs(signal)
	return common.Mean(magnitudes) + k*common.PopulationStdDev(magnitudes)
}

// PeakPicker finds local maxima above an adaptive threshold
type PeakPicker struct {
	sampleRate float64
	thresholdK float64
}

// NewPeakPicker creates a peak picker. sampleRate may be fractional for
// downsampled envelopes.
func NewPeakPicker(sampleRate float64, thresholdK float64) *PeakPicker {
	return &PeakPicker{
		sampleRate: sampleRate,
		thresholdK: thresholdK,
	}
}

// Threshold returns the detection threshold for the signal
func (pp *PeakPicker) Threshold(signal []float64) float64 {
	return DynamicThreshold(signal, pp.thresholdK)
}

// FindPeaks returns every interior sample strictly above the threshold and
// strictly greater than both neighbours. Samples are compared signed, so
// negative excursions never qualify.
func (pp *PeakPicker) FindPeaks(signal []float64) []Peak {
	if len(signal) < 3 {
		return []Peak{}
	}

	threshold := pp.Threshold(signal)
	peaks := make([]Peak, 0)

	for i := 1; i < len(signal)-1; i++ {
		x := signal[i]
		if x > threshold && x > signal[i-1] && x > signal[i+1] {
			peaks = append(peaks, Peak{
				Index:     i,
				Amplitude: x,
				Time:      common.SafeDivide(float64(i), pp.sampleRate),
			})
		}
	}

	return peaks
}
