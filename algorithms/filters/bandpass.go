package filters

import (
	"fmt"
	"math"
)

// BandpassFilter implements a constant-peak-gain biquad bandpass.
//
// Coefficients follow Robert Bristow-Johnson's "Cookbook formulae for audio
// EQ biquad filter coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type BandpassFilter struct {
	sampleRate int
	centerFreq float64 // Center frequency in Hz
	qFactor    float64 // Quality factor (centerFreq/bandwidth)

	// Normalized biquad coefficients (a0 == 1)
	b0, b1, b2 float64
	a1, a2     float64

	// Direct form II delay line
	w1, w2 float64
}

// NewBandpassFilter creates a bandpass filter centered on centerFreq with the given Q.
// Higher Q values create narrower, more selective filters.
func NewBandpassFilter(sampleRate int, centerFreq, qFactor float64) (*BandpassFilter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if centerFreq <= 0 || centerFreq >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("center frequency must be between 0 and Nyquist frequency (%d Hz), got %.1f", sampleRate/2, centerFreq)
	}
	if qFactor <= 0 {
		return nil, fmt.Errorf("Q factor must be positive, got %.2f", qFactor)
	}

	bf := &BandpassFilter{
		sampleRate: sampleRate,
		centerFreq: centerFreq,
		qFactor:    qFactor,
	}
	bf.computeCoefficients()

	return bf, nil
}

// computeCoefficients calculates the biquad coefficients using the cookbook formula
func (bf *BandpassFilter) computeCoefficients() {
	// w0 = 2*pi*f0/Fs
	w0 := 2.0 * math.Pi * bf.centerFreq / float64(bf.sampleRate)
	alpha := math.Sin(w0) / (2.0 * bf.qFactor)
	a0 := 1.0 + alpha

	bf.b0 = alpha / a0
	bf.b1 = 0.0
	bf.b2 = -alpha / a0
	bf.a1 = -2.0 * math.Cos(w0) / a0
	bf.a2 = (1.0 - alpha) / a0
}

// Process applies the filter to a single sample.
//
// w[n] = x[n] - a1*w[n-1] - a2*w[n-2]
// y[n] = b0*w[n] + b1*w[n-1] + b2*w[n-2]
func (bf *BandpassFilter) Process(input float64) float64 {
	w := input - bf.a1*bf.w1 - bf.a2*bf.w2
	output := bf.b0*w + bf.b1*bf.w1 + bf.b2*bf.w2

	bf.w2 = bf.w1
	bf.w1 = w

	return output
}

// ProcessBuffer applies the filter to an entire buffer of samples
func (bf *BandpassFilter) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = bf.Process(sample)
	}
	return output
}

// Reset clears the delay line
func (bf *BandpassFilter) Reset() {
	bf.w1, bf.w2 = 0.0, 0.0
}
