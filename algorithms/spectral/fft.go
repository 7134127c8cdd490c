package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// WindowType names a tapering window applied before the FFT
type WindowType string

const (
	WindowHann        WindowType = "hann"
	WindowHamming     WindowType = "hamming"
	WindowBlackman    WindowType = "blackman"
	WindowRectangular WindowType = "rectangular"
)

// windowFunc maps a window name to its go-dsp generator
func windowFunc(w WindowType) (func(int) []float64, error) {
	switch w {
	case WindowHann, "":
		return window.Hann, nil
	case WindowHamming:
		return window.Hamming, nil
	case WindowBlackman:
		return window.Blackman, nil
	case WindowRectangular:
		return window.Rectangular, nil
	default:
		return nil, fmt.Errorf("unknown window type: %q", w)
	}
}

// FFT turns time-domain frames into magnitude spectra using mjibson/go-dsp
type FFT struct {
	window WindowType
}

// NewFFT creates a Hann-windowed FFT calculator
func NewFFT() *FFT {
	return &FFT{window: WindowHann}
}

// NewFFTWithWindow creates an FFT calculator with the named window
func NewFFTWithWindow(w WindowType) (*FFT, error) {
	if _, err := windowFunc(w); err != nil {
		return nil, err
	}
	return &FFT{window: w}, nil
}

// Compute computes the complex FFT of x without windowing
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	// go-dsp handles non-power-of-2 sizes
	return fft.FFTReal(x)
}

// MagnitudeSpectrum windows a copy of the frame and returns the magnitudes
// of the first len(frame)/2 bins (DC up to, not including, Nyquist)
func (f *FFT) MagnitudeSpectrum(frame []float64) []float64 {
	if len(frame) < 2 {
		return []float64{}
	}

	buffer := make([]float64, len(frame))
	copy(buffer, frame)

	if fn, err := windowFunc(f.window); err == nil {
		window.Apply(buffer, fn)
	}

	spectrum := f.Compute(buffer)
	numBins := len(frame) / 2
	magnitudes := make([]float64, numBins)

	for i := range numBins {
		magnitudes[i] = cmplx.Abs(spectrum[i])
	}

	return magnitudes
}
