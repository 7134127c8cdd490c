package spectral

import (
	"fmt"
	"math"

	"github.com/demrdev/canl-dinleme/algorithms/common"
)

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int `json:"num_coefficients" yaml:"num_coefficients" mapstructure:"num_coefficients"` // Number of cepstral coefficients (default: 13)
	NumFilters      int `json:"num_filters" yaml:"num_filters" mapstructure:"num_filters"`                // Mel filters (default: 26)
	FFTSize         int `json:"fft_size" yaml:"fft_size" mapstructure:"fft_size"`                         // FFT size the filter bank is laid out for (default: 2048)
	SampleRate      int `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`                // Sample rate in Hz (default: 48000)
}

// DefaultMFCCParams returns the 13 x 26 filter configuration at 48 kHz / 2048-point FFT
func DefaultMFCCParams() MFCCParams {
	return MFCCParams{
		NumCoefficients: 13,
		NumFilters:      26,
		FFTSize:         2048,
		SampleRate:      48000,
	}
}

// Validate checks the parameters describe a buildable filter bank
func (p MFCCParams) Validate() error {
	if p.NumCoefficients <= 0 {
		return fmt.Errorf("num_coefficients must be positive, got %d", p.NumCoefficients)
	}
	if p.NumFilters <= 0 {
		return fmt.Errorf("num_filters must be positive, got %d", p.NumFilters)
	}
	if p.FFTSize < 2 {
		return fmt.Errorf("fft_size must be at least 2, got %d", p.FFTSize)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", p.SampleRate)
	}
	return nil
}

// MFCCResult contains MFCC computation results
type MFCCResult struct {
	MFCC        []float64 `json:"mfcc"`         // Cepstral coefficients
	MelSpectrum []float64 `json:"mel_spectrum"` // Natural-log mel energies fed to the DCT
}

// MFCC computes Mel-Frequency Cepstral Coefficients from a magnitude
// spectrum. The filter bank is built once at construction; no liftering or
// normalization is applied to the output.
type MFCC struct {
	params     MFCCParams
	filterBank *MelFilterBank
	dctMatrix  [][]float64
}

// NewMFCC creates an MFCC extractor with default parameters
func NewMFCC() *MFCC {
	mfcc, err := NewMFCCWithParams(DefaultMFCCParams())
	if err != nil {
		panic(err) // defaults always validate
	}
	return mfcc
}

// NewMFCCWithParams creates an MFCC extractor with custom parameters
func NewMFCCWithParams(params MFCCParams) (*MFCC, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid MFCC parameters: %w", err)
	}

	filterBank, err := NewMelFilterBank(params.NumFilters, params.FFTSize, params.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create mel filter bank: %w", err)
	}

	mfcc := &MFCC{
		params:     params,
		filterBank: filterBank,
	}
	mfcc.createDCTMatrix()

	return mfcc, nil
}

// Params returns the parameters the extractor was built with
func (mfcc *MFCC) Params() MFCCParams {
	return mfcc.params
}

// FilterBank returns the mel filter bank
func (mfcc *MFCC) FilterBank() *MelFilterBank {
	return mfcc.filterBank
}

// Compute returns exactly NumCoefficients coefficients for the spectrum
func (mfcc *MFCC) Compute(spectrum []float64) []float64 {
	return mfcc.ComputeDetailed(spectrum).MFCC
}

// ComputeDetailed returns the coefficients together with the log mel energies
func (mfcc *MFCC) ComputeDetailed(spectrum []float64) *MFCCResult {
	logMel := mfcc.filterBank.Apply(spectrum)
	for i, energy := range logMel {
		logMel[i] = math.Log(energy + common.Epsilon)
	}

	coefficients := make([]float64, mfcc.params.NumCoefficients)
	for k, basis := range mfcc.dctMatrix {
		sum := 0.0
		for j, logEnergy := range logMel {
			sum += logEnergy * basis[j]
		}
		coefficients[k] = sum
	}

	return &MFCCResult{
		MFCC:        coefficients,
		MelSpectrum: logMel,
	}
}

// createDCTMatrix precomputes the unnormalized DCT-II basis
// cos(k * (j + 0.5) * pi / numFilters)
func (mfcc *MFCC) createDCTMatrix() {
	numFilters := mfcc.params.NumFilters
	mfcc.dctMatrix = make([][]float64, mfcc.params.NumCoefficients)

	for k := range mfcc.dctMatrix {
		mfcc.dctMatrix[k] = make([]float64, numFilters)
		for j := range numFilters {
			mfcc.dctMatrix[k][j] = math.Cos(float64(k) * (float64(j) + 0.5) * math.Pi / float64(numFilters))
		}
	}
}
