package spectral

import (
	"fmt"
	"runtime"
	"sync"
)

// STFT slices a signal into overlapping frames and computes a windowed
// magnitude spectrum per frame
type STFT struct {
	fft *FFT
}

// STFTResult holds the frames and spectra of an STFT pass
type STFTResult struct {
	Frames         [][]float64 `json:"-"`               // Time-domain frames (unwindowed)
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Bins per spectrum (window size / 2)
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// NewSTFT creates a new STFT calculator on top of the given FFT
func NewSTFT(fft *FFT) *STFT {
	if fft == nil {
		fft = NewFFT()
	}
	return &STFT{fft: fft}
}

// Compute frames the signal and computes the spectra in parallel.
// Frames are independent, so order in the result follows time order.
func (s *STFT) Compute(signal []float64, windowSize, hopSize, sampleRate int) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if windowSize < 2 {
		return nil, fmt.Errorf("window size must be at least 2, got %d", windowSize)
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive, got %d", hopSize)
	}

	numFrames := (len(signal)-windowSize)/hopSize + 1
	if len(signal) < windowSize || numFrames <= 0 {
		return nil, fmt.Errorf("signal too short for window size %d", windowSize)
	}

	frames := make([][]float64, numFrames)
	magnitude := make([][]float64, numFrames)

	jobs := make(chan int, numFrames)
	var wg sync.WaitGroup

	for range s.getOptimalWorkerCount(numFrames) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for frameIdx := range jobs {
				start := frameIdx * hopSize
				frame := make([]float64, windowSize)
				copy(frame, signal[start:start+windowSize])

				frames[frameIdx] = frame
				magnitude[frameIdx] = s.fft.MagnitudeSpectrum(frame)
			}
		}()
	}

	for frameIdx := range numFrames {
		jobs <- frameIdx
	}
	close(jobs)
	wg.Wait()

	result := &STFTResult{
		Frames:         frames,
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       windowSize / 2,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}

	return result, nil
}

// getOptimalWorkerCount determines the number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
