package stats

import (
	"math"
)

// CorrelationResult contains the lag search output
type CorrelationResult struct {
	Correlations []float64 `json:"correlations"`
	Lags         []int     `json:"lags"`

	// Peak correlation information
	PeakCorrelation float64 `json:"peak_correlation"`
	PeakLag         int     `json:"peak_lag"`
	PeakIndex       int     `json:"peak_index"`

	MaxLag int `json:"max_lag"`
}

// CrossCorrelation computes raw (unnormalized) time-domain cross-correlation
// between two signals over a symmetric lag window.
//
// For lag >= 0 the first signal is advanced: r[lag] = sum x[i+lag] * y[i].
// For lag < 0 the second signal is advanced: r[lag] = sum x[i] * y[i-lag].
// Only the overlapping region contributes.
//
// References:
// - Knapp, C., Carter, G. (1976). "The generalized correlation method for
//   estimation of time delay"
type CrossCorrelation struct {
	maxLag int
}

// NewCrossCorrelation creates a cross-correlation calculator searching [-maxLag, maxLag]
func NewCrossCorrelation(maxLag int) *CrossCorrelation {
	if maxLag < 0 {
		maxLag = -maxLag
	}
	return &CrossCorrelation{maxLag: maxLag}
}

// Compute evaluates the correlation at every lag in the window.
//
// The peak is the first lag whose correlation strictly exceeds every
// earlier one and zero, so uncorrelated or anti-correlated input reports
// lag 0 with peak 0.
func (cc *CrossCorrelation) Compute(signal1, signal2 []float64) *CorrelationResult {
	numLags := 2*cc.maxLag + 1
	result := &CorrelationResult{
		Correlations: make([]float64, numLags),
		Lags:         make([]int, numLags),
		PeakIndex:    cc.maxLag,
		MaxLag:       cc.maxLag,
	}

	for i := range numLags {
		lag := i - cc.maxLag
		corr := cc.computeAtLag(signal1, signal2, lag)

		result.Lags[i] = lag
		result.Correlations[i] = corr

		if corr > result.PeakCorrelation {
			result.PeakCorrelation = corr
			result.PeakLag = lag
			result.PeakIndex = i
		}
	}

	return result
}

// BestLag returns only the lag of maximum correlation
func (cc *CrossCorrelation) BestLag(signal1, signal2 []float64) int {
	return cc.Compute(signal1, signal2).PeakLag
}

// computeAtLag sums the products of the lag-shifted overlap
func (cc *CrossCorrelation) computeAtLag(signal1, signal2 []float64, lag int) float64 {
	n := min(len(signal1), len(signal2))
	shift := abs(lag)
	if shift >= n {
		return 0.0
	}

	off1 := max(0, lag)
	off2 := max(0, -lag)

	sum := 0.0
	for i := 0; i < n-shift; i++ {
		sum += signal1[i+off1] * signal2[i+off2]
	}
	return sum
}

// AutoCorrelation searches a lag range for the strongest self-similarity
// using the average magnitude difference function (AMDF).
type AutoCorrelation struct {
	minLag int
	maxLag int // exclusive
}

// NewAutoCorrelation creates a periodicity search over lags [minLag, maxLag)
func NewAutoCorrelation(minLag, maxLag int) *AutoCorrelation {
	if minLag < 1 {
		minLag = 1
	}
	return &AutoCorrelation{minLag: minLag, maxLag: maxLag}
}

// BestPeriod returns the lag with the highest similarity score and that score.
// The score is 1 - mean|x[i] - x[i+lag]| over the first half of the signal.
// Returns (-1, 0) when no lag in range fits inside the signal.
func (ac *AutoCorrelation) BestPeriod(signal []float64) (int, float64) {
	bestLag := -1
	bestScore := 0.0

	for lag := ac.minLag; lag < ac.maxLag; lag++ {
		score, ok := AverageMagnitudeDifference(signal, lag)
		if !ok {
			break
		}

		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	return bestLag, bestScore
}

// AverageMagnitudeDifference computes 1 - mean|x[i] - x[i+lag]| for
// i < len/2. ok is false when the shifted window runs past the end.
func AverageMagnitudeDifference(signal []float64, lag int) (float64, bool) {
	window := len(signal) / 2
	if lag < 0 || window <= 0 || window+lag > len(signal) {
		return 0.0, false
	}

	diff := 0.0
	for i := range window {
		diff += math.Abs(signal[i] - signal[i+lag])
	}

	return 1.0 - diff/float64(window), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
