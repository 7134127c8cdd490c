package spectral

// ZeroCrossingRate counts sign changes in a time-domain frame.
// A sample is positive when x >= 0, so zero counts as positive.
type ZeroCrossingRate struct{}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{}
}

// Compute returns crossings / len(frame). An alternating +-1 frame of N
// samples yields (N-1)/N.
func (zcr *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}

	return float64(zcr.Crossings(frame)) / float64(len(frame))
}

// Crossings returns the raw number of sign changes
func (zcr *ZeroCrossingRate) Crossings(frame []float64) int {
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i] >= 0) != (frame[i-1] >= 0) {
			crossings++
		}
	}
	return crossings
}
