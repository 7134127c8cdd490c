package listener

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demrdev/canl-dinleme/listener/config"
)

func newTestDirectionEstimator(t *testing.T) *DirectionEstimator {
	t.Helper()
	de, err := NewDirectionEstimator(config.DefaultDirectionConfig())
	require.NoError(t, err)
	return de
}

// noiseBurst returns n samples of zeros with seeded noise in the middle half
func noiseBurst(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	signal := make([]float64, n)
	for i := n / 4; i < 3*n/4; i++ {
		signal[i] = rng.Float64()*2 - 1
	}
	return signal
}

func delayed(signal []float64, lag int) []float64 {
	out := make([]float64, len(signal))
	copy(out[lag:], signal[:len(signal)-lag])
	return out
}

func TestDirectionIdenticalChannels(t *testing.T) {
	de := newTestDirectionEstimator(t)
	signal := noiseBurst(1024, 1)

	estimate := de.Estimate(signal, signal)

	assert.Equal(t, 0, estimate.AngleDegrees)
	assert.Equal(t, DirectionCenter, estimate.Label)
	assert.Equal(t, 100.0, estimate.ConfidencePercent)
	assert.Zero(t, estimate.ITDSeconds)
	assert.InDelta(t, 0.0, estimate.ILDDecibels, 1e-9)
}

func TestDirectionFromTimeDifference(t *testing.T) {
	de := newTestDirectionEstimator(t)
	signal := noiseBurst(1024, 2)

	// Left channel lags: the sound reached the right microphone first
	estimate := de.Estimate(delayed(signal, 20), signal)

	assert.InDelta(t, 20.0/48000.0, estimate.ITDSeconds, 1e-12)

	maxITD := 0.17 / 343.0
	itdAngle := math.Asin(20.0/48000.0/maxITD) * 180 / math.Pi
	assert.Equal(t, int(math.Round(0.7*itdAngle)), estimate.AngleDegrees)
	assert.Equal(t, DirectionRight, estimate.Label)

	mirrored := de.Estimate(signal, delayed(signal, 20))
	assert.Equal(t, -estimate.AngleDegrees, mirrored.AngleDegrees)
	assert.Equal(t, DirectionLeft, mirrored.Label)
}

func TestDirectionFromLevelDifference(t *testing.T) {
	de := newTestDirectionEstimator(t)
	left := noiseBurst(1024, 3)
	right := make([]float64, len(left))
	for i, v := range left {
		right[i] = v * 0.5
	}

	estimate := de.Estimate(left, right)

	ild := 20 * math.Log10(2)
	assert.InDelta(t, ild, estimate.ILDDecibels, 1e-6)
	assert.Zero(t, estimate.ITDSeconds)
	assert.Equal(t, int(math.Round(ild*3*0.3)), estimate.AngleDegrees)
	assert.InDelta(t, math.Round(100-ild*3), math.Round(estimate.ConfidencePercent), 1)
}

func TestDirectionITDClampsBeyondMicSpacing(t *testing.T) {
	cfg := config.DefaultDirectionConfig()
	cfg.MicDistance = 0.01
	de, err := NewDirectionEstimator(cfg)
	require.NoError(t, err)

	signal := noiseBurst(1024, 4)
	estimate := de.Estimate(delayed(signal, 40), signal)

	assert.Equal(t, 63, estimate.AngleDegrees)
	assert.Equal(t, DirectionRight, estimate.Label)
}

func TestLabelForAngle(t *testing.T) {
	tests := map[float64]DirectionLabel{
		-90:   DirectionFarLeft,
		-67.6: DirectionFarLeft,
		-67.5: DirectionLeft,
		-22.6: DirectionLeft,
		-22.5: DirectionCenter,
		0:     DirectionCenter,
		22.4:  DirectionCenter,
		22.5:  DirectionRight,
		67.4:  DirectionRight,
		67.5:  DirectionFarRight,
		90:    DirectionFarRight,
	}

	for angle, want := range tests {
		assert.Equal(t, want, LabelForAngle(angle), "angle %g", angle)
	}
}
