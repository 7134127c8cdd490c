package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineWave(freq float64, sampleRate, n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return signal
}

func peakAbs(signal []float64) float64 {
	peak := 0.0
	for _, v := range signal {
		peak = max(peak, math.Abs(v))
	}
	return peak
}

func TestBandpassUnityGainAtCenter(t *testing.T) {
	bf, err := NewBandpassFilter(48000, 105, 3.5)
	require.NoError(t, err)

	output := bf.ProcessBuffer(sineWave(105, 48000, 48000))
	assert.InDelta(t, 1.0, peakAbs(output[43200:]), 0.02)

	for _, freq := range []float64{10, 1000} {
		bf.Reset()
		output := bf.ProcessBuffer(sineWave(freq, 48000, 48000))
		assert.Less(t, peakAbs(output[43200:]), 0.2, "%g Hz", freq)
	}
}

func TestBandpassRejectsInvalidParameters(t *testing.T) {
	_, err := NewBandpassFilter(0, 100, 1)
	assert.Error(t, err)

	_, err = NewBandpassFilter(48000, 24000, 1)
	assert.Error(t, err)

	_, err = NewBandpassFilter(48000, 100, 0)
	assert.Error(t, err)
}

func TestBandpassReset(t *testing.T) {
	bf, err := NewBandpassFilter(8000, 500, 2)
	require.NoError(t, err)

	input := sineWave(500, 8000, 64)
	first := bf.ProcessBuffer(input)
	bf.Reset()
	assert.Equal(t, first, bf.ProcessBuffer(input))
}

func TestDCRemoval(t *testing.T) {
	dc := NewDCRemoval()
	assert.Equal(t, 0.995, dc.PoleLocation())

	constant := make([]float64, 5000)
	for i := range constant {
		constant[i] = 1
	}

	output := dc.ProcessBuffer(constant)
	assert.Equal(t, 1.0, output[0])
	assert.Less(t, math.Abs(output[len(output)-1]), 1e-6)

	dc.Reset()
	assert.Equal(t, 1.0, dc.Process(1))
}

func TestDCRemovalWithCutoff(t *testing.T) {
	dc := NewDCRemovalWithCutoff(48000, 10)
	assert.InDelta(t, 1-2*math.Pi*10/48000, dc.PoleLocation(), 1e-12)

	assert.Equal(t, 0.001, NewDCRemovalWithCutoff(100, 1000).PoleLocation())
	assert.Equal(t, 0.995, NewDCRemovalWithCutoff(0, 10).PoleLocation())
}

func TestHeartbeatPrefilter(t *testing.T) {
	hp, err := NewHeartbeatPrefilter(8000, DefaultHeartbeatBands(), 20)
	require.NoError(t, err)

	inBand := peakAbs(hp.ProcessBuffer(sineWave(105, 8000, 8000))[4000:])
	hp.Reset()
	outOfBand := peakAbs(hp.ProcessBuffer(sineWave(2000, 8000, 8000))[4000:])

	assert.Greater(t, inBand, 10.0)
	assert.Greater(t, inBand, 10*outOfBand)
}

func TestHeartbeatPrefilterValidation(t *testing.T) {
	_, err := NewHeartbeatPrefilter(8000, nil, 20)
	assert.Error(t, err)

	_, err = NewHeartbeatPrefilter(8000, []Band{{CenterFreq: 5000, Q: 1}}, 20)
	assert.Error(t, err)
}
