package listener

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/demrdev/canl-dinleme/algorithms/temporal"
	"github.com/demrdev/canl-dinleme/listener/config"
)

// RhythmTestSuite runs beat analysis on synthetic click tracks at 1 kHz
type RhythmTestSuite struct {
	suite.Suite
	cfg       config.RhythmConfig
	estimator *RhythmEstimator
}

func (s *RhythmTestSuite) SetupTest() {
	s.cfg = config.DefaultRhythmConfig()
	s.cfg.SampleRate = 1000

	var err error
	s.estimator, err = NewRhythmEstimator(s.cfg)
	s.Require().NoError(err)
}

// clicks places a unit impulse at every position (in samples)
func clicks(n int, positions []int, amplitude float64) []float64 {
	signal := make([]float64, n)
	for _, p := range positions {
		signal[p] = amplitude
	}
	return signal
}

func (s *RhythmTestSuite) TestSteadyHalfSecondBeat() {
	var positions []int
	for p := 250; p < 5000; p += 500 {
		positions = append(positions, p)
	}

	result := s.estimator.Analyze(clicks(5000, positions, 1))

	s.Equal(120, result.BeatsPerMinute)
	s.Equal(100.0, result.ConfidencePercent)
	s.Equal(len(positions), result.PeakCount)
	s.Equal(len(positions), result.BeatCount)
	s.Len(result.Intervals, len(positions)-1)
	s.Equal("Possible Fetal Range (DEMO)", result.Classification.Label)
	s.Equal(config.DefaultDisclaimer, result.Disclaimer)
}

func (s *RhythmTestSuite) TestHeartSoundPairsConsolidate() {
	signal := make([]float64, 5000)
	for k := range 6 {
		signal[100+800*k] = 1.0 // S1
		signal[220+800*k] = 0.6 // S2, 0.12 s later
	}

	result := s.estimator.Analyze(signal)

	s.Equal(12, result.PeakCount)
	s.Equal(6, result.BeatCount)
	s.Equal(75, result.BeatsPerMinute)
	s.Equal(100.0, result.ConfidencePercent)
	s.Equal("Adult Range (DEMO)", result.Classification.Label)

	s.cfg.ConsolidateBeats = false
	unconsolidated, err := NewRhythmEstimator(s.cfg)
	s.Require().NoError(err)

	raw := unconsolidated.Analyze(signal)
	s.Equal(12, raw.BeatCount)
	s.NotEqual(75, raw.BeatsPerMinute)
}

func (s *RhythmTestSuite) TestConsolidateKeepsStrongerPeak() {
	peaks := []temporal.Peak{
		{Index: 0, Amplitude: 0.5, Time: 0},
		{Index: 100, Amplitude: 0.9, Time: 0.1},
		{Index: 1000, Amplitude: 0.7, Time: 1.0},
		{Index: 1500, Amplitude: 0.7, Time: 1.5},
	}

	beats := s.estimator.ConsolidateBeats(peaks)

	s.Require().Len(beats, 3)
	s.Equal(100, beats[0].Index)
	s.Equal(1000, beats[1].Index)
	s.Equal(1500, beats[2].Index)
}

func (s *RhythmTestSuite) TestOutlierIntervalIgnored() {
	intervals := []float64{0.5, 0.5, 0.5, 0.5, 1.0}

	s.Equal(120, s.estimator.RateFromIntervals(intervals))
	s.Less(s.estimator.Confidence(intervals), 100.0, "confidence uses every interval")
}

func (s *RhythmTestSuite) TestRateClamping() {
	s.Equal(40, s.estimator.RateFromIntervals([]float64{2, 2, 2}))
	s.Equal(200, s.estimator.RateFromIntervals([]float64{0.1, 0.1, 0.1}))
	s.Zero(s.estimator.RateFromIntervals(nil))
}

func (s *RhythmTestSuite) TestConfidenceNeedsThreeIntervals() {
	s.Zero(s.estimator.Confidence([]float64{0.5, 0.5}))
	s.Equal(100.0, s.estimator.Confidence([]float64{0.5, 0.5, 0.5}))

	// CV of {0.25, 0.75, 0.5} is 0.408
	s.Equal(59.0, s.estimator.Confidence([]float64{0.25, 0.75, 0.5}))
}

func (s *RhythmTestSuite) TestNoBeats() {
	result := s.estimator.Analyze(make([]float64, 2000))

	s.Zero(result.BeatsPerMinute)
	s.Zero(result.ConfidencePercent)
	s.Empty(result.Intervals)
	s.Equal(s.cfg.UnusualBand.Label, result.Classification.Label)
	s.Equal(config.DefaultDisclaimer, result.Disclaimer)
}

func (s *RhythmTestSuite) TestClassify() {
	s.Equal("Possible Fetal Range (DEMO)", s.estimator.Classify(140).Label)
	s.Equal("Possible Fetal Range (DEMO)", s.estimator.Classify(110).Label, "fetal band is checked first")
	s.Equal("Adult Range (DEMO)", s.estimator.Classify(72).Label)
	s.Equal("#3b82f6", s.estimator.Classify(72).Color)
	s.Equal("Unusual Range (DEMO)", s.estimator.Classify(45).Label)
	s.Equal("Unusual Range (DEMO)", s.estimator.Classify(190).Label)
}

func (s *RhythmTestSuite) TestPeriodicity() {
	signal := make([]float64, 400)
	for i := range signal {
		signal[i] = 0.5 * math.Sin(2*math.Pi*float64(i)/20)
	}

	s.InDelta(50.0, s.estimator.Periodicity(signal), 1e-9)

	quiet := make([]float64, 400)
	for i := range quiet {
		quiet[i] = signal[i] / 100
	}
	s.Equal(-1.0, s.estimator.Periodicity(quiet))
}

func TestRhythmTestSuite(t *testing.T) {
	suite.Run(t, new(RhythmTestSuite))
}

func TestRhythmEnvelopeMode(t *testing.T) {
	cfg := config.DefaultRhythmConfig()
	estimator, err := NewRhythmEstimator(cfg)
	require.NoError(t, err)

	// 50 ms bursts every 0.5 s at 48 kHz
	signal := make([]float64, 5*48000)
	for start := 12000; start < len(signal); start += 24000 {
		for i := start; i < start+2400; i++ {
			signal[i] = 0.8
		}
	}

	result := estimator.AnalyzeEnvelope(signal)

	assert.Equal(t, 10, result.BeatCount)
	assert.Equal(t, 120, result.BeatsPerMinute)
	assert.GreaterOrEqual(t, result.ConfidencePercent, 99.0)
}

func TestIntervals(t *testing.T) {
	peaks := []temporal.Peak{{Time: 0.5}, {Time: 1.25}, {Time: 2}}
	assert.Equal(t, []float64{0.75, 0.75}, Intervals(peaks))
	assert.Empty(t, Intervals(peaks[:1]))
}

func TestNewRhythmEstimatorValidation(t *testing.T) {
	cfg := config.DefaultRhythmConfig()
	cfg.MaxBeatSeparation = 0.01

	_, err := NewRhythmEstimator(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
