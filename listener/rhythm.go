package listener

import (
	"math"

	"github.com/demrdev/canl-dinleme/algorithms/common"
	"github.com/demrdev/canl-dinleme/algorithms/stats"
	"github.com/demrdev/canl-dinleme/algorithms/temporal"
	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/logging"
)

// RateClassification is the presentation of a detected rate band
type RateClassification struct {
	Label   string `json:"type"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// RhythmResult is the outcome of beat analysis over a buffer
type RhythmResult struct {
	BeatsPerMinute    int                `json:"bpm"`
	ConfidencePercent float64            `json:"confidence"`
	Classification    RateClassification `json:"type"`
	Disclaimer        string             `json:"warning"`

	PeakCount int       `json:"peak_count"`
	BeatCount int       `json:"beat_count"`
	Intervals []float64 `json:"intervals"` // Seconds between consecutive beats
}

// RhythmEstimator detects a periodic pulse in a time-domain buffer and
// reports its rate with a regularity-based confidence. Not a medical device.
type RhythmEstimator struct {
	config      config.RhythmConfig
	percentiles *stats.Percentiles
	logger      logging.Logger
}

// NewRhythmEstimator creates a rhythm estimator
func NewRhythmEstimator(cfg config.RhythmConfig) (*RhythmEstimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &RhythmEstimator{
		config:      cfg,
		percentiles: stats.NewPercentilesWithOutlierThreshold(cfg.OutlierK),
		logger: logging.WithFields(logging.Fields{
			"component": "rhythm_estimator",
		}),
	}, nil
}

// Analyze runs beat detection on samples at the configured sample rate
func (re *RhythmEstimator) Analyze(samples []float64) *RhythmResult {
	return re.AnalyzeAt(samples, float64(re.config.SampleRate))
}

// AnalyzeEnvelope runs a fresh attack/release follower with block
// averaging over the samples and analyzes the envelope at its reduced rate
func (re *RhythmEstimator) AnalyzeEnvelope(samples []float64) *RhythmResult {
	follower := temporal.NewEnvelopeFollower(re.config.SampleRate)
	envelope := follower.ProcessDownsampled(samples)
	return re.AnalyzeAt(envelope, follower.OutputRate())
}

// AnalyzeAt runs beat detection on a buffer sampled at sampleRate Hz
func (re *RhythmEstimator) AnalyzeAt(samples []float64, sampleRate float64) *RhythmResult {
	peaks := temporal.NewPeakPicker(sampleRate, re.config.ThresholdK).FindPeaks(samples)

	beats := peaks
	if re.config.ConsolidateBeats {
		beats = re.ConsolidateBeats(peaks)
	}

	intervals := Intervals(beats)
	bpm := re.RateFromIntervals(intervals)

	result := &RhythmResult{
		BeatsPerMinute:    bpm,
		ConfidencePercent: re.Confidence(intervals),
		Classification:    re.Classify(bpm),
		Disclaimer:        re.config.Disclaimer,
		PeakCount:         len(peaks),
		BeatCount:         len(beats),
		Intervals:         intervals,
	}

	re.logger.Debug("Analyzed rhythm", logging.Fields{
		"peaks":      len(peaks),
		"beats":      len(beats),
		"bpm":        bpm,
		"confidence": result.ConfidencePercent,
	})

	return result
}

// ConsolidateBeats merges peak pairs whose spacing lies inside
// [MinBeatSeparation, MaxBeatSeparation] into the stronger member (the
// first on ties) and skips past both. Other peaks pass through.
func (re *RhythmEstimator) ConsolidateBeats(peaks []temporal.Peak) []temporal.Peak {
	consolidated := make([]temporal.Peak, 0, len(peaks))

	for i := 0; i < len(peaks); {
		current := peaks[i]
		if i+1 < len(peaks) {
			next := peaks[i+1]
			dt := next.Time - current.Time
			if dt >= re.config.MinBeatSeparation && dt <= re.config.MaxBeatSeparation {
				if next.Amplitude > current.Amplitude {
					current = next
				}
				consolidated = append(consolidated, current)
				i += 2
				continue
			}
		}
		consolidated = append(consolidated, current)
		i++
	}

	return consolidated
}

// Intervals returns the time gaps between consecutive peaks
func Intervals(peaks []temporal.Peak) []float64 {
	if len(peaks) < 2 {
		return []float64{}
	}

	intervals := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		intervals[i-1] = peaks[i].Time - peaks[i-1].Time
	}
	return intervals
}

// RateFromIntervals returns round(60 / mean interval) after IQR outlier
// removal, clamped to [MinBPM, MaxBPM]; 0 without intervals
func (re *RhythmEstimator) RateFromIntervals(intervals []float64) int {
	if len(intervals) == 0 {
		return 0
	}

	filtered := re.percentiles.RemoveOutliers(intervals)
	if len(filtered) == 0 {
		return 0
	}

	mean := common.Mean(filtered)
	if mean <= 0 {
		return 0
	}

	bpm := int(math.Round(60 / mean))
	return min(re.config.MaxBPM, max(re.config.MinBPM, bpm))
}

// Confidence returns round(clamp(100 * (1 - CV), 0, 100)) over the raw
// intervals, or 0 when there are too few to judge regularity
func (re *RhythmEstimator) Confidence(intervals []float64) float64 {
	if len(intervals) < re.config.MinConfidenceIntervals {
		return 0
	}

	cv := stats.CoefficientOfVariation(intervals)
	return math.Round(common.Clamp((1-cv)*100, 0, 100))
}

// Classify returns the first configured band containing bpm, or the unusual band
func (re *RhythmEstimator) Classify(bpm int) RateClassification {
	band := re.config.UnusualBand
	for _, candidate := range re.config.Bands {
		if candidate.Contains(bpm) {
			band = candidate
			break
		}
	}

	return RateClassification{
		Label:   band.Label,
		Color:   band.Color,
		Message: band.Message,
	}
}

// Periodicity estimates the repetition frequency (sampleRate / lag) of the
// strongest AMDF self-similarity with lag in
// [sr/PeriodicityMaxBPM, sr/PeriodicityMinBPM). Returns -1 when the buffer
// is too quiet or no lag scores above PeriodicityThreshold.
func (re *RhythmEstimator) Periodicity(samples []float64) float64 {
	rms := common.RMS(samples)
	if rms < re.config.MinPeriodicityRMS {
		re.logger.Debug("Signal too quiet for periodicity", logging.Fields{"rms": rms})
		return -1
	}

	sr := re.config.SampleRate
	search := stats.NewAutoCorrelation(sr/re.config.PeriodicityMaxBPM, sr/re.config.PeriodicityMinBPM)

	lag, score := search.BestPeriod(samples)
	if lag <= 0 || score <= re.config.PeriodicityThreshold {
		return -1
	}

	return float64(sr) / float64(lag)
}
