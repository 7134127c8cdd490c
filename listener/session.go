package listener

import (
	"fmt"

	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/listener/extractors"
	"github.com/demrdev/canl-dinleme/logging"
)

// FrameReport bundles everything derived from one mono frame
type FrameReport struct {
	Features       *extractors.FeatureVector `json:"features"`
	Classification *ClassificationResult     `json:"classification"`
	Distance       *DistanceEstimate         `json:"distance"`
}

// Session owns one instance of every estimator for a single audio stream.
// Frames must be fed in order from one goroutine; separate sessions are
// independent.
type Session struct {
	config     config.SessionConfig
	extractor  *extractors.FeatureExtractor
	classifier *Classifier
	distance   *DistanceEstimator
	direction  *DirectionEstimator
	rhythm     *RhythmEstimator
	frames     int
	logger     logging.Logger
}

// NewSession validates the configuration and builds every component
func NewSession(cfg config.SessionConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	extractor, err := extractors.NewFeatureExtractor(cfg.MFCC)
	if err != nil {
		return nil, fmt.Errorf("failed to create feature extractor: %w", err)
	}

	classifier, err := NewClassifier(cfg.Classifier, extractor)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	distance, err := NewDistanceEstimator(cfg.Distance)
	if err != nil {
		return nil, fmt.Errorf("failed to create distance estimator: %w", err)
	}

	direction, err := NewDirectionEstimator(cfg.Direction)
	if err != nil {
		return nil, fmt.Errorf("failed to create direction estimator: %w", err)
	}

	rhythm, err := NewRhythmEstimator(cfg.Rhythm)
	if err != nil {
		return nil, fmt.Errorf("failed to create rhythm estimator: %w", err)
	}

	logger := logging.WithFields(logging.Fields{
		"component":   "session",
		"sample_rate": cfg.SampleRate,
	})
	logger.Debug("Session created")

	return &Session{
		config:     cfg,
		extractor:  extractor,
		classifier: classifier,
		distance:   distance,
		direction:  direction,
		rhythm:     rhythm,
		logger:     logger,
	}, nil
}

// Config returns the session configuration
func (s *Session) Config() config.SessionConfig {
	return s.config
}

// AnalyzeFrame extracts features once and runs classification and distance
// estimation on them
func (s *Session) AnalyzeFrame(spectrum, frame []float64) *FrameReport {
	features := s.extractor.Extract(spectrum, frame)
	s.frames++

	return &FrameReport{
		Features:       features,
		Classification: s.classifier.ClassifyFeatures(features),
		Distance:       s.distance.Estimate(spectrum, frame),
	}
}

// AnalyzeStereo estimates the direction of a stereo frame
func (s *Session) AnalyzeStereo(left, right []float64) *DirectionEstimate {
	return s.direction.Estimate(left, right)
}

// AnalyzeRhythm runs beat detection on raw samples
func (s *Session) AnalyzeRhythm(samples []float64) *RhythmResult {
	return s.rhythm.Analyze(samples)
}

// AnalyzeRhythmEnvelope runs beat detection on the downsampled envelope of samples
func (s *Session) AnalyzeRhythmEnvelope(samples []float64) *RhythmResult {
	return s.rhythm.AnalyzeEnvelope(samples)
}

// Periodicity returns the AMDF repetition frequency or -1
func (s *Session) Periodicity(samples []float64) float64 {
	return s.rhythm.Periodicity(samples)
}

// FramesAnalyzed returns the number of AnalyzeFrame calls since the last Reset
func (s *Session) FramesAnalyzed() int {
	return s.frames
}

// Reset clears the feature history so a new stream can start
func (s *Session) Reset() {
	s.classifier.Reset()
	s.frames = 0
	s.logger.Debug("Session reset")
}
