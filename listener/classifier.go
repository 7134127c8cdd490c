package listener

import (
	"fmt"
	"maps"
	"math"

	"github.com/demrdev/canl-dinleme/algorithms/common"
	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/listener/extractors"
	"github.com/demrdev/canl-dinleme/logging"
)

// CategoryScores maps each category to its score in [0, 100]
type CategoryScores map[config.Category]float64

// ClassificationResult is the winning category and the full score table
type ClassificationResult struct {
	Category       config.Category `json:"category"`
	Confidence     float64         `json:"confidence"`
	AllConfidences CategoryScores  `json:"all_confidences"`
}

// Classifier scores feature vectors against a fixed rule table.
// The last score table is kept for inspection; not safe for concurrent use.
type Classifier struct {
	config    config.ClassifierConfig
	extractor *extractors.FeatureExtractor
	scores    CategoryScores
	logger    logging.Logger
}

// NewClassifier creates a classifier. The extractor is used by Classify and
// reset together with the classifier.
func NewClassifier(cfg config.ClassifierConfig, extractor *extractors.FeatureExtractor) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if extractor == nil {
		return nil, fmt.Errorf("feature extractor is required")
	}

	return &Classifier{
		config:    cfg,
		extractor: extractor,
		scores:    make(CategoryScores),
		logger: logging.WithFields(logging.Fields{
			"component": "classifier",
		}),
	}, nil
}

// Classify extracts features from the frame and scores them
func (c *Classifier) Classify(spectrum, frame []float64) *ClassificationResult {
	return c.ClassifyFeatures(c.extractor.Extract(spectrum, frame))
}

// ClassifyFeatures scores every category and picks the strictly highest.
// Ties keep the earlier category; all-zero scores yield "unknown".
func (c *Classifier) ClassifyFeatures(features *extractors.FeatureVector) *ClassificationResult {
	scores := make(CategoryScores, len(config.Categories))
	best := config.CategoryUnknown
	bestScore := 0.0

	for _, category := range config.Categories {
		score := c.Score(features, category)
		scores[category] = score

		if score > bestScore {
			bestScore = score
			best = category
		}
	}

	c.scores = scores

	c.logger.Debug("Classified frame", logging.Fields{
		"category":   best,
		"confidence": bestScore,
	})

	return &ClassificationResult{
		Category:       best,
		Confidence:     bestScore,
		AllConfidences: maps.Clone(scores),
	}
}

// Score returns the clamped rule score plus MFCC pattern bonus of one category
func (c *Classifier) Score(features *extractors.FeatureVector, category config.Category) float64 {
	recipe := c.config.RulesFor(category)
	score := 0.0

	for _, rule := range recipe.Rules {
		value, ok := features.Value(rule.Feature)
		if ok && rule.Matches(value) {
			score += rule.Points
		}
	}

	score += c.mfccBonus(features.MFCC, recipe.MFCCPattern)

	if math.IsNaN(score) {
		c.logger.Warn("Non-finite score clamped to zero", logging.Fields{"category": category})
		return 0
	}

	return common.Clamp(score, 0, c.config.MaxScore)
}

// mfccBonus returns sum(1 - |mfcc[i] - p[i]|) / len(p) * weight over the
// common prefix. Distant coefficients make it negative.
func (c *Classifier) mfccBonus(mfcc, pattern []float64) float64 {
	if len(pattern) == 0 {
		return 0
	}

	n := min(len(mfcc), len(pattern))
	similarity := 0.0
	for i := range n {
		similarity += 1 - math.Abs(mfcc[i]-pattern[i])
	}

	return similarity / float64(len(pattern)) * c.config.MFCCWeight
}

// Scores returns a copy of the score table from the last classification
func (c *Classifier) Scores() CategoryScores {
	return maps.Clone(c.scores)
}

// Reset clears the feature history and last scores
func (c *Classifier) Reset() {
	c.extractor.Reset()
	c.scores = make(CategoryScores)
}
