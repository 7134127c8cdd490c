package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/demrdev/canl-dinleme/algorithms/spectral"
)

// ErrInvalidConfig is wrapped by every Validate error
var ErrInvalidConfig = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Category is a coarse sound-source class
type Category string

const (
	CategoryHuman      Category = "human"
	CategoryAnimal     Category = "animal"
	CategoryVehicle    Category = "vehicle"
	CategoryNature     Category = "nature"
	CategoryMusic      Category = "music"
	CategoryEmergency  Category = "emergency"
	CategoryMechanical Category = "mechanical"
	CategoryElectronic Category = "electronic"
	CategoryUnknown    Category = "unknown"
)

// Categories lists the scored categories in enumeration order. Ties between
// equal scores go to the earlier entry.
var Categories = []Category{
	CategoryHuman,
	CategoryAnimal,
	CategoryVehicle,
	CategoryNature,
	CategoryMusic,
	CategoryEmergency,
	CategoryMechanical,
	CategoryElectronic,
}

// Feature names a scalar entry of a feature vector
type Feature string

const (
	FeatureSpectralCentroid  Feature = "spectral_centroid"
	FeatureSpectralRolloff   Feature = "spectral_rolloff"
	FeatureSpectralBandwidth Feature = "spectral_bandwidth"
	FeatureZeroCrossingRate  Feature = "zero_crossing_rate"
	FeatureEnergy            Feature = "energy"
	FeatureSpectralFlux      Feature = "spectral_flux"
	FeatureHarmonicRatio     Feature = "harmonic_ratio"
)

var knownFeatures = map[Feature]bool{
	FeatureSpectralCentroid:  true,
	FeatureSpectralRolloff:   true,
	FeatureSpectralBandwidth: true,
	FeatureZeroCrossingRate:  true,
	FeatureEnergy:            true,
	FeatureSpectralFlux:      true,
	FeatureHarmonicRatio:     true,
}

// Rule awards Points when Above < feature < Below. A nil bound is open.
type Rule struct {
	Feature Feature  `json:"feature" yaml:"feature" mapstructure:"feature"`
	Above   *float64 `json:"above,omitempty" yaml:"above,omitempty" mapstructure:"above"`
	Below   *float64 `json:"below,omitempty" yaml:"below,omitempty" mapstructure:"below"`
	Points  float64  `json:"points" yaml:"points" mapstructure:"points"`
}

// Matches reports whether value lies strictly inside the rule's bounds
func (r Rule) Matches(value float64) bool {
	if r.Above != nil && !(value > *r.Above) {
		return false
	}
	if r.Below != nil && !(value < *r.Below) {
		return false
	}
	return true
}

// Validate checks the rule references a known feature and has a non-empty range
func (r Rule) Validate() error {
	if !knownFeatures[r.Feature] {
		return invalid("unknown rule feature %q", r.Feature)
	}
	if r.Above == nil && r.Below == nil {
		return invalid("rule on %s has no bounds", r.Feature)
	}
	if r.Above != nil && r.Below != nil && *r.Above >= *r.Below {
		return invalid("rule on %s has empty range (%g, %g)", r.Feature, *r.Above, *r.Below)
	}
	if math.IsNaN(r.Points) || math.IsInf(r.Points, 0) {
		return invalid("rule on %s has non-finite points", r.Feature)
	}
	return nil
}

// CategoryRules is the scoring recipe of one category
type CategoryRules struct {
	Category    Category  `json:"category" yaml:"category" mapstructure:"category"`
	Rules       []Rule    `json:"rules,omitempty" yaml:"rules,omitempty" mapstructure:"rules"`
	MFCCPattern []float64 `json:"mfcc_pattern,omitempty" yaml:"mfcc_pattern,omitempty" mapstructure:"mfcc_pattern"`
}

// ClassifierConfig holds the hand-authored rule table
type ClassifierConfig struct {
	Categories []CategoryRules `json:"categories" yaml:"categories" mapstructure:"categories"`

	// MFCCWeight scales the mean pattern similarity into points
	MFCCWeight float64 `json:"mfcc_weight" yaml:"mfcc_weight" mapstructure:"mfcc_weight"`
	MaxScore   float64 `json:"max_score" yaml:"max_score" mapstructure:"max_score"`
}

func bound(v float64) *float64 { return &v }

// DefaultClassifierConfig returns the built-in rule table. Mechanical and
// electronic have no rules and always score 0.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MFCCWeight: 20,
		MaxScore:   100,
		Categories: []CategoryRules{
			{
				Category: CategoryHuman,
				Rules: []Rule{
					{Feature: FeatureSpectralCentroid, Above: bound(50), Below: bound(200), Points: 30},
					{Feature: FeatureHarmonicRatio, Above: bound(0.3), Points: 20},
					{Feature: FeatureZeroCrossingRate, Above: bound(0.02), Below: bound(0.1), Points: 25},
				},
				MFCCPattern: []float64{1.2, -0.5, 0.3, -0.2},
			},
			{
				Category: CategoryAnimal,
				Rules: []Rule{
					{Feature: FeatureSpectralFlux, Above: bound(10), Points: 25},
					{Feature: FeatureSpectralBandwidth, Above: bound(100), Points: 25},
				},
				MFCCPattern: []float64{0.8, 0.2, -0.3, 0.5},
			},
			{
				Category: CategoryVehicle,
				Rules: []Rule{
					{Feature: FeatureSpectralCentroid, Below: bound(100), Points: 35},
					{Feature: FeatureEnergy, Above: bound(0.5), Points: 25},
				},
				MFCCPattern: []float64{-0.5, 0.8, 0.2, -0.1},
			},
			{
				Category: CategoryNature,
				Rules: []Rule{
					{Feature: FeatureSpectralRolloff, Above: bound(0.7), Points: 30},
					{Feature: FeatureSpectralBandwidth, Above: bound(150), Points: 30},
				},
				MFCCPattern: []float64{0.3, 0.3, 0.3, 0.3},
			},
			{
				Category: CategoryMusic,
				Rules: []Rule{
					{Feature: FeatureHarmonicRatio, Above: bound(0.5), Points: 40},
					{Feature: FeatureSpectralCentroid, Above: bound(100), Below: bound(500), Points: 30},
				},
				MFCCPattern: []float64{0.9, -0.2, 0.4, -0.3},
			},
			{
				Category: CategoryEmergency,
				Rules: []Rule{
					{Feature: FeatureSpectralCentroid, Above: bound(200), Below: bound(400), Points: 35},
					{Feature: FeatureEnergy, Above: bound(0.7), Points: 35},
				},
				MFCCPattern: []float64{1.5, -0.8, 0.2, -0.4},
			},
			{Category: CategoryMechanical},
			{Category: CategoryElectronic},
		},
	}
}

// RulesFor returns the recipe of a category, or an empty one if none is configured
func (c ClassifierConfig) RulesFor(category Category) CategoryRules {
	for _, cr := range c.Categories {
		if cr.Category == category {
			return cr
		}
	}
	return CategoryRules{Category: category}
}

// Validate checks every rule and that categories are known and not repeated
func (c ClassifierConfig) Validate() error {
	if c.MaxScore <= 0 {
		return invalid("classifier max_score must be positive, got %g", c.MaxScore)
	}

	seen := make(map[Category]bool, len(c.Categories))
	for _, cr := range c.Categories {
		known := false
		for _, cat := range Categories {
			if cat == cr.Category {
				known = true
				break
			}
		}
		if !known {
			return invalid("unknown category %q", cr.Category)
		}
		if seen[cr.Category] {
			return invalid("category %q configured twice", cr.Category)
		}
		seen[cr.Category] = true

		for _, rule := range cr.Rules {
			if err := rule.Validate(); err != nil {
				return fmt.Errorf("category %s: %w", cr.Category, err)
			}
		}
	}
	return nil
}

// FrequencyCorrection multiplies the level distance by Factor when the
// high/low band ratio exceeds MinRatio
type FrequencyCorrection struct {
	MinRatio float64 `json:"min_ratio" yaml:"min_ratio" mapstructure:"min_ratio"`
	Factor   float64 `json:"factor" yaml:"factor" mapstructure:"factor"`
}

// DistanceConfig calibrates the level-based distance estimator
type DistanceConfig struct {
	ReferenceLevelDB    float64 `json:"reference_level_db" yaml:"reference_level_db" mapstructure:"reference_level_db"` // Level at 1 m
	EnvironmentalFactor float64 `json:"environmental_factor" yaml:"environmental_factor" mapstructure:"environmental_factor"`

	// Frequency correction: ordered from highest MinRatio down; the first
	// entry whose MinRatio is exceeded applies, DefaultCorrection otherwise
	Corrections       []FrequencyCorrection `json:"corrections" yaml:"corrections" mapstructure:"corrections"`
	DefaultCorrection float64               `json:"default_correction" yaml:"default_correction" mapstructure:"default_correction"`
	HighBandStart     float64               `json:"high_band_start" yaml:"high_band_start" mapstructure:"high_band_start"` // Fraction of bins
	LowBandEnd        float64               `json:"low_band_end" yaml:"low_band_end" mapstructure:"low_band_end"`          // Fraction of bins

	// Confidence mapping
	FloorDB   float64 `json:"floor_db" yaml:"floor_db" mapstructure:"floor_db"`
	CeilingDB float64 `json:"ceiling_db" yaml:"ceiling_db" mapstructure:"ceiling_db"`
	SNRBins   int     `json:"snr_bins" yaml:"snr_bins" mapstructure:"snr_bins"`
}

// DefaultDistanceConfig returns the -20 dB @ 1 m calibration
func DefaultDistanceConfig() DistanceConfig {
	return DistanceConfig{
		ReferenceLevelDB:    -20,
		EnvironmentalFactor: 1.0,
		Corrections: []FrequencyCorrection{
			{MinRatio: 0.5, Factor: 0.8},
			{MinRatio: 0.3, Factor: 1.0},
			{MinRatio: 0.1, Factor: 1.2},
		},
		DefaultCorrection: 1.5,
		HighBandStart:     0.5,
		LowBandEnd:        0.1,
		FloorDB:           -60,
		CeilingDB:         40,
		SNRBins:           10,
	}
}

// Validate checks the calibration is usable
func (c DistanceConfig) Validate() error {
	if c.EnvironmentalFactor <= 0 {
		return invalid("environmental_factor must be positive, got %g", c.EnvironmentalFactor)
	}
	if c.DefaultCorrection <= 0 {
		return invalid("default_correction must be positive, got %g", c.DefaultCorrection)
	}
	for i, corr := range c.Corrections {
		if corr.Factor <= 0 {
			return invalid("correction %d factor must be positive, got %g", i, corr.Factor)
		}
		if i > 0 && corr.MinRatio >= c.Corrections[i-1].MinRatio {
			return invalid("corrections must be ordered by decreasing min_ratio")
		}
	}
	if c.HighBandStart <= 0 || c.HighBandStart >= 1 {
		return invalid("high_band_start must be in (0, 1), got %g", c.HighBandStart)
	}
	if c.LowBandEnd <= 0 || c.LowBandEnd >= 1 {
		return invalid("low_band_end must be in (0, 1), got %g", c.LowBandEnd)
	}
	if c.CeilingDB <= c.FloorDB {
		return invalid("ceiling_db (%g) must exceed floor_db (%g)", c.CeilingDB, c.FloorDB)
	}
	if c.SNRBins <= 0 {
		return invalid("snr_bins must be positive, got %d", c.SNRBins)
	}
	return nil
}

// DirectionConfig describes the two-microphone geometry
type DirectionConfig struct {
	SampleRate   int     `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
	MaxLag       int     `json:"max_lag" yaml:"max_lag" mapstructure:"max_lag"`                      // Samples searched each way
	MicDistance  float64 `json:"mic_distance" yaml:"mic_distance" mapstructure:"mic_distance"`       // Meters
	SpeedOfSound float64 `json:"speed_of_sound" yaml:"speed_of_sound" mapstructure:"speed_of_sound"` // m/s

	ITDWeight       float64 `json:"itd_weight" yaml:"itd_weight" mapstructure:"itd_weight"`
	ILDWeight       float64 `json:"ild_weight" yaml:"ild_weight" mapstructure:"ild_weight"`
	ILDDegreesPerDB float64 `json:"ild_degrees_per_db" yaml:"ild_degrees_per_db" mapstructure:"ild_degrees_per_db"`
}

// DefaultDirectionConfig returns head-width geometry at 48 kHz
func DefaultDirectionConfig() DirectionConfig {
	return DirectionConfig{
		SampleRate:      48000,
		MaxLag:          50,
		MicDistance:     0.17,
		SpeedOfSound:    343,
		ITDWeight:       0.7,
		ILDWeight:       0.3,
		ILDDegreesPerDB: 3,
	}
}

// Validate checks the geometry is physical
func (c DirectionConfig) Validate() error {
	if c.SampleRate <= 0 {
		return invalid("direction sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.MaxLag < 0 {
		return invalid("max_lag must not be negative, got %d", c.MaxLag)
	}
	if c.MicDistance <= 0 {
		return invalid("mic_distance must be positive, got %g", c.MicDistance)
	}
	if c.SpeedOfSound <= 0 {
		return invalid("speed_of_sound must be positive, got %g", c.SpeedOfSound)
	}
	return nil
}

// RateBand is an inclusive BPM range with its presentation
type RateBand struct {
	MinBPM  int    `json:"min_bpm" yaml:"min_bpm" mapstructure:"min_bpm"`
	MaxBPM  int    `json:"max_bpm" yaml:"max_bpm" mapstructure:"max_bpm"`
	Label   string `json:"label" yaml:"label" mapstructure:"label"`
	Color   string `json:"color" yaml:"color" mapstructure:"color"`
	Message string `json:"message" yaml:"message" mapstructure:"message"`
}

// Contains reports whether bpm lies in [MinBPM, MaxBPM]
func (b RateBand) Contains(bpm int) bool {
	return bpm >= b.MinBPM && bpm <= b.MaxBPM
}

// RhythmConfig tunes beat detection and rate estimation
type RhythmConfig struct {
	SampleRate int `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
	MinBPM     int `json:"min_bpm" yaml:"min_bpm" mapstructure:"min_bpm"`
	MaxBPM     int `json:"max_bpm" yaml:"max_bpm" mapstructure:"max_bpm"`

	ThresholdK float64 `json:"threshold_k" yaml:"threshold_k" mapstructure:"threshold_k"` // Std multiplier of the peak threshold
	OutlierK   float64 `json:"outlier_k" yaml:"outlier_k" mapstructure:"outlier_k"`       // IQR fence multiplier

	// Close peak pairs (S1/S2 heart sounds) collapse into one beat
	ConsolidateBeats  bool    `json:"consolidate_beats" yaml:"consolidate_beats" mapstructure:"consolidate_beats"`
	MinBeatSeparation float64 `json:"min_beat_separation" yaml:"min_beat_separation" mapstructure:"min_beat_separation"` // Seconds
	MaxBeatSeparation float64 `json:"max_beat_separation" yaml:"max_beat_separation" mapstructure:"max_beat_separation"` // Seconds

	MinConfidenceIntervals int `json:"min_confidence_intervals" yaml:"min_confidence_intervals" mapstructure:"min_confidence_intervals"`

	// Bands are checked in order; the first containing the rate wins
	Bands       []RateBand `json:"bands" yaml:"bands" mapstructure:"bands"`
	UnusualBand RateBand   `json:"unusual_band" yaml:"unusual_band" mapstructure:"unusual_band"`
	Disclaimer  string     `json:"disclaimer" yaml:"disclaimer" mapstructure:"disclaimer"`

	// Periodicity search
	MinPeriodicityRMS    float64 `json:"min_periodicity_rms" yaml:"min_periodicity_rms" mapstructure:"min_periodicity_rms"`
	PeriodicityThreshold float64 `json:"periodicity_threshold" yaml:"periodicity_threshold" mapstructure:"periodicity_threshold"`
	PeriodicityMinBPM    int     `json:"periodicity_min_bpm" yaml:"periodicity_min_bpm" mapstructure:"periodicity_min_bpm"`
	PeriodicityMaxBPM    int     `json:"periodicity_max_bpm" yaml:"periodicity_max_bpm" mapstructure:"periodicity_max_bpm"`
}

// DefaultDisclaimer is attached to every rhythm result
const DefaultDisclaimer = "DEMO ONLY - Not for medical use"

// DefaultRhythmConfig returns the heartbeat demo tuning at 48 kHz
func DefaultRhythmConfig() RhythmConfig {
	return RhythmConfig{
		SampleRate:             48000,
		MinBPM:                 40,
		MaxBPM:                 200,
		ThresholdK:             1.5,
		OutlierK:               1.5,
		ConsolidateBeats:       true,
		MinBeatSeparation:      0.08,
		MaxBeatSeparation:      0.20,
		MinConfidenceIntervals: 3,
		Bands: []RateBand{
			{
				MinBPM:  110,
				MaxBPM:  180,
				Label:   "Possible Fetal Range (DEMO)",
				Color:   "#10b981",
				Message: "120-160 BPM range detected - EDUCATIONAL DEMO ONLY",
			},
			{
				MinBPM:  50,
				MaxBPM:  120,
				Label:   "Adult Range (DEMO)",
				Color:   "#3b82f6",
				Message: "60-100 BPM range detected - EDUCATIONAL DEMO ONLY",
			},
		},
		UnusualBand: RateBand{
			Label:   "Unusual Range (DEMO)",
			Color:   "#f59e0b",
			Message: "Unusual BPM detected - EDUCATIONAL DEMO ONLY",
		},
		Disclaimer:           DefaultDisclaimer,
		MinPeriodicityRMS:    0.01,
		PeriodicityThreshold: 0.5,
		PeriodicityMinBPM:    40,
		PeriodicityMaxBPM:    200,
	}
}

// Validate checks rate limits, bands and separation window
func (c RhythmConfig) Validate() error {
	if c.SampleRate <= 0 {
		return invalid("rhythm sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.MinBPM <= 0 || c.MaxBPM < c.MinBPM {
		return invalid("bpm limits [%d, %d] are inverted or non-positive", c.MinBPM, c.MaxBPM)
	}
	if c.PeriodicityMinBPM <= 0 || c.PeriodicityMaxBPM <= c.PeriodicityMinBPM {
		return invalid("periodicity bpm limits [%d, %d] are inverted or non-positive", c.PeriodicityMinBPM, c.PeriodicityMaxBPM)
	}
	if c.ThresholdK < 0 {
		return invalid("threshold_k must not be negative, got %g", c.ThresholdK)
	}
	if c.OutlierK <= 0 {
		return invalid("outlier_k must be positive, got %g", c.OutlierK)
	}
	if c.MinConfidenceIntervals < 1 {
		return invalid("min_confidence_intervals must be at least 1, got %d", c.MinConfidenceIntervals)
	}
	if c.MinBeatSeparation < 0 || c.MaxBeatSeparation < c.MinBeatSeparation {
		return invalid("beat separation window [%g, %g] is inverted", c.MinBeatSeparation, c.MaxBeatSeparation)
	}
	for _, band := range c.Bands {
		if band.MaxBPM < band.MinBPM {
			return invalid("band %q limits [%d, %d] are inverted", band.Label, band.MinBPM, band.MaxBPM)
		}
	}
	return nil
}

// SessionConfig aggregates every component configuration of a detection session
type SessionConfig struct {
	SampleRate int                 `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
	MFCC       spectral.MFCCParams `json:"mfcc" yaml:"mfcc" mapstructure:"mfcc"`
	Classifier ClassifierConfig    `json:"classifier" yaml:"classifier" mapstructure:"classifier"`
	Distance   DistanceConfig      `json:"distance" yaml:"distance" mapstructure:"distance"`
	Direction  DirectionConfig     `json:"direction" yaml:"direction" mapstructure:"direction"`
	Rhythm     RhythmConfig        `json:"rhythm" yaml:"rhythm" mapstructure:"rhythm"`
}

// DefaultSessionConfig returns defaults for a 48 kHz session
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SampleRate: 48000,
		MFCC:       spectral.DefaultMFCCParams(),
		Classifier: DefaultClassifierConfig(),
		Distance:   DefaultDistanceConfig(),
		Direction:  DefaultDirectionConfig(),
		Rhythm:     DefaultRhythmConfig(),
	}
}

// WithSampleRate returns a copy with the sample rate threaded into every
// component that converts samples to time or frequency
func (c SessionConfig) WithSampleRate(sampleRate int) SessionConfig {
	c.SampleRate = sampleRate
	c.MFCC.SampleRate = sampleRate
	c.Direction.SampleRate = sampleRate
	c.Rhythm.SampleRate = sampleRate
	return c
}

// Validate validates every component
func (c SessionConfig) Validate() error {
	if c.SampleRate <= 0 {
		return invalid("session sample_rate must be positive, got %d", c.SampleRate)
	}
	if err := c.MFCC.Validate(); err != nil {
		return fmt.Errorf("%w: mfcc: %v", ErrInvalidConfig, err)
	}
	if err := c.Classifier.Validate(); err != nil {
		return err
	}
	if err := c.Distance.Validate(); err != nil {
		return err
	}
	if err := c.Direction.Validate(); err != nil {
		return err
	}
	return c.Rhythm.Validate()
}
