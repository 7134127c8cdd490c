package listener

import (
	"math"

	"github.com/demrdev/canl-dinleme/algorithms/common"
	"github.com/demrdev/canl-dinleme/algorithms/stats"
	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/logging"
)

// DirectionLabel is a coarse azimuth sector
type DirectionLabel string

const (
	DirectionFarLeft  DirectionLabel = "Far Left"
	DirectionLeft     DirectionLabel = "Left"
	DirectionCenter   DirectionLabel = "Center"
	DirectionRight    DirectionLabel = "Right"
	DirectionFarRight DirectionLabel = "Far Right"
)

// LabelForAngle maps an azimuth in degrees (negative = left) to its sector
func LabelForAngle(angle float64) DirectionLabel {
	switch {
	case angle < -67.5:
		return DirectionFarLeft
	case angle < -22.5:
		return DirectionLeft
	case angle < 22.5:
		return DirectionCenter
	case angle < 67.5:
		return DirectionRight
	default:
		return DirectionFarRight
	}
}

// DirectionEstimate is a binaural azimuth estimate
type DirectionEstimate struct {
	AngleDegrees      int            `json:"angle"`
	Label             DirectionLabel `json:"direction"`
	ConfidencePercent float64        `json:"confidence"`
	ITDSeconds        float64        `json:"itd"`
	ILDDecibels       float64        `json:"ild"`
}

// DirectionEstimator combines the interaural time difference (from the
// cross-correlation peak) and the interaural level difference
type DirectionEstimator struct {
	config      config.DirectionConfig
	correlation *stats.CrossCorrelation
	logger      logging.Logger
}

// NewDirectionEstimator creates a direction estimator
func NewDirectionEstimator(cfg config.DirectionConfig) (*DirectionEstimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &DirectionEstimator{
		config:      cfg,
		correlation: stats.NewCrossCorrelation(cfg.MaxLag),
		logger: logging.WithFields(logging.Fields{
			"component": "direction_estimator",
		}),
	}, nil
}

// Estimate locates the source from a pair of equally long channel frames.
// Identical channels give angle 0, Center.
func (de *DirectionEstimator) Estimate(left, right []float64) *DirectionEstimate {
	if len(left) != len(right) {
		de.logger.Warn("Channel lengths differ, using common prefix", logging.Fields{
			"left_len":  len(left),
			"right_len": len(right),
		})
	}

	itd := de.ITD(left, right)
	ild := de.ILD(left, right)

	itdAngle := de.itdAngle(itd)
	ildAngle := ild * de.config.ILDDegreesPerDB
	angle := itdAngle*de.config.ITDWeight + ildAngle*de.config.ILDWeight

	estimate := &DirectionEstimate{
		AngleDegrees:      int(math.Round(angle)),
		Label:             LabelForAngle(angle),
		ConfidencePercent: common.Clamp(100-math.Abs(itdAngle-ildAngle), 0, 100),
		ITDSeconds:        itd,
		ILDDecibels:       ild,
	}

	de.logger.Debug("Estimated direction", logging.Fields{
		"angle": estimate.AngleDegrees,
		"itd":   itd,
		"ild":   ild,
	})

	return estimate
}

// ITD returns the best-correlation lag converted to seconds
func (de *DirectionEstimator) ITD(left, right []float64) float64 {
	lag := de.correlation.BestLag(left, right)
	return float64(lag) / float64(de.config.SampleRate)
}

// ILD returns 20*log10((rmsL + eps) / (rmsR + eps))
func (de *DirectionEstimator) ILD(left, right []float64) float64 {
	return 20 * math.Log10((common.RMS(left)+common.Epsilon)/(common.RMS(right)+common.Epsilon))
}

// itdAngle converts a delay to degrees via asin(itd / maxITD), clamped to +-90
func (de *DirectionEstimator) itdAngle(itd float64) float64 {
	maxITD := de.config.MicDistance / de.config.SpeedOfSound
	return math.Asin(common.Clamp(itd/maxITD, -1, 1)) * 180 / math.Pi
}
