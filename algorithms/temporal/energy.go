package temporal

import (
	"github.com/demrdev/canl-dinleme/algorithms/common"
)

// Energy computes the mean-square energy of time-domain frames
type Energy struct{}

// NewEnergy creates a new energy calculator
func NewEnergy() *Energy {
	return &Energy{}
}

// Compute returns the mean of squared samples, 0 for an empty frame
func (e *Energy) Compute(frame []float64) float64 {
	return common.MeanSquare(frame)
}
