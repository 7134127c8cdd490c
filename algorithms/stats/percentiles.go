package stats

import (
	"math"
	"sort"

	"github.com/demrdev/canl-dinleme/algorithms/common"
)

// QuartileInfo contains quartile-specific information
type QuartileInfo struct {
	Q1  float64 `json:"q1"`  // First quartile (25th percentile)
	Q3  float64 `json:"q3"`  // Third quartile (75th percentile)
	IQR float64 `json:"iqr"` // Interquartile range (Q3 - Q1)
}

// Percentiles implements rank-based percentiles and Tukey fence outlier
// rejection for short interval series.
//
// Ranks are taken at floor(n*p) of the sorted data (no interpolation),
// which keeps the fences on observed values for the 3-10 element series
// produced by beat tracking.
type Percentiles struct {
	outlierK   float64 // Outlier fence multiplier (default 1.5)
	minSamples int     // Below this count the data is returned unfiltered
}

// NewPercentiles creates a percentile analyzer with the usual 1.5*IQR fences
func NewPercentiles() *Percentiles {
	return &Percentiles{
		outlierK:   1.5,
		minSamples: 3,
	}
}

// NewPercentilesWithOutlierThreshold creates an analyzer with a custom fence multiplier
func NewPercentilesWithOutlierThreshold(outlierK float64) *Percentiles {
	p := NewPercentiles()
	if outlierK > 0 {
		p.outlierK = outlierK
	}
	return p
}

// Percentile returns the value at rank floor(n*p) of the sorted data, p in [0,1]
func (p *Percentiles) Percentile(data []float64, q float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sorted := sortedCopy(data)
	return rankValue(sorted, q)
}

// Quartiles computes Q1, Q3 and the interquartile range
func (p *Percentiles) Quartiles(data []float64) QuartileInfo {
	if len(data) == 0 {
		return QuartileInfo{}
	}

	sorted := sortedCopy(data)
	q1 := rankValue(sorted, 0.25)
	q3 := rankValue(sorted, 0.75)

	return QuartileInfo{
		Q1:  q1,
		Q3:  q3,
		IQR: q3 - q1,
	}
}

// Fences returns the inclusive [lower, upper] range outside which values are outliers
func (p *Percentiles) Fences(data []float64) (lower, upper float64) {
	q := p.Quartiles(data)
	return q.Q1 - p.outlierK*q.IQR, q.Q3 + p.outlierK*q.IQR
}

// RemoveOutliers keeps the values inside the IQR fences, preserving input order.
// Series shorter than three values are returned unchanged.
func (p *Percentiles) RemoveOutliers(data []float64) []float64 {
	if len(data) < p.minSamples {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}

	lower, upper := p.Fences(data)

	filtered := make([]float64, 0, len(data))
	for _, v := range data {
		if v >= lower && v <= upper {
			filtered = append(filtered, v)
		}
	}

	return filtered
}

// CoefficientOfVariation returns population std / mean, 0 when the mean is 0
func CoefficientOfVariation(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	mean := common.Mean(data)
	if mean == 0 {
		return 0.0
	}

	return common.PopulationStdDev(data) / mean
}

func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}

func rankValue(sorted []float64, q float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * common.Clamp(q, 0, 1)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
