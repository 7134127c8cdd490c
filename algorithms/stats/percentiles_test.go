package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuartilesUseFloorRank(t *testing.T) {
	p := NewPercentiles()

	// n=4: Q1 at index 1, Q3 at index 3
	q := p.Quartiles([]float64{4, 1, 3, 2})
	assert.Equal(t, QuartileInfo{Q1: 2, Q3: 4, IQR: 2}, q)

	assert.Equal(t, 1.0, p.Percentile([]float64{3, 1, 2}, 0))
	assert.Equal(t, 3.0, p.Percentile([]float64{3, 1, 2}, 1))
	assert.Zero(t, p.Percentile(nil, 0.5))
	assert.Equal(t, QuartileInfo{}, p.Quartiles(nil))
}

func TestRemoveOutliers(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want []float64
	}{
		{
			name: "regular intervals with one missed beat",
			data: []float64{0.5, 0.5, 0.5, 0.5, 1.0},
			want: []float64{0.5, 0.5, 0.5, 0.5},
		},
		{
			name: "order is preserved",
			data: []float64{0.52, 0.48, 0.5, 0.51},
			want: []float64{0.52, 0.48, 0.5, 0.51},
		},
		{
			name: "short series pass through",
			data: []float64{0.1, 5.0},
			want: []float64{0.1, 5.0},
		},
		{
			name: "empty",
			data: []float64{},
			want: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPercentiles().RemoveOutliers(tt.data))
		})
	}
}

func TestRemoveOutliersDoesNotAlias(t *testing.T) {
	data := []float64{0.1, 0.2}
	out := NewPercentiles().RemoveOutliers(data)
	out[0] = 99

	assert.Equal(t, 0.1, data[0])
}

func TestOutlierThreshold(t *testing.T) {
	data := []float64{1, 2, 3, 4, 6}

	// Q1=2, Q3=4, IQR=2
	lower, upper := NewPercentiles().Fences(data)
	assert.Equal(t, -1.0, lower)
	assert.Equal(t, 7.0, upper)

	assert.Equal(t, []float64{1, 2, 3, 4}, NewPercentilesWithOutlierThreshold(0.5).RemoveOutliers(data))

	// Non-positive multipliers keep the default
	lower, upper = NewPercentilesWithOutlierThreshold(-1).Fences(data)
	assert.Equal(t, -1.0, lower)
	assert.Equal(t, 7.0, upper)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Zero(t, CoefficientOfVariation([]float64{0.5, 0.5, 0.5}))
	assert.InDelta(t, 0.5, CoefficientOfVariation([]float64{1, 3}), 1e-12)
	assert.Zero(t, CoefficientOfVariation([]float64{-1, 1}))
	assert.Zero(t, CoefficientOfVariation(nil))
}
