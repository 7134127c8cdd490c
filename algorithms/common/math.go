package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Epsilon guards divisions and logarithms against zero input
const Epsilon = 1e-10

// Basic statistical helpers shared by the analysis algorithms, backed by gonum

// Sum returns the sum of all values, 0 for empty input
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopulationStdDev calculates the standard deviation normalized by N (not N-1)
func PopulationStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	_, std := stat.PopMeanStdDev(data, nil)
	return std
}

// MeanSquare returns the mean of squared samples (frame energy)
func MeanSquare(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Dot(data, data) / float64(len(data))
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	return math.Sqrt(MeanSquare(data))
}

// Abs returns a new slice holding the absolute value of each sample
func Abs(data []float64) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = math.Abs(v)
	}
	return out
}

// SafeDivide returns num/den, or 0 when den is zero
func SafeDivide(num, den float64) float64 {
	if den == 0 {
		return 0.0
	}
	return num / den
}

// AmplitudeToDB converts a linear amplitude to dB with an epsilon floor
func AmplitudeToDB(amplitude float64) float64 {
	return 20.0 * math.Log10(amplitude+Epsilon)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundTo rounds value to the given number of decimal places
func RoundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}
