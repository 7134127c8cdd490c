package listener

import "math"

// sinAt returns sample i of a sine completing cycles periods every n samples
func sinAt(cycles float64, i, n int) float64 {
	return math.Sin(2 * math.Pi * cycles * float64(i) / float64(n))
}

func constant(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
