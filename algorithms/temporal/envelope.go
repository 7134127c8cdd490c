package temporal

import (
	"math"
)

// Default follower timing, in seconds
const (
	DefaultAttackTime  = 0.005
	DefaultReleaseTime = 0.05
	DefaultDownsample  = 128
)

// EnvelopeFollower tracks the amplitude envelope of |x| with separate
// attack and release time constants. It keeps its level between calls so a
// stream can be fed block by block; one instance per stream.
type EnvelopeFollower struct {
	sampleRate int
	attack     float64 // exp(-1 / (sr * attackTime))
	release    float64 // exp(-1 / (sr * releaseTime))
	downsample int

	env   float64
	sum   float64
	count int
}

// NewEnvelopeFollower creates a follower with 5 ms attack, 50 ms release and
// 128x block-average downsampling
func NewEnvelopeFollower(sampleRate int) *EnvelopeFollower {
	return NewEnvelopeFollowerWithParams(sampleRate, DefaultAttackTime, DefaultReleaseTime, DefaultDownsample)
}

// NewEnvelopeFollowerWithParams creates a follower with custom timing.
// A downsample factor below 2 disables averaging in ProcessDownsampled.
func NewEnvelopeFollowerWithParams(sampleRate int, attackTime, releaseTime float64, downsample int) *EnvelopeFollower {
	return &EnvelopeFollower{
		sampleRate: sampleRate,
		attack:     timeConstant(sampleRate, attackTime),
		release:    timeConstant(sampleRate, releaseTime),
		downsample: max(1, downsample),
	}
}

func timeConstant(sampleRate int, seconds float64) float64 {
	if sampleRate <= 0 || seconds <= 0 {
		return 0.0
	}
	return math.Exp(-1.0 / (float64(sampleRate) * seconds))
}

// Next advances the follower by one sample and returns the envelope level.
// Rising input uses the attack coefficient, falling input the release one:
// env = |x| + (env - |x|) * coef
func (ef *EnvelopeFollower) Next(sample float64) float64 {
	x := math.Abs(sample)
	coef := ef.release
	if x > ef.env {
		coef = ef.attack
	}
	ef.env = x + (ef.env-x)*coef
	return ef.env
}

// Process returns the envelope of every sample in the block
func (ef *EnvelopeFollower) Process(block []float64) []float64 {
	out := make([]float64, len(block))
	for i, sample := range block {
		out[i] = ef.Next(sample)
	}
	return out
}

// ProcessDownsampled returns one averaged envelope value per completed group
// of Downsample samples. Partial groups carry over to the next call.
func (ef *EnvelopeFollower) ProcessDownsampled(block []float64) []float64 {
	out := make([]float64, 0, len(block)/ef.downsample+1)
	for _, sample := range block {
		ef.sum += ef.Next(sample)
		ef.count++
		if ef.count == ef.downsample {
			out = append(out, ef.sum/float64(ef.downsample))
			ef.sum = 0
			ef.count = 0
		}
	}
	return out
}

// OutputRate returns the sample rate of ProcessDownsampled output
func (ef *EnvelopeFollower) OutputRate() float64 {
	return float64(ef.sampleRate) / float64(ef.downsample)
}

// Level returns the current envelope level
func (ef *EnvelopeFollower) Level() float64 {
	return ef.env
}

// Reset zeroes the envelope and discards any partial downsampling group
func (ef *EnvelopeFollower) Reset() {
	ef.env = 0
	ef.sum = 0
	ef.count = 0
}
