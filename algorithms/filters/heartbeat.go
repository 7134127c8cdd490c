package filters

import (
	"fmt"
)

// Band is one bandpass branch of a filter bank
type Band struct {
	CenterFreq float64 `json:"center_freq" yaml:"center_freq" mapstructure:"center_freq"`
	Q          float64 `json:"q" yaml:"q" mapstructure:"q"`
}

// DefaultHeartbeatBands emphasize the S1 (~75 Hz), S2 (~105 Hz) and upper
// (~140 Hz) components of heart sounds
func DefaultHeartbeatBands() []Band {
	return []Band{
		{CenterFreq: 75, Q: 3.5},
		{CenterFreq: 105, Q: 3.5},
		{CenterFreq: 140, Q: 3.0},
	}
}

// HeartbeatPrefilter conditions a recording for pulse detection: DC
// blocking, then parallel bandpass branches summed and amplified
type HeartbeatPrefilter struct {
	dc       *DCRemoval
	branches []*BandpassFilter
	gain     float64
}

// NewHeartbeatPrefilter builds the filter chain for the given sample rate
func NewHeartbeatPrefilter(sampleRate int, bands []Band, gain float64) (*HeartbeatPrefilter, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("at least one band is required")
	}

	branches := make([]*BandpassFilter, 0, len(bands))
	for _, band := range bands {
		bf, err := NewBandpassFilter(sampleRate, band.CenterFreq, band.Q)
		if err != nil {
			return nil, fmt.Errorf("band %.0f Hz: %w", band.CenterFreq, err)
		}
		branches = append(branches, bf)
	}

	return &HeartbeatPrefilter{
		dc:       NewDCRemovalWithCutoff(sampleRate, 10.0),
		branches: branches,
		gain:     gain,
	}, nil
}

// Process filters one sample
func (hp *HeartbeatPrefilter) Process(input float64) float64 {
	x := hp.dc.Process(input)

	sum := 0.0
	for _, bf := range hp.branches {
		sum += bf.Process(x)
	}

	return sum * hp.gain
}

// ProcessBuffer filters an entire buffer
func (hp *HeartbeatPrefilter) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	for i, sample := range input {
		output[i] = hp.Process(sample)
	}
	return output
}

// Reset clears every stage
func (hp *HeartbeatPrefilter) Reset() {
	hp.dc.Reset()
	for _, bf := range hp.branches {
		bf.Reset()
	}
}
