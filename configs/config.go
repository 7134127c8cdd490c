package configs

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/demrdev/canl-dinleme/algorithms/filters"
	"github.com/demrdev/canl-dinleme/algorithms/spectral"
	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/logging"
)

// OutputFormats lists the accepted values of output_format
var OutputFormats = []string{"table", "json", "yaml"}

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Audio input and framing
	Audio AudioConfig `mapstructure:"audio" yaml:"audio"`

	// Optional heartbeat band-pass conditioning before rhythm analysis
	Prefilter PrefilterConfig `mapstructure:"prefilter" yaml:"prefilter"`

	// Analysis components
	Session config.SessionConfig `mapstructure:"session" yaml:"session"`
}

// AudioConfig contains audio framing settings
type AudioConfig struct {
	FrameSize      int           `mapstructure:"frame_size" yaml:"frame_size"`
	HopSize        int           `mapstructure:"hop_size" yaml:"hop_size"`
	WindowFunction string        `mapstructure:"window_function" yaml:"window_function"`
	MaxDuration    time.Duration `mapstructure:"max_duration" yaml:"max_duration"`
}

// PrefilterConfig configures the heartbeat prefilter
type PrefilterConfig struct {
	Enabled bool           `mapstructure:"enabled" yaml:"enabled"`
	Bands   []filters.Band `mapstructure:"bands" yaml:"bands"`
	Gain    float64        `mapstructure:"gain" yaml:"gain"`
}

// LoadConfig decodes the viper state on top of the defaults. A table given
// in the config (rules, bands, corrections) replaces the default table as a
// whole; its entries do not inherit fields from the defaults.
func LoadConfig(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := GetDefaultConfig()
	if err := v.Unmarshal(cfg, replaceSlices); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return cfg, nil
}

func replaceSlices(dc *mapstructure.DecoderConfig) {
	dc.ZeroFields = true
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	if !slices.Contains(OutputFormats, cfg.OutputFormat) {
		return fmt.Errorf("%w: output format must be one of %v, got %q", config.ErrInvalidConfig, OutputFormats, cfg.OutputFormat)
	}

	if cfg.Audio.FrameSize < 2 {
		return fmt.Errorf("%w: audio frame size must be at least 2", config.ErrInvalidConfig)
	}

	if cfg.Audio.HopSize <= 0 {
		return fmt.Errorf("%w: audio hop size must be positive", config.ErrInvalidConfig)
	}

	if cfg.Audio.MaxDuration < 0 {
		return fmt.Errorf("%w: audio max duration cannot be negative", config.ErrInvalidConfig)
	}

	if _, err := spectral.NewFFTWithWindow(spectral.WindowType(cfg.Audio.WindowFunction)); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	if cfg.Prefilter.Enabled && len(cfg.Prefilter.Bands) == 0 {
		return fmt.Errorf("%w: prefilter enabled without bands", config.ErrInvalidConfig)
	}

	return cfg.Session.Validate()
}
