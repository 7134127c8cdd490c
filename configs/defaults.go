package configs

import (
	"time"

	"github.com/spf13/viper"

	"github.com/demrdev/canl-dinleme/algorithms/filters"
	"github.com/demrdev/canl-dinleme/listener/config"
)

// setDefaults sets default values for the scalar application settings.
// Component tables (rule sets, bands) default through GetDefaultConfig.
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.SetDefault("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.SetDefault("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.SetDefault("output_format", "table")
	}

	// Audio framing defaults
	if !v.IsSet("audio.frame_size") {
		v.SetDefault("audio.frame_size", 2048)
	}
	if !v.IsSet("audio.hop_size") {
		v.SetDefault("audio.hop_size", 1024)
	}
	if !v.IsSet("audio.window_function") {
		v.SetDefault("audio.window_function", "hann")
	}
	if !v.IsSet("audio.max_duration") {
		v.SetDefault("audio.max_duration", time.Duration(0))
	}

	// Prefilter defaults
	if !v.IsSet("prefilter.enabled") {
		v.SetDefault("prefilter.enabled", false)
	}
	if !v.IsSet("prefilter.gain") {
		v.SetDefault("prefilter.gain", 20.0)
	}

	// Session defaults
	if !v.IsSet("session.sample_rate") {
		v.SetDefault("session.sample_rate", 48000)
	}
	if !v.IsSet("session.rhythm.consolidate_beats") {
		v.SetDefault("session.rhythm.consolidate_beats", true)
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		Audio:        GetDefaultAudioConfig(),
		Prefilter:    GetDefaultPrefilterConfig(),
		Session:      config.DefaultSessionConfig(),
	}
}

// GetDefaultAudioConfig returns default framing: 2048-sample Hann frames, 50% overlap
func GetDefaultAudioConfig() AudioConfig {
	return AudioConfig{
		FrameSize:      2048,
		HopSize:        1024,
		WindowFunction: "hann",
		MaxDuration:    0,
	}
}

// GetDefaultPrefilterConfig returns the disabled heartbeat prefilter
func GetDefaultPrefilterConfig() PrefilterConfig {
	return PrefilterConfig{
		Enabled: false,
		Bands:   filters.DefaultHeartbeatBands(),
		Gain:    20.0,
	}
}
