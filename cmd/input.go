package cmd

import (
	"fmt"

	"github.com/demrdev/canl-dinleme/listener"
	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/transcode"
)

// decodeInput decodes a WAV file honoring audio.max_duration
func decodeInput(path string) (*transcode.AudioData, error) {
	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		MaxDuration: appConfig.Audio.MaxDuration,
	})

	audio, err := decoder.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if audio.NumFrames == 0 {
		return nil, fmt.Errorf("%s contains no samples", path)
	}
	return audio, nil
}

// newSession builds a session for audio decoded at sampleRate, sizing the
// MFCC FFT to the configured frame
func newSession(sampleRate int) (*listener.Session, error) {
	return listenerSession(sessionConfigFor(sampleRate))
}

func listenerSession(cfg config.SessionConfig) (*listener.Session, error) {
	session, err := listener.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func sessionConfigFor(sampleRate int) config.SessionConfig {
	sessionConfig := appConfig.Session.WithSampleRate(sampleRate)
	sessionConfig.MFCC.FFTSize = appConfig.Audio.FrameSize
	return sessionConfig
}
