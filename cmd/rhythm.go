package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/demrdev/canl-dinleme/algorithms/filters"
	"github.com/demrdev/canl-dinleme/listener"
	"github.com/demrdev/canl-dinleme/logging"
)

var (
	rhythmEnvelope      bool
	rhythmNoConsolidate bool
)

var rhythmCmd = &cobra.Command{
	Use:   "rhythm [file.wav]",
	Short: "Estimate a pulse rate and periodicity (demo only, not medical)",
	Long: `Detect a periodic pulse in a WAV recording (mixed down to mono) and
report its rate in beats per minute, a regularity confidence and a rate band.

The optional prefilter runs the signal through a bank of low-frequency
band-pass filters before analysis. --envelope analyzes a smoothed,
downsampled amplitude envelope instead of the raw samples.

This is a demonstration heuristic. It is NOT a medical device and must not
be used for diagnosis or monitoring.`,
	Args: cobra.ExactArgs(1),
	RunE: runRhythm,
}

func init() {
	rootCmd.AddCommand(rhythmCmd)

	rhythmCmd.Flags().BoolVar(&rhythmEnvelope, "envelope", false,
		"analyze the attack/release envelope instead of raw samples")
	rhythmCmd.Flags().BoolVar(&rhythmNoConsolidate, "no-consolidate", false,
		"keep both sounds of closely spaced beat pairs")
	rhythmCmd.Flags().Bool("prefilter", false,
		"apply the heartbeat band-pass prefilter (prefilter.enabled)")

	bindFlags(rhythmCmd.Flags(), map[string]string{
		"prefilter.enabled": "prefilter",
	})
}

// RhythmReport is the full rhythm output
type RhythmReport struct {
	File          string                 `json:"file" yaml:"file"`
	SampleRate    int                    `json:"sample_rate" yaml:"sample_rate"`
	Prefiltered   bool                   `json:"prefiltered" yaml:"prefiltered"`
	Envelope      bool                   `json:"envelope" yaml:"envelope"`
	Rhythm        *listener.RhythmResult `json:"rhythm" yaml:"rhythm"`
	PeriodicityHz float64                `json:"periodicity_hz" yaml:"periodicity_hz"`
}

func runRhythm(cmd *cobra.Command, args []string) error {
	logger := logging.WithFields(logging.Fields{
		"function": "runRhythm",
		"file":     args[0],
	})

	audio, err := decodeInput(args[0])
	if err != nil {
		return err
	}

	sessionConfig := sessionConfigFor(audio.SampleRate)
	if rhythmNoConsolidate {
		sessionConfig.Rhythm.ConsolidateBeats = false
	}

	session, err := listenerSession(sessionConfig)
	if err != nil {
		return err
	}

	samples := audio.Mono()
	prefiltered := appConfig.Prefilter.Enabled
	if prefiltered {
		prefilter, err := filters.NewHeartbeatPrefilter(audio.SampleRate, appConfig.Prefilter.Bands, appConfig.Prefilter.Gain)
		if err != nil {
			return fmt.Errorf("failed to create prefilter: %w", err)
		}
		samples = prefilter.ProcessBuffer(samples)
		logger.Debug("Applied heartbeat prefilter", logging.Fields{
			"bands": len(appConfig.Prefilter.Bands),
			"gain":  appConfig.Prefilter.Gain,
		})
	}

	var result *listener.RhythmResult
	if rhythmEnvelope {
		result = session.AnalyzeRhythmEnvelope(samples)
	} else {
		result = session.AnalyzeRhythm(samples)
	}

	report := RhythmReport{
		File:          args[0],
		SampleRate:    audio.SampleRate,
		Prefiltered:   prefiltered,
		Envelope:      rhythmEnvelope,
		Rhythm:        result,
		PeriodicityHz: session.Periodicity(samples),
	}

	logger.Info("Rhythm analysis complete", logging.Fields{
		"bpm":        result.BeatsPerMinute,
		"confidence": result.ConfidencePercent,
	})

	return render(cmd.OutOrStdout(), appConfig.OutputFormat, report, func(w io.Writer) error {
		return renderRhythmTable(w, report)
	})
}

func renderRhythmTable(w io.Writer, report RhythmReport) error {
	var mode []string
	if report.Prefiltered {
		mode = append(mode, "prefiltered")
	}
	if report.Envelope {
		mode = append(mode, "envelope")
	}
	subtitle := fmt.Sprintf("%s (%d Hz)", report.File, report.SampleRate)
	if len(mode) > 0 {
		subtitle += " [" + strings.Join(mode, ", ") + "]"
	}
	printHeader(w, "Pulse Rate", subtitle)

	r := report.Rhythm
	band := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(r.Classification.Color))

	periodicity := "none"
	if report.PeriodicityHz > 0 {
		periodicity = fmt.Sprintf("%.2f Hz", report.PeriodicityHz)
	}

	t := newTable("Metric", "Value")
	t.Row("Rate", fmt.Sprintf("%d BPM", r.BeatsPerMinute))
	t.Row("Confidence", fmt.Sprintf("%.0f%%", r.ConfidencePercent))
	t.Row("Band", band.Render(r.Classification.Label))
	t.Row("Peaks / beats", fmt.Sprintf("%d / %d", r.PeakCount, r.BeatCount))
	t.Row("Periodicity", periodicity)
	fmt.Fprintln(w, t.String())

	if r.Classification.Message != "" {
		fmt.Fprintln(w, band.Render(r.Classification.Message))
	}
	fmt.Fprintln(w, warningStyle.Render(r.Disclaimer))

	return nil
}
