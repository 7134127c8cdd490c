package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/demrdev/canl-dinleme/algorithms/spectral"
	"github.com/demrdev/canl-dinleme/listener"
	"github.com/demrdev/canl-dinleme/listener/config"
	"github.com/demrdev/canl-dinleme/logging"
	"github.com/demrdev/canl-dinleme/transcode"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.wav]",
	Short: "Classify the sound source and estimate its distance frame by frame",
	Long: `Decode a WAV file (mixed down to mono), cut it into overlapping
windowed frames and report, for each frame, the most likely sound category
with its score table and a level-based distance estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// AnalyzedFrame is one row of analyze output
type AnalyzedFrame struct {
	Index  int                   `json:"index" yaml:"index"`
	Time   float64               `json:"time" yaml:"time"`
	Report *listener.FrameReport `json:"report" yaml:"report"`
}

// AnalyzeSummary is the full analyze output
type AnalyzeSummary struct {
	File       string                  `json:"file" yaml:"file"`
	SampleRate int                     `json:"sample_rate" yaml:"sample_rate"`
	Frames     []AnalyzedFrame         `json:"frames" yaml:"frames"`
	Counts     map[config.Category]int `json:"category_counts" yaml:"category_counts"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := logging.WithFields(logging.Fields{
		"function": "runAnalyze",
		"file":     args[0],
	})

	audio, err := decodeInput(args[0])
	if err != nil {
		return err
	}

	session, err := newSession(audio.SampleRate)
	if err != nil {
		return err
	}

	fft, err := spectral.NewFFTWithWindow(spectral.WindowType(appConfig.Audio.WindowFunction))
	if err != nil {
		return err
	}

	stft, err := spectral.NewSTFT(fft).Compute(audio.Mono(), appConfig.Audio.FrameSize, appConfig.Audio.HopSize, audio.SampleRate)
	if err != nil {
		return fmt.Errorf("failed to frame audio: %w", err)
	}

	summary := AnalyzeSummary{
		File:       args[0],
		SampleRate: audio.SampleRate,
		Frames:     make([]AnalyzedFrame, 0, stft.TimeFrames),
		Counts:     make(map[config.Category]int),
	}

	for i := range stft.TimeFrames {
		report := session.AnalyzeFrame(stft.Magnitude[i], stft.Frames[i])
		summary.Frames = append(summary.Frames, AnalyzedFrame{
			Index:  i,
			Time:   transcode.FrameTime(i, appConfig.Audio.HopSize, audio.SampleRate),
			Report: report,
		})
		summary.Counts[report.Classification.Category]++
	}

	logger.Info("Analysis complete", logging.Fields{"frames": session.FramesAnalyzed()})

	return render(cmd.OutOrStdout(), appConfig.OutputFormat, summary, func(w io.Writer) error {
		return renderAnalyzeTable(w, summary)
	})
}

func renderAnalyzeTable(w io.Writer, summary AnalyzeSummary) error {
	printHeader(w, "Sound Scene Analysis", fmt.Sprintf("%s (%d Hz, %d frames)", summary.File, summary.SampleRate, len(summary.Frames)))

	t := newTable("Time (s)", "Category", "Score", "Distance (m)", "Distance Conf.")
	for _, frame := range summary.Frames {
		r := frame.Report
		t.Row(
			fmt.Sprintf("%.2f", frame.Time),
			string(r.Classification.Category),
			fmt.Sprintf("%.1f", r.Classification.Confidence),
			fmt.Sprintf("%.1f", r.Distance.DistanceMeters),
			fmt.Sprintf("%.0f%%", r.Distance.ConfidencePercent),
		)
	}
	fmt.Fprintln(w, t.String())

	counts := newTable("Category", "Frames")
	for _, category := range slices.Sorted(maps.Keys(summary.Counts)) {
		counts.Row(string(category), fmt.Sprintf("%d", summary.Counts[category]))
	}
	fmt.Fprintln(w, counts.String())

	return nil
}
