package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/demrdev/canl-dinleme/listener"
	"github.com/demrdev/canl-dinleme/logging"
	"github.com/demrdev/canl-dinleme/transcode"
)

var directionCmd = &cobra.Command{
	Use:   "direction [stereo.wav]",
	Short: "Estimate left/right direction per frame from a stereo recording",
	Long: `Frame both channels of a stereo WAV file and estimate the horizontal
direction of arrival from the interaural time difference (cross-correlation
peak) and level difference of each frame pair.`,
	Args: cobra.ExactArgs(1),
	RunE: runDirection,
}

func init() {
	rootCmd.AddCommand(directionCmd)
}

// DirectionFrame is one row of direction output
type DirectionFrame struct {
	Index    int                         `json:"index" yaml:"index"`
	Time     float64                     `json:"time" yaml:"time"`
	Estimate *listener.DirectionEstimate `json:"estimate" yaml:"estimate"`
}

// DirectionSummary is the full direction output
type DirectionSummary struct {
	File       string                          `json:"file" yaml:"file"`
	SampleRate int                             `json:"sample_rate" yaml:"sample_rate"`
	Frames     []DirectionFrame                `json:"frames" yaml:"frames"`
	Counts     map[listener.DirectionLabel]int `json:"direction_counts" yaml:"direction_counts"`
}

func runDirection(cmd *cobra.Command, args []string) error {
	logger := logging.WithFields(logging.Fields{
		"function": "runDirection",
		"file":     args[0],
	})

	audio, err := decodeInput(args[0])
	if err != nil {
		return err
	}

	left, right, err := audio.Stereo()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	session, err := newSession(audio.SampleRate)
	if err != nil {
		return err
	}

	frameSize, hopSize := appConfig.Audio.FrameSize, appConfig.Audio.HopSize
	leftFrames := transcode.Frames(left, frameSize, hopSize)
	rightFrames := transcode.Frames(right, frameSize, hopSize)

	summary := DirectionSummary{
		File:       args[0],
		SampleRate: audio.SampleRate,
		Frames:     make([]DirectionFrame, 0, len(leftFrames)),
		Counts:     make(map[listener.DirectionLabel]int),
	}

	for i := range min(len(leftFrames), len(rightFrames)) {
		estimate := session.AnalyzeStereo(leftFrames[i], rightFrames[i])
		summary.Frames = append(summary.Frames, DirectionFrame{
			Index:    i,
			Time:     transcode.FrameTime(i, hopSize, audio.SampleRate),
			Estimate: estimate,
		})
		summary.Counts[estimate.Label]++
	}

	logger.Info("Direction analysis complete", logging.Fields{"frames": len(summary.Frames)})

	return render(cmd.OutOrStdout(), appConfig.OutputFormat, summary, func(w io.Writer) error {
		return renderDirectionTable(w, summary)
	})
}

func renderDirectionTable(w io.Writer, summary DirectionSummary) error {
	printHeader(w, "Direction of Arrival", fmt.Sprintf("%s (%d Hz, %d frames)", summary.File, summary.SampleRate, len(summary.Frames)))

	t := newTable("Time (s)", "Direction", "Angle", "Confidence", "ITD (ms)", "ILD (dB)")
	for _, frame := range summary.Frames {
		e := frame.Estimate
		t.Row(
			fmt.Sprintf("%.2f", frame.Time),
			string(e.Label),
			fmt.Sprintf("%+d°", e.AngleDegrees),
			fmt.Sprintf("%.0f%%", e.ConfidencePercent),
			fmt.Sprintf("%.3f", e.ITDSeconds*1000),
			fmt.Sprintf("%.1f", e.ILDDecibels),
		)
	}
	fmt.Fprintln(w, t.String())

	counts := newTable("Direction", "Frames")
	for _, label := range []listener.DirectionLabel{
		listener.DirectionFarLeft,
		listener.DirectionLeft,
		listener.DirectionCenter,
		listener.DirectionRight,
		listener.DirectionFarRight,
	} {
		if n, ok := summary.Counts[label]; ok {
			counts.Row(string(label), fmt.Sprintf("%d", n))
		}
	}
	fmt.Fprintln(w, counts.String())

	return nil
}
