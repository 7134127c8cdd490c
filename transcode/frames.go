package transcode

// Frames slices signal into frames of frameSize samples spaced hopSize
// apart. The trailing partial frame is dropped. Frames alias signal.
func Frames(signal []float64, frameSize, hopSize int) [][]float64 {
	if frameSize <= 0 || hopSize <= 0 || len(signal) < frameSize {
		return [][]float64{}
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	frames := make([][]float64, numFrames)
	for i := range numFrames {
		start := i * hopSize
		frames[i] = signal[start : start+frameSize : start+frameSize]
	}
	return frames
}

// FrameTime returns the start time in seconds of frame i
func FrameTime(i, hopSize, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(i*hopSize) / float64(sampleRate)
}
