package extractor

import "context"

// AudioInfo describes the primary audio stream of a media file.
type AudioInfo struct {
	Codec      string
	SampleRate int
	Channels   int
	Duration   float64
}

// Extractor pulls the audio track out of a video container.
// Implementations return plain errors; the use-case layer translates
// them into processing-failure signals.
type Extractor interface {
	// Extract writes the audio track of videoPath into destDir using the
	// given container format and sample rate, returning the audio path.
	Extract(ctx context.Context, videoPath, destDir, format string, sampleRate int) (string, error)

	// Probe inspects videoPath and returns its audio stream metadata.
	Probe(ctx context.Context, videoPath string) (*AudioInfo, error)
}
