package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Extract converts the audio track of videoPath into a mono file at the
// requested sample rate. 16kHz mono PCM is what speech-to-text backends
// work best with.
func (e *implExtractor) Extract(ctx context.Context, videoPath, destDir, format string, sampleRate int) (string, error) {
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(destDir, base+"."+format)

	e.logger.Info(ctx, "extracting audio: %s -> %s", videoPath, audioPath)

	args := []string{
		"-i", videoPath,
		"-vn", // audio only
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1", // mono
	}
	if format == "wav" {
		args = append(args, "-c:a", "pcm_s16le")
	}
	args = append(args,
		"-threads", "0",
		"-y",
		audioPath,
	)

	if _, err := e.exec.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	return audioPath, nil
}

// Probe reads the primary audio stream metadata of videoPath via ffprobe.
func (e *implExtractor) Probe(ctx context.Context, videoPath string) (*AudioInfo, error) {
	out, err := e.exec.Execute(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name,sample_rate,channels",
		"-show_entries", "format=duration",
		"-of", "json",
		videoPath,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var payload struct {
		Streams []struct {
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(payload.Streams) == 0 {
		return nil, fmt.Errorf("no audio stream in %s", videoPath)
	}

	info := &AudioInfo{
		Codec:    payload.Streams[0].CodecName,
		Channels: payload.Streams[0].Channels,
	}
	if sr, err := strconv.Atoi(payload.Streams[0].SampleRate); err == nil {
		info.SampleRate = sr
	}
	if d, err := strconv.ParseFloat(payload.Format.Duration, 64); err == nil {
		info.Duration = d
	}

	return info, nil
}
