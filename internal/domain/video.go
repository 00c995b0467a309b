package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"
)

const (
	// MaxIDLength is the upper bound on entity identifiers.
	MaxIDLength = 255

	// MaxTitleLength is the upper bound on video titles.
	MaxTitleLength = 500

	// MaxDuration is one day in seconds, the longest video accepted.
	MaxDuration = 86400
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Video is the central entity of the pipeline. Its invariants are
// enforced by NewVideo and never relaxed afterwards; pipeline stages
// fill in FilePath, Transcription and Summary as they complete.
type Video struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Duration      float64           `json:"duration"`
	FilePath      string            `json:"file_path,omitempty"`
	URL           string            `json:"url,omitempty"`
	Transcription string            `json:"transcription,omitempty"`
	Summary       string            `json:"summary,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewVideo constructs a validated Video. At least one of filePath and
// sourceURL must be given; a non-empty filePath must reference an
// existing file and a non-empty sourceURL must be a valid http(s) URL.
func NewVideo(id, title string, duration float64, filePath, sourceURL string) (*Video, error) {
	if id == "" {
		return nil, FormatInvalid("id", id, "must not be empty")
	}
	if len(id) > MaxIDLength {
		return nil, FormatInvalid("id", id, fmt.Sprintf("must be at most %d characters", MaxIDLength))
	}
	if !idPattern.MatchString(id) {
		return nil, FormatInvalid("id", id, "must contain only letters, digits, '_' and '-'")
	}
	if title == "" {
		return nil, FormatInvalid("title", title, "must not be empty")
	}
	if len(title) > MaxTitleLength {
		return nil, FormatInvalid("title", title, fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	}
	if duration < 0 || duration > MaxDuration {
		return nil, FormatInvalid("duration", fmt.Sprintf("%g", duration),
			fmt.Sprintf("must be between 0 and %d seconds", MaxDuration))
	}
	if filePath == "" && sourceURL == "" {
		return nil, FormatInvalid("source", "", "either file_path or url must be present")
	}
	if filePath != "" {
		if _, err := os.Stat(filePath); err != nil {
			return nil, FormatInvalid("file_path", filePath, "must reference an existing file")
		}
	}
	if sourceURL != "" {
		if err := validateURL(sourceURL); err != nil {
			return nil, err
		}
	}

	return &Video{
		ID:        id,
		Title:     title,
		Duration:  duration,
		FilePath:  filePath,
		URL:       sourceURL,
		Metadata:  map[string]string{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return FormatInvalid("url", raw, "must be a valid http(s) URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return FormatInvalid("url", raw, "must use http or https")
	}
	return nil
}

// SetFilePath records the downloaded local copy of the video.
func (v *Video) SetFilePath(path string) {
	v.FilePath = path
}

// SetTranscription records the speech-to-text result.
func (v *Video) SetTranscription(text string) {
	v.Transcription = text
}

// SetSummary records the summarization result.
func (v *Video) SetSummary(text string) {
	v.Summary = text
}

// SetMeta stores an open metadata entry.
func (v *Video) SetMeta(key, value string) {
	if v.Metadata == nil {
		v.Metadata = map[string]string{}
	}
	v.Metadata[key] = value
}

// HashID derives a deterministic identifier from an arbitrary source
// string. Used when a downloader cannot resolve a native video id, so
// repeated runs against the same source map to the same entity.
func HashID(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])[:16]
}
