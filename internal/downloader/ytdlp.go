package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var nativeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,255}$`)

// Download fetches the source with yt-dlp into destDir, preferring the
// requested quality cap, and returns the path of the downloaded file.
func (d *implDownloader) Download(ctx context.Context, source, destDir, quality string) (string, error) {
	outputTemplate := filepath.Join(destDir, "%(id)s.%(ext)s")

	args := []string{
		"--no-playlist",
		"--no-warnings",
		"--retries", "0", // the pipeline owns retry policy
		"-o", outputTemplate,
	}
	if quality != "" {
		args = append(args, "-f",
			fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", quality, quality))
	} else {
		args = append(args, "-f", "best")
	}
	// Have yt-dlp report the final filename so we don't have to glob.
	args = append(args, "--print", "after_move:filepath", "--no-simulate", source)

	d.logger.Debug(ctx, "downloading %s into %s", source, destDir)

	out, err := d.exec.Execute(ctx, d.binPath, args...)
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}

	path := strings.TrimSpace(out)
	if path == "" {
		return "", fmt.Errorf("yt-dlp reported no output file for %s", source)
	}

	d.logger.Info(ctx, "downloaded %s -> %s", source, path)
	return path, nil
}

// ExtractInfo asks yt-dlp for the source's metadata without downloading.
func (d *implDownloader) ExtractInfo(ctx context.Context, source string) (*MediaInfo, error) {
	out, err := d.exec.Execute(ctx, d.binPath,
		"--dump-json", "--no-playlist", "--no-warnings", "--skip-download", source)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp extract info: %w", err)
	}

	var info MediaInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp metadata: %w", err)
	}
	if info.Title == "" {
		return nil, fmt.Errorf("yt-dlp returned no title for %s", source)
	}

	return &info, nil
}

// ListFormats returns the renditions yt-dlp knows for the source.
func (d *implDownloader) ListFormats(ctx context.Context, source string) ([]Format, error) {
	out, err := d.exec.Execute(ctx, d.binPath,
		"--dump-json", "--no-playlist", "--no-warnings", "--skip-download", source)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp list formats: %w", err)
	}

	var payload struct {
		Formats []Format `json:"formats"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		return nil, fmt.Errorf("parse yt-dlp formats: %w", err)
	}

	return payload.Formats, nil
}

// IsSupported accepts any http(s) URL with a host; yt-dlp itself decides
// whether the site is extractable when we actually call it.
func (d *implDownloader) IsSupported(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolveID pulls a native video id out of well-known URL shapes:
// youtube watch URLs (v=), youtu.be short links, and generic ?id=
// query parameters. Returns false when the source carries no usable id.
func (d *implDownloader) ResolveID(source string) (string, bool) {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	q := u.Query()

	var candidate string
	switch {
	case host == "youtu.be":
		candidate = strings.Trim(u.Path, "/")
	case strings.HasSuffix(host, "youtube.com"):
		if strings.HasPrefix(u.Path, "/shorts/") || strings.HasPrefix(u.Path, "/embed/") {
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) == 2 {
				candidate = parts[1]
			}
		} else {
			candidate = q.Get("v")
		}
	default:
		candidate = q.Get("v")
		if candidate == "" {
			candidate = q.Get("id")
		}
	}

	if candidate == "" || !nativeIDPattern.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}
