package downloader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/danghoangnhan/vidscribe/internal/config"
	"github.com/danghoangnhan/vidscribe/internal/logger"
)

type fakeExecutor struct {
	out     string
	err     error
	gotName string
	gotArgs []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.gotName = name
	f.gotArgs = args
	return f.out, f.err
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func newTestDownloader(exec *fakeExecutor) Downloader {
	return New(config.DownloadConfig{Quality: "720"}, exec, logger.Nop())
}

func TestExtractInfo(t *testing.T) {
	exec := &fakeExecutor{out: `{"id":"abc123","title":"Sample","duration":42,"uploader":"someone","webpage_url":"https://example.com/v/abc123"}`}
	d := newTestDownloader(exec)

	info, err := d.ExtractInfo(context.Background(), "https://example.com/v/abc123")
	if err != nil {
		t.Fatalf("ExtractInfo() error = %v", err)
	}
	if info.ID != "abc123" || info.Title != "Sample" || info.Duration != 42 {
		t.Errorf("info = %+v", info)
	}
	if exec.gotName != "yt-dlp" {
		t.Errorf("binary = %q, want yt-dlp", exec.gotName)
	}
}

func TestExtractInfoFailures(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"command fails", &fakeExecutor{err: errors.New("network unreachable")}},
		{"invalid json", &fakeExecutor{out: "not json"}},
		{"missing title", &fakeExecutor{out: `{"id":"abc123"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDownloader(tt.exec)
			if _, err := d.ExtractInfo(context.Background(), "https://example.com/v"); err == nil {
				t.Error("ExtractInfo() expected error")
			}
		})
	}
}

func TestDownload(t *testing.T) {
	exec := &fakeExecutor{out: "/tmp/scratch/abc123.mp4\n"}
	d := newTestDownloader(exec)

	path, err := d.Download(context.Background(), "https://example.com/v/abc123", "/tmp/scratch", "720")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if path != "/tmp/scratch/abc123.mp4" {
		t.Errorf("path = %q", path)
	}

	joined := strings.Join(exec.gotArgs, " ")
	if !strings.Contains(joined, "height<=720") {
		t.Errorf("quality cap missing from args: %v", exec.gotArgs)
	}
	if !strings.Contains(joined, "--no-playlist") {
		t.Errorf("--no-playlist missing from args: %v", exec.gotArgs)
	}
}

func TestDownloadEmptyOutput(t *testing.T) {
	d := newTestDownloader(&fakeExecutor{out: "  \n"})
	if _, err := d.Download(context.Background(), "https://example.com/v", "/tmp", ""); err == nil {
		t.Error("Download() expected error when yt-dlp reports no file")
	}
}

func TestListFormats(t *testing.T) {
	exec := &fakeExecutor{out: `{"formats":[{"format_id":"22","ext":"mp4","resolution":"1280x720"},{"format_id":"18","ext":"mp4","resolution":"640x360"}]}`}
	d := newTestDownloader(exec)

	formats, err := d.ListFormats(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("ListFormats() error = %v", err)
	}
	if len(formats) != 2 || formats[0].ID != "22" {
		t.Errorf("formats = %+v", formats)
	}
}

func TestIsSupported(t *testing.T) {
	d := newTestDownloader(&fakeExecutor{})

	tests := []struct {
		source string
		want   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"http://example.com/video?id=abc123", true},
		{"ftp://example.com/video.mp4", false},
		{"/videos/local.mp4", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		if got := d.IsSupported(tt.source); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestResolveID(t *testing.T) {
	d := newTestDownloader(&fakeExecutor{})

	tests := []struct {
		source string
		wantID string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/abc-DEF_123", "abc-DEF_123", true},
		{"https://example.com/video?id=abc123", "abc123", true},
		{"https://example.com/video", "", false},
		{"https://example.com/video?id=bad/id", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			id, ok := d.ResolveID(tt.source)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ResolveID(%q) = (%q, %v), want (%q, %v)", tt.source, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
