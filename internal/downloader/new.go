package downloader

import (
	"github.com/danghoangnhan/vidscribe/internal/config"
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/pkg/executor"
)

type implDownloader struct {
	binPath string
	exec    executor.Executor
	logger  logger.Logger
}

// New creates a yt-dlp backed Downloader. An empty yt_dlp_path falls
// back to resolving "yt-dlp" from PATH at execution time.
func New(cfg config.DownloadConfig, exec executor.Executor, log logger.Logger) Downloader {
	binPath := cfg.YtDlpPath
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &implDownloader{
		binPath: binPath,
		exec:    exec,
		logger:  log,
	}
}
