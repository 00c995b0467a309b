package extractor

import (
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/pkg/executor"
)

type implExtractor struct {
	exec   executor.Executor
	logger logger.Logger
}

// New creates an ffmpeg/ffprobe backed Extractor.
func New(exec executor.Executor, log logger.Logger) Extractor {
	return &implExtractor{
		exec:   exec,
		logger: log,
	}
}
