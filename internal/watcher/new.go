package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/danghoangnhan/vidscribe/internal/logger"
)

// New creates a Watcher over inputDir. maxConcurrent bounds how many
// files are handled at once.
func New(inputDir string, handler Handler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:  inputDir,
		handler:   handler,
		logger:    log,
		fsw:       fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}
