package watcher

import "context"

// Watcher monitors a directory and hands new video files to a handler.
type Watcher interface {
	// Start blocks until ctx is cancelled or the watch fails.
	Start(ctx context.Context) error
	Stop() error
}

// Handler processes one newly created video file.
type Handler func(ctx context.Context, path string) error
