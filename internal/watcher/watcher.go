package watcher

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/internal/usecase"
)

type implWatcher struct {
	inputDir  string
	handler   Handler
	logger    logger.Logger
	fsw       *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// Start monitors the input directory until ctx is cancelled. Each new
// video file is handed to the handler under the concurrency bound; a
// failing file never stops the watch.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "watching %s (max concurrent %d)", w.inputDir, cap(w.semaphore))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "waiting for in-flight files")
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create == 0 {
				continue
			}
			if !usecase.IsVideoFile(event.Name) {
				w.logger.Debug(ctx, "ignoring %s", event.Name)
				continue
			}
			w.logger.Info(ctx, "new video detected: %s", event.Name)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := waitUntilStable(ctx, path); err != nil {
						w.logger.Warn(ctx, "skipping %s: %v", path, err)
						return
					}
					if err := w.handler(ctx, path); err != nil {
						w.logger.Error(ctx, "failed to process %s: %v", path, err)
					}
				}(event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "watch error: %v", err)
		}
	}
}

func (w *implWatcher) Stop() error {
	return w.fsw.Close()
}

// waitUntilStable polls the file size until it stops growing, so a
// file still being copied in is not processed half-written.
func waitUntilStable(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for i := 0; i < 20; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
	return fmt.Errorf("file %s did not stabilize", path)
}
