package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	cron "github.com/robfig/cron/v3"

	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/internal/usecase"
)

// Scheduler runs a batch scan of the input directory on a cron
// schedule. A scan that is still running when the next tick fires
// makes the tick a no-op.
type Scheduler struct {
	cron      *cron.Cron
	processor usecase.Processor
	inputDir  string
	opts      usecase.BatchOptions
	logger    logger.Logger
	running   atomic.Bool
}

// New creates a Scheduler that scans inputDir on the given cron
// expression (standard five-field syntax).
func New(expr, inputDir string, proc usecase.Processor, opts usecase.BatchOptions, log logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		processor: proc,
		inputDir:  inputDir,
		opts:      opts,
		logger:    log,
	}

	if _, err := s.cron.AddFunc(expr, s.scan); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", expr, err)
	}
	return s, nil
}

// Start begins firing scheduled scans. It does not block.
func (s *Scheduler) Start() {
	s.logger.Info(context.Background(), "scheduler started, scanning %s", s.inputDir)
	s.cron.Start()
}

// Stop halts the schedule and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info(context.Background(), "scheduler stopped")
}

func (s *Scheduler) scan() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn(context.Background(), "previous scan still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	ctx := context.Background()
	if !hasVideoFiles(s.inputDir) {
		s.logger.Debug(ctx, "nothing to scan in %s", s.inputDir)
		return
	}

	start := time.Now()
	s.logger.Info(ctx, "scheduled scan of %s", s.inputDir)

	report, err := s.processor.ProcessBatch(ctx, []string{s.inputDir}, s.opts)
	if err != nil {
		s.logger.Error(ctx, "scheduled scan failed: %v", err)
		return
	}
	s.logger.Info(ctx, "scheduled scan done in %s: %d succeeded, %d failed",
		time.Since(start).Round(time.Millisecond), len(report.Succeeded), len(report.Failed))
}

func hasVideoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && usecase.IsVideoFile(entry.Name()) {
			return true
		}
	}
	return false
}
