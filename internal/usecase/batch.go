package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
	".flv":  true,
}

// IsVideoFile reports whether path carries a recognized video
// extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// ProcessBatch runs the pipeline for every source concurrently, bounded
// by the configured concurrency limit. One source failing never affects
// the others.
func (p *implProcessor) ProcessBatch(ctx context.Context, sources []string, opts BatchOptions) (*BatchReport, error) {
	expanded, err := p.expandSources(sources)
	if err != nil {
		return nil, err
	}
	if len(expanded) == 0 {
		return nil, domain.FormatInvalid("sources", "", "no processable sources given")
	}
	p.logger.Info(ctx, "batch of %d sources (max concurrent %d)", len(expanded), cap(p.semaphore))

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report BatchReport
	)

	for _, src := range expanded {
		wg.Add(1)
		go func(source string) {
			defer wg.Done()

			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-ctx.Done():
				mu.Lock()
				report.Failed = append(report.Failed, BatchFailure{Source: source, Err: ctx.Err()})
				mu.Unlock()
				return
			}

			resp, err := p.processOne(ctx, source, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error(ctx, "batch item %s failed: %v", source, err)
				report.Failed = append(report.Failed, BatchFailure{Source: source, Err: err})
				return
			}
			report.Succeeded = append(report.Succeeded, resp)
		}(src)
	}

	wg.Wait()
	return &report, nil
}

func (p *implProcessor) processOne(ctx context.Context, source string, opts BatchOptions) (*domain.ProcessResponse, error) {
	req, err := domain.NewProcessRequest(source, opts.Language, opts.GenerateSummary, opts.ForceReprocess)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, req)
}

// expandSources replaces directory entries with the video files they
// contain. Files and URLs pass through unchanged.
func (p *implProcessor) expandSources(sources []string) ([]string, error) {
	var out []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			out = append(out, src)
			continue
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			return nil, domain.ProcessingFailed("scan", "read directory", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !IsVideoFile(entry.Name()) {
				continue
			}
			out = append(out, filepath.Join(src, entry.Name()))
		}
	}
	return out, nil
}
