package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

// processLocal runs the pipeline for a video already on disk. The
// download stage is skipped; duration comes from probing the file.
func (p *implProcessor) processLocal(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResponse, error) {
	start := time.Now()
	runID := uuid.NewString()

	abs, err := filepath.Abs(req.Source)
	if err != nil {
		return nil, domain.FormatInvalid("source", req.Source, "cannot be resolved to an absolute path")
	}
	p.logger.Info(ctx, "processing local file %s (run %s)", abs, runID)

	audioCtx, cancel := p.withTimeout(ctx, p.cfg.Audio.TimeoutSeconds)
	info, err := p.extractor.Probe(audioCtx, abs)
	cancel()
	if err != nil {
		return nil, domain.ProcessingFailed("probe", "media probe failed", err)
	}

	id := domain.HashID(abs)
	title := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	if title == "" {
		title = "Untitled"
	}

	video, err := domain.NewVideo(id, title, info.Duration, abs, "")
	if err != nil {
		return nil, err
	}

	if !req.ForceReprocess {
		if resp, hit, err := p.loadCached(ctx, id, start); err != nil {
			return nil, err
		} else if hit {
			p.logger.Info(ctx, "cache hit for %s", id)
			return resp, nil
		}
	}

	scratch, err := p.newScratchDir(id)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	return p.finishRun(ctx, video, req, scratch, runID, start)
}
