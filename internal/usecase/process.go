package usecase

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danghoangnhan/vidscribe/internal/domain"
	"github.com/danghoangnhan/vidscribe/internal/downloader"
	"github.com/danghoangnhan/vidscribe/pkg/resilience"
)

// Process dispatches a source to the remote or local pipeline.
func (p *implProcessor) Process(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResponse, error) {
	if p.downloader.IsSupported(req.Source) {
		return p.processRemote(ctx, req)
	}
	if _, err := os.Stat(req.Source); err == nil {
		return p.processLocal(ctx, req)
	}
	return nil, domain.FormatInvalid("source", req.Source, "is neither a supported URL nor an existing file")
}

// processRemote runs the full pipeline for a remote video reference.
func (p *implProcessor) processRemote(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResponse, error) {
	start := time.Now()
	runID := uuid.NewString()
	p.logger.Info(ctx, "processing %s (run %s)", req.Source, runID)

	var info *downloader.MediaInfo
	err := resilience.Retry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		ctx, cancel := p.withTimeout(ctx, p.cfg.Download.TimeoutSeconds)
		defer cancel()

		i, err := p.downloader.ExtractInfo(ctx, req.Source)
		if err != nil {
			return domain.DownloadFailed(req.Source, "metadata fetch failed", err)
		}
		info = i
		return nil
	})
	if err != nil {
		return nil, err
	}

	id, ok := p.downloader.ResolveID(req.Source)
	if !ok {
		id = domain.HashID(req.Source)
	}
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = "Untitled"
	}

	video, err := domain.NewVideo(id, title, info.Duration, "", req.Source)
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

	quality := req.Quality
	if quality == "" {
		quality = p.cfg.Download.Quality
	}

	err = resilience.Retry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		ctx, cancel := p.withTimeout(ctx, p.cfg.Download.TimeoutSeconds)
		defer cancel()

		path, err := p.downloader.Download(ctx, req.Source, scratch, quality)
		if err != nil {
			return domain.DownloadFailed(req.Source, "download failed", err)
		}
		video.SetFilePath(path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p.finishRun(ctx, video, req, scratch, runID, start)
}

// finishRun runs the stages shared by the remote and local pipelines:
// audio extraction, transcription, optional summarization, persistence
// and export. The video must carry a file path at this point.
func (p *implProcessor) finishRun(ctx context.Context, video *domain.Video, req domain.ProcessRequest, scratch, runID string, start time.Time) (*domain.ProcessResponse, error) {
	audioCtx, cancel := p.withTimeout(ctx, p.cfg.Audio.TimeoutSeconds)
	audioPath, err := p.extractor.Extract(audioCtx, video.FilePath, scratch, p.cfg.Audio.Format, p.cfg.Audio.SampleRate)
	cancel()
	if err != nil {
		return nil, domain.ProcessingFailed("audio_extraction", "audio extraction failed", err)
	}

	var transcript, usedBackend string
	err = resilience.Retry(ctx, p.logger, p.retry, func(ctx context.Context) error {
		t, name, err := p.selector.TranscribeWithBest(ctx, audioPath, req.Language)
		if err != nil {
			return err
		}
		transcript, usedBackend = t, name
		return nil
	})
	if err != nil {
		return nil, err
	}

	video.SetTranscription(transcript)
	video.SetMeta("backend", usedBackend)
	video.SetMeta("language", req.Language)
	video.SetMeta("run_id", runID)

	var summaryErr string
	if req.GenerateSummary {
		err := resilience.Retry(ctx, p.logger, p.retry, func(ctx context.Context) error {
			s, name, err := p.selector.SummarizeWithBest(ctx, transcript, video.Title)
			if err != nil {
				return err
			}
			video.SetSummary(s)
			video.SetMeta("summary_backend", name)
			return nil
		})
		if err != nil {
			p.logger.Warn(ctx, "summarization failed for %s: %v", video.ID, err)
			summaryErr = err.Error()
		}
	}

	// Downloaded files live in the scratch dir and are gone after the
	// run, so only a local source keeps its file path in storage.
	if strings.HasPrefix(video.FilePath, scratch) {
		video.SetFilePath("")
	}

	if err := p.storage.Save(ctx, video); err != nil {
		return nil, err
	}
	if err := p.storage.SaveTranscript(ctx, video.ID, transcript, video.Metadata); err != nil {
		return nil, err
	}

	if p.exporter != nil {
		if _, err := p.exporter.Export(ctx, video, p.cfg.Paths.Output); err != nil {
			p.logger.Warn(ctx, "export failed for %s: %v", video.ID, err)
		}
	}

	p.logger.Info(ctx, "processed %s via %s in %s", video.ID, usedBackend, time.Since(start).Round(time.Millisecond))
	return &domain.ProcessResponse{
		Video:      video,
		Elapsed:    time.Since(start),
		SummaryErr: summaryErr,
	}, nil
}

// loadCached returns the stored entity with its transcript reloaded
// when a completed run for id exists.
func (p *implProcessor) loadCached(ctx context.Context, id string, start time.Time) (*domain.ProcessResponse, bool, error) {
	cached, err := p.storage.Load(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if cached == nil {
		return nil, false, nil
	}

	transcript, err := p.storage.LoadTranscript(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if transcript == "" {
		return nil, false, nil
	}
	cached.SetTranscription(transcript)

	return &domain.ProcessResponse{
		Video:     cached,
		WasCached: true,
		Elapsed:   time.Since(start),
	}, true, nil
}

func (p *implProcessor) newScratchDir(id string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Temp, 0o755); err != nil {
		return "", domain.ProcessingFailed("workspace", "create temp root", err)
	}
	dir, err := os.MkdirTemp(p.cfg.Paths.Temp, id+"-")
	if err != nil {
		return "", domain.ProcessingFailed("workspace", "create scratch dir", err)
	}
	return dir, nil
}

func (p *implProcessor) withTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}
