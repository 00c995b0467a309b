package usecase

import (
	"github.com/danghoangnhan/vidscribe/internal/backend"
	"github.com/danghoangnhan/vidscribe/internal/config"
	"github.com/danghoangnhan/vidscribe/internal/downloader"
	"github.com/danghoangnhan/vidscribe/internal/export"
	"github.com/danghoangnhan/vidscribe/internal/extractor"
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/internal/storage"
	"github.com/danghoangnhan/vidscribe/pkg/resilience"
)

type implProcessor struct {
	cfg        *config.Config
	downloader downloader.Downloader
	extractor  extractor.Extractor
	storage    storage.Storage
	selector   *backend.Selector
	exporter   export.Exporter
	logger     logger.Logger

	retry     resilience.RetryConfig
	semaphore chan struct{}
}

// New creates a Processor over the given gateways. exporter may be nil
// when document export is disabled.
func New(cfg *config.Config, dl downloader.Downloader, ex extractor.Extractor, st storage.Storage, sel *backend.Selector, exp export.Exporter, log logger.Logger) Processor {
	maxConcurrent := cfg.Batch.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implProcessor{
		cfg:        cfg,
		downloader: dl,
		extractor:  ex,
		storage:    st,
		selector:   sel,
		exporter:   exp,
		logger:     log,
		retry: resilience.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Multiplier:  cfg.Retry.BackoffMultiplier,
		},
		semaphore: make(chan struct{}, maxConcurrent),
	}
}
