package usecase

import (
	"context"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

// Processor runs the full pipeline for one or many video references.
type Processor interface {
	// Process handles a single source, remote URL or local file.
	Process(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResponse, error)

	// ProcessBatch handles a mixed list of sources concurrently.
	// Directories are expanded into the video files they contain.
	ProcessBatch(ctx context.Context, sources []string, opts BatchOptions) (*BatchReport, error)
}

// BatchOptions are the per-item request parameters a batch shares.
type BatchOptions struct {
	Language        string
	GenerateSummary bool
	ForceReprocess  bool
}

// BatchFailure records one source that could not be processed.
type BatchFailure struct {
	Source string
	Err    error
}

// BatchReport aggregates the outcome of a batch run. Failures never
// abort the siblings.
type BatchReport struct {
	Succeeded []*domain.ProcessResponse
	Failed    []BatchFailure
}
