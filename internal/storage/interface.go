package storage

import (
	"context"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

// Storage persists processed videos and their transcripts. Saving the
// same id twice overwrites; it never duplicates. Load and
// LoadTranscript return the zero value with a nil error when the id is
// unknown.
type Storage interface {
	Save(ctx context.Context, video *domain.Video) error
	Load(ctx context.Context, id string) (*domain.Video, error)
	SaveTranscript(ctx context.Context, id, text string, metadata map[string]string) error
	LoadTranscript(ctx context.Context, id string) (string, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Video, error)
	Close() error
}
