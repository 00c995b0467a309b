package export

import (
	"context"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

// Exporter writes a processed video's transcript and summary to a
// human-readable document.
type Exporter interface {
	// Export writes video into destDir and returns the document path.
	Export(ctx context.Context, video *domain.Video, destDir string) (string, error)
}
