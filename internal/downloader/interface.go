package downloader

import "context"

// MediaInfo is the metadata a downloader can learn about a source
// without downloading it.
type MediaInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Uploader   string  `json:"uploader"`
	UploadDate string  `json:"upload_date"`
	WebpageURL string  `json:"webpage_url"`
}

// Format describes one downloadable rendition of a source.
type Format struct {
	ID         string `json:"format_id"`
	Ext        string `json:"ext"`
	Resolution string `json:"resolution"`
	Note       string `json:"format_note"`
}

// Downloader fetches remote videos and inspects their metadata.
// Implementations return plain errors; the use-case layer translates
// them into download-failure signals.
type Downloader interface {
	// Download fetches the source into destDir and returns the local path.
	Download(ctx context.Context, source, destDir, quality string) (string, error)

	// ExtractInfo returns the source's metadata without downloading it.
	ExtractInfo(ctx context.Context, source string) (*MediaInfo, error)

	// ListFormats returns the renditions available for the source.
	ListFormats(ctx context.Context, source string) ([]Format, error)

	// IsSupported reports whether the source looks like something this
	// downloader can handle. No I/O.
	IsSupported(source string) bool

	// ResolveID extracts a stable native id from the source, if the
	// source carries one. No I/O.
	ResolveID(source string) (string, bool)
}
