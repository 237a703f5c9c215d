package fetch

import (
	"context"
	"io"

	"github.com/tubesave/tubesave/internal/model"
)

// Provider defines the interface for stream catalog retrieval and stream
// downloads. Any implementation satisfying it is substitutable.
type Provider interface {
	// Fetch retrieves the catalog of available streams for a video URL.
	Fetch(ctx context.Context, rawURL string) (*model.Catalog, error)

	// Download copies one stream to dst, reporting (written, total) after
	// every chunk. total is 0 when the stream size is unknown.
	Download(ctx context.Context, stream model.StreamDescriptor, dst io.Writer, onProgress func(written, total int64)) error
}
