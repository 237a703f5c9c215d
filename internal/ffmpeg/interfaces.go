package ffmpeg

import (
	"context"
	"time"
)

// Processor defines the interface for the media post-processing service.
type Processor interface {
	Process(ctx context.Context, req Request) error
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	KillActive() error
	Version(ctx context.Context) (string, error)
}
