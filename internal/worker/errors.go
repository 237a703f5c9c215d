package worker

import "fmt"

// DownloadError reports a failed stream transfer: interrupted connection,
// disk write failure, or a stream that disappeared between fetch and start.
type DownloadError struct {
	Stage string // "video" or "audio"
	Err   error
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	return fmt.Sprintf("%s download failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DownloadError) Unwrap() error {
	return e.Err
}
