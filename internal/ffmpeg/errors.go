package ffmpeg

import "fmt"

// ProcessingError reports a failed or unavailable external media tool run.
// Stderr carries the tail of the tool's diagnostic output when the tool ran
// and exited non-zero.
type ProcessingError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	switch {
	case e.Stderr != "":
		return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Tool, e.Err)
	default:
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
}

// Unwrap returns the underlying cause.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}
