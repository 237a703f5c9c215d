package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ProbeDuration returns the media duration of a file using ffprobe. Used as
// a fallback when the stream catalog carries no duration, so transcode
// progress stays granular instead of indeterminate.
func (s *Service) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	if _, err := exec.LookPath(s.probeBinary); err != nil {
		return 0, &ProcessingError{Tool: s.probeBinary, Err: fmt.Errorf("ffprobe not found: %w", err)}
	}

	cmd := exec.CommandContext(ctx, s.probeBinary,
		"-v", FFmpegLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, &ProcessingError{Tool: s.probeBinary, Err: fmt.Errorf("failed to run ffprobe: %w", err)}
	}

	durationStr := strings.TrimSpace(string(output))
	seconds, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, &ProcessingError{Tool: s.probeBinary, Err: fmt.Errorf("failed to parse duration %q: %w", durationStr, err)}
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
