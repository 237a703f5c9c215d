package ffmpeg

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// Stderr tail retention for diagnostics
const stderrTailLines = 20

// Keys written by -progress to stderr; lines outside this set are
// diagnostics and go into the tail buffer.
var progressKeyPrefixes = []string{
	"frame=", "fps=", "stream_", "bitrate=", "total_size=",
	"out_time", "dup_frames=", "drop_frames=", "speed=", "progress=",
}

func isProgressLine(line string) bool {
	for _, prefix := range progressKeyPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// tailBuffer keeps the last N lines added to it
type tailBuffer struct {
	limit int
	lines []string
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "\n")
}

// monitorProgress reads ffmpeg stderr until EOF. Progress lines
// (out_time_us=123456) become fractions of total clamped to 1.0; when total
// is unknown no fractions are reported. Diagnostic lines are collected into
// the tail buffer.
func monitorProgress(r io.Reader, total time.Duration, onProgress func(fraction float64, indeterminate bool), tail *tailBuffer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ProgressTimePrefix) {
			if total <= 0 || onProgress == nil {
				continue
			}
			timeStr := strings.TrimPrefix(line, ProgressTimePrefix)
			timeMicroseconds, err := strconv.ParseInt(timeStr, 10, 64)
			if err != nil {
				continue
			}

			progress := float64(timeMicroseconds) / float64(total.Microseconds())
			if progress > 1.0 {
				progress = 1.0
			}
			onProgress(progress, false)
			continue
		}

		if !isProgressLine(line) {
			tail.Add(line)
		}
	}
}
