package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tubesave/tubesave/internal/model"
)

// Merge settings
const (
	// Video stream is copied without re-encode; audio is normalized to AAC
	MergeVideoCodec = "copy"
	MergeAudioCodec = "aac"

	// Container flags
	FastStartFlag = "+faststart"
)

// Executable and I/O constants
const (
	DefaultFFmpegBinary  = "ffmpeg"
	DefaultFFprobeBinary = "ffprobe"
	FFmpegLogLevel       = "error"
	FFprobeShowEntries   = "format=duration"
	FFprobeOutputFormat  = "csv=p=0"
	ProgressPipeTarget   = "pipe:2"
	ProgressTimePrefix   = "out_time_us="
)

// Request describes one post-processing run. Mode selects the pipeline:
// audio-only transcodes AudioPath, merge-both muxes VideoPath and AudioPath,
// video-only moves VideoPath into place without invoking ffmpeg at all.
type Request struct {
	Mode       model.Mode
	AudioPath  string
	VideoPath  string
	OutputPath string

	// Duration of the source media; zero means unknown and progress is
	// reported as indeterminate.
	Duration time.Duration

	// OnProgress receives fractions in [0,1]. Optional.
	OnProgress func(fraction float64, indeterminate bool)
}

// Service runs ffmpeg/ffprobe subprocesses. It tracks the in-flight command
// so an abrupt shutdown can kill it.
type Service struct {
	binary      string
	probeBinary string
	log         *zap.Logger

	mu     sync.Mutex
	active *exec.Cmd
}

// NewService creates a post-processing service around the given binaries.
func NewService(binary, probeBinary string, log *zap.Logger) *Service {
	if binary == "" {
		binary = DefaultFFmpegBinary
	}
	if probeBinary == "" {
		probeBinary = DefaultFFprobeBinary
	}
	return &Service{
		binary:      binary,
		probeBinary: probeBinary,
		log:         log,
	}
}

// Process executes the request synchronously. A partial output file is
// removed when the run fails; inputs are never touched on failure.
func (s *Service) Process(ctx context.Context, req Request) error {
	switch req.Mode {
	case model.ModeVideoOnly:
		return s.moveIntoPlace(req)
	case model.ModeAudioOnly, model.ModeMergeBoth:
		return s.run(ctx, req)
	default:
		return &ProcessingError{Tool: s.binary, Err: fmt.Errorf("unsupported mode: %s", req.Mode)}
	}
}

// run invokes ffmpeg with progress reporting on stderr.
func (s *Service) run(ctx context.Context, req Request) error {
	if _, err := exec.LookPath(s.binary); err != nil {
		return &ProcessingError{Tool: s.binary, Err: fmt.Errorf("ffmpeg not found: %w", err)}
	}

	args := s.BuildArgs(req)
	s.log.Debug("starting ffmpeg", zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, s.binary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &ProcessingError{Tool: s.binary, Err: fmt.Errorf("failed to create stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return &ProcessingError{Tool: s.binary, Err: fmt.Errorf("failed to start ffmpeg: %w", err)}
	}
	s.setActive(cmd)
	defer s.setActive(nil)

	// Scan stderr to EOF before Wait so the pipe is fully drained
	tail := newTailBuffer(stderrTailLines)
	monitorProgress(stderr, req.Duration, req.OnProgress, tail)

	if err := cmd.Wait(); err != nil {
		os.Remove(req.OutputPath)
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		s.log.Debug("ffmpeg failed", zap.Int("exit_code", exitCode), zap.String("stderr", tail.String()))
		return &ProcessingError{Tool: s.binary, ExitCode: exitCode, Stderr: tail.String(), Err: err}
	}

	if req.OnProgress != nil {
		req.OnProgress(1.0, false)
	}
	return nil
}

// moveIntoPlace renames the downloaded stream to its final path. The stream
// is already in its target container, so no ffmpeg run happens. Falls back
// to copy+remove when the rename crosses filesystems.
func (s *Service) moveIntoPlace(req Request) error {
	if err := os.Rename(req.VideoPath, req.OutputPath); err != nil {
		if err := copyFile(req.VideoPath, req.OutputPath); err != nil {
			os.Remove(req.OutputPath)
			return &ProcessingError{Tool: "move", Err: fmt.Errorf("failed to move output into place: %w", err)}
		}
		os.Remove(req.VideoPath)
	}
	if req.OnProgress != nil {
		req.OnProgress(1.0, false)
	}
	return nil
}

// BuildArgs builds the ffmpeg command arguments for the request
func (s *Service) BuildArgs(req Request) []string {
	switch req.Mode {
	case model.ModeMergeBoth:
		return []string{
			"-y",                 // Overwrite output file
			"-loglevel", FFmpegLogLevel, // Errors only
			"-i", req.VideoPath, // Video input
			"-i", req.AudioPath, // Audio input
			"-c:v", MergeVideoCodec, // Copy video stream
			"-c:a", MergeAudioCodec, // Encode audio to AAC
			"-movflags", FastStartFlag, // MP4 optimization
			"-progress", ProgressPipeTarget, // Progress to stderr
			"-nostats", // No stats output
			req.OutputPath,
		}
	case model.ModeAudioOnly:
		// Codec chosen by ffmpeg from the output extension
		return []string{
			"-y",
			"-loglevel", FFmpegLogLevel,
			"-i", req.AudioPath,
			"-progress", ProgressPipeTarget,
			"-nostats",
			req.OutputPath,
		}
	default:
		return nil
	}
}

// Version returns the first line of `ffmpeg -version`.
func (s *Service) Version(ctx context.Context) (string, error) {
	if _, err := exec.LookPath(s.binary); err != nil {
		return "", &ProcessingError{Tool: s.binary, Err: fmt.Errorf("ffmpeg not found: %w", err)}
	}

	cmd := exec.CommandContext(ctx, s.binary, "-version")
	output, err := cmd.Output()
	if err != nil {
		return "", &ProcessingError{Tool: s.binary, Err: fmt.Errorf("failed to run ffmpeg -version: %w", err)}
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	return strings.TrimSpace(line), nil
}

// KillActive kills the in-flight subprocess, if any. Used on abrupt exit.
func (s *Service) KillActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil || s.active.Process == nil {
		return nil
	}
	return s.active.Process.Kill()
}

func (s *Service) setActive(cmd *exec.Cmd) {
	s.mu.Lock()
	s.active = cmd
	s.mu.Unlock()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
