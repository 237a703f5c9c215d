package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/tubesave/tubesave/internal/model"
)

func TestBuildArgs_Merge(t *testing.T) {
	service := NewService("", "", zap.NewNop())
	args := service.BuildArgs(Request{
		Mode:       model.ModeMergeBoth,
		VideoPath:  "/tmp/clip.video.tmp.mp4",
		AudioPath:  "/tmp/clip.audio.tmp.m4a",
		OutputPath: "/tmp/clip.mp4",
	})

	expectedArgs := []string{
		"-y",
		"-loglevel", FFmpegLogLevel,
		"-i", "/tmp/clip.video.tmp.mp4",
		"-i", "/tmp/clip.audio.tmp.m4a",
		"-c:v", MergeVideoCodec,
		"-c:a", MergeAudioCodec,
		"-movflags", FastStartFlag,
		"-progress", "pipe:2",
		"-nostats",
		"/tmp/clip.mp4",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d: %v", len(expectedArgs), len(args), args)
	}
	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestBuildArgs_AudioOnly(t *testing.T) {
	service := NewService("", "", zap.NewNop())
	args := service.BuildArgs(Request{
		Mode:       model.ModeAudioOnly,
		AudioPath:  "/tmp/clip.audio.tmp.m4a",
		OutputPath: "/tmp/clip.mp3",
	})

	expectedArgs := []string{
		"-y",
		"-loglevel", FFmpegLogLevel,
		"-i", "/tmp/clip.audio.tmp.m4a",
		"-progress", "pipe:2",
		"-nostats",
		"/tmp/clip.mp3",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d: %v", len(expectedArgs), len(args), args)
	}
	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestBuildArgs_VideoOnlyBuildsNothing(t *testing.T) {
	service := NewService("", "", zap.NewNop())
	if args := service.BuildArgs(Request{Mode: model.ModeVideoOnly}); args != nil {
		t.Errorf("video-only mode should not build ffmpeg args, got %v", args)
	}
}

func TestProcess_VideoOnlyMove(t *testing.T) {
	service := NewService("", "", zap.NewNop())
	dir := t.TempDir()

	src := filepath.Join(dir, "clip.video.tmp.mp4")
	dst := filepath.Join(dir, "clip.mp4")
	content := []byte("fake video payload")
	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatalf("Failed to create source file: %v", err)
	}

	var gotFraction float64
	var calls int
	err := service.Process(context.Background(), Request{
		Mode:       model.ModeVideoOnly,
		VideoPath:  src,
		OutputPath: dst,
		OnProgress: func(fraction float64, indeterminate bool) {
			calls++
			gotFraction = fraction
			if indeterminate {
				t.Error("move progress should not be indeterminate")
			}
		},
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	moved, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if string(moved) != string(content) {
		t.Error("Output content does not match source")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("Source temp file should be gone after move")
	}
	if calls != 1 || gotFraction != 1.0 {
		t.Errorf("Expected a single 1.0 progress report, got %d calls, last %f", calls, gotFraction)
	}
}

func TestProcess_MissingBinary(t *testing.T) {
	service := NewService("/nonexistent/path/to/ffmpeg-binary", "", zap.NewNop())

	err := service.Process(context.Background(), Request{
		Mode:       model.ModeMergeBoth,
		VideoPath:  "/tmp/v.mp4",
		AudioPath:  "/tmp/a.m4a",
		OutputPath: "/tmp/out.mp4",
	})
	if err == nil {
		t.Fatal("Expected error for missing binary, got nil")
	}

	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("Expected *ProcessingError, got %T: %v", err, err)
	}
	if procErr.Tool != "/nonexistent/path/to/ffmpeg-binary" {
		t.Errorf("Tool = %s, expected the configured binary", procErr.Tool)
	}
}

func TestProcess_UnsupportedMode(t *testing.T) {
	service := NewService("", "", zap.NewNop())

	err := service.Process(context.Background(), Request{Mode: model.Mode("bogus")})
	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("Expected *ProcessingError, got %T: %v", err, err)
	}
}

func TestVersion_MissingBinary(t *testing.T) {
	service := NewService("/nonexistent/path/to/ffmpeg-binary", "", zap.NewNop())

	_, err := service.Version(context.Background())
	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("Expected *ProcessingError, got %T: %v", err, err)
	}
}

func TestKillActive_NoProcess(t *testing.T) {
	service := NewService("", "", zap.NewNop())
	if err := service.KillActive(); err != nil {
		t.Errorf("KillActive with no active process returned %v, expected nil", err)
	}
}

func TestProcessingError_Formatting(t *testing.T) {
	withStderr := &ProcessingError{Tool: "ffmpeg", ExitCode: 1, Stderr: "Invalid data found"}
	if got := withStderr.Error(); got != "ffmpeg exited with code 1: Invalid data found" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("executable file not found in $PATH")
	wrapped := &ProcessingError{Tool: "ffmpeg", Err: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap should expose the underlying cause")
	}
}
