package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tubesave/tubesave/internal/event"
	"github.com/tubesave/tubesave/internal/fetch"
	"github.com/tubesave/tubesave/internal/ffmpeg"
	"github.com/tubesave/tubesave/internal/model"
)

// Stage names for error reporting
const (
	StageVideo = "video"
	StageAudio = "audio"
)

// Temp file name parts: <base>.video.tmp.<ext> next to the destination
const (
	tempVideoInfix = ".video.tmp."
	tempAudioInfix = ".audio.tmp."
	tempDefaultExt = "bin"
)

// Job ID prefix
const jobIDPrefix = "job-"

// Service executes download jobs. Constructed once and reused; the UI
// enforces that only one job runs at a time.
type Service struct {
	provider  fetch.Provider
	processor ffmpeg.Processor
	log       *zap.Logger

	mu    sync.Mutex
	temps []string
}

// NewService creates a download worker.
func NewService(provider fetch.Provider, processor ffmpeg.Processor, log *zap.Logger) *Service {
	return &Service{
		provider:  provider,
		processor: processor,
		log:       log,
	}
}

// Run executes the job to completion and emits exactly one terminal event,
// always last. Blocking; callers spawn it on a goroutine. Only this outer
// layer emits Completed or Failed, so the invariant holds structurally.
func (s *Service) Run(ctx context.Context, job model.DownloadJob, emit func(event.Event)) {
	outputPath, err := s.run(ctx, job, emit)
	if err != nil {
		s.log.Error("job failed",
			zap.String("job_id", job.ID),
			zap.String("url", job.URL),
			zap.Error(err))
		emit(event.Failed{Err: err})
		return
	}

	s.log.Info("job completed",
		zap.String("job_id", job.ID),
		zap.String("output", outputPath))
	emit(event.Completed{OutputPath: outputPath})
}

// run performs the pipeline and returns the final output path. It never
// emits terminal events itself.
func (s *Service) run(ctx context.Context, job model.DownloadJob, emit func(event.Event)) (string, error) {
	if err := job.Validate(); err != nil {
		return "", err
	}

	// Temps are removed on every exit path. The destination file is never
	// deleted here; the processor removes its own partial output on failure.
	defer s.cleanupTemps()

	var videoPath, audioPath string

	if job.Mode.NeedsVideo() {
		emit(event.StatusText{Text: "Downloading video…"})
		videoPath = tempPath(job, job.Video, tempVideoInfix)
		s.registerTemp(videoPath)

		clamp := newProgressClamp(func(fraction float64) {
			emit(event.VideoProgress{Fraction: fraction})
		})
		if err := s.downloadStream(ctx, *job.Video, videoPath, clamp); err != nil {
			return "", &DownloadError{Stage: StageVideo, Err: err}
		}
	}

	if job.Mode.NeedsAudio() {
		emit(event.StatusText{Text: "Downloading audio…"})
		audioPath = tempPath(job, job.Audio, tempAudioInfix)
		s.registerTemp(audioPath)

		clamp := newProgressClamp(func(fraction float64) {
			emit(event.AudioProgress{Fraction: fraction})
		})
		if err := s.downloadStream(ctx, *job.Audio, audioPath, clamp); err != nil {
			return "", &DownloadError{Stage: StageAudio, Err: err}
		}
	}

	emit(event.StatusText{Text: processingStatus(job.Mode)})

	duration := job.Duration
	if duration <= 0 {
		duration = s.probeFallback(ctx, job.Mode, videoPath, audioPath)
	}
	if duration <= 0 && job.Mode != model.ModeVideoOnly {
		emit(event.ProcessingProgress{Indeterminate: true})
	}

	clamp := newProgressClamp(func(fraction float64) {
		emit(event.ProcessingProgress{Fraction: fraction})
	})
	err := s.processor.Process(ctx, ffmpeg.Request{
		Mode:       job.Mode,
		AudioPath:  audioPath,
		VideoPath:  videoPath,
		OutputPath: job.OutputPath(),
		Duration:   duration,
		OnProgress: func(fraction float64, indeterminate bool) {
			if indeterminate {
				emit(event.ProcessingProgress{Indeterminate: true})
				return
			}
			clamp.report(fraction)
		},
	})
	if err != nil {
		return "", err
	}

	return job.OutputPath(), nil
}

// downloadStream transfers one stream into a temp file, translating byte
// counts into clamped fractions. Streams with unknown totals report no
// fractions at all.
func (s *Service) downloadStream(ctx context.Context, stream model.StreamDescriptor, path string, clamp *progressClamp) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	err = s.provider.Download(ctx, stream, file, func(written, total int64) {
		if total <= 0 {
			return
		}
		clamp.report(float64(written) / float64(total))
	})

	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to finalize temp file: %w", cerr)
	}
	return err
}

// probeFallback asks ffprobe for the duration of the primary input when the
// catalog carried none, keeping transcode progress granular.
func (s *Service) probeFallback(ctx context.Context, mode model.Mode, videoPath, audioPath string) time.Duration {
	target := ""
	switch mode {
	case model.ModeMergeBoth:
		target = videoPath
	case model.ModeAudioOnly:
		target = audioPath
	}
	if target == "" {
		return 0
	}

	probed, err := s.processor.ProbeDuration(ctx, target)
	if err != nil {
		s.log.Debug("duration probe failed", zap.String("path", target), zap.Error(err))
		return 0
	}
	return probed
}

// Abort is the abrupt-exit path: best-effort kill of the in-flight
// subprocess plus removal of registered temp files.
func (s *Service) Abort() {
	if err := s.processor.KillActive(); err != nil {
		s.log.Warn("failed to kill active process", zap.Error(err))
	}
	s.cleanupTemps()
}

func (s *Service) registerTemp(path string) {
	s.mu.Lock()
	s.temps = append(s.temps, path)
	s.mu.Unlock()
}

// cleanupTemps removes every registered temp file. Already-gone files are
// fine; a video-only move consumes its temp.
func (s *Service) cleanupTemps() {
	s.mu.Lock()
	temps := s.temps
	s.temps = nil
	s.mu.Unlock()

	for _, path := range temps {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
		}
	}
}

func tempPath(job model.DownloadJob, stream *model.StreamDescriptor, infix string) string {
	ext := tempDefaultExt
	if stream.Container != "" {
		ext = stream.Container
	}
	return filepath.Join(job.DestDir, job.BaseName+infix+ext)
}

func processingStatus(mode model.Mode) string {
	switch mode {
	case model.ModeMergeBoth:
		return "Merging audio and video…"
	case model.ModeAudioOnly:
		return "Converting audio…"
	default:
		return "Finishing up…"
	}
}

// progressClamp keeps emitted fractions inside [0,1] and non-decreasing even
// when the underlying callbacks arrive duplicated or out of order.
type progressClamp struct {
	last float64
	emit func(float64)
}

func newProgressClamp(emit func(float64)) *progressClamp {
	return &progressClamp{emit: emit}
}

func (c *progressClamp) report(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	if fraction < c.last {
		return
	}
	c.last = fraction
	c.emit(fraction)
}

// NewJobID generates a unique job ID using UUID v7 for better uniqueness and
// time ordering
func NewJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(jobIDPrefix+"%d", time.Now().UnixNano())
	}
	return jobIDPrefix + id.String()
}
