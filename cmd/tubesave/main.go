package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tubesave/tubesave/internal/config"
	"github.com/tubesave/tubesave/internal/event"
	"github.com/tubesave/tubesave/internal/fetch"
	"github.com/tubesave/tubesave/internal/ffmpeg"
	"github.com/tubesave/tubesave/internal/logging"
	"github.com/tubesave/tubesave/internal/model"
	"github.com/tubesave/tubesave/internal/platform"
	"github.com/tubesave/tubesave/internal/ui"
	"github.com/tubesave/tubesave/internal/worker"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

var (
	configFlag string
	rootCmd    = &cobra.Command{
		Use:   "tubesave",
		Short: "TubeSave - YouTube downloader",
		Long:  `A desktop downloader for YouTube videos with stream selection, audio extraction and merging. Run without arguments to open the window, or use the subcommands for headless operation.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, path, err := loadConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "config load failed, using defaults: %v\n", err)
				cfg = config.DefaultConfig()
			}
			log := newLogger(cfg)
			defer log.Sync()

			ui.Run(cfg, path, log, version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to the configuration file")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config path and loads the configuration.
func loadConfig() (*config.Config, string, error) {
	path := configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

func newLogger(cfg *config.Config) *zap.Logger {
	log, err := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		return logging.NewDefault()
	}
	return log
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "List the available streams for a video",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log := newLogger(cfg)
		defer log.Sync()

		provider := fetch.NewYouTube(cfg.Download.HTTPTimeout, log)
		catalog, err := provider.Fetch(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Title:    %s\n", catalog.Title)
		fmt.Printf("Author:   %s\n", catalog.Author)
		fmt.Printf("Duration: %s\n", catalog.Duration)
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITAG\tKIND\tCONTAINER\tQUALITY\tBITRATE\tRESOLUTION\tSIZE")
		for _, s := range catalog.Streams {
			bitrate := "-"
			if s.Bitrate > 0 {
				bitrate = fmt.Sprintf("%dkbps", s.Bitrate/1000)
			}
			resolution := "-"
			if s.Width > 0 && s.Height > 0 {
				resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
			}
			size := "-"
			if s.ContentLength > 0 {
				size = model.HumanBytes(s.ContentLength)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				s.Itag, s.Kind, orDash(s.Container), orDash(s.QualityLabel),
				bitrate, resolution, size)
		}
		w.Flush()
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download a video without opening the window",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log := newLogger(cfg)
		defer log.Sync()

		modeFlag, _ := cmd.Flags().GetString("mode")
		videoItag, _ := cmd.Flags().GetInt("video-itag")
		audioItag, _ := cmd.Flags().GetInt("audio-itag")
		destDir, _ := cmd.Flags().GetString("dest")
		audioFormat, _ := cmd.Flags().GetString("audio-format")

		mode := model.Mode(modeFlag)
		if !mode.Valid() {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q (want audio, video or merge)\n", modeFlag)
			os.Exit(1)
		}
		if destDir == "" {
			destDir = cfg.Download.DestinationDir
		}
		if audioFormat == "" {
			audioFormat = cfg.Download.AudioFormat
		}

		if err := platform.EnsureDir(destDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := platform.CheckWritable(destDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider := fetch.NewYouTube(cfg.Download.HTTPTimeout, log)
		processor := ffmpeg.NewService(cfg.FFmpeg.Binary, cfg.FFmpeg.ProbeBinary, log)
		workerSvc := worker.NewService(provider, processor, log)

		catalog, err := provider.Fetch(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		job, err := buildJob(catalog, mode, videoItag, audioItag, destDir, audioFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Title:  %s\n", catalog.Title)
		fmt.Printf("Mode:   %s\n", mode)
		fmt.Printf("Output: %s\n", job.OutputPath())
		fmt.Println()

		interval := cfg.UI.PollInterval
		if interval <= 0 {
			interval = 100 * time.Millisecond
		}

		queue := event.NewQueue()
		go workerSvc.Run(ctx, job, queue.Push)

		if err := consumeEvents(queue, interval); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tubesave v%s\n", version)
	},
}

func init() {
	downloadCmd.Flags().StringP("mode", "m", "merge", "Download mode (audio, video, merge)")
	downloadCmd.Flags().Int("video-itag", 0, "Video stream itag (default: best available)")
	downloadCmd.Flags().Int("audio-itag", 0, "Audio stream itag (default: best available)")
	downloadCmd.Flags().StringP("dest", "d", "", "Destination directory (default: from config)")
	downloadCmd.Flags().String("audio-format", "", "Audio output format for audio mode (mp3, m4a, wav)")
}

// buildJob assembles a download job from the catalog and the selection flags.
// Streams default to the best available variant when no itag is given.
func buildJob(catalog *model.Catalog, mode model.Mode, videoItag, audioItag int, destDir, audioFormat string) (model.DownloadJob, error) {
	baseName := platform.SanitizeFileName(catalog.Title)
	if baseName == "" {
		baseName = model.DefaultBaseName
	}

	job := model.DownloadJob{
		ID:          worker.NewJobID(),
		URL:         catalog.URL,
		Title:       catalog.Title,
		Duration:    catalog.Duration,
		Mode:        mode,
		DestDir:     destDir,
		AudioFormat: audioFormat,
		BaseName:    baseName,
	}

	if mode.NeedsVideo() {
		if videoItag > 0 {
			job.Video = findStream(catalog.Streams, videoItag)
			if job.Video == nil {
				return job, fmt.Errorf("itag %d not found in stream list", videoItag)
			}
		} else {
			job.Video = catalog.BestVideo()
		}
	}
	if mode.NeedsAudio() {
		if audioItag > 0 {
			job.Audio = findStream(catalog.Streams, audioItag)
			if job.Audio == nil {
				return job, fmt.Errorf("itag %d not found in stream list", audioItag)
			}
		} else {
			job.Audio = catalog.BestAudio()
		}
	}

	return job, job.Validate()
}

func findStream(streams []model.StreamDescriptor, itag int) *model.StreamDescriptor {
	for _, s := range streams {
		if s.Itag == itag {
			stream := s
			return &stream
		}
	}
	return nil
}

// consumeEvents polls the worker queue and redraws a single progress line
// until the terminal event arrives.
func consumeEvents(queue *event.Queue, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var audio, video, processing float64
	var indeterminate bool
	status := "Starting"

	for range ticker.C {
		batch := queue.Drain()
		for _, e := range batch {
			switch ev := e.(type) {
			case event.AudioProgress:
				audio = ev.Fraction
			case event.VideoProgress:
				video = ev.Fraction
			case event.ProcessingProgress:
				processing = ev.Fraction
				indeterminate = ev.Indeterminate
			case event.StatusText:
				status = ev.Text
			case event.Completed:
				fmt.Printf("\nSaved %s\n", ev.OutputPath)
				return nil
			case event.Failed:
				fmt.Println()
				return ev.Err
			}
		}
		if len(batch) > 0 {
			proc := fmt.Sprintf("%3.0f%%", processing*100)
			if indeterminate {
				proc = " ..."
			}
			fmt.Printf("\r%-30s video %3.0f%%  audio %3.0f%%  processing %s",
				truncate(status, 30), video*100, audio*100, proc)
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
