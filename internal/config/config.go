package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config represents the application configuration
type Config struct {
	Download DownloadConfig `mapstructure:"download"`
	FFmpeg   FFmpegConfig   `mapstructure:"ffmpeg"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	DestinationDir string        `mapstructure:"destination_dir"`
	AudioFormat    string        `mapstructure:"audio_format"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
}

// FFmpegConfig contains external media tool configuration
type FFmpegConfig struct {
	Binary      string `mapstructure:"binary"`
	ProbeBinary string `mapstructure:"probe_binary"`
}

// UIConfig contains presentation-related configuration
type UIConfig struct {
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	RevealOnComplete bool          `mapstructure:"reveal_on_complete"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// SupportedAudioFormats lists the audio-only output containers offered in the
// UI and accepted by validation.
var SupportedAudioFormats = []string{"mp3", "m4a", "wav"}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			DestinationDir: "$HOME/Downloads",
			AudioFormat:    "mp3",
			HTTPTimeout:    90 * time.Second,
		},
		FFmpeg: FFmpegConfig{
			Binary:      "ffmpeg",
			ProbeBinary: "ffprobe",
		},
		UI: UIConfig{
			PollInterval:     100 * time.Millisecond,
			RevealOnComplete: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}

// DefaultPath returns the standard per-user location of the config file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "tubesave", "config.yaml")
}
