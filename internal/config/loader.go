package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults must be registered with viper itself: AutomaticEnv only
	// overlays keys viper already knows, so without these a TUBESAVE_* value
	// is ignored whenever its key is absent from the config file.
	for key, value := range defaultSettings() {
		v.SetDefault(key, value)
	}

	// If config path is provided, use it
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.config/tubesave")
	}

	// Read environment variables
	v.SetEnvPrefix("TUBESAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// defaultSettings flattens DefaultConfig into viper keys. Durations are
// strings so they decode the same way as values read from the file.
func defaultSettings() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"download.destination_dir": d.Download.DestinationDir,
		"download.audio_format":    d.Download.AudioFormat,
		"download.http_timeout":    d.Download.HTTPTimeout.String(),
		"ffmpeg.binary":            d.FFmpeg.Binary,
		"ffmpeg.probe_binary":      d.FFmpeg.ProbeBinary,
		"ui.poll_interval":         d.UI.PollInterval.String(),
		"ui.reveal_on_complete":    d.UI.RevealOnComplete,
		"logging.level":            d.Logging.Level,
		"logging.format":           d.Logging.Format,
		"logging.output_path":      d.Logging.OutputPath,
	}
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *Config) *Config {
	config.Download.DestinationDir = expandPath(config.Download.DestinationDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	if strings.Contains(path, "$HOME") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.ReplaceAll(path, "$HOME", home)
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Download.DestinationDir == "" {
		return fmt.Errorf("download destination directory not configured")
	}

	if !slices.Contains(SupportedAudioFormats, config.Download.AudioFormat) {
		return fmt.Errorf("unsupported audio format: %s", config.Download.AudioFormat)
	}

	if config.Download.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}

	if config.FFmpeg.Binary == "" {
		return fmt.Errorf("ffmpeg binary not configured")
	}

	if config.UI.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// Save writes the configuration to file. Keys are set individually so the
// file round-trips through Load, with durations as strings ("90s").
func Save(config *Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("download.destination_dir", config.Download.DestinationDir)
	v.Set("download.audio_format", config.Download.AudioFormat)
	v.Set("download.http_timeout", config.Download.HTTPTimeout.String())
	v.Set("ffmpeg.binary", config.FFmpeg.Binary)
	v.Set("ffmpeg.probe_binary", config.FFmpeg.ProbeBinary)
	v.Set("ui.poll_interval", config.UI.PollInterval.String())
	v.Set("ui.reveal_on_complete", config.UI.RevealOnComplete)
	v.Set("logging.level", config.Logging.Level)
	v.Set("logging.format", config.Logging.Format)
	v.Set("logging.output_path", config.Logging.OutputPath)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
