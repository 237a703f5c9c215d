package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	// A real user config under $HOME must not leak into the assertions
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	// An explicit path that does not exist is not the "no config anywhere"
	// case; viper reports it. Only the search-path variant tolerates absence.
	require.Error(t, err)

	cfg, err = Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "mp3", cfg.Download.AudioFormat)
	assert.Equal(t, 90*time.Second, cfg.Download.HTTPTimeout)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.Binary)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.ProbeBinary)
	assert.Equal(t, 100*time.Millisecond, cfg.UI.PollInterval)
	assert.True(t, cfg.UI.RevealOnComplete)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotContains(t, cfg.Download.DestinationDir, "$HOME")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
download:
  destination_dir: /media/videos
  audio_format: m4a
  http_timeout: 45s
ffmpeg:
  binary: /opt/ffmpeg/bin/ffmpeg
ui:
  poll_interval: 250ms
  reveal_on_complete: false
logging:
  level: debug
  format: json
  output_path: stdout
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/media/videos", cfg.Download.DestinationDir)
	assert.Equal(t, "m4a", cfg.Download.AudioFormat)
	assert.Equal(t, 45*time.Second, cfg.Download.HTTPTimeout)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpeg.Binary)
	// Keys absent from the file keep their defaults
	assert.Equal(t, "ffprobe", cfg.FFmpeg.ProbeBinary)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.PollInterval)
	assert.False(t, cfg.UI.RevealOnComplete)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
download:
  audio_format: mp3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("TUBESAVE_DOWNLOAD_AUDIO_FORMAT", "wav")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wav", cfg.Download.AudioFormat)
}

func TestLoad_EnvOverlayKeyAbsentFromFile(t *testing.T) {
	// The overlay must apply even when the file never mentions the key
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
download:
  destination_dir: /media/videos
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("TUBESAVE_DOWNLOAD_AUDIO_FORMAT", "wav")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wav", cfg.Download.AudioFormat)
	assert.Equal(t, "/media/videos", cfg.Download.DestinationDir)
}

func TestLoad_EnvOverlayWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TUBESAVE_DOWNLOAD_AUDIO_FORMAT", "wav")
	t.Setenv("TUBESAVE_UI_POLL_INTERVAL", "250ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "wav", cfg.Download.AudioFormat)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.PollInterval)
}

func TestLoad_PathExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
download:
  destination_dir: ~/Videos/saved
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Videos", "saved"), cfg.Download.DestinationDir)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unsupported audio format",
			content: `
download:
  audio_format: flac
`,
		},
		{
			name: "non-positive timeout",
			content: `
download:
  http_timeout: 0s
`,
		},
		{
			name: "empty ffmpeg binary",
			content: `
ffmpeg:
  binary: ""
`,
		},
		{
			name: "non-positive poll interval",
			content: `
ui:
  poll_interval: -5ms
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	original := DefaultConfig()
	original.Download.DestinationDir = "/media/videos"
	original.Download.AudioFormat = "m4a"
	original.Download.HTTPTimeout = 2 * time.Minute
	original.FFmpeg.Binary = "/usr/local/bin/ffmpeg"
	original.UI.PollInterval = 50 * time.Millisecond
	original.UI.RevealOnComplete = false
	original.Logging.Level = "warn"

	require.NoError(t, Save(original, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.Download.DestinationDir, loaded.Download.DestinationDir)
	assert.Equal(t, original.Download.AudioFormat, loaded.Download.AudioFormat)
	assert.Equal(t, original.Download.HTTPTimeout, loaded.Download.HTTPTimeout)
	assert.Equal(t, original.FFmpeg.Binary, loaded.FFmpeg.Binary)
	assert.Equal(t, original.UI.PollInterval, loaded.UI.PollInterval)
	assert.Equal(t, original.UI.RevealOnComplete, loaded.UI.RevealOnComplete)
	assert.Equal(t, original.Logging.Level, loaded.Logging.Level)
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.Contains(t, path, "tubesave")
	assert.Equal(t, "config.yaml", filepath.Base(path))
}
