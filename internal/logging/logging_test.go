package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelFallback(t *testing.T) {
	// Unknown levels fall back to info instead of failing
	logger, err := New(Config{Level: "noisy", Format: "console", OutputPath: "stderr"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("New returned nil logger")
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled after fallback to info")
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(Config{Level: "debug", Format: "json", OutputPath: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("download finished", zap.String("path", "/tmp/out.mp4"))
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "download finished") {
		t.Errorf("log file does not contain the message: %s", data)
	}
	if !strings.Contains(string(data), `"timestamp"`) {
		t.Errorf("json output should carry the timestamp key: %s", data)
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	if logger == nil {
		t.Fatal("NewDefault returned nil")
	}
	logger.Sync()
}
