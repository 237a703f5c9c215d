package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title passes through", "My Video", "My Video"},
		{"colon and punctuation replaced", "Song: Live?!", "Song_ Live__"},
		{"path separators replaced", "a/b\\c", "a_b_c"},
		{"allow-set preserved", "Track 01. mix_v2 (final)-x", "Track 01. mix_v2 (final)-x"},
		{"unicode letters preserved", "Müller – Lieblingslied", "Müller _ Lieblingslied"},
		{"cyrillic preserved", "Видео 2024", "Видео 2024"},
		{"surrounding whitespace trimmed", "  padded  ", "padded"},
		{"empty input", "", ""},
		{"all illegal input", "<>:|", "____"},
		{"quotes and asterisks", `"best*of"`, "_best_of_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFileName(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFileName(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeFileName_Idempotent(t *testing.T) {
	inputs := []string{
		"Song: Live?!",
		"  padded  ",
		"ordinary name",
		"<>:|",
		"Müller – Lieblingslied",
	}

	for _, input := range inputs {
		once := SanitizeFileName(input)
		twice := SanitizeFileName(once)
		if once != twice {
			t.Errorf("SanitizeFileName not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	err := EnsureDir(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = EnsureDir(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestCheckWritable(t *testing.T) {
	tempDir := t.TempDir()
	if err := CheckWritable(tempDir); err != nil {
		t.Errorf("CheckWritable on temp dir returned %v, expected nil", err)
	}
}

func TestCheckWritable_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does_not_exist")
	if err := CheckWritable(missing); err == nil {
		t.Error("Expected error for missing directory, got nil")
	}
}

func TestCheckWritable_NotADirectory(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "plain_file")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	err := CheckWritable(filePath)
	if err == nil {
		t.Fatal("Expected error for non-directory path, got nil")
	}
	if !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Error message should contain 'not a directory', got: %v", err)
	}
}

func TestHomeDownloadsDir(t *testing.T) {
	downloadsDir, err := HomeDownloadsDir()
	if err != nil {
		t.Fatalf("Failed to get downloads directory: %v", err)
	}

	if downloadsDir == "" {
		t.Fatal("Downloads directory is empty")
	}

	if filepath.Base(downloadsDir) != "Downloads" {
		t.Errorf("Expected directory to end with 'Downloads', got: %s", downloadsDir)
	}
}

func TestRevealInFileManager_NonExistentFile(t *testing.T) {
	tempDir := t.TempDir()
	nonExistentFile := filepath.Join(tempDir, "nonexistent.mp4")

	err := RevealInFileManager(nonExistentFile)
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}

	if !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Error message should contain 'file does not exist', got: %v", err)
	}
}
