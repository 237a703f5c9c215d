package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// EnsureDir creates the directory if it doesn't exist
func EnsureDir(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// CheckWritable verifies the directory accepts new files by creating and
// removing a probe file. Returns an error when the path is missing, not a
// directory, or read-only.
func CheckWritable(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("destination unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination is not a directory: %s", dirPath)
	}
	probe, err := os.CreateTemp(dirPath, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("destination is not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// HomeDownloadsDir returns the standard Downloads directory for the user
func HomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// RevealInFileManager opens the file in the system file manager and
// highlights it where the platform supports selection
func RevealInFileManager(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return revealInFinderMacOS(absPath)
	case OSWindows:
		return revealInExplorerWindows(absPath)
	case OSLinux:
		return revealInManagerLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// revealInFinderMacOS opens file in Finder on macOS with selection
func revealInFinderMacOS(filePath string) error {
	cmd := exec.Command(OpenCommand, MacOSSelectFlag, filePath)
	return cmd.Run()
}

// revealInExplorerWindows opens file in Explorer on Windows with selection
func revealInExplorerWindows(filePath string) error {
	cmd := exec.Command(ExplorerCommand, WindowsSelectParam, filePath)
	return cmd.Run()
}

// revealInManagerLinux opens the directory containing the file on Linux.
// File selection is not standardized on Linux, so the parent directory opens.
func revealInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	// Try xdg-open first (most common)
	cmd := exec.Command(XDGOpenCommand, dir)
	if err := cmd.Run(); err == nil {
		return nil
	}

	// Fallback to common file managers
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			cmd := exec.Command(fm, dir)
			return cmd.Run()
		}
	}

	return fmt.Errorf("no suitable file manager found")
}
