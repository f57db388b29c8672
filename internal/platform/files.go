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
	DefaultDirPermissions  = 0755
	ExecutablePermissions  = 0755
	DefaultDownloadsFolder = "Downloads"
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

// runCommand is replaced in tests.
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// RevealTarget resolves what OpenInFileManager shows for path: the file itself when it
// exists, otherwise the nearest existing directory. The boolean reports whether the
// target is a regular file.
func RevealTarget(path string) (string, bool, error) {
	if path == "" {
		return "", false, fmt.Errorf("path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for p := absPath; ; p = filepath.Dir(p) {
		info, err := os.Stat(p)
		if err == nil {
			return p, !info.IsDir(), nil
		}
		if parent := filepath.Dir(p); parent == p {
			return "", false, fmt.Errorf("nothing to open at %s: %w", path, err)
		}
	}
}

// OpenInFileManager opens the system file manager at path. Files are highlighted
// where the platform supports it; on Linux the parent directory is opened.
func OpenInFileManager(path string) error {
	target, isFile, err := RevealTarget(path)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		if isFile {
			return runCommand(OpenCommand, MacOSSelectFlag, target)
		}
		return runCommand(OpenCommand, target)
	case OSWindows:
		if isFile {
			return runCommand(ExplorerCommand, WindowsSelectParam+target)
		}
		return runCommand(ExplorerCommand, target)
	case OSLinux:
		if isFile {
			target = filepath.Dir(target)
		}
		return openDirLinux(target)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openDirLinux tries xdg-open, then the common file managers.
func openDirLinux(dir string) error {
	if err := runCommand(XDGOpenCommand, dir); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return runCommand(fm, dir)
		}
	}

	return fmt.Errorf("no suitable file manager found")
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultDownloadsFolder), nil
}
