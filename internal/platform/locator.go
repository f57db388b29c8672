package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Tool discovery defaults
const (
	DefaultToolName = "yt-dlp"
	DefaultToolsDir = "tools"
)

// ToolLocator finds the yt-dlp executable. Search order: Override, the managed
// location <ExeDir>/<ToolsDir>/<name>, the legacy location <ExeDir>/<name>, the
// OS search path, and finally the bare name.
type ToolLocator struct {
	Override string
	Name     string
	ToolsDir string
	ExeDir   string

	lookPath func(string) (string, error)
}

// NewToolLocator returns a locator rooted at the running program's directory.
func NewToolLocator(override, name, toolsDir string) *ToolLocator {
	return &ToolLocator{
		Override: override,
		Name:     name,
		ToolsDir: toolsDir,
		ExeDir:   ExecutableDir(),
	}
}

// ExecutableDir returns the directory of the running program, or "." when unknown.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// BinaryName returns the platform file name for the tool, with ".exe" on Windows.
func (l *ToolLocator) BinaryName() string {
	name := l.Name
	if name == "" {
		name = DefaultToolName
	}
	if runtime.GOOS == OSWindows && filepath.Ext(name) != ".exe" {
		name += ".exe"
	}
	return name
}

// ManagedPath is where updates are installed.
func (l *ToolLocator) ManagedPath() string {
	if l.Override != "" {
		return l.Override
	}
	dir := l.ToolsDir
	if dir == "" {
		dir = DefaultToolsDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(l.ExeDir, dir)
	}
	return filepath.Join(dir, l.BinaryName())
}

// Candidates lists the on-disk locations checked before the search path.
func (l *ToolLocator) Candidates() []string {
	if l.Override != "" {
		return []string{l.Override}
	}
	return []string{
		l.ManagedPath(),
		filepath.Join(l.ExeDir, l.BinaryName()),
	}
}

// Find returns the first existing executable. When none exists it falls back to the
// bare name so that spawning reports the tool as missing.
func (l *ToolLocator) Find() string {
	if path, ok := l.Existing(); ok {
		return path
	}
	if l.Override != "" {
		return l.Override
	}
	return l.BinaryName()
}

// Existing reports the first executable that is actually present.
func (l *ToolLocator) Existing() (string, bool) {
	for _, candidate := range l.Candidates() {
		if isFile(candidate) {
			return candidate, true
		}
	}
	if l.Override != "" {
		return "", false
	}

	lookPath := l.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(l.BinaryName()); err == nil {
		return path, true
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
