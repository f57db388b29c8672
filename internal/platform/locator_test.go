package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DefaultDirPermissions))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), ExecutablePermissions))
}

func noLookPath(string) (string, error) { return "", errors.New("not found") }

func TestToolLocator_Find(t *testing.T) {
	exeDir := t.TempDir()
	l := &ToolLocator{Name: "yt-dlp", ToolsDir: "tools", ExeDir: exeDir, lookPath: noLookPath}

	managed := filepath.Join(exeDir, "tools", l.BinaryName())
	legacy := filepath.Join(exeDir, l.BinaryName())

	require.Equal(t, l.BinaryName(), l.Find(), "bare name when nothing is installed")
	_, ok := l.Existing()
	require.False(t, ok)

	writeExecutable(t, legacy)
	require.Equal(t, legacy, l.Find())

	writeExecutable(t, managed)
	require.Equal(t, managed, l.Find())
}

func TestToolLocator_SearchPath(t *testing.T) {
	l := &ToolLocator{Name: "yt-dlp", ExeDir: t.TempDir(), lookPath: func(name string) (string, error) {
		return "/usr/local/bin/" + name, nil
	}}

	path, ok := l.Existing()
	require.True(t, ok)
	require.Equal(t, "/usr/local/bin/"+l.BinaryName(), path)
}

func TestToolLocator_Override(t *testing.T) {
	override := filepath.Join(t.TempDir(), "custom-yt-dlp")
	l := &ToolLocator{Override: override, ExeDir: t.TempDir(), lookPath: func(string) (string, error) {
		t.Fatal("search path must not be used with an override")
		return "", nil
	}}

	require.Equal(t, override, l.ManagedPath())
	require.Equal(t, override, l.Find())

	writeExecutable(t, override)
	path, ok := l.Existing()
	require.True(t, ok)
	require.Equal(t, override, path)
}

func TestToolLocator_BinaryName(t *testing.T) {
	want := DefaultToolName
	if runtime.GOOS == OSWindows {
		want += ".exe"
	}
	require.Equal(t, want, (&ToolLocator{}).BinaryName())
}

func TestToolLocator_AbsoluteToolsDir(t *testing.T) {
	toolsDir := t.TempDir()
	l := &ToolLocator{ToolsDir: toolsDir, ExeDir: "/elsewhere"}
	require.Equal(t, filepath.Join(toolsDir, l.BinaryName()), l.ManagedPath())
}
