package ytdlp

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// ErrToolNotFound is returned when the executable is missing or exits with an error
// and writes nothing to stderr.
var ErrToolNotFound = errors.New("yt-dlp not found: place it in the tools folder next to this application or on PATH")

// ToolError is a non-zero exit with diagnostic output on stderr.
type ToolError struct {
	Cmd      string
	Args     []string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("yt-dlp failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ToolError) Unwrap() error { return e.Cause }

// ParseError means the tool succeeded but printed something that is not the expected JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse yt-dlp output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// startError maps a failure to spawn the process.
func startError(cmd string, cause error) error {
	if errors.Is(cause, exec.ErrNotFound) || errors.Is(cause, fs.ErrNotExist) {
		return fmt.Errorf("%w (%s)", ErrToolNotFound, cmd)
	}
	return fmt.Errorf("start %s: %w", cmd, cause)
}

// exitError maps a failed wait. Empty stderr is reported as ErrToolNotFound.
func exitError(cmd string, args []string, stderr string, cause error) error {
	stderr = strings.TrimSpace(stderr)
	exitCode := -1
	var ee *exec.ExitError
	if errors.As(cause, &ee) {
		exitCode = ee.ExitCode()
	}

	if stderr == "" {
		return fmt.Errorf("%w (exit %d)", ErrToolNotFound, exitCode)
	}
	return &ToolError{
		Cmd:      cmd,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderr,
		Cause:    cause,
	}
}
