package ytdlp

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

// DefaultBinary is used when no path is configured.
const DefaultBinary = "yt-dlp"

// Client runs yt-dlp invocations. A Client holds no per-call state and may be
// shared between goroutines.
type Client struct {
	// Path to the executable. Defaults to DefaultBinary (PATH lookup).
	Path string

	// ExtraArgs are placed before per-call args.
	ExtraArgs []string

	// Env is appended to the inherited environment.
	Env []string

	log *zap.Logger
}

// New creates a Client for the executable at path.
func New(path string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{Path: path, log: log.Named("ytdlp")}
}

// PathOrDefault returns the configured path or DefaultBinary if unset.
func (c *Client) PathOrDefault() string {
	if strings.TrimSpace(c.Path) == "" {
		return DefaultBinary
	}
	return c.Path
}

// CommandLine renders the invocation for display.
func (c *Client) CommandLine(args ...string) string {
	return strings.TrimSpace(c.PathOrDefault() + " " + strings.Join(args, " "))
}

func (c *Client) command(ctx context.Context, args []string) *exec.Cmd {
	fullArgs := make([]string, 0, len(c.ExtraArgs)+len(args))
	fullArgs = append(fullArgs, c.ExtraArgs...)
	fullArgs = append(fullArgs, args...)

	cmd := exec.CommandContext(ctx, c.PathOrDefault(), fullArgs...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	platform.HideWindow(cmd)
	return cmd
}

// drainFunc reads both pipes to EOF and returns the stderr text.
type drainFunc func(stdout, stderr io.Reader) string

// run starts the tool with both streams piped and hands them to drain. The exit
// status is inspected only after drain returns.
func (c *Client) run(ctx context.Context, args []string, drain drainFunc) error {
	cmd := c.command(ctx, args)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return startError(c.PathOrDefault(), err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return startError(c.PathOrDefault(), err)
	}

	c.log.Info("running yt-dlp", zap.String("cmd", c.PathOrDefault()), zap.Strings("args", args))
	if err := cmd.Start(); err != nil {
		c.log.Warn("failed to start yt-dlp", zap.Error(err))
		return startError(c.PathOrDefault(), err)
	}

	errText := drain(stdout, stderr)

	if err := cmd.Wait(); err != nil {
		c.log.Warn("yt-dlp exited with error", zap.Strings("args", args), zap.Error(err))
		return exitError(c.PathOrDefault(), args, errText, err)
	}
	c.log.Debug("yt-dlp finished", zap.Strings("args", args))
	return nil
}

// output runs the tool and returns its whole stdout.
// stderr lines are emitted as log events.
func (c *Client) output(ctx context.Context, args []string, emit Emitter) ([]byte, error) {
	if emit == nil {
		emit = discard
	}

	var buf bytes.Buffer
	err := c.run(ctx, args, func(stdout, stderr io.Reader) string {
		return drainWith(func(r io.Reader) {
			_, _ = io.Copy(&buf, r)
		}, stdout, stderr, emit)
	})
	return buf.Bytes(), err
}

// Version returns `yt-dlp --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.output(ctx, []string{"--version"}, nil)
	if err != nil {
		return "", err
	}
	version := strings.TrimSpace(string(out))
	if i := strings.IndexAny(version, "\r\n"); i >= 0 {
		version = strings.TrimSpace(version[:i])
	}
	return version, nil
}

func appLine(text string) model.LogEvent {
	return model.LogEvent{Line: model.LogLine{Origin: model.OriginApp, Text: text}}
}
