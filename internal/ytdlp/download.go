package ytdlp

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ytget/yt-grabber/internal/model"
)

// Download arguments
const (
	OutputTemplate      = "%(title)s.%(ext)s"
	VideoFormatSelector = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	AudioFormat         = "mp3"
	MergeFormat         = "mp4"
)

// DownloadArgs builds the argument list for a download into dir.
func DownloadArgs(url, dir string, format model.FormatChoice) []string {
	args := []string{
		"--newline",
		"--no-warnings",
		"--output", filepath.Join(dir, OutputTemplate),
	}

	if format.IsAudioOnly() {
		args = append(args, "-x", "--audio-format", AudioFormat)
	} else {
		args = append(args, "--format", VideoFormatSelector, "--merge-output-format", MergeFormat)
	}

	return append(args, url)
}

// Download runs the tool and streams its output to emit until it exits. It returns
// the last output path the tool announced, or dir itself when none was seen.
func (c *Client) Download(ctx context.Context, url, dir string, format model.FormatChoice, emit Emitter) (string, error) {
	if emit == nil {
		emit = discard
	}

	args := DownloadArgs(url, dir, format)
	emit(appLine("Running: " + c.CommandLine(args...)))

	var tracker PathTracker
	err := c.run(ctx, args, func(stdout, stderr io.Reader) string {
		return Drain(stdout, stderr, emit, &tracker)
	})
	if err != nil {
		return "", err
	}

	emit(model.ProgressEvent{Progress: model.Progress{Fraction: 1, Status: StatusCompleted}})

	path := tracker.Get()
	if path == "" {
		emit(appLine(fmt.Sprintf("Warning: could not determine the output file, files were saved to %s", dir)))
		return dir, nil
	}
	return path, nil
}
