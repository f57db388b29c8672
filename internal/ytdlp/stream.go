package ytdlp

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/ytget/yt-grabber/internal/model"
)

// Emitter receives events produced while a tool invocation runs.
type Emitter func(model.Event)

func discard(model.Event) {}

// Scanner buffer sizes; a metadata dump is a single long line.
const (
	initialLineBuffer = 64 * 1024
	maxLineLength     = 4 * 1024 * 1024
)

// PathTracker holds the best known output location of a running download.
// Values are replaced whole, never edited in place.
type PathTracker struct {
	mu   sync.Mutex
	path string
}

// Set replaces the tracked path.
func (t *PathTracker) Set(path string) {
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
}

// Get returns the tracked path, or "" when nothing was discovered.
func (t *PathTracker) Get() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

// ScanLines is a bufio.SplitFunc that treats "\n", "\r\n" and a bare "\r" as line
// terminators. yt-dlp redraws its progress line with carriage returns.
func ScanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// A '\r' at the end of the buffer may be the first half of "\r\n".
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// scanLines calls fn for every non-blank line of r until EOF. If a line exceeds the
// scanner limit the rest of the stream is discarded so the writer never blocks.
func scanLines(r io.Reader, fn func(line string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)
	scanner.Split(ScanLines)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fn(line)
	}

	if scanner.Err() != nil {
		_, _ = io.Copy(io.Discard, r)
	}
}

// HandleStdoutLine emits the log line and whatever the line parser finds in it.
func HandleStdoutLine(line string, emit Emitter, tracker *PathTracker) {
	emit(model.LogEvent{Line: model.LogLine{Origin: model.OriginStdout, Text: line}})

	for _, ev := range ParseLine(line) {
		if pe, ok := ev.(model.PathEvent); ok && tracker != nil {
			tracker.Set(pe.Path)
		}
		emit(ev)
	}
}

// Drain reads stdout and stderr concurrently until both reach EOF. Every line is
// emitted as a log event; stdout lines also go through the line parser and update
// tracker. The stderr text is returned for error reporting.
func Drain(stdout, stderr io.Reader, emit Emitter, tracker *PathTracker) string {
	return drainWith(func(r io.Reader) {
		scanLines(r, func(line string) {
			HandleStdoutLine(line, emit, tracker)
		})
	}, stdout, stderr, emit)
}

// drainWith runs consumeStdout and the stderr reader in their own goroutines and
// returns once both are done.
func drainWith(consumeStdout func(io.Reader), stdout, stderr io.Reader, emit Emitter) string {
	var (
		wg      sync.WaitGroup
		errText strings.Builder
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		consumeStdout(stdout)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, func(line string) {
			if errText.Len() > 0 {
				errText.WriteByte('\n')
			}
			errText.WriteString(line)
			emit(model.LogEvent{Line: model.LogLine{Origin: model.OriginStderr, Text: line}})
		})
	}()
	wg.Wait()

	return errText.String()
}
