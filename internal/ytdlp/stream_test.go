package ytdlp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-grabber/internal/model"
)

// recorder collects emitted events; Drain calls it from two goroutines.
type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) emit(ev model.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) logLines(origin model.Origin) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if le, ok := ev.(model.LogEvent); ok && le.Line.Origin == origin {
			out = append(out, le.Line.Text)
		}
	}
	return out
}

func (r *recorder) parsed() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Event
	for _, ev := range r.events {
		switch ev.(type) {
		case model.ProgressEvent, model.PathEvent:
			out = append(out, ev)
		}
	}
	return out
}

func TestScanLines_SplitsOnCRAndLF(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("a\rb\nc\r\nd\r\re"))
	scanner.Split(ScanLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, []string{"a", "b", "c", "d", "", "e"}, lines)
}

func TestScanLines_CRLFAcrossReads(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("first\r"))
		_, _ = pw.Write([]byte("\nsecond\n"))
		_ = pw.Close()
	}()

	var lines []string
	scanLines(pr, func(line string) { lines = append(lines, line) })
	require.Equal(t, []string{"first", "second"}, lines)
}

func TestDrain_EndToEndSequence(t *testing.T) {
	stdout := strings.NewReader(strings.Join([]string{
		"[download] Destination: /tmp/video.mp4",
		"[download]  45.0% of 10.00MiB at 1.00MiB/s ETA 00:05",
		"[download] 100% of 10.00MiB",
	}, "\n"))

	var rec recorder
	var tracker PathTracker
	errText := Drain(stdout, strings.NewReader(""), rec.emit, &tracker)
	require.Empty(t, errText)

	events := rec.parsed()
	require.Len(t, events, 4)

	require.Equal(t, model.PathEvent{Path: "/tmp/video.mp4"}, events[0])
	require.Equal(t, model.ProgressEvent{Progress: model.Progress{Fraction: 0, Status: StatusPreparing}}, events[1])

	p45 := events[2].(model.ProgressEvent).Progress
	require.InDelta(t, 0.45, p45.Fraction, 1e-9)
	require.Contains(t, p45.Status, "1.00MiB/s")
	require.Contains(t, p45.Status, "00:05")

	done := events[3].(model.ProgressEvent).Progress
	require.Equal(t, 1.0, done.Fraction)
	require.Contains(t, done.Status, "completed")

	require.Equal(t, "/tmp/video.mp4", tracker.Get())
}

func TestDrain_LastDiscoveredPathWins(t *testing.T) {
	stdout := strings.NewReader(strings.Join([]string{
		"[download] Destination: /tmp/a.f137.mp4",
		"[download] /tmp/b.mp4 has already been downloaded",
		`[Merger] Merging formats into "/tmp/c.mp4"`,
		"[download]  50.0% of 1.00MiB",
	}, "\r\n"))

	var rec recorder
	var tracker PathTracker
	Drain(stdout, strings.NewReader(""), rec.emit, &tracker)

	require.Equal(t, "/tmp/c.mp4", tracker.Get())
}

func TestDrain_CapturesStderrAndPreservesOrder(t *testing.T) {
	var out, errOut strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&out, "line %d\n", i)
		fmt.Fprintf(&errOut, "err %d\n", i)
	}

	var rec recorder
	errText := Drain(strings.NewReader(out.String()), strings.NewReader("\n"+errOut.String()), rec.emit, nil)

	require.Equal(t, strings.Split(strings.TrimSpace(out.String()), "\n"), rec.logLines(model.OriginStdout))
	require.Equal(t, strings.Split(strings.TrimSpace(errOut.String()), "\n"), rec.logLines(model.OriginStderr))
	require.Equal(t, strings.TrimSpace(errOut.String()), errText)
}

func TestScanLines_OversizedLineDoesNotBlockWriter(t *testing.T) {
	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = pw.Write([]byte(strings.Repeat("z", maxLineLength+16)))
		_, _ = pw.Write([]byte("\ntail\n"))
		_ = pw.Close()
	}()

	scanLines(pr, func(string) {})
	<-done
}

func TestPathTracker_ConcurrentWritersNeverMix(t *testing.T) {
	a := strings.Repeat("/a/path", 64)
	b := strings.Repeat("/b/other", 64)

	var tracker PathTracker
	var wg sync.WaitGroup
	for _, v := range []string{a, b} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				tracker.Set(v)
			}
		}(v)
	}
	wg.Wait()

	got := tracker.Get()
	require.True(t, got == a || got == b, "tracker holds a mixed value")
}
