package download

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/updater"
	"github.com/ytget/yt-grabber/internal/ytdlp"
)

const testURL = "https://www.youtube.com/watch?v=abc"

type fakeTool struct {
	path     string
	release  chan struct{}
	meta     *model.Metadata
	fetchErr error
	dlPath   string
	dlErr    error
}

func (f *fakeTool) wait() {
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeTool) FetchMetadata(_ context.Context, url string, emit ytdlp.Emitter) (*model.Metadata, error) {
	emit(model.LogEvent{Line: model.LogLine{Origin: model.OriginApp, Text: "Running: " + f.path + " " + url}})
	f.wait()
	return f.meta, f.fetchErr
}

func (f *fakeTool) Download(_ context.Context, url, dir string, format model.FormatChoice, emit ytdlp.Emitter) (string, error) {
	emit(model.ProgressEvent{Progress: model.Progress{Fraction: 0.5, Status: "half"}})
	f.wait()
	if f.dlErr != nil {
		return "", f.dlErr
	}
	emit(model.ProgressEvent{Progress: model.Progress{Fraction: 1, Status: ytdlp.StatusCompleted}})
	return f.dlPath, nil
}

type fakeProvisioner struct {
	res *updater.Result
	err error
}

func (p *fakeProvisioner) EnsureTool(context.Context) (*updater.Result, error) {
	return p.res, p.err
}

// collect drains an operation until its channel closes.
func collect(t *testing.T, op *Operation) []model.Event {
	t.Helper()
	var events []model.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-op.Events:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("operation did not finish")
		}
	}
}

func newTestService(t *testing.T, tool *fakeTool, prov Provisioner) (*Service, *[]string) {
	t.Helper()
	var paths []string
	factory := func(path string) Tool {
		paths = append(paths, path)
		tool.path = path
		return tool
	}
	return NewService(factory, prov, "yt-dlp", zaptest.NewLogger(t)), &paths
}

func TestStartFetch_DeliversTerminalEventLast(t *testing.T) {
	tool := &fakeTool{meta: &model.Metadata{Title: "Video"}}
	svc, _ := newTestService(t, tool, nil)

	op, err := svc.StartFetch(testURL)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(op.ID, OperationIDPrefix))
	require.Equal(t, model.OperationFetch, op.Kind)

	events := collect(t, op)
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	require.True(t, model.IsTerminal(last))
	me := last.(model.MetadataEvent)
	require.NoError(t, me.Err)
	require.Equal(t, "Video", me.Metadata.Title)

	for _, ev := range events[:len(events)-1] {
		require.False(t, model.IsTerminal(ev))
	}

	_, active := svc.Active()
	require.False(t, active)
}

func TestStartFetch_RejectsInvalidURL(t *testing.T) {
	svc, paths := newTestService(t, &fakeTool{}, nil)

	_, err := svc.StartFetch("https://example.com/video")
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, active := svc.Active()
	require.False(t, active)
	require.Empty(t, *paths, "no process may be started for invalid input")
}

func TestService_OneActiveOperation(t *testing.T) {
	tool := &fakeTool{meta: &model.Metadata{}, release: make(chan struct{})}
	svc, _ := newTestService(t, tool, nil)

	op, err := svc.StartFetch(testURL)
	require.NoError(t, err)

	_, err = svc.StartFetch(testURL)
	require.ErrorIs(t, err, ErrBusy)
	_, err = svc.StartDownload(testURL, t.TempDir(), model.FormatVideo)
	require.ErrorIs(t, err, ErrBusy)

	active, ok := svc.Active()
	require.True(t, ok)
	require.Equal(t, op.ID, active.ID)

	close(tool.release)
	collect(t, op)

	op2, err := svc.StartFetch(testURL)
	require.NoError(t, err)
	require.NotEqual(t, op.ID, op2.ID)
	collect(t, op2)
}

func TestStartFetch_UsesProvisionedTool(t *testing.T) {
	prov := &fakeProvisioner{res: &updater.Result{
		Current:  "2023.01.01",
		Latest:   "2024.08.06",
		Updated:  true,
		Verified: "2024.08.06",
		ToolPath: "/opt/tools/yt-dlp",
	}}
	tool := &fakeTool{meta: &model.Metadata{}}
	svc, paths := newTestService(t, tool, prov)

	op, err := svc.StartFetch(testURL)
	require.NoError(t, err)
	events := collect(t, op)

	require.Equal(t, []string{"/opt/tools/yt-dlp"}, *paths)
	require.Contains(t, logTexts(events), "Updated yt-dlp to 2024.08.06")

	// Downloads keep using the provisioned executable.
	tool.dlPath = "/tmp/x.mp4"
	op, err = svc.StartDownload(testURL, t.TempDir(), model.FormatVideo)
	require.NoError(t, err)
	collect(t, op)
	require.Equal(t, "/opt/tools/yt-dlp", (*paths)[1])
}

func TestStartFetch_ProvisioningWarning(t *testing.T) {
	prov := &fakeProvisioner{res: &updater.Result{
		Current:  "2023.01.01",
		ToolPath: "/opt/tools/yt-dlp",
		Warning:  errors.New("feed unreachable"),
	}}
	svc, _ := newTestService(t, &fakeTool{meta: &model.Metadata{}}, prov)

	op, err := svc.StartFetch(testURL)
	require.NoError(t, err)
	events := collect(t, op)

	me := events[len(events)-1].(model.MetadataEvent)
	require.NoError(t, me.Err)
	require.Contains(t, logTexts(events), "Warning: feed unreachable")
}

func TestStartFetch_NoToolFails(t *testing.T) {
	prov := &fakeProvisioner{err: updater.ErrNoTool}
	svc, paths := newTestService(t, &fakeTool{}, prov)

	op, err := svc.StartFetch(testURL)
	require.NoError(t, err)
	events := collect(t, op)

	me := events[len(events)-1].(model.MetadataEvent)
	require.ErrorIs(t, me.Err, updater.ErrNoTool)
	require.Empty(t, *paths)
}

func TestStartDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "new", "dir")
	tool := &fakeTool{dlPath: filepath.Join(dir, "Video.mp4")}
	svc, _ := newTestService(t, tool, nil)

	op, err := svc.StartDownload(testURL, dir, model.FormatVideo)
	require.NoError(t, err)
	require.Equal(t, model.OperationDownload, op.Kind)

	events := collect(t, op)
	require.DirExists(t, dir)

	done := events[len(events)-1].(model.DownloadDoneEvent)
	require.NoError(t, done.Err)
	require.Equal(t, tool.dlPath, done.Path)
}

func TestStartDownload_Failure(t *testing.T) {
	tool := &fakeTool{dlErr: &ytdlp.ToolError{ExitCode: 1, Stderr: "ERROR: Video unavailable"}}
	svc, _ := newTestService(t, tool, nil)

	op, err := svc.StartDownload(testURL, t.TempDir(), model.FormatAudio)
	require.NoError(t, err)
	events := collect(t, op)

	done := events[len(events)-1].(model.DownloadDoneEvent)
	var te *ytdlp.ToolError
	require.ErrorAs(t, done.Err, &te)
}

func TestStartDownload_Validation(t *testing.T) {
	svc, _ := newTestService(t, &fakeTool{}, nil)

	_, err := svc.StartDownload(testURL, "", model.FormatVideo)
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.StartDownload("not a url", t.TempDir(), model.FormatVideo)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestGenerateOperationID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := generateOperationID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func logTexts(events []model.Event) []string {
	var out []string
	for _, ev := range events {
		if le, ok := ev.(model.LogEvent); ok {
			out = append(out, le.Line.Text)
		}
	}
	return out
}
