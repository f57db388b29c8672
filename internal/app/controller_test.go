package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/model"
)

const testURL = "https://youtu.be/abc"

type fakeSupervisor struct {
	ops      []*download.Operation
	channels []chan model.Event
	err      error
	last     model.OperationRequest
}

func (f *fakeSupervisor) start(req model.OperationRequest) (*download.Operation, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ch := make(chan model.Event, 64)
	op := &download.Operation{ID: fmt.Sprintf("op-%d", len(f.ops)), Kind: req.Kind, Request: req, Events: ch}
	f.ops = append(f.ops, op)
	f.channels = append(f.channels, ch)
	return op, nil
}

func (f *fakeSupervisor) StartFetch(url string) (*download.Operation, error) {
	return f.start(model.NewFetchRequest(url))
}

func (f *fakeSupervisor) StartDownload(url, dir string, format model.FormatChoice) (*download.Operation, error) {
	return f.start(model.NewDownloadRequest(url, dir, format))
}

func (f *fakeSupervisor) Active() (*download.Operation, bool) { return nil, false }

func (f *fakeSupervisor) current() chan model.Event { return f.channels[len(f.channels)-1] }

func newTestController(t *testing.T, svc *fakeSupervisor) *Controller {
	t.Helper()
	return NewController(svc, t.TempDir(), model.FormatVideo, zaptest.NewLogger(t))
}

func logLine(text string) model.Event {
	return model.LogEvent{Line: model.LogLine{Origin: model.OriginStdout, Text: text}}
}

func TestController_FetchAndDownload(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch(testURL)
	require.Equal(t, model.StateLoading, c.State().Kind)
	require.True(t, c.Listening())

	require.False(t, c.Poll(), "nothing queued yet")

	svc.current() <- logLine("Running: yt-dlp --dump-json")
	svc.current() <- model.MetadataEvent{Metadata: &model.Metadata{Title: "Video"}}
	close(svc.current())

	require.True(t, c.Poll())
	require.Equal(t, model.StateHasMetadata, c.State().Kind)
	require.False(t, c.Listening(), "receiver is dropped after the terminal event")
	require.Len(t, c.Logs(), 1)

	c.SetFormat(model.FormatAudio)
	require.Equal(t, model.StateHasMetadata, c.State().Kind)
	require.Equal(t, "Video", c.State().Metadata.Title)

	c.Download()
	require.Equal(t, model.StateDownloading, c.State().Kind)
	require.Equal(t, model.FormatAudio, svc.last.Format)
	require.Equal(t, testURL, svc.last.URL)
	require.Empty(t, c.Logs(), "console is cleared per operation")

	svc.current() <- model.ProgressEvent{Progress: model.Progress{Fraction: 0.45, Status: "45%"}}
	c.Poll()
	require.InDelta(t, 0.45, c.State().Progress.Fraction, 1e-9)

	svc.current() <- model.PathEvent{Path: "/tmp/Video.mp3"}
	svc.current() <- model.DownloadDoneEvent{Path: "/tmp/Video.mp3"}
	c.Poll()
	require.Equal(t, model.StateSuccess, c.State().Kind)
	require.Equal(t, "/tmp/Video.mp3", c.ResultPath())

	c.Reset()
	require.Equal(t, model.StateInput, c.State().Kind)
}

func TestController_InvalidURL(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch("https://example.com/video")
	require.Equal(t, model.StateError, c.State().Kind)
	require.Equal(t, "Invalid YouTube URL", c.State().Message)
	require.Empty(t, svc.ops)
	require.False(t, c.Listening())
}

func TestController_FetchFailure(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch(testURL)
	svc.current() <- model.MetadataEvent{Err: errors.New("yt-dlp failed (exit 1): ERROR: Private video")}
	c.Poll()

	require.Equal(t, model.StateError, c.State().Kind)
	require.Contains(t, c.State().Message, "Failed to fetch video info")
	require.Contains(t, c.State().Message, "Private video")
}

func TestController_ClosedChannelWithoutTerminal(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch(testURL)
	close(svc.current())

	c.Poll()
	require.False(t, c.Listening())
	require.Equal(t, model.StateLoading, c.State().Kind)
}

func TestController_SupersededOperationCannotLeak(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch(testURL)
	first := svc.current()
	first <- model.MetadataEvent{Metadata: &model.Metadata{Title: "first"}}
	c.Poll()

	// Late events on the finished operation's channel are never read.
	first <- logLine("late line")
	first <- model.MetadataEvent{Metadata: &model.Metadata{Title: "stale"}}

	c.Reset()
	c.Fetch(testURL)
	c.Poll()
	require.Equal(t, model.StateLoading, c.State().Kind)
	require.Empty(t, c.Logs())

	svc.current() <- model.MetadataEvent{Metadata: &model.Metadata{Title: "second"}}
	c.Poll()
	require.Equal(t, "second", c.State().Metadata.Title)
}

func TestController_IgnoresActionsWhileBusy(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch(testURL)
	c.Fetch(testURL)
	c.Download()
	c.Reset()

	require.Len(t, svc.ops, 1)
	require.Equal(t, model.StateLoading, c.State().Kind)
}

func TestController_StartRejected(t *testing.T) {
	svc := &fakeSupervisor{err: download.ErrBusy}
	c := newTestController(t, svc)

	c.Fetch(testURL)
	require.Equal(t, model.StateError, c.State().Kind)
	require.Contains(t, c.State().Message, "Another operation")
}

func TestController_LogBufferIsBounded(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch(testURL)
	go func(ch chan model.Event) {
		for i := 0; i < 60; i++ {
			ch <- logLine(fmt.Sprintf("line %d", i))
		}
		ch <- model.MetadataEvent{Metadata: &model.Metadata{}}
	}(svc.current())

	for c.Listening() {
		c.Poll()
	}

	logs := c.Logs()
	require.Len(t, logs, model.MaxLogLines)
	require.Equal(t, "line 10", logs[0].Text)
}

func TestController_OpenResult(t *testing.T) {
	c := newTestController(t, &fakeSupervisor{})
	var opened string
	c.openFolder = func(p string) error {
		opened = p
		return nil
	}

	require.NoError(t, c.OpenResult())
	require.Equal(t, c.Directory(), opened)

	c.result = "/tmp/Video.mp4"
	require.NoError(t, c.OpenResult())
	require.Equal(t, "/tmp/Video.mp4", opened)
}

func TestUserMessage(t *testing.T) {
	require.Equal(t, "Please enter a URL", UserMessage(fmt.Errorf("%w: please enter a URL", model.ErrInvalidInput)))
	require.Equal(t, "Boom", UserMessage(errors.New("boom")))
	require.Equal(t, "", UserMessage(errors.New("")))
}

func TestController_FetchRequiresReset(t *testing.T) {
	svc := &fakeSupervisor{}
	c := newTestController(t, svc)

	c.Fetch("https://example.com/video")
	require.Equal(t, model.StateError, c.State().Kind)

	c.Fetch(testURL)
	require.Empty(t, svc.ops, "a finished state must be reset first")
	require.Equal(t, model.StateError, c.State().Kind)

	c.Reset()
	c.Fetch(testURL)
	require.Len(t, svc.ops, 1)
	svc.current() <- model.MetadataEvent{Metadata: &model.Metadata{Title: "Video"}}
	c.Poll()
	require.Equal(t, model.StateHasMetadata, c.State().Kind)

	c.Fetch(testURL)
	require.Len(t, svc.ops, 1, "fetch is ignored while metadata is shown")
	require.Equal(t, model.StateHasMetadata, c.State().Kind)
}
