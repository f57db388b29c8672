// Package app connects the interface to the download service. The Controller owns
// the application state, the console log and the receiving end of the current
// operation's channel; it is used from the interface goroutine only.
package app

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

// Controller drives model.Reduce from user actions and worker events.
type Controller struct {
	svc    download.Supervisor
	state  model.AppState
	logs   *model.LogBuffer
	events <-chan model.Event
	opID   string

	url       string
	directory string
	format    model.FormatChoice
	result    string

	openFolder func(string) error
	log        *zap.Logger
}

// NewController creates a controller in the Input state.
func NewController(svc download.Supervisor, directory string, format model.FormatChoice, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		svc:        svc,
		state:      model.InitialState(),
		logs:       model.NewLogBuffer(model.MaxLogLines),
		directory:  directory,
		format:     format,
		openFolder: platform.OpenInFileManager,
		log:        log.Named("app"),
	}
}

// State returns the current state.
func (c *Controller) State() model.AppState { return c.state }

// Logs returns the retained console lines, oldest first.
func (c *Controller) Logs() []model.LogLine { return c.logs.Lines() }

// URL returns the address of the last fetch.
func (c *Controller) URL() string { return c.url }

// Directory returns the output directory.
func (c *Controller) Directory() string { return c.directory }

// Format returns the selected format.
func (c *Controller) Format() model.FormatChoice { return c.format }

// ResultPath returns where the last successful download was saved.
func (c *Controller) ResultPath() string { return c.result }

// Listening reports whether an operation channel is attached.
func (c *Controller) Listening() bool { return c.events != nil }

// SetDirectory changes the output directory.
func (c *Controller) SetDirectory(dir string) { c.directory = strings.TrimSpace(dir) }

// SetFormat changes the format choice. Metadata already shown is kept.
func (c *Controller) SetFormat(f model.FormatChoice) { c.format = f }

// Fetch starts a metadata fetch for url. It is ignored outside the Input state.
// Rejected input goes straight to the Error state without starting anything.
func (c *Controller) Fetch(url string) {
	if c.state.Kind != model.StateInput {
		return
	}

	op, err := c.svc.StartFetch(url)
	if err != nil {
		c.fail(err)
		return
	}

	c.url = op.Request.URL
	c.result = ""
	c.attach(op)
	c.state = model.Reduce(c.state, model.FetchRequested{})
}

// Download starts downloading the fetched URL. It is ignored unless metadata is shown.
func (c *Controller) Download() {
	if c.state.Kind != model.StateHasMetadata {
		return
	}

	op, err := c.svc.StartDownload(c.url, c.directory, c.format)
	if err != nil {
		c.fail(err)
		return
	}

	c.attach(op)
	c.state = model.Reduce(c.state, model.DownloadRequested{})
}

// Reset returns to the Input state from any idle state.
func (c *Controller) Reset() {
	c.state = model.Reduce(c.state, model.ResetRequested{})
}

// OpenResult shows the downloaded file in the system file manager.
func (c *Controller) OpenResult() error {
	target := c.result
	if target == "" {
		target = c.directory
	}
	return c.openFolder(target)
}

// Poll applies every event already queued on the current channel without
// blocking. The channel is dropped after a terminal event or when it is closed.
// It reports whether anything changed.
func (c *Controller) Poll() bool {
	changed := false
	for c.events != nil {
		select {
		case ev, ok := <-c.events:
			if !ok {
				c.log.Debug("operation channel closed", zap.String("id", c.opID))
				c.detach()
				return changed
			}
			c.apply(ev)
			changed = true
			if model.IsTerminal(ev) {
				c.detach()
			}
		default:
			return changed
		}
	}
	return changed
}

func (c *Controller) apply(ev model.Event) {
	switch e := ev.(type) {
	case model.LogEvent:
		c.logs.Append(e.Line)
	case model.DownloadDoneEvent:
		if e.Err == nil {
			c.result = e.Path
		}
	}
	c.state = model.Reduce(c.state, ev)
}

// attach replaces the receiver; events of a superseded operation are never read.
func (c *Controller) attach(op *download.Operation) {
	c.logs.Clear()
	c.events = op.Events
	c.opID = op.ID
	c.log.Debug("listening to operation", zap.String("id", op.ID), zap.String("kind", string(op.Kind)))
}

func (c *Controller) detach() {
	c.events = nil
	c.opID = ""
}

func (c *Controller) fail(err error) {
	c.log.Info("request rejected", zap.Error(err))
	c.state = model.Reduce(c.state, model.FailureRequested{Message: UserMessage(err)})
}

// UserMessage renders an error for display, without the generic input prefix.
func UserMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, model.ErrInvalidInput) {
		msg = strings.TrimPrefix(msg, model.ErrInvalidInput.Error()+": ")
	}
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
