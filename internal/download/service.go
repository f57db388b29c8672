package download

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

// Service constants
const (
	OperationIDPrefix = "op-"

	// DefaultEventBuffer bounds the events queued between two interface frames.
	DefaultEventBuffer = 512
)

// ErrBusy is returned when an operation is requested while another one runs.
var ErrBusy = errors.New("another operation is already running")

// Operation is one fetch or download. Events delivers everything the worker reports;
// the last value is a terminal event, after which the channel is closed.
type Operation struct {
	ID        string
	Kind      model.OperationKind
	Request   model.OperationRequest
	StartedAt time.Time
	Events    <-chan model.Event
}

// Service runs operations one at a time.
type Service struct {
	mu       sync.Mutex
	active   *Operation
	toolPath string

	newTool     ToolFactory
	provisioner Provisioner
	bufferSize  int
	log         *zap.Logger
}

// NewService creates a service that runs the executable at toolPath until the
// provisioner resolves another one. provisioner may be nil.
func NewService(newTool ToolFactory, provisioner Provisioner, toolPath string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		toolPath:    toolPath,
		newTool:     newTool,
		provisioner: provisioner,
		bufferSize:  DefaultEventBuffer,
		log:         log.Named("download"),
	}
}

// Active returns the running operation, if any.
func (s *Service) Active() (*Operation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.active != nil
}

// StartFetch validates url and starts a metadata fetch. The update check runs first.
func (s *Service) StartFetch(url string) (*Operation, error) {
	req := model.NewFetchRequest(url)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	op, ch, err := s.begin(req)
	if err != nil {
		return nil, err
	}
	go s.runFetch(op, ch)
	return op, nil
}

// StartDownload validates the request and starts a download into dir.
func (s *Service) StartDownload(url, dir string, format model.FormatChoice) (*Operation, error) {
	req := model.NewDownloadRequest(url, dir, format)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	op, ch, err := s.begin(req)
	if err != nil {
		return nil, err
	}
	go s.runDownload(op, ch)
	return op, nil
}

func (s *Service) begin(req model.OperationRequest) (*Operation, chan model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, nil, fmt.Errorf("%w: %s %s", ErrBusy, s.active.Kind, s.active.ID)
	}

	ch := make(chan model.Event, s.bufferSize)
	op := &Operation{
		ID:        generateOperationID(),
		Kind:      req.Kind,
		Request:   req,
		StartedAt: time.Now(),
		Events:    ch,
	}
	s.active = op

	s.log.Info("operation started", zap.String("id", op.ID), zap.String("kind", string(op.Kind)), zap.String("url", req.URL))
	return op, ch, nil
}

// finish releases the active slot and delivers the terminal event. The slot is
// released first so the interface can start the next operation as soon as it
// sees the terminal event.
func (s *Service) finish(op *Operation, ch chan<- model.Event, terminal model.Event) {
	s.mu.Lock()
	if s.active == op {
		s.active = nil
	}
	s.mu.Unlock()

	s.log.Info("operation finished", zap.String("id", op.ID), zap.Duration("elapsed", time.Since(op.StartedAt)))
	ch <- terminal
	close(ch)
}

func (s *Service) runFetch(op *Operation, ch chan model.Event) {
	ctx := context.Background()
	emit := sender(ch)

	path, err := s.resolveTool(ctx, emit)
	if err != nil {
		s.log.Warn("no usable yt-dlp", zap.String("id", op.ID), zap.Error(err))
		s.finish(op, ch, model.MetadataEvent{Err: err})
		return
	}

	meta, err := s.newTool(path).FetchMetadata(ctx, op.Request.URL, emit)
	if err != nil {
		s.log.Warn("metadata fetch failed", zap.String("id", op.ID), zap.Error(err))
		s.finish(op, ch, model.MetadataEvent{Err: err})
		return
	}
	s.finish(op, ch, model.MetadataEvent{Metadata: meta})
}

func (s *Service) runDownload(op *Operation, ch chan model.Event) {
	ctx := context.Background()
	emit := sender(ch)
	req := op.Request

	if err := platform.CreateDirectoryIfNotExists(req.Directory); err != nil {
		s.finish(op, ch, model.DownloadDoneEvent{Path: req.Directory, Err: fmt.Errorf("create output directory: %w", err)})
		return
	}

	path, err := s.newTool(s.currentToolPath()).Download(ctx, req.URL, req.Directory, req.Format, emit)
	if err != nil {
		s.log.Warn("download failed", zap.String("id", op.ID), zap.Error(err))
		s.finish(op, ch, model.DownloadDoneEvent{Path: req.Directory, Err: err})
		return
	}

	s.log.Info("download complete", zap.String("id", op.ID), zap.String("path", path))
	s.finish(op, ch, model.DownloadDoneEvent{Path: path})
}

// resolveTool runs the update check and remembers the executable it settles on.
func (s *Service) resolveTool(ctx context.Context, emit func(model.Event)) (string, error) {
	if s.provisioner == nil {
		return s.currentToolPath(), nil
	}

	emit(appLine("Checking for yt-dlp updates..."))
	res, err := s.provisioner.EnsureTool(ctx)
	if err != nil {
		return "", err
	}

	switch {
	case res.Updated && res.Verified != "":
		emit(appLine(fmt.Sprintf("Updated yt-dlp to %s", res.Verified)))
	case res.Updated:
		emit(appLine(fmt.Sprintf("Installed yt-dlp %s", res.Latest)))
	case res.Latest != "":
		emit(appLine(fmt.Sprintf("yt-dlp %s is up to date", res.Current)))
	}
	if res.Warning != nil {
		emit(appLine(fmt.Sprintf("Warning: %v", res.Warning)))
	}

	s.mu.Lock()
	if res.ToolPath != "" {
		s.toolPath = res.ToolPath
	}
	path := s.toolPath
	s.mu.Unlock()
	return path, nil
}

func (s *Service) currentToolPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toolPath
}

func sender(ch chan<- model.Event) func(model.Event) {
	return func(ev model.Event) {
		ch <- ev
	}
}

func appLine(text string) model.Event {
	return model.LogEvent{Line: model.LogLine{Origin: model.OriginApp, Text: text}}
}

// generateOperationID returns a time-ordered unique ID.
func generateOperationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(OperationIDPrefix+"%d", time.Now().UnixNano())
	}
	return OperationIDPrefix + id.String()
}
