package download

import (
	"context"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/updater"
	"github.com/ytget/yt-grabber/internal/ytdlp"
)

// Supervisor defines the interface for the download service.
type Supervisor interface {
	StartFetch(url string) (*Operation, error)
	StartDownload(url, dir string, format model.FormatChoice) (*Operation, error)
	Active() (*Operation, bool)
}

// Tool is the subset of ytdlp.Client a worker needs.
type Tool interface {
	FetchMetadata(ctx context.Context, url string, emit ytdlp.Emitter) (*model.Metadata, error)
	Download(ctx context.Context, url, dir string, format model.FormatChoice, emit ytdlp.Emitter) (string, error)
}

// ToolFactory returns a Tool running the executable at path.
type ToolFactory func(path string) Tool

// Provisioner makes sure a usable executable exists before a fetch.
type Provisioner interface {
	EnsureTool(ctx context.Context) (*updater.Result, error)
}
