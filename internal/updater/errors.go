package updater

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-grabber/internal/model"
)

// ErrNoTool means the update flow failed and no executable exists to fall back on.
var ErrNoTool = fmt.Errorf("%w: yt-dlp is not installed and could not be downloaded", model.ErrInvalidInput)

// NetworkError is a failed or timed out request, or an unexpected HTTP status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError is a release feed body that is not the expected JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode release feed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError is a filesystem failure while installing.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// VerificationError is an installed file that failed the post-write check.
type VerificationError struct {
	Path   string
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verify %s: %s", e.Path, e.Reason)
}

// AssetNotFoundError means the release has no asset for this platform.
type AssetNotFoundError struct {
	Name string
	Tag  string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("release %s has no asset named %q", e.Tag, e.Name)
}

var errEmptyBody = errors.New("empty response body")
