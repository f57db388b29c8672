package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned for requests rejected before any process or network activity.
var ErrInvalidInput = errors.New("invalid input")

// OperationKind distinguishes the two operations a worker can run.
type OperationKind string

const (
	OperationFetch    OperationKind = "fetch"
	OperationDownload OperationKind = "download"
)

var videoURLRegex = regexp.MustCompile(`^(https?://)?(www\.|m\.)?(youtube\.com|youtu\.be)/.+`)

// OperationRequest is immutable once created and owned by the worker that executes it.
type OperationRequest struct {
	Kind      OperationKind `validate:"required,oneof=fetch download"`
	URL       string        `validate:"required,videourl"`
	Directory string        `validate:"required_if=Kind download"`
	Format    FormatChoice  `validate:"omitempty,oneof=mp4 mp3"`
}

// NewFetchRequest builds a metadata request for url.
func NewFetchRequest(url string) OperationRequest {
	return OperationRequest{Kind: OperationFetch, URL: strings.TrimSpace(url)}
}

// NewDownloadRequest builds a download request.
func NewDownloadRequest(url, dir string, format FormatChoice) OperationRequest {
	return OperationRequest{
		Kind:      OperationDownload,
		URL:       strings.TrimSpace(url),
		Directory: strings.TrimSpace(dir),
		Format:    format,
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("videourl", func(fl validator.FieldLevel) bool {
			return IsVideoURL(fl.Field().String())
		})
	})
	return validate
}

// IsVideoURL reports whether s points at the supported video site.
func IsVideoURL(s string) bool {
	return videoURLRegex.MatchString(strings.TrimSpace(s))
}

// Validate checks the request. Every failure wraps ErrInvalidInput.
func (r OperationRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		if r.Kind == OperationDownload && r.Format == "" {
			return fmt.Errorf("%w: please choose a download format", ErrInvalidInput)
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch fe := verrs[0]; fe.Field() {
	case "URL":
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: please enter a URL", ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid YouTube URL", ErrInvalidInput)
	case "Directory":
		return fmt.Errorf("%w: please choose an output directory", ErrInvalidInput)
	case "Format":
		return fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, r.Format)
	default:
		return fmt.Errorf("%w: %s failed on %s", ErrInvalidInput, fe.Field(), fe.Tag())
	}
}
