package updater

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Installer defaults
const (
	DefaultInstallTimeout = 5 * time.Minute
	executablePerm        = 0755
	dirPerm               = 0755
)

// Installer downloads a release asset and installs it in place of the current executable.
type Installer struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string

	log *zap.Logger
}

// NewInstaller creates an Installer whose whole transfer is bounded by timeout.
func NewInstaller(timeout time.Duration, log *zap.Logger) *Installer {
	if timeout <= 0 {
		timeout = DefaultInstallTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Installer{
		Client:    &http.Client{},
		Timeout:   timeout,
		UserAgent: DefaultUserAgent,
		log:       log.Named("installer"),
	}
}

// Install fetches url and replaces dest with it. The body is buffered in full and
// written to a temporary file next to dest, which is then made executable and
// renamed over dest. An existing file is overwritten without confirmation.
func (i *Installer) Install(ctx context.Context, url, dest string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, i.Timeout)
	defer cancel()

	body, err := i.fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	i.log.Info("downloaded release asset", zap.String("url", url), zap.String("size", humanize.Bytes(uint64(len(body)))))

	if err := writeExecutable(dest, body); err != nil {
		return 0, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return 0, &VerificationError{Path: dest, Reason: err.Error()}
	}
	if info.Size() == 0 {
		return 0, &VerificationError{Path: dest, Reason: "installed file is empty"}
	}

	i.log.Info("installed yt-dlp", zap.String("path", dest), zap.String("size", humanize.Bytes(uint64(info.Size()))))
	return info.Size(), nil
}

func (i *Installer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if i.UserAgent != "" {
		req.Header.Set("User-Agent", i.UserAgent)
	}

	client := i.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if len(body) == 0 {
		return nil, &NetworkError{URL: url, Err: errEmptyBody}
	}
	return body, nil
}

func writeExecutable(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return &IOError{Op: "create temp file", Path: dir, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Chmod(tmpName, executablePerm); err != nil {
		cleanup()
		return &IOError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, dest); err != nil {
		cleanup()
		return &IOError{Op: "rename", Path: dest, Err: err}
	}
	return nil
}
