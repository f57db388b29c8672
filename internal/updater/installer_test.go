package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func assetServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInstaller_Install(t *testing.T) {
	srv := assetServer(t, "#!/bin/sh\necho 2024.08.06\n", http.StatusOK)
	dest := filepath.Join(t.TempDir(), "tools", "yt-dlp")

	size, err := NewInstaller(time.Second, zaptest.NewLogger(t)).Install(context.Background(), srv.URL, dest)
	require.NoError(t, err)
	require.EqualValues(t, len("#!/bin/sh\necho 2024.08.06\n"), size)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "#!/bin/sh\necho 2024.08.06\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(dest)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestInstaller_OverwritesExisting(t *testing.T) {
	srv := assetServer(t, "new binary", http.StatusOK)
	dest := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(dest, []byte("old binary"), 0755))

	_, err := NewInstaller(time.Second, zaptest.NewLogger(t)).Install(context.Background(), srv.URL, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "new binary", string(data))
}

func TestInstaller_Errors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := assetServer(t, "not found", http.StatusNotFound)
		_, err := NewInstaller(time.Second, nil).Install(context.Background(), srv.URL, filepath.Join(t.TempDir(), "yt-dlp"))

		var ne *NetworkError
		require.ErrorAs(t, err, &ne)
	})

	t.Run("empty body keeps the existing file", func(t *testing.T) {
		srv := assetServer(t, "", http.StatusOK)
		dest := filepath.Join(t.TempDir(), "yt-dlp")
		require.NoError(t, os.WriteFile(dest, []byte("old binary"), 0755))

		_, err := NewInstaller(time.Second, nil).Install(context.Background(), srv.URL, dest)
		var ne *NetworkError
		require.ErrorAs(t, err, &ne)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		require.Equal(t, "old binary", string(data))
	})

	t.Run("unwritable destination", func(t *testing.T) {
		srv := assetServer(t, "binary", http.StatusOK)
		parent := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))

		_, err := NewInstaller(time.Second, nil).Install(context.Background(), srv.URL, filepath.Join(parent, "yt-dlp"))
		var ioe *IOError
		require.ErrorAs(t, err, &ioe)
	})
}
