package updater

import (
	"context"
	"runtime"
	"strings"
)

// UnknownVersion stands in for a version that could not be probed.
const UnknownVersion = "unknown"

// Release asset names per platform
const (
	AssetWindows      = "yt-dlp.exe"
	AssetMacOS        = "yt-dlp_macos"
	AssetLinux        = "yt-dlp_linux"
	AssetLinuxARM64   = "yt-dlp_linux_aarch64"
	AssetPlatformless = "yt-dlp"
)

// VersionFunc runs the version probe against the executable at path.
type VersionFunc func(ctx context.Context, path string) (string, error)

// CurrentVersion probes path and returns UnknownVersion on any failure.
func CurrentVersion(ctx context.Context, probe VersionFunc, path string) string {
	v, err := probe(ctx, path)
	v = strings.TrimSpace(v)
	if err != nil || v == "" {
		return UnknownVersion
	}
	return v
}

// NeedsUpdate reports whether current differs from latest. An empty or unknown
// current version always needs an update.
func NeedsUpdate(current, latest string) bool {
	return current == "" || current == UnknownVersion || current != latest
}

// AssetName returns the release asset for the given platform.
func AssetName(goos, goarch string) string {
	switch goos {
	case "windows":
		return AssetWindows
	case "darwin":
		return AssetMacOS
	case "linux":
		if goarch == "arm64" {
			return AssetLinuxARM64
		}
		return AssetLinux
	default:
		return AssetPlatformless
	}
}

// PlatformAssetName is AssetName for the running platform.
func PlatformAssetName() string {
	return AssetName(runtime.GOOS, runtime.GOARCH)
}
