package updater

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Locator reports where the executable lives and where updates go.
type Locator interface {
	Find() string
	ManagedPath() string
	Existing() (string, bool)
}

// Result describes one pass of the update flow.
type Result struct {
	Current  string // version before the check, or UnknownVersion
	Latest   string // tag of the latest release, empty when the feed was not reached
	Updated  bool
	Verified string // version reported after install
	ToolPath string // executable to run afterwards
	Warning  error  // non-fatal problem; the tool at ToolPath is still usable
}

// Updater runs the check-and-update flow.
type Updater struct {
	Feed         *Feed
	Installer    *Installer
	Locator      Locator
	Version      VersionFunc
	AssetName    string
	Enabled      bool
	CheckTimeout time.Duration

	log *zap.Logger
}

// New creates an Updater for the running platform.
func New(feed *Feed, installer *Installer, locator Locator, version VersionFunc, log *zap.Logger) *Updater {
	if log == nil {
		log = zap.NewNop()
	}
	return &Updater{
		Feed:         feed,
		Installer:    installer,
		Locator:      locator,
		Version:      version,
		AssetName:    PlatformAssetName(),
		Enabled:      true,
		CheckTimeout: DefaultCheckTimeout,
		log:          log.Named("updater"),
	}
}

// CheckAndUpdate compares the installed version with the latest release and
// installs the platform asset when they differ. A failed post-install version
// probe is reported in Result.Warning, not as an error.
func (u *Updater) CheckAndUpdate(ctx context.Context) (*Result, error) {
	toolPath := u.Locator.Find()
	current := CurrentVersion(ctx, u.Version, toolPath)
	res := &Result{Current: current, ToolPath: toolPath}

	feedCtx, cancel := context.WithTimeout(ctx, u.checkTimeout())
	rel, err := u.Feed.Latest(feedCtx)
	cancel()
	if err != nil {
		return res, err
	}
	res.Latest = rel.TagName

	if !NeedsUpdate(current, rel.TagName) {
		u.log.Info("yt-dlp is up to date", zap.String("version", current))
		return res, nil
	}

	asset, ok := rel.Asset(u.AssetName)
	if !ok {
		return res, &AssetNotFoundError{Name: u.AssetName, Tag: rel.TagName}
	}

	dest := u.Locator.ManagedPath()
	u.log.Info("updating yt-dlp",
		zap.String("current", current),
		zap.String("latest", rel.TagName),
		zap.String("asset", asset.Name),
		zap.String("dest", dest))

	if _, err := u.Installer.Install(ctx, asset.URL, dest); err != nil {
		return res, err
	}
	res.Updated = true
	res.ToolPath = dest

	verified, err := u.Version(ctx, dest)
	if err != nil || verified == "" {
		res.Warning = fmt.Errorf("installed yt-dlp %s did not report a version: %v", rel.TagName, err)
		u.log.Warn("post-install verification failed", zap.String("path", dest), zap.Error(err))
		return res, nil
	}
	res.Verified = verified
	return res, nil
}

// EnsureTool runs CheckAndUpdate and downgrades any failure to Result.Warning when
// an executable already exists. It fails with ErrNoTool only when there is none.
// With updates disabled it only resolves the executable path.
func (u *Updater) EnsureTool(ctx context.Context) (*Result, error) {
	if !u.Enabled {
		return &Result{Current: UnknownVersion, ToolPath: u.Locator.Find()}, nil
	}

	res, err := u.CheckAndUpdate(ctx)
	if err == nil {
		return res, nil
	}

	if path, ok := u.Locator.Existing(); ok {
		u.log.Warn("update check failed, using installed yt-dlp", zap.String("path", path), zap.Error(err))
		res.ToolPath = path
		res.Warning = err
		return res, nil
	}

	u.log.Error("update check failed and no yt-dlp is installed", zap.Error(err))
	return nil, fmt.Errorf("%w: %w", ErrNoTool, err)
}

func (u *Updater) checkTimeout() time.Duration {
	if u.CheckTimeout <= 0 {
		return DefaultCheckTimeout
	}
	return u.CheckTimeout
}
