package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/app"
	"github.com/ytget/yt-grabber/internal/config"
	"github.com/ytget/yt-grabber/internal/download"
	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/platform"
	"github.com/ytget/yt-grabber/internal/ui"
	"github.com/ytget/yt-grabber/internal/updater"
	"github.com/ytget/yt-grabber/internal/ytdlp"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-grabber"
	AppName = "YT Grabber"
)

func main() {
	settings, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(settings.GetLogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting", zap.String("app", AppName), zap.String("version", version))

	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		log.Warn("failed to ensure downloads dir", zap.String("dir", downloadsDir), zap.Error(err))
	}

	locator := platform.NewToolLocator(settings.GetToolPath(), settings.GetToolName(), settings.GetToolDir())
	probe := func(ctx context.Context, path string) (string, error) {
		return ytdlp.New(path, log).Version(ctx)
	}

	upd := updater.New(
		updater.NewFeed(settings.GetFeedURL(), settings.GetCheckTimeout()),
		updater.NewInstaller(settings.GetInstallTimeout(), log),
		locator,
		probe,
		log,
	)
	upd.Enabled = settings.GetUpdateEnabled()
	upd.CheckTimeout = settings.GetCheckTimeout()

	svc := download.NewService(func(path string) download.Tool {
		return ytdlp.New(path, log)
	}, upd, locator.Find(), log)

	ctrl := app.NewController(svc, downloadsDir, settings.GetDownloadFormat(), log)

	a := fyneapp.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())

	w := a.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	w.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	root := ui.NewRootUI(w, ctrl, ui.NewLocalization(), settings.GetPollInterval(), log)
	if logo, err := ui.LoadLogoResource(); err == nil {
		w.SetIcon(logo)
	}
	root.Start()
	defer root.Stop()

	w.ShowAndRun()
}
