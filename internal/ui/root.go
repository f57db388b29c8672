package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/ytget/yt-grabber/internal/app"
	"github.com/ytget/yt-grabber/internal/model"
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	ctrl         *app.Controller
	localization *Localization
	log          *zap.Logger

	pollInterval time.Duration
	stop         chan struct{}
	stopOnce     sync.Once

	// Input screen
	urlEntry  *widget.Entry
	fetchBtn  *widget.Button
	inputView *fyne.Container

	// Loading screen
	loadingLabel *widget.Label
	loadingView  *fyne.Container

	// Metadata screen
	titleLabel    *widget.Label
	durationLabel *widget.Label
	uploaderLabel *widget.Label
	viewsLabel    *widget.Label
	formatLabel   *widget.Label
	formatRadio   *widget.RadioGroup
	dirLabel      *widget.Label
	dirEntry      *widget.Entry
	browseBtn     *widget.Button
	downloadBtn   *widget.Button
	backBtn       *widget.Button
	metadataView  *fyne.Container

	// Downloading screen
	downloadTitle   *widget.Label
	progressBar     *widget.ProgressBar
	statusLabel     *widget.Label
	downloadingView *fyne.Container

	// Success screen
	successTitle *widget.Label
	successLabel *widget.Label
	openBtn      *widget.Button
	anotherBtn   *widget.Button
	successView  *fyne.Container

	// Error screen
	errorTitle *widget.Label
	errorLabel *widget.Label
	retryBtn   *widget.Button
	errorView  *fyne.Container

	// Console
	console      *widget.List
	consoleLines []model.LogLine
	consoleCard  *widget.Card
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, ctrl *app.Controller, localization *Localization, pollInterval time.Duration, log *zap.Logger) *RootUI {
	if localization == nil {
		localization = NewLocalization()
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}

	ui := &RootUI{
		window:       window,
		ctrl:         ctrl,
		localization: localization,
		log:          log.Named("ui"),
		pollInterval: pollInterval,
		stop:         make(chan struct{}),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	ui.createMenu()
	ui.render()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) { ui.onFetch() }
	ui.fetchBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyFetch), theme.SearchIcon(), ui.onFetch)
	ui.fetchBtn.Importance = widget.HighImportance

	header := ui.createHeader()
	ui.inputView = container.NewVBox(
		container.NewBorder(nil, nil, nil, ui.fetchBtn, ui.urlEntry),
	)

	ui.loadingLabel = widget.NewLabel(ui.localization.GetText(KeyFetching))
	ui.loadingView = container.NewVBox(ui.loadingLabel, widget.NewProgressBarInfinite())

	ui.setupMetadataView()
	ui.setupDownloadingView()
	ui.setupFinishedViews()
	ui.setupConsole()

	screens := container.NewStack(
		ui.inputView,
		ui.loadingView,
		ui.metadataView,
		ui.downloadingView,
		ui.successView,
		ui.errorView,
	)

	content := container.NewBorder(
		container.NewVBox(header, widget.NewSeparator()),
		ui.consoleCard,
		nil, nil,
		container.NewPadded(container.NewVBox(screens)),
	)

	ui.window.SetContent(content)
	ui.window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	ui.window.SetOnClosed(ui.Stop)
}

func (ui *RootUI) createHeader() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(ui.localization.GetText(KeyAppTitle), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	logo, err := LoadLogoResource()
	if err != nil {
		ui.log.Debug("logo not available", zap.Error(err))
		return title
	}
	img := canvas.NewImageFromResource(logo)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
	return container.NewHBox(img, title)
}

func (ui *RootUI) setupMetadataView() {
	ui.titleLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.durationLabel = widget.NewLabel("")
	ui.uploaderLabel = widget.NewLabel("")
	ui.viewsLabel = widget.NewLabel("")

	labels := make([]string, 0, len(model.FormatChoices()))
	for _, f := range model.FormatChoices() {
		labels = append(labels, f.Label())
	}
	ui.formatLabel = widget.NewLabel(ui.localization.GetText(KeyFormat))
	ui.formatRadio = widget.NewRadioGroup(labels, ui.onFormatChanged)
	ui.formatRadio.Horizontal = true
	ui.formatRadio.Required = true

	ui.dirLabel = widget.NewLabel(ui.localization.GetText(KeyOutputDirectory))
	ui.dirEntry = widget.NewEntry()
	ui.dirEntry.OnChanged = ui.ctrl.SetDirectory
	ui.browseBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyBrowse), theme.FolderOpenIcon(), ui.onBrowse)

	ui.downloadBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyDownload), theme.DownloadIcon(), ui.onDownload)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.backBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyBack), theme.NavigateBackIcon(), ui.onReset)

	ui.metadataView = container.NewVBox(
		ui.titleLabel,
		container.NewGridWithColumns(3, ui.durationLabel, ui.uploaderLabel, ui.viewsLabel),
		widget.NewSeparator(),
		ui.formatLabel,
		ui.formatRadio,
		ui.dirLabel,
		container.NewBorder(nil, nil, nil, ui.browseBtn, ui.dirEntry),
		container.NewHBox(ui.backBtn, layout.NewSpacer(), ui.downloadBtn),
	)
}

func (ui *RootUI) setupDownloadingView() {
	ui.downloadTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.downloadTitle.Wrapping = fyne.TextWrapWord
	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.TextFormatter = func() string {
		return fmt.Sprintf(ProgressLabelFormat, model.Progress{Fraction: ui.progressBar.Value}.Percent())
	}
	ui.statusLabel = widget.NewLabel("")
	ui.downloadingView = container.NewVBox(ui.downloadTitle, ui.progressBar, ui.statusLabel)
}

func (ui *RootUI) setupFinishedViews() {
	ui.successLabel = widget.NewLabel("")
	ui.successLabel.Wrapping = fyne.TextWrapWord
	ui.openBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyOpenFolder), theme.FolderIcon(), ui.onOpenFolder)
	ui.anotherBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyDownloadAnother), theme.ContentAddIcon(), ui.onReset)
	ui.anotherBtn.Importance = widget.HighImportance
	ui.successTitle = widget.NewLabelWithStyle(IconSuccess+" "+ui.localization.GetText(KeyDownloadDone), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.successView = container.NewVBox(
		ui.successTitle,
		ui.successLabel,
		container.NewHBox(ui.openBtn, ui.anotherBtn),
	)

	ui.errorTitle = widget.NewLabelWithStyle(IconError+" "+ui.localization.GetText(KeyErrorTitle), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	ui.errorLabel = widget.NewLabel("")
	ui.errorLabel.Wrapping = fyne.TextWrapWord
	ui.errorLabel.Importance = widget.DangerImportance
	ui.retryBtn = widget.NewButtonWithIcon(ui.localization.GetText(KeyTryAgain), theme.ViewRefreshIcon(), ui.onReset)
	ui.errorView = container.NewVBox(ui.errorTitle, ui.errorLabel, ui.retryBtn)
}

func (ui *RootUI) setupConsole() {
	ui.console = widget.NewList(
		func() int { return len(ui.consoleLines) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.TextStyle = fyne.TextStyle{Monospace: true}
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(ui.consoleLines) {
				return
			}
			line := ui.consoleLines[id]
			label := item.(*widget.Label)
			label.Importance = widget.MediumImportance
			if line.Origin == model.OriginStderr {
				label.Importance = widget.DangerImportance
			}
			label.SetText(line.String())
		},
	)
	scroll := container.NewGridWrap(fyne.NewSize(ConsoleMinWidth, ConsoleHeight), ui.console)
	ui.consoleCard = widget.NewCard("", ui.localization.GetText(KeyConsole), scroll)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		item := fyne.NewMenuItem(name, func() { ui.onLanguageChange(langCode) })
		item.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, item)
	}

	quit := fyne.NewMenuItem(ui.localization.GetText(KeyQuit), func() { ui.window.Close() })
	quit.IsQuit = true

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), quit),
		languageMenu,
	))
}

// onLanguageChange switches the language for this run only.
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

func (ui *RootUI) refreshUITexts() {
	l := ui.localization
	ui.window.SetTitle(l.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(l.GetText(KeyEnterURL))
	ui.fetchBtn.SetText(l.GetText(KeyFetch))
	ui.loadingLabel.SetText(l.GetText(KeyFetching))
	ui.formatLabel.SetText(l.GetText(KeyFormat))
	ui.dirLabel.SetText(l.GetText(KeyOutputDirectory))
	ui.browseBtn.SetText(l.GetText(KeyBrowse))
	ui.downloadBtn.SetText(l.GetText(KeyDownload))
	ui.backBtn.SetText(l.GetText(KeyBack))
	ui.successTitle.SetText(IconSuccess + " " + l.GetText(KeyDownloadDone))
	ui.openBtn.SetText(l.GetText(KeyOpenFolder))
	ui.anotherBtn.SetText(l.GetText(KeyDownloadAnother))
	ui.errorTitle.SetText(IconError + " " + l.GetText(KeyErrorTitle))
	ui.retryBtn.SetText(l.GetText(KeyTryAgain))
	ui.consoleCard.SetSubTitle(l.GetText(KeyConsole))
	ui.render()
}

// Start begins polling the controller once per frame. Each poll runs on the Fyne
// main goroutine.
func (ui *RootUI) Start() {
	go func() {
		ticker := time.NewTicker(ui.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ui.stop:
				return
			case <-ticker.C:
				fyne.Do(ui.tick)
			}
		}
	}()
}

// Stop ends polling. Safe to call more than once.
func (ui *RootUI) Stop() {
	ui.stopOnce.Do(func() { close(ui.stop) })
}

func (ui *RootUI) tick() {
	if ui.ctrl.Poll() {
		ui.render()
	}
}

func (ui *RootUI) onFetch() {
	ui.ctrl.Fetch(ui.urlEntry.Text)
	ui.render()
}

func (ui *RootUI) onDownload() {
	ui.ctrl.SetDirectory(ui.dirEntry.Text)
	ui.ctrl.Download()
	ui.render()
}

func (ui *RootUI) onReset() {
	ui.ctrl.Reset()
	ui.render()
}

func (ui *RootUI) onFormatChanged(label string) {
	for _, f := range model.FormatChoices() {
		if f.Label() == label {
			ui.ctrl.SetFormat(f)
			return
		}
	}
}

func (ui *RootUI) onBrowse() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if dir == nil {
			return
		}
		ui.dirEntry.SetText(dir.Path())
		ui.ctrl.SetDirectory(dir.Path())
	}, ui.window)
}

func (ui *RootUI) onOpenFolder() {
	if err := ui.ctrl.OpenResult(); err != nil {
		ui.log.Warn("failed to open folder", zap.Error(err))
		widget.ShowPopUp(widget.NewLabel(ui.localization.GetText(KeyErrorOpeningDir)+": "+err.Error()), ui.window.Canvas())
	}
}

// render shows the screen for the current state and fills it in.
func (ui *RootUI) render() {
	state := ui.ctrl.State()

	screens := map[model.StateKind]*fyne.Container{
		model.StateInput:       ui.inputView,
		model.StateLoading:     ui.loadingView,
		model.StateHasMetadata: ui.metadataView,
		model.StateDownloading: ui.downloadingView,
		model.StateSuccess:     ui.successView,
		model.StateError:       ui.errorView,
	}
	for kind, view := range screens {
		if kind == state.Kind {
			view.Show()
		} else {
			view.Hide()
		}
	}

	switch state.Kind {
	case model.StateHasMetadata:
		ui.renderMetadata(state.Metadata)
	case model.StateDownloading:
		if state.Metadata != nil {
			ui.downloadTitle.SetText(IconVideo + " " + state.Metadata.Title)
		}
		ui.progressBar.SetValue(state.Progress.Clamped())
		ui.statusLabel.SetText(state.Progress.Status)
	case model.StateSuccess:
		ui.successLabel.SetText(state.Message)
	case model.StateError:
		ui.errorLabel.SetText(state.Message)
	}

	ui.renderConsole(state.Kind)
}

func (ui *RootUI) renderMetadata(m *model.Metadata) {
	if m == nil {
		return
	}
	ui.titleLabel.SetText(IconVideo + " " + m.Title)
	ui.durationLabel.SetText(ui.localization.GetText(KeyDuration) + ": " + orDash(m.Duration))
	ui.uploaderLabel.SetText(ui.localization.GetText(KeyUploader) + ": " + orDash(m.Uploader))
	ui.viewsLabel.SetText(ui.localization.GetText(KeyViews) + ": " + orDash(m.Views()))

	ui.formatRadio.SetSelected(ui.ctrl.Format().Label())
	if ui.dirEntry.Text != ui.ctrl.Directory() {
		ui.dirEntry.SetText(ui.ctrl.Directory())
	}
}

func (ui *RootUI) renderConsole(kind model.StateKind) {
	if !kind.IsBusy() {
		ui.consoleCard.Hide()
		return
	}
	ui.consoleLines = ui.ctrl.Logs()
	ui.consoleCard.Show()
	ui.console.Refresh()
	if n := len(ui.consoleLines); n > 0 {
		ui.console.ScrollToBottom()
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return DashPlaceholder
	}
	return s
}
