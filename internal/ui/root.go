package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/tubesave/tubesave/internal/config"
	"github.com/tubesave/tubesave/internal/event"
	"github.com/tubesave/tubesave/internal/fetch"
	"github.com/tubesave/tubesave/internal/ffmpeg"
	"github.com/tubesave/tubesave/internal/model"
	"github.com/tubesave/tubesave/internal/platform"
	"github.com/tubesave/tubesave/internal/worker"
)

// RootUI owns all presentation state for the single-job session: the current
// phase, the loaded catalog, the widget set, and the event queue shared with
// the worker. All widget mutation happens on the UI thread; the poll
// goroutine hands event batches to fyne.Do.
type RootUI struct {
	window fyne.Window
	log    *zap.Logger

	cfg        *config.Config
	configPath string

	provider  fetch.Provider
	processor ffmpeg.Processor
	worker    *worker.Service

	phase     model.Phase
	catalog   *model.Catalog
	queue     *event.Queue
	jobID     string
	cancelJob context.CancelFunc

	pollTicker *time.Ticker
	pollDone   chan struct{}

	// Widgets
	urlEntry     *widget.Entry
	fetchBtn     *widget.Button
	titleLabel   *widget.Label
	modeRadio    *widget.RadioGroup
	videoSelect  *widget.Select
	audioSelect  *widget.Select
	formatSelect *widget.Select
	destEntry    *widget.Entry
	startBtn     *widget.Button
	progress     *ProgressPanel
	statusLabel  *widget.Label

	// Streams mirrored into the pickers, index-aligned with their options
	videoStreams []model.StreamDescriptor
	audioStreams []model.StreamDescriptor
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, cfg *config.Config, configPath string, provider fetch.Provider, processor ffmpeg.Processor, workerSvc *worker.Service, log *zap.Logger) *RootUI {
	ui := &RootUI{
		window:     window,
		log:        log,
		cfg:        cfg,
		configPath: configPath,
		provider:   provider,
		processor:  processor,
		worker:     workerSvc,
		phase:      model.PhaseIdle,
		queue:      event.NewQueue(),
	}

	ui.setupUI()
	ui.applyPhase()
	ui.startPolling()
	ui.checkFFmpeg()

	window.SetCloseIntercept(ui.onClose)
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder("Paste a YouTube link")
	ui.urlEntry.Validator = ui.validateURL
	// Enter in the URL field triggers the fetch
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onFetchClick()
	}

	ui.fetchBtn = widget.NewButton("Fetch", ui.onFetchClick)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	logo, err := LoadAppIcon()
	var logoImage *canvas.Image
	if err == nil {
		logoImage = canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
	}

	var topPanel *fyne.Container
	if logoImage != nil {
		topPanel = container.NewBorder(nil, nil, container.NewHBox(logoImage, settingsBtn), ui.fetchBtn, ui.urlEntry)
	} else {
		topPanel = container.NewBorder(nil, nil, container.NewHBox(settingsBtn), ui.fetchBtn, ui.urlEntry)
	}

	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.Truncation = fyne.TextTruncateEllipsis

	ui.modeRadio = widget.NewRadioGroup([]string{OptionAudioOnly, OptionVideoOnly, OptionMergeBoth}, func(string) {
		ui.applySelectors()
	})
	ui.modeRadio.Horizontal = true
	ui.modeRadio.SetSelected(OptionMergeBoth)

	ui.videoSelect = widget.NewSelect(nil, nil)
	ui.videoSelect.PlaceHolder = "Video quality"
	ui.audioSelect = widget.NewSelect(nil, nil)
	ui.audioSelect.PlaceHolder = "Audio bitrate"

	ui.formatSelect = widget.NewSelect(config.SupportedAudioFormats, nil)
	ui.formatSelect.SetSelected(ui.cfg.Download.AudioFormat)

	ui.destEntry = widget.NewEntry()
	ui.destEntry.SetText(ui.defaultDestination())
	browseBtn := widget.NewButton("Browse", ui.onBrowseDestination)
	destRow := container.NewBorder(nil, nil, nil, browseBtn, ui.destEntry)

	ui.startBtn = widget.NewButton("Start download", ui.onStartClick)
	ui.startBtn.Importance = widget.HighImportance

	ui.progress = NewProgressPanel()

	ui.statusLabel = widget.NewLabel("Idle")
	ui.statusLabel.Alignment = fyne.TextAlignLeading

	form := container.NewVBox(
		ui.titleLabel,
		ui.modeRadio,
		widget.NewLabel("Video quality:"),
		ui.videoSelect,
		widget.NewLabel("Audio bitrate:"),
		ui.audioSelect,
		widget.NewLabel("Audio output format:"),
		ui.formatSelect,
		widget.NewLabel("Destination:"),
		destRow,
		ui.startBtn,
		widget.NewSeparator(),
		ui.progress.Container(),
		ui.statusLabel,
	)

	content := container.NewBorder(topPanel, nil, nil, nil, form)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem("Settings", ui.onShowSettings)

	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu("File", settingsItem),
	)

	ui.window.SetMainMenu(mainMenu)
}

// validateURL validates the entered URL
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil // Empty is allowed
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return err
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}

	return nil
}

// defaultDestination resolves the initial destination directory.
func (ui *RootUI) defaultDestination() string {
	if dir := ui.cfg.Download.DestinationDir; dir != "" {
		return dir
	}
	if dir, err := platform.HomeDownloadsDir(); err == nil {
		return dir
	}
	return ""
}

// applyPhase syncs widget enabled state with the session phase.
func (ui *RootUI) applyPhase() {
	if ui.phase.CanFetch() {
		ui.fetchBtn.Enable()
	} else {
		ui.fetchBtn.Disable()
	}

	if ui.phase.CanStart() {
		ui.startBtn.Enable()
	} else {
		ui.startBtn.Disable()
	}

	if ui.phase.Busy() {
		ui.modeRadio.Disable()
		ui.videoSelect.Disable()
		ui.audioSelect.Disable()
		ui.formatSelect.Disable()
		ui.destEntry.Disable()
	} else {
		ui.modeRadio.Enable()
		ui.destEntry.Enable()
		ui.applySelectors()
	}
}

// applySelectors enables the pickers the current mode actually needs.
func (ui *RootUI) applySelectors() {
	if ui.phase.Busy() {
		return
	}
	mode := ui.currentMode()

	if mode.NeedsVideo() && len(ui.videoStreams) > 0 {
		ui.videoSelect.Enable()
	} else {
		ui.videoSelect.Disable()
	}

	if mode.NeedsAudio() && len(ui.audioStreams) > 0 {
		ui.audioSelect.Enable()
	} else {
		ui.audioSelect.Disable()
	}

	if mode == model.ModeAudioOnly {
		ui.formatSelect.Enable()
	} else {
		ui.formatSelect.Disable()
	}
}

// currentMode maps the radio selection to a download mode.
func (ui *RootUI) currentMode() model.Mode {
	switch ui.modeRadio.Selected {
	case OptionAudioOnly:
		return model.ModeAudioOnly
	case OptionVideoOnly:
		return model.ModeVideoOnly
	default:
		return model.ModeMergeBoth
	}
}

// onFetchClick handles the fetch button click
func (ui *RootUI) onFetchClick() {
	if !ui.phase.CanFetch() {
		return
	}

	rawURL := strings.TrimSpace(ui.urlEntry.Text)
	if rawURL == "" {
		ui.statusLabel.SetText("Enter a video URL first")
		return
	}
	if err := ui.validateURL(rawURL); err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	ui.phase = model.PhaseFetching
	ui.applyPhase()
	ui.statusLabel.SetText("Fetching stream list…")
	ui.log.Info("fetching catalog", zap.String("url", rawURL))

	go func() {
		catalog, err := ui.provider.Fetch(context.Background(), rawURL)
		fyne.Do(func() {
			if err != nil {
				ui.phase = model.PhaseIdle
				ui.applyPhase()
				ui.statusLabel.SetText("Fetch failed")
				ui.log.Warn("catalog fetch failed", zap.Error(err))
				dialog.ShowError(err, ui.window)
				return
			}
			ui.applyCatalog(catalog)
		})
	}()
}

// applyCatalog installs a freshly fetched catalog and populates the pickers.
func (ui *RootUI) applyCatalog(catalog *model.Catalog) {
	ui.catalog = catalog
	ui.titleLabel.SetText(catalogHeadline(catalog))

	ui.videoStreams = catalog.VideoOnly()
	ui.audioStreams = catalog.AudioOnly()
	ui.videoSelect.SetOptions(streamLabels(ui.videoStreams))
	ui.audioSelect.SetOptions(streamLabels(ui.audioStreams))
	if len(ui.videoStreams) > 0 {
		ui.videoSelect.SetSelectedIndex(0)
	}
	if len(ui.audioStreams) > 0 {
		ui.audioSelect.SetSelectedIndex(0)
	}

	ui.phase = model.PhaseReady
	ui.applyPhase()
	ui.statusLabel.SetText(fmt.Sprintf("%d streams available", len(catalog.Streams)))
	ui.log.Info("catalog loaded",
		zap.String("video_id", catalog.VideoID),
		zap.Int("streams", len(catalog.Streams)))
}

func catalogHeadline(c *model.Catalog) string {
	if c.Author == "" {
		return c.Title
	}
	return c.Title + " · " + c.Author
}

func streamLabels(streams []model.StreamDescriptor) []string {
	labels := make([]string, 0, len(streams))
	for _, s := range streams {
		labels = append(labels, s.Label())
	}
	return labels
}

// selectedStream returns a copy of the stream behind a picker selection.
func selectedStream(sel *widget.Select, streams []model.StreamDescriptor) *model.StreamDescriptor {
	idx := sel.SelectedIndex()
	if idx < 0 || idx >= len(streams) {
		return nil
	}
	s := streams[idx]
	return &s
}

// onStartClick validates the session and hands one job to the worker.
func (ui *RootUI) onStartClick() {
	if !ui.phase.CanStart() || ui.catalog == nil {
		return
	}

	destDir := strings.TrimSpace(ui.destEntry.Text)
	if err := ui.prepareDestination(destDir); err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	mode := ui.currentMode()
	baseName := platform.SanitizeFileName(ui.catalog.Title)
	if baseName == "" {
		baseName = model.DefaultBaseName
	}

	job := model.DownloadJob{
		ID:          worker.NewJobID(),
		URL:         ui.catalog.URL,
		Title:       ui.catalog.Title,
		Duration:    ui.catalog.Duration,
		Mode:        mode,
		DestDir:     destDir,
		AudioFormat: ui.formatSelect.Selected,
		BaseName:    baseName,
	}
	if mode.NeedsVideo() {
		job.Video = selectedStream(ui.videoSelect, ui.videoStreams)
	}
	if mode.NeedsAudio() {
		job.Audio = selectedStream(ui.audioSelect, ui.audioStreams)
	}

	if err := job.Validate(); err != nil {
		dialog.ShowError(err, ui.window)
		return
	}

	ui.jobID = job.ID
	ui.phase = model.PhaseDownloading
	ui.applyPhase()
	ui.progress.Reset()
	ui.statusLabel.SetText("Starting download…")
	ui.log.Info("starting job",
		zap.String("job_id", job.ID),
		zap.String("mode", mode.String()),
		zap.String("output", job.OutputPath()))

	ctx, cancel := context.WithCancel(context.Background())
	ui.cancelJob = cancel
	go ui.worker.Run(ctx, job, ui.queue.Push)
}

// prepareDestination ensures the directory exists and is writable.
func (ui *RootUI) prepareDestination(destDir string) error {
	if destDir == "" {
		return &model.ConfigurationError{Field: "destination", Reason: "no destination directory selected"}
	}
	if err := platform.EnsureDir(destDir); err != nil {
		return &model.ConfigurationError{Field: "destination", Reason: err.Error()}
	}
	if err := platform.CheckWritable(destDir); err != nil {
		return &model.ConfigurationError{Field: "destination", Reason: err.Error()}
	}
	return nil
}

// onBrowseDestination handles destination directory browsing
func (ui *RootUI) onBrowseDestination() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.destEntry.SetText(uri.Path())
	}, ui.window)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.cfg, ui.configPath, ui.window, func() {
		// Pick up the saved defaults for the next job
		ui.destEntry.SetText(ui.defaultDestination())
		ui.formatSelect.SetSelected(ui.cfg.Download.AudioFormat)
	}).Show()
}

// startPolling launches the queue poll loop. Each tick drains pending events
// and applies the whole batch on the UI thread.
func (ui *RootUI) startPolling() {
	interval := ui.cfg.UI.PollInterval
	if interval <= 0 {
		interval = PollIntervalFallback
	}
	ui.pollTicker = time.NewTicker(interval)
	ui.pollDone = make(chan struct{})

	go func() {
		for {
			select {
			case <-ui.pollTicker.C:
				batch := ui.queue.Drain()
				if len(batch) == 0 {
					continue
				}
				fyne.Do(func() {
					for _, e := range batch {
						ui.applyEvent(e)
					}
				})
			case <-ui.pollDone:
				return
			}
		}
	}()
}

// applyEvent folds one worker event into the widgets. Runs on the UI thread.
func (ui *RootUI) applyEvent(e event.Event) {
	switch ev := e.(type) {
	case event.AudioProgress:
		ui.progress.SetAudio(ev.Fraction)
	case event.VideoProgress:
		ui.progress.SetVideo(ev.Fraction)
	case event.ProcessingProgress:
		if ui.phase == model.PhaseDownloading {
			ui.phase = model.PhaseProcessing
		}
		if ev.Indeterminate {
			ui.progress.SetProcessingIndeterminate()
		} else {
			ui.progress.SetProcessing(ev.Fraction)
		}
	case event.StatusText:
		ui.statusLabel.SetText(ev.Text)
	case event.Completed:
		ui.onCompleted(ev.OutputPath)
	case event.Failed:
		ui.onFailed(ev.Err)
	}
}

// onCompleted finishes a successful job: notification, optional reveal, and
// the session returns to Ready with the catalog still loaded.
func (ui *RootUI) onCompleted(outputPath string) {
	ui.log.Info("job completed", zap.String("job_id", ui.jobID), zap.String("output", outputPath))
	ui.finishJob()
	ui.statusLabel.SetText("Saved " + outputPath)

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   "Download complete",
		Content: outputPath,
	})

	if ui.cfg.UI.RevealOnComplete {
		if err := platform.RevealInFileManager(outputPath); err != nil {
			ui.log.Warn("reveal failed", zap.Error(err))
		}
		return
	}

	dialog.ShowConfirm("Download complete", "Saved to "+outputPath+"\n\nReveal in folder?", func(ok bool) {
		if !ok {
			return
		}
		if err := platform.RevealInFileManager(outputPath); err != nil {
			ui.log.Warn("reveal failed", zap.Error(err))
		}
	}, ui.window)
}

// onFailed surfaces a failed job and returns the session to Ready.
func (ui *RootUI) onFailed(err error) {
	ui.log.Warn("job failed", zap.String("job_id", ui.jobID), zap.Error(err))
	ui.finishJob()
	ui.progress.StopIndeterminate()
	ui.statusLabel.SetText("Download failed")
	dialog.ShowError(err, ui.window)
}

// finishJob releases the job context and restores the pre-job phase.
func (ui *RootUI) finishJob() {
	if ui.cancelJob != nil {
		ui.cancelJob()
		ui.cancelJob = nil
	}
	ui.jobID = ""
	if ui.catalog != nil {
		ui.phase = model.PhaseReady
	} else {
		ui.phase = model.PhaseIdle
	}
	ui.applyPhase()
}

// checkFFmpeg verifies the ffmpeg binary once at startup. A missing tool is
// not fatal: video-only downloads still work without it.
func (ui *RootUI) checkFFmpeg() {
	go func() {
		version, err := ui.processor.Version(context.Background())
		if err != nil {
			ui.log.Warn("ffmpeg not available", zap.Error(err))
			fyne.Do(func() {
				dialog.ShowInformation("ffmpeg missing",
					"ffmpeg was not found. Audio conversion and merging will fail until it is installed.",
					ui.window)
			})
			return
		}
		ui.log.Info("ffmpeg detected", zap.String("version", version))
	}()
}

// onClose aborts any running job before the window closes.
func (ui *RootUI) onClose() {
	if ui.cancelJob != nil {
		ui.cancelJob()
	}
	ui.worker.Abort()
	ui.pollTicker.Stop()
	close(ui.pollDone)
	ui.window.Close()
}
