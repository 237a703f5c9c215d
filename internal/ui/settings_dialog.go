package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/tubesave/tubesave/internal/config"
)

// SettingsDialog edits the persisted configuration. Values are written back
// through config.Save so the next start picks them up without the GUI.
type SettingsDialog struct {
	cfg        *config.Config
	configPath string
	window     fyne.Window
	dialog     *dialog.ConfirmDialog
	onSaved    func()

	// UI components
	destinationEntry *widget.Entry
	ffmpegEntry      *widget.Entry
	audioFormatSel   *widget.Select
	revealCheck      *widget.Check
	logLevelSel      *widget.Select
}

// NewSettingsDialog creates a new settings dialog bound to cfg. onSaved fires
// after a successful save.
func NewSettingsDialog(cfg *config.Config, configPath string, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		cfg:        cfg,
		configPath: configPath,
		window:     window,
		onSaved:    onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	sd.destinationEntry = widget.NewEntry()
	sd.destinationEntry.SetPlaceHolder("Destination directory")

	browseBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	destinationRow := container.NewBorder(nil, nil, nil, browseBtn, sd.destinationEntry)

	sd.ffmpegEntry = widget.NewEntry()
	sd.ffmpegEntry.SetPlaceHolder("ffmpeg")

	sd.audioFormatSel = widget.NewSelect(config.SupportedAudioFormats, nil)

	sd.revealCheck = widget.NewCheck("Reveal file in folder when a download completes", nil)

	sd.logLevelSel = widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil)

	form := container.NewVBox(
		widget.NewLabel("Download Settings"),
		widget.NewSeparator(),

		widget.NewLabel("Destination Directory:"),
		destinationRow,

		widget.NewLabel("Audio Output Format:"),
		sd.audioFormatSel,

		sd.revealCheck,

		widget.NewSeparator(),
		widget.NewLabel("Tools and Diagnostics"),
		widget.NewSeparator(),

		widget.NewLabel("ffmpeg Binary:"),
		sd.ffmpegEntry,

		widget.NewLabel("Log Level (applies on restart):"),
		sd.logLevelSel,
	)

	sd.dialog = dialog.NewCustomConfirm(
		"Settings",
		"Save",
		"Cancel",
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.destinationEntry.SetText(sd.cfg.Download.DestinationDir)
	sd.ffmpegEntry.SetText(sd.cfg.FFmpeg.Binary)
	sd.audioFormatSel.SetSelected(sd.cfg.Download.AudioFormat)
	sd.revealCheck.SetChecked(sd.cfg.UI.RevealOnComplete)
	sd.logLevelSel.SetSelected(sd.cfg.Logging.Level)
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.destinationEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if sd.destinationEntry.Text != "" {
		sd.cfg.Download.DestinationDir = sd.destinationEntry.Text
	}
	if sd.ffmpegEntry.Text != "" {
		sd.cfg.FFmpeg.Binary = sd.ffmpegEntry.Text
	}
	if sd.audioFormatSel.Selected != "" {
		sd.cfg.Download.AudioFormat = sd.audioFormatSel.Selected
	}
	sd.cfg.UI.RevealOnComplete = sd.revealCheck.Checked
	if sd.logLevelSel.Selected != "" {
		sd.cfg.Logging.Level = sd.logLevelSel.Selected
	}

	if err := config.Save(sd.cfg, sd.configPath); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}

	dialog.ShowInformation("Settings", "Settings saved", sd.window)
}
