package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/tubesave/tubesave/internal/config"
	"github.com/tubesave/tubesave/internal/fetch"
	"github.com/tubesave/tubesave/internal/ffmpeg"
	"github.com/tubesave/tubesave/internal/worker"
)

// Run builds the application services, wires them into the root UI, and
// blocks until the window closes.
func Run(cfg *config.Config, configPath string, log *zap.Logger, version string) {
	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(NewCompactTheme())
	if icon, err := LoadAppIcon(); err == nil {
		fyneApp.SetIcon(icon)
	}

	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	window.CenterOnScreen()

	provider := fetch.NewYouTube(cfg.Download.HTTPTimeout, log)
	processor := ffmpeg.NewService(cfg.FFmpeg.Binary, cfg.FFmpeg.ProbeBinary, log)
	workerSvc := worker.NewService(provider, processor, log)

	NewRootUI(window, cfg, configPath, provider, processor, workerSvc, log)

	log.Info("application started", zap.String("version", version))
	window.ShowAndRun()
}
