package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ProgressPanel groups the three per-stage indicators: audio transfer, video
// transfer, and post-processing. The processing row swaps between a regular
// bar and an infinite spinner when no meaningful fraction exists.
type ProgressPanel struct {
	audioBar       *widget.ProgressBar
	videoBar       *widget.ProgressBar
	processingBar  *widget.ProgressBar
	processingSpin *widget.ProgressBarInfinite

	box *fyne.Container
}

// NewProgressPanel creates the panel with all indicators at zero.
func NewProgressPanel() *ProgressPanel {
	p := &ProgressPanel{
		audioBar:       widget.NewProgressBar(),
		videoBar:       widget.NewProgressBar(),
		processingBar:  widget.NewProgressBar(),
		processingSpin: widget.NewProgressBarInfinite(),
	}
	p.processingSpin.Stop()
	p.processingSpin.Hide()

	// Fixed width for the name column keeps the three bars aligned
	nameColumn := func(name string) fyne.CanvasObject {
		label := widget.NewLabel(name)
		spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
		spacer.SetMinSize(fyne.NewSize(ProgressNameWidth, label.MinSize().Height))
		return container.NewStack(spacer, label)
	}

	processingRow := container.NewStack(p.processingBar, p.processingSpin)
	p.box = container.NewVBox(
		container.NewBorder(nil, nil, nameColumn("Audio"), nil, p.audioBar),
		container.NewBorder(nil, nil, nameColumn("Video"), nil, p.videoBar),
		container.NewBorder(nil, nil, nameColumn("Processing"), nil, processingRow),
	)
	return p
}

// Container returns the renderable root of the panel.
func (p *ProgressPanel) Container() *fyne.Container {
	return p.box
}

// SetAudio updates the audio transfer indicator.
func (p *ProgressPanel) SetAudio(fraction float64) {
	p.audioBar.SetValue(fraction)
}

// SetVideo updates the video transfer indicator.
func (p *ProgressPanel) SetVideo(fraction float64) {
	p.videoBar.SetValue(fraction)
}

// SetProcessing updates the post-processing indicator, switching back from
// indeterminate mode if it was active.
func (p *ProgressPanel) SetProcessing(fraction float64) {
	p.StopIndeterminate()
	p.processingBar.SetValue(fraction)
}

// SetProcessingIndeterminate switches the processing row to the spinner.
func (p *ProgressPanel) SetProcessingIndeterminate() {
	if p.processingSpin.Visible() {
		return
	}
	p.processingBar.Hide()
	p.processingSpin.Show()
	p.processingSpin.Start()
}

// StopIndeterminate stops the spinner without completing the bar.
func (p *ProgressPanel) StopIndeterminate() {
	if !p.processingSpin.Visible() {
		return
	}
	p.processingSpin.Stop()
	p.processingSpin.Hide()
	p.processingBar.Show()
}

// Reset returns all indicators to zero.
func (p *ProgressPanel) Reset() {
	p.StopIndeterminate()
	p.audioBar.SetValue(0)
	p.videoBar.SetValue(0)
	p.processingBar.SetValue(0)
}
