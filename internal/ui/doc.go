package ui

// Package ui contains the Fyne-based desktop user interface. It owns all
// presentation state, polls the worker's event queue on a fixed interval,
// and applies event batches to the widgets on the UI thread via fyne.Do.
