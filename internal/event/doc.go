package event

// Package event carries progress and outcome notifications from the download
// worker goroutine to the UI loop. Events are a closed union drained in FIFO
// order by a polling consumer, so the UI never blocks on the producer and all
// widget mutation stays on the UI thread.
