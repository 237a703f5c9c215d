package event

// Event is a notification produced by the download worker. The set of
// implementations is closed: consumers switch over the concrete types and
// need no default handling beyond ignoring unknown events.
type Event interface {
	isEvent()
}

// AudioProgress reports audio stream transfer progress as a fraction in [0,1].
type AudioProgress struct {
	Fraction float64
}

// VideoProgress reports video stream transfer progress as a fraction in [0,1].
type VideoProgress struct {
	Fraction float64
}

// ProcessingProgress reports post-processing progress. Indeterminate is set
// when the media duration is unknown and no meaningful fraction exists.
type ProcessingProgress struct {
	Fraction      float64
	Indeterminate bool
}

// StatusText carries a human-readable stage description for the status label.
type StatusText struct {
	Text string
}

// Completed is the successful terminal event. Exactly one terminal event is
// emitted per job, and it is always the last event of that job.
type Completed struct {
	OutputPath string
}

// Failed is the failing terminal event. Err carries the typed cause.
type Failed struct {
	Err error
}

func (AudioProgress) isEvent()      {}
func (VideoProgress) isEvent()      {}
func (ProcessingProgress) isEvent() {}
func (StatusText) isEvent()         {}
func (Completed) isEvent()          {}
func (Failed) isEvent()             {}
