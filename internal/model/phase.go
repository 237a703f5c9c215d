package model

// Phase represents where the UI session is in a job's lifecycle
type Phase string

const (
	// PhaseIdle means no catalog is loaded and nothing is running
	PhaseIdle Phase = "Idle"

	// PhaseFetching means a catalog fetch is in flight
	PhaseFetching Phase = "Fetching"

	// PhaseReady means a catalog is loaded and a download can start
	PhaseReady Phase = "Ready"

	// PhaseDownloading means the worker is transferring streams
	PhaseDownloading Phase = "Downloading"

	// PhaseProcessing means the external media tool is running
	PhaseProcessing Phase = "Processing"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// CanFetch reports whether a new catalog fetch is accepted in this phase.
func (p Phase) CanFetch() bool {
	return p == PhaseIdle || p == PhaseReady
}

// CanStart reports whether a download may be started in this phase.
// Start is only accepted with a loaded catalog and no job running.
func (p Phase) CanStart() bool {
	return p == PhaseReady
}

// Busy reports whether background work is in flight.
func (p Phase) Busy() bool {
	return p == PhaseFetching || p == PhaseDownloading || p == PhaseProcessing
}
