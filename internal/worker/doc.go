package worker

// Package worker runs one download job end to end: stream transfers into
// temp files, post-processing into the final destination, progress and
// terminal events through the event queue. One job at a time; every failure
// is terminal for its job.
