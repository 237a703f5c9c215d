package logging

// Package logging builds the zap logger used across the app. Console format
// with colored levels for interactive runs, JSON for log files; the level,
// format and destination come from the app configuration.
