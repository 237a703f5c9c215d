package config

// Package config loads and persists the application configuration: YAML file
// with TUBESAVE_* environment overlay, defaults when no file exists, path
// expansion and validation. The GUI settings dialog writes changes back
// through Save.
