package model

// Package model defines domain data structures shared across the app: stream
// descriptors, the fetched catalog, download jobs, and the UI phase enum.
// Structures are plain values designed for direct binding in the UI and
// explicit state transitions.
