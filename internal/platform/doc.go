package platform

// Package platform contains OS integration and filesystem glue: filename
// sanitization, destination directory checks, and revealing finished files
// in the system file manager.
