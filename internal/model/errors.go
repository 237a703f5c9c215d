package model

import "fmt"

// ConfigurationError reports an invalid job setup: a missing stream
// selection, an unusable destination, or an unknown mode. It is raised
// synchronously before any background work starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
