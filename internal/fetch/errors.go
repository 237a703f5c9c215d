package fetch

import "fmt"

// FetchError reports a failed catalog fetch: malformed URL, network failure,
// or rejection by the remote service. The job never starts.
type FetchError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}
