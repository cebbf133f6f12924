package extractor

import "fmt"

// ValidationError means the target URL was missing or syntactically invalid.
// No network access is attempted when this is returned.
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid target url %q: %s", e.URL, e.Reason)
}

// UpstreamFetchError means the target document itself could not be retrieved
// or returned a non-success status. Individual stylesheet failures are never
// reported this way; they are absorbed by the aggregator.
type UpstreamFetchError struct {
	URL        string
	StatusCode int // 0 when the failure happened below HTTP
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: upstream returned %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// InternalError wraps unexpected failures during parsing or extraction.
// Callers should report it generically and keep the detail for operators.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
