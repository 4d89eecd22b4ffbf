package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyDescription is returned before any LLM call when there is nothing to analyze.
	ErrEmptyDescription = errors.New("job description is empty")
	// ErrNotFound is returned by stores for unknown analysis IDs.
	ErrNotFound = errors.New("analysis not found")
	// ErrInvalidSource marks a job-posting fetch that cannot succeed on retry:
	// a malformed URL or reference, or a response body that does not decode.
	ErrInvalidSource = errors.New("invalid job source")
)

// HTTPError wraps an HTTP status code so callers can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
