package backend

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a 2xx response lacks the fields the
// contract requires.
var ErrMalformedResponse = errors.New("malformed backend response")

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
	// Message is the backend's "error" field, or a truncated body.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}
