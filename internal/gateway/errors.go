package gateway

import (
	"errors"
	"fmt"
)

// APIError is a backend-rejected request: the backend answered with a
// non-2xx status, auth failures and validation errors included.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// NetworkError is a transport failure: the request never produced a
// backend response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// Message extracts a user-facing message: the backend-provided one when
// present, the fallback otherwise. Failures are never rethrown at the
// view layer, they surface through store error fields.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
