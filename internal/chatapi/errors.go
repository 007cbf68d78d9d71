package chatapi

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable is the sentinel error for an unreachable chat backend.
var ErrBackendUnavailable = errors.New("chat backend unavailable")

// APIError indicates the chat backend answered with a non-success status.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("chat backend %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsAPIError returns true when err is (or wraps) an APIError.
func IsAPIError(err error) bool {
	if err == nil {
		return false
	}
	var ae *APIError
	return errors.As(err, &ae)
}
