package bookingapi

import (
	"errors"
	"fmt"
)

// ErrRecordNotFound is the sentinel error for missing target records.
var ErrRecordNotFound = errors.New("record not found")

// APIError indicates the booking API rejected a mutation.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("booking api %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == 404 {
		return ErrRecordNotFound
	}
	return nil
}

// IsNotFoundError returns true when err is (or wraps) a missing-record failure.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrRecordNotFound)
}
