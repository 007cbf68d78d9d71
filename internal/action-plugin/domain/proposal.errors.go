package domain

import (
	"errors"
	"fmt"
)

// Proposal domain specific errors
var (
	ErrEmptyProposalID  = errors.New("proposal id cannot be empty")
	ErrEmptyKind        = errors.New("proposal kind cannot be empty")
	ErrUnknownAction    = errors.New("unknown action kind")
	ErrNotExecutable    = errors.New("proposal is not executable")
	ErrProposalNotFound = errors.New("proposal not found")
)

// ValidationError indicates a proposal received from the chat backend is
// structurally malformed and must be dropped before entering the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid proposal: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid proposal: %s", e.Reason)
}

// IsValidationError returns true when err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var ve *ValidationError
	return errors.As(err, &ve)
}
