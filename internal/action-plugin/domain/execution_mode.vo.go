package domain

import "fmt"

// ExecutionMode determines whether a proposal needs an explicit user
// confirmation before its executor may run.
type ExecutionMode string

const (
	// ModeConfirm requires an explicit user action before execution
	ModeConfirm ExecutionMode = "confirm"
	// ModeAuto marks an informational, display-only proposal that never mutates
	ModeAuto ExecutionMode = "auto"
)

// NewExecutionMode creates an execution mode with validation
func NewExecutionMode(mode string) (ExecutionMode, error) {
	m := ExecutionMode(mode)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid execution mode: %q (must be %q or %q)", mode, ModeConfirm, ModeAuto)
	}
	return m, nil
}

// IsValid checks if the mode is one of the allowed values
func (m ExecutionMode) IsValid() bool {
	return m == ModeConfirm || m == ModeAuto
}

// RequiresConfirmation reports whether the proposal must go through the
// confirm/cancel handshake before anything side-effecting happens.
func (m ExecutionMode) RequiresConfirmation() bool {
	return m == ModeConfirm
}

// String returns the string representation of the mode
func (m ExecutionMode) String() string {
	return string(m)
}
