package domain

import (
	"errors"
	"fmt"
)

// ErrNotPlaced is returned when the position log is empty and the robot has never been placed.
var ErrNotPlaced = errors.New("robot is not placed")

// Validation reasons, in the order the checks run.
const (
	ReasonRequired         = "x, y, and direction are required"
	ReasonInvalidDirection = "Invalid direction"
	ReasonNotNumbers       = "x and y must be numbers"
)

// ValidationError reports a malformed or out-of-range position request.
// Reason is the message surfaced to API callers.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// RangeReason returns the out-of-range message for a grid, e.g. "x and y must be between 0 and 4".
func RangeReason(g Grid) string {
	return fmt.Sprintf("x and y must be between 0 and %d", g.Size-1)
}

// TransportError wraps a failed call to a remote position log.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
