package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session id does not match a live
// booking session.
var ErrSessionNotFound = errors.New("booking session not found or expired")

// ErrNotReady is returned when Confirm is called before the session reached a
// reservable state.
var ErrNotReady = errors.New("booking session is not ready to reserve")

// ValidationError reports the fields missing or invalid in a reservation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid reservation: missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// SubmissionError wraps a failed reservation submission, preserving the
// backend-provided message when one exists.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("reservation submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
