package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound covers unknown tokens and unknown ids. It is a caller-facing
// condition, not a server fault.
var ErrNotFound = errors.New("evaluation not found")

// ErrAlreadyAcknowledged is returned when an acknowledgment is attempted on a
// record whose acknowledged flag is already set. Surfaced as a conflict so the
// client can present "already done" rather than "bad input".
var ErrAlreadyAcknowledged = errors.New("evaluation has already been acknowledged")

// FieldError is one per-field validation message, shaped like the payloads the
// frontend already consumes.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field-level problems found at the
// request boundary. It is always caller-facing and never logged as a fault.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}
