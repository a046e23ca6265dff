package sequencer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both missing campaigns and campaigns owned by another organization.
	ErrNotFound = errors.New("campaign not found")
	// ErrConflict is returned when a versioned write was based on a stale sequence.
	ErrConflict = errors.New("sequence was modified by another editor")
)

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + e.FieldErrors[f]
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

func newValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, FieldErrors: fields}
}

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
