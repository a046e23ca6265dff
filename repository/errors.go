package repository

import "errors"

var (
	// ErrNotFound is returned when the record does not exist or is outside the caller's organization.
	ErrNotFound = errors.New("repository: not found")
	// ErrStaleVersion is returned when a conditional sequence write sees a newer version.
	ErrStaleVersion = errors.New("repository: stale sequence version")
)
