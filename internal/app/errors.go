package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound       = errors.New("todo not found")
	ErrNoAPI          = errors.New("api client is required")
	ErrJournalMissing = errors.New("journal is not configured")
)
