package service

import (
	"errors"

	"transcript-extractor/pkg/config"
)

var (
	ErrSizeExceeded   = errors.New("file size exceeded")
	ErrBadExtension   = errors.New("unsupported file extension")
	ErrFileRequired   = errors.New("file required")
	ErrTitleTooLong   = errors.New("title too long")
	ErrMissingFile    = errors.New("File is missing for this instance.")
	ErrSourceNotFound = errors.New("Transcript file not found.")

	// ErrConfigurationMissing aliases the startup error so either package's
	// sentinel matches with errors.Is.
	ErrConfigurationMissing = config.ErrConfigurationMissing
	ErrExtractionFailed     = errors.New("Error invoking model")
	ErrExtractionTimedOut   = errors.New("Extraction timed out")

	ErrTranscriptNotFound = errors.New("Not found.")
)

// ValidationError is a field-scoped rejection of client input.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
