package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Config.ValidateCompare()
// so callers can use errors.Is() for programmatic handling.
var (
	// ErrNoTarget is returned when neither two URLs nor a --list file is given.
	ErrNoTarget = errors.New("no target specified: provide two URLs or use --list")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the batch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxImageSize is returned when the image size limit is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxImageSize = errors.New("invalid max image size: must be non-negative")
)
