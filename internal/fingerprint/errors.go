package fingerprint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when an input is missing or a parameter
	// reaches a hard boundary outside its valid range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDecode is matched by every DecodeError. Use errors.Is to detect an
	// image that could not be loaded or decoded.
	ErrDecode = errors.New("image decode failed")

	// ErrNotComputable describes a similarity that cannot be calculated
	// because a fingerprint is missing or the two lengths differ.
	// It is carried as Similarity.Reason and never returned by Compare.
	ErrNotComputable = errors.New("similarity not computable")
)

// DecodeError reports that the image behind Source could not be produced.
// Network failures, unsupported formats and hasher shape violations are all
// reported through this type so that callers can isolate them per URL.
type DecodeError struct {
	// Source is the URL or data URI that failed.
	Source string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", abbreviate(e.Source), e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// abbreviate keeps error messages readable for data URIs, which can be
// several megabytes long.
func abbreviate(source string) string {
	const maxLen = 80
	if len(source) <= maxLen {
		return source
	}
	return source[:maxLen-3] + "..."
}

// invalidArgument wraps ErrInvalidArgument with a description.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
