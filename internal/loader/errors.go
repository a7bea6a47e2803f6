package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInputFiles is returned when no file matches the rootname.
	ErrNoInputFiles = errors.New("no input files found")
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidValue is returned when a Date or Views cell cannot be parsed.
	ErrInvalidValue = errors.New("invalid value")
)

// MalformedInputError reports a file that could not be parsed.
// Line is the 1-based CSV line of the failure, or 0 when not tied to a row.
type MalformedInputError struct {
	Err  error
	File string
	Line int
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed input file %s (line %d): %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input file %s: %v", e.File, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
