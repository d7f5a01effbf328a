package csvimport

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile = errors.New("file is empty")
	ErrNoHeaders = errors.New("no headers detected in CSV file")
)

// ParseError reports malformed CSV structure (e.g. an unterminated
// quote). Detail is shown to the user to help them fix the file.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid CSV format: %s", e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LookupError reports a column name that does not exist in the header
// set. This is a configuration error from a bad mapping override; the
// pipeline fails safely instead of panicking.
type LookupError struct {
	Column string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("column %q not found in headers", e.Column)
}
