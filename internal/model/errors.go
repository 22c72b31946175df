package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any network activity
	ErrValidation = errors.New("validation error")
	// ErrFormat marks a malformed import document
	ErrFormat = errors.New("format error")
)

// ValidationError describes which field failed its precondition
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FormatError wraps the decode failure of an import document
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import file: %s: %v", e.Reason, e.Err)
	}
	return "invalid import file: " + e.Reason
}

func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}
