package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrMissingName   = errors.New("missing name")
	ErrDuplicateZip  = errors.New("zip assigned to more than one city")
	ErrDuplicateCity = errors.New("city listed more than once")
	ErrEmptyCity     = errors.New("empty city name")
	ErrEmptyZip      = errors.New("empty zip")
)

// ValidationError wraps a sentinel with the offending field, value and,
// when the value came from a file, its line number.
type ValidationError struct {
	Field   string
	Value   string
	Line    int
	Wrapped error
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("validation: line %d: %s: %s (value=%q)", e.Line, e.Wrapped, e.Field, e.Value)
	}
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

// ConfigurationError reports a static city/ZIP table that cannot be served.
// It is fatal at startup.
type ConfigurationError struct {
	City    string
	Zip     string
	Other   string // the city that already owns Zip, for duplicates
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Other != "":
		return fmt.Sprintf("configuration: %s: %q claimed by %q and %q", e.Wrapped, e.Zip, e.Other, e.City)
	case e.Zip != "":
		return fmt.Sprintf("configuration: %s: city=%q zip=%q", e.Wrapped, e.City, e.Zip)
	default:
		return fmt.Sprintf("configuration: %s: city=%q", e.Wrapped, e.City)
	}
}

func (e *ConfigurationError) Unwrap() error { return e.Wrapped }
