package kpiboard

import (
	"errors"
	"fmt"
)

// ErrSourceNotConfigured indicates an operation that needs a backend when none is configured.
var ErrSourceNotConfigured = errors.New("no data source configured")

// ErrNoEntries indicates a submission without any record.
var ErrNoEntries = errors.New("no indicator values to submit")

// ErrSuperseded indicates a load whose result was discarded because a newer
// load had already completed.
var ErrSuperseded = errors.New("load superseded by a newer load")

// SourceError represents a failure of one named data source.
type SourceError struct {
	Source string
	Op     string // "fetch", "submit"
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, op string, err error) *SourceError {
	return &SourceError{
		Source: source,
		Op:     op,
		Err:    err,
	}
}

// LoadError is returned when neither the primary source nor the fallback
// produced a dashboard. Primary is nil when no primary source is configured.
type LoadError struct {
	Primary  error
	Fallback error
}

func (e *LoadError) Error() string {
	if e.Primary == nil {
		return fmt.Sprintf("fallback: %v", e.Fallback)
	}
	return fmt.Sprintf("primary: %v. fallback: %v", e.Primary, e.Fallback)
}

func (e *LoadError) Unwrap() []error {
	if e.Primary == nil {
		return []error{e.Fallback}
	}
	return []error{e.Primary, e.Fallback}
}

// ValidationError is a form-level problem that blocks a submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
