package source

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload indicates a response that does not match the dashboard schema.
var ErrInvalidPayload = errors.New("invalid dashboard payload")

// ErrMissingHistoricalData indicates an indicator without the historicalData
// field, which means the backend script predates the current schema.
var ErrMissingHistoricalData = errors.New("the backend script is not returning 'historicalData' for every indicator; " +
	"update the script, save it and publish a new deployment (Deploy > New deployment) for the change to take effect")

// ErrUpstream indicates an explicit error reported by the backend.
var ErrUpstream = errors.New("backend reported an error")

// DuplicateEntryMarker prefixes backend messages for records that already exist.
const DuplicateEntryMarker = "DUPLICATE_ENTRY:"

// WriteError is a rejected write. Message is the backend text, kept verbatim.
type WriteError struct {
	StatusCode int
	Message    string
}

func (e *WriteError) Error() string {
	return e.Message
}

// IsDuplicate reports whether the backend rejected the record as a duplicate.
func (e *WriteError) IsDuplicate() bool {
	return containsMarker(e.Message)
}

func schemaError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}
