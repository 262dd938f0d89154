package airtable

import (
	"errors"
	"fmt"
)

// APIError represents a non-success HTTP response from the Airtable API,
// raised by paginated listing and by the upsert resolver's writes.
type APIError struct {
	Status     int
	StatusText string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("airtable: request failed with status %d %s", e.Status, e.StatusText)
}

// IsAPIError reports whether err carries an *APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// Static errors for err113 compliance. All of these are validation errors:
// they are returned synchronously, before any request is issued.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrOptionsRequired      = errors.New("options are required")
	ErrAPIKeyTooShort       = errors.New("API key must be at least 10 characters")
	ErrInvalidBaseID        = errors.New(`base ID must start with "app" and be at least 10 characters`)
	ErrInvalidRecordID      = errors.New(`record ID must start with "rec" and be at least 10 characters`)
	ErrInvalidUpdateMethod  = errors.New(`update method must be "PATCH" or "PUT"`)
	ErrFieldsRequired       = errors.New("fields must be provided")
	ErrEmptyFieldSelection  = errors.New("field selection must name at least one non-empty field")
	ErrFilterConflict       = errors.New("filterByFormula and modifiedSinceHours are mutually exclusive")
	ErrInvalidModifiedSince = errors.New("modifiedSinceHours must be a positive integer")
	ErrFilterSingleKey      = errors.New("where filter must contain exactly one key")
	ErrSetRequired          = errors.New("upsert $set must contain at least one field")
	ErrSetWhereOverlap      = errors.New("upsert $set must not contain the where key")
)

// Protocol errors raised on malformed or runaway server behavior.
var (
	ErrTooManyIterations = errors.New("listRecords pagination exceeded the iteration cap")
	ErrMalformedRecordID = errors.New("server returned a malformed record ID")
)
