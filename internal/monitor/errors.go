package monitor

import (
	"errors"
	"fmt"
)

// Sentinel errors for operations on unknown accounts or searches.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrSearchNotFound  = errors.New("search not found")
)

// ValidationError reports a rejected search definition. It is returned
// synchronously and makes no persisted or scheduling change.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AsValidationError extracts a ValidationError from err, if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
