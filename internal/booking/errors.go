package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationKind separates absent mandatory fields from fields that are present but malformed.
type ValidationKind string

const (
	ValidationMissing ValidationKind = "missing"
	ValidationInvalid ValidationKind = "invalid"
)

const (
	MsgMissingFields    = "Missing required booking fields."
	MsgInvalidFields    = "Invalid booking request fields."
	MsgMethodNotAllowed = "Method Not Allowed. Use POST."
	MsgCreated          = "Booking request created successfully."
	MsgWriteFailed      = "Failed to submit booking request. Check server logs for details."
)

// ConfigurationError reports that the server-only content store settings are incomplete.
// Only variable names are carried, never values.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Server Error: content store write configuration incomplete, missing %s.", strings.Join(e.Missing, ", "))
}

// ValidationError reports a client-side problem with a submission.
type ValidationError struct {
	Kind   ValidationKind
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 && e.Err != nil {
		return fmt.Sprintf("%s booking fields: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s booking fields: %s", e.Kind, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message is the fixed text returned to the guest for this kind of failure.
func (e *ValidationError) Message() string {
	if e.Kind == ValidationMissing {
		return MsgMissingFields
	}
	return MsgInvalidFields
}

// PersistenceError wraps a failed write to the content store.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsConfigurationError(err error) *ConfigurationError {
	var target *ConfigurationError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

func IsValidationError(err error) *ValidationError {
	var target *ValidationError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

func IsPersistenceError(err error) *PersistenceError {
	var target *PersistenceError
	if errors.As(err, &target) {
		return target
	}
	return nil
}
