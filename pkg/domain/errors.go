package domain

import (
	"errors"
	"fmt"
)

// ErrMissingValue is wrapped by panics raised when a specification or a
// transition is used before all of its fields were assigned.
var ErrMissingValue = errors.New("missing value")

// ErrNoContentSource is returned when a content tracker has neither a Switch
// nor a ChildContent provider.
var ErrNoContentSource = errors.New("no content source configured")

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("value parsing failed")

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned when opening a session whose ID is already taken.
var ErrSessionExists = errors.New("session already exists")

// ErrInvalidSessionID is returned for empty or malformed session IDs.
var ErrInvalidSessionID = errors.New("invalid session id")

// ErrSessionKind is returned when an operation targets a session of the wrong kind.
var ErrSessionKind = errors.New("operation not supported by session kind")

// ErrUnknownTransition is returned when a named transition is not in the library.
var ErrUnknownTransition = errors.New("unknown transition")

// ErrUnknownSpec is returned when a named specification is not in the library.
var ErrUnknownSpec = errors.New("unknown specification")

// MissingValue builds the error used to panic on reads of unassigned fields.
func MissingValue(message string) error {
	return fmt.Errorf("%w: %s", ErrMissingValue, message)
}

// ParseError reports a CSS value that does not match the syntax of its type.
type ParseError struct {
	Value string
	Type  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("value %q can not be parsed into %s", e.Value, e.Type)
}

// Is makes errors.Is(err, ErrParse) hold for every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
