package sources

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyKey is returned when creating a source set without a key
	ErrEmptyKey = errors.New("source key is empty")

	// ErrNilReference is reported when a nil reference is put into a registry
	ErrNilReference = errors.New("reference is nil")

	// ErrTypeMismatch is reported when a reference's type differs from the registry's
	ErrTypeMismatch = errors.New("reference type does not match registry type")

	// ErrSourceNotFound is reported when no source has the requested key
	ErrSourceNotFound = errors.New("source not found")

	// ErrReferenceNotFound is reported when no reference has the requested id
	ErrReferenceNotFound = errors.New("reference not found")
)

// RangeError reports positional access outside [0, Len)
type RangeError struct {
	What  string
	Index int
	Len   int
}

// Error implements the error interface
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Len)
}

// LookupError describes a failed lookup of a source or reference
type LookupError struct {
	Key string // empty when the key was not known to the caller
	ID  int
	Err error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("lookup of reference %d: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("lookup of reference %d in source %q: %v", e.ID, e.Key, e.Err)
}

// Unwrap allows errors.Is against the sentinel errors
func (e *LookupError) Unwrap() error {
	return e.Err
}
