package types

import (
	"errors"
	"fmt"
)

// SourceType identifies a family of sources modeled by one registry.
// Registries, buses and markers are all keyed by it.
type SourceType string

const (
	// CitationDocument is the type of bibliographic citations in a document
	CitationDocument SourceType = "citation-document"
)

// ErrInvalidType is returned when a value is not a known SourceType
var ErrInvalidType = errors.New("invalid source type")

// knownTypes lists all valid source types, in declaration order
var knownTypes = []SourceType{
	CitationDocument,
}

// IsValid reports whether t is a known source type
func (t SourceType) IsValid() bool {
	for _, known := range knownTypes {
		if known == t {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer
func (t SourceType) String() string {
	return string(t)
}

// ParseSourceType converts a string into a SourceType, rejecting unknown values
func ParseSourceType(s string) (SourceType, error) {
	t := SourceType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// SourceTypes returns all known source types
func SourceTypes() []SourceType {
	out := make([]SourceType, len(knownTypes))
	copy(out, knownTypes)
	return out
}
