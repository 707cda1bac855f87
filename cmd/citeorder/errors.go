package main

import (
	"fmt"
	"strings"
)

// CLIError is a user-facing error with context and suggestions
type CLIError struct {
	Operation   string // The operation that failed (e.g., "apply", "bib")
	Cause       string
	Suggestions []string
	Underlying  error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		fmt.Fprintf(&msg, "failed to %s", e.Operation)
	} else {
		msg.WriteString("operation failed")
	}
	if e.Cause != "" {
		fmt.Fprintf(&msg, ": %s", e.Cause)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&msg, ": %v", e.Underlying)
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			fmt.Fprintf(&msg, "\n  %d. %s", i+1, suggestion)
		}
	}
	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// newCLIError wraps err for operation
func newCLIError(operation string, err error, suggestions ...string) *CLIError {
	return &CLIError{Operation: operation, Underlying: err, Suggestions: suggestions}
}

// newConfigError reports a missing or invalid setting
func newConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}
