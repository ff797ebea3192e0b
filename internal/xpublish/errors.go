package xpublish

import (
	"fmt"
	"strings"
)

// MissingEnvError is returned when required configuration is missing.
type MissingEnvError struct {
	Provider  Key
	Variables []string
}

func (e MissingEnvError) Error() string {
	if len(e.Variables) == 0 {
		return fmt.Sprintf("%s credentials not configured", e.Provider)
	}
	return fmt.Sprintf("%s credentials not configured (missing %s)", e.Provider, strings.Join(e.Variables, ", "))
}

// Issue describes one invalid request field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a whole request before any destination is contacted.
type ValidationError struct {
	Issues []Issue
	causes []error
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes typed causes such as *UnknownDestinationError.
func (e *ValidationError) Unwrap() []error { return e.causes }

// Field returns the first issue reported for field, if any.
func (e *ValidationError) Field(field string) (Issue, bool) {
	for _, is := range e.Issues {
		if is.Field == field {
			return is, true
		}
	}
	return Issue{}, false
}

// UnknownDestinationError is returned for keys missing from the registry.
type UnknownDestinationError struct {
	Key string
}

func (e *UnknownDestinationError) Error() string {
	return fmt.Sprintf("unknown destination %q", e.Key)
}

// InternalFault wraps an unexpected failure during shaping or dispatch.
type InternalFault struct {
	Destination Key
	Cause       error
}

func (e *InternalFault) Error() string {
	return fmt.Sprintf("internal fault publishing to %s: %v", e.Destination, e.Cause)
}

func (e *InternalFault) Unwrap() error { return e.Cause }
