package config

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected EngineConfig field
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s=%v: %s", f.Field, f.Value, f.Reason)
}

// ConfigurationError reports invalid engine input
// Normalize returns it alongside a clamped, usable config; it is informational
type ConfigurationError struct {
	Fields []FieldError
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid engine config: " + strings.Join(parts, "; ")
}

func (e *ConfigurationError) add(field string, value any, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Value: value, Reason: reason})
}

// errOrNil avoids returning a typed nil through the error interface
func (e *ConfigurationError) errOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewCountError builds the error the particle store returns for an out-of-range count
func NewCountError(count, max int) *ConfigurationError {
	e := &ConfigurationError{}
	if count < 0 {
		e.add("particle_count", count, "must be non-negative")
	} else {
		e.add("particle_count", count, fmt.Sprintf("exceeds maximum %d", max))
	}
	return e
}
