package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrCircularName indicates a nameless schema takes part in a reference cycle.
	ErrCircularName = errors.New("circular reference without schema name")

	// ErrDuplicateSchema indicates a schema name is already bound to another record.
	ErrDuplicateSchema = errors.New("duplicate schema")

	// ErrUnsupportedType indicates a Go type has no schema representation.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDefinition indicates a malformed record definition document.
	ErrDefinition = errors.New("definition error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// CircularNameError is returned when the schema name resolver yields no name
// for a schema that is part of a chain of circular references. A document
// cannot express such a cycle without a component to point to.
type CircularNameError struct {
	// Schema identifies the offending record (its canonical identity)
	Schema string
}

// Error returns a human-readable error message.
func (e *CircularNameError) Error() string {
	return fmt.Sprintf("name resolver returned no name for schema %s which is part of a chain of "+
		"circular referencing schemas; the name resolver must return a name for all circular "+
		"referencing schemas", e.Schema)
}

// Is reports whether target matches this error type.
func (e *CircularNameError) Is(target error) bool {
	return target == ErrCircularName
}

// DuplicateSchemaError represents an attempt to register a schema name that is
// already bound to a different record.
type DuplicateSchemaError struct {
	// Name is the component name
	Name string
	// Existing identifies the record already registered under Name
	Existing string
	// Requested identifies the record that was being registered
	Requested string
}

// Error returns a human-readable error message.
func (e *DuplicateSchemaError) Error() string {
	msg := "duplicate schema"
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.Existing != "" && e.Requested != "" {
		msg += fmt.Sprintf(": already registered for %s, cannot register %s", e.Existing, e.Requested)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DuplicateSchemaError) Is(target error) bool {
	return target == ErrDuplicateSchema
}

// UnsupportedTypeError represents a Go type that cannot be mapped to a schema.
type UnsupportedTypeError struct {
	// Type is the Go type as printed by reflect
	Type string
	// Field is the record field holding the type, if any
	Field string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *UnsupportedTypeError) Error() string {
	msg := "unsupported type"
	if e.Type != "" {
		msg += " " + e.Type
	}
	if e.Field != "" {
		msg += " in field " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// DefinitionError represents a failure to load a record definition document.
type DefinitionError struct {
	// Path is the file path or source identifier
	Path string
	// Location is the dotted location inside the document (e.g., "records.Pet.fields.owner")
	Location string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DefinitionError) Error() string {
	msg := "definition error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DefinitionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrDefinition
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded (e.g., "definition_bytes")
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, unsupported OpenAPI versions, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
