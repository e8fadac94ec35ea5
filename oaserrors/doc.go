// Package oaserrors provides structured error types for the oasrecord module.
//
// Import path: github.com/erraggy/oasrecord/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors.
//
// # Error Types
//
//   - [CircularNameError]: a schema in a circular reference chain has no name
//   - [DuplicateSchemaError]: a component name is already bound to another record
//   - [UnsupportedTypeError]: a Go type cannot be described as a schema
//   - [DefinitionError]: a record definition file is malformed
//   - [ResourceLimitError]: an input exceeds a configured size limit
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrCircularName]: Matches any [CircularNameError]
//   - [ErrDuplicateSchema]: Matches any [DuplicateSchemaError]
//   - [ErrUnsupportedType]: Matches any [UnsupportedTypeError]
//   - [ErrDefinition]: Matches any [DefinitionError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage
//
//	err := doc.Components().Schema("Tree", spec.WithRecord(Tree{}))
//	var circ *oaserrors.CircularNameError
//	if errors.As(err, &circ) {
//		log.Printf("give %s a name", circ.Schema)
//	}
package oaserrors
