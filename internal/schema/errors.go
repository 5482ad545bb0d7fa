package schema

import (
	"errors"
	"fmt"
)

// Schema validation error codes (S100-S199)
const (
	// ErrCodeInvalidKind indicates a node type kind outside {static, dynamic}.
	ErrCodeInvalidKind = "S101"
	// ErrCodeInvalidUsage indicates a node type usage outside {core, supplement}.
	ErrCodeInvalidUsage = "S102"
	// ErrCodeInvalidPropertyType indicates a property type outside the four primitives.
	ErrCodeInvalidPropertyType = "S103"
	// ErrCodeUnknownEndpoint indicates an edge source/target naming an undeclared node type.
	ErrCodeUnknownEndpoint = "S104"
)

// Error represents a single schema validation violation.
//
// Load reports every violation found (joined), never a partially-usable
// schema. Each Error cites the offending type name and the violated rule.
type Error struct {
	// Code identifies the violated rule.
	Code string

	// TypeName is the offending node or edge type.
	TypeName string

	// Field names the offending declaration field (kind, usage, a feature name, ...).
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.TypeName, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.TypeName, e.Message)
}

// IsSchemaError reports whether err is (or wraps) a schema validation error.
func IsSchemaError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
