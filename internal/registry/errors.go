package registry

import (
	"errors"
	"fmt"
)

// ValidationError reports a property set or value that fails to match its
// declared type schema: a missing, extra, or type-mismatched property, a
// duplicate id, or an unknown type name.
type ValidationError struct {
	// TypeName is the node or edge type being validated.
	TypeName string

	// EntityID is the affected instance id, when one exists.
	EntityID string

	// Property is the offending property name, when the violation is
	// property-scoped.
	Property string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Property != "" && e.EntityID != "":
		return fmt.Sprintf("validation: %s %s: property %q: %s", e.TypeName, e.EntityID, e.Property, e.Message)
	case e.Property != "":
		return fmt.Sprintf("validation: %s: property %q: %s", e.TypeName, e.Property, e.Message)
	case e.EntityID != "":
		return fmt.Sprintf("validation: %s %s: %s", e.TypeName, e.EntityID, e.Message)
	default:
		return fmt.Sprintf("validation: %s: %s", e.TypeName, e.Message)
	}
}

// IntegrityError reports an edge creation against a nonexistent or
// type-mismatched endpoint.
type IntegrityError struct {
	// EdgeType is the edge type being created.
	EdgeType string

	// Role is "source" or "target".
	Role string

	// EndpointID is the offending endpoint id.
	EndpointID string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referential integrity: edge %s: %s %q: %s", e.EdgeType, e.Role, e.EndpointID, e.Message)
}

// NotFoundError reports an update targeting an id absent from the registry.
type NotFoundError struct {
	// Entity is "node" or "edge".
	Entity string

	// ID is the unknown id.
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIntegrity reports whether err is (or wraps) an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
