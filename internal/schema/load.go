package schema

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Raw is the decoded on-disk schema form: a mapping with two top-level keys.
// The node type's kind is spelled "type" on disk.
type Raw struct {
	Nodes map[string]RawNodeType `yaml:"nodes"`
	Edges map[string]RawEdgeType `yaml:"edges"`
}

// RawNodeType is the on-disk node type declaration.
type RawNodeType struct {
	Kind     Kind     `yaml:"type"`
	Usage    Usage    `yaml:"usage"`
	Features Features `yaml:"features"`
}

// RawEdgeType is the on-disk edge type declaration.
type RawEdgeType struct {
	Source   string   `yaml:"source"`
	Target   string   `yaml:"target"`
	Features Features `yaml:"features"`
}

// Parse decodes YAML schema bytes and validates them via Load.
func Parse(data []byte) (*Schema, error) {
	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return Load(raw)
}

// Load validates raw declarations and builds an immutable Schema.
//
// Validation rules:
//   - every node type declares a kind from {static, dynamic}
//   - every node type declares a usage from {core, supplement}
//   - every property type is one of string, integer, float, datetime
//   - every edge source/target names a node type declared in the same schema
//
// All violations are collected and returned joined; an invalid schema aborts
// construction entirely.
func Load(raw Raw) (*Schema, error) {
	var errs []error

	for _, name := range sortedKeys(raw.Nodes) {
		nt := raw.Nodes[name]
		switch nt.Kind {
		case KindStatic, KindDynamic:
		default:
			errs = append(errs, &Error{
				Code:     ErrCodeInvalidKind,
				TypeName: name,
				Field:    "type",
				Message:  fmt.Sprintf("kind must be %q or %q, got %q", KindStatic, KindDynamic, nt.Kind),
			})
		}
		switch nt.Usage {
		case UsageCore, UsageSupplement:
		default:
			errs = append(errs, &Error{
				Code:     ErrCodeInvalidUsage,
				TypeName: name,
				Field:    "usage",
				Message:  fmt.Sprintf("usage must be %q or %q, got %q", UsageCore, UsageSupplement, nt.Usage),
			})
		}
		errs = append(errs, validateFeatures(name, nt.Features)...)
	}

	for _, name := range sortedKeys(raw.Edges) {
		et := raw.Edges[name]
		if err := validateEndpoint(raw, name, "source", et.Source); err != nil {
			errs = append(errs, err)
		}
		if err := validateEndpoint(raw, name, "target", et.Target); err != nil {
			errs = append(errs, err)
		}
		errs = append(errs, validateFeatures(name, et.Features)...)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	s := &Schema{
		nodes: make(map[string]*NodeType, len(raw.Nodes)),
		edges: make(map[string]*EdgeType, len(raw.Edges)),
	}
	for name, nt := range raw.Nodes {
		s.nodes[name] = &NodeType{Name: name, Kind: nt.Kind, Usage: nt.Usage, Features: nt.Features}
	}
	for name, et := range raw.Edges {
		s.edges[name] = &EdgeType{Name: name, Source: et.Source, Target: et.Target, Features: et.Features}
	}
	s.nodeNames = sortedKeys(s.nodes)
	s.edgeNames = sortedKeys(s.edges)
	return s, nil
}

// validateEndpoint checks that an edge endpoint names a declared node type.
func validateEndpoint(raw Raw, edgeName, field, endpoint string) error {
	if _, ok := raw.Nodes[endpoint]; ok {
		return nil
	}
	return &Error{
		Code:     ErrCodeUnknownEndpoint,
		TypeName: edgeName,
		Field:    field,
		Message:  fmt.Sprintf("endpoint names undeclared node type %q", endpoint),
	}
}

// validateFeatures checks every declared property type against the primitives.
func validateFeatures(typeName string, features Features) []error {
	var errs []error
	for _, feat := range features.All() {
		if !ValidPropertyTypes[feat.Type] {
			errs = append(errs, &Error{
				Code:     ErrCodeInvalidPropertyType,
				TypeName: typeName,
				Field:    feat.Name,
				Message:  fmt.Sprintf("property type must be one of string, integer, float, datetime; got %q", feat.Type),
			})
		}
	}
	return errs
}
