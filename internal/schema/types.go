package schema

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind classifies how a node type's structure evolves over time.
type Kind string

const (
	// KindStatic marks structurally immutable entities, e.g. organizational units.
	KindStatic Kind = "static"
	// KindDynamic marks entities whose quantitative state changes over time,
	// e.g. inventory-bearing nodes.
	KindDynamic Kind = "dynamic"
)

// Usage classifies how central a node type is to the generated graph.
type Usage string

const (
	// UsageCore node types must exist for the graph to be meaningful.
	UsageCore Usage = "core"
	// UsageSupplement node types are auxiliary and may be sparser.
	UsageSupplement Usage = "supplement"
)

// PropertyType is one of the four declared value primitives.
//
// Runtime representations: string, int64, float64, time.Time (UTC).
type PropertyType string

const (
	TypeString   PropertyType = "string"
	TypeInteger  PropertyType = "integer"
	TypeFloat    PropertyType = "float"
	TypeDatetime PropertyType = "datetime"
)

// ValidPropertyTypes enumerates the allowed property primitives.
var ValidPropertyTypes = map[PropertyType]bool{
	TypeString:   true,
	TypeInteger:  true,
	TypeFloat:    true,
	TypeDatetime: true,
}

// IDProperty is the reserved property name bound to the instance id.
// When declared, it is populated by the registry at creation time and is
// never selected for updates.
const IDProperty = "id"

// Feature is a single declared property: a name and its primitive type.
type Feature struct {
	Name string
	Type PropertyType
}

// Features is an order-preserving property declaration list.
//
// Go maps do not preserve YAML key order, so Features decodes the mapping
// node directly. Iteration via All() follows declaration order, which keeps
// property synthesis deterministic for a fixed seed.
type Features struct {
	list  []Feature
	index map[string]PropertyType
}

// NewFeatures builds a Features list from declarations in order.
// Duplicate names panic - programmatic construction is a programming error,
// unlike YAML input which surfaces a decode error.
func NewFeatures(features ...Feature) Features {
	f := Features{index: make(map[string]PropertyType, len(features))}
	for _, feat := range features {
		if _, dup := f.index[feat.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate feature %q", feat.Name))
		}
		f.list = append(f.list, feat)
		f.index[feat.Name] = feat.Type
	}
	return f
}

// Len returns the number of declared properties.
func (f Features) Len() int {
	return len(f.list)
}

// All returns the declarations in declared order. The slice is a copy.
func (f Features) All() []Feature {
	out := make([]Feature, len(f.list))
	copy(out, f.list)
	return out
}

// Type returns the declared type of a property name.
func (f Features) Type(name string) (PropertyType, bool) {
	t, ok := f.index[name]
	return t, ok
}

// Has reports whether a property name is declared.
func (f Features) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// UnmarshalYAML decodes a YAML mapping while preserving key order.
func (f *Features) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("features: expected mapping, got %s", value.Tag)
	}
	f.list = nil
	f.index = make(map[string]PropertyType, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		if _, dup := f.index[name]; dup {
			return fmt.Errorf("features: duplicate property %q", name)
		}
		typ := PropertyType(value.Content[i+1].Value)
		f.list = append(f.list, Feature{Name: name, Type: typ})
		f.index[name] = typ
	}
	return nil
}

// NodeType is an immutable node type declaration.
type NodeType struct {
	Name     string
	Kind     Kind
	Usage    Usage
	Features Features
}

// EdgeType is an immutable edge type declaration.
// Source and Target name node types declared in the same schema.
type EdgeType struct {
	Name     string
	Source   string
	Target   string
	Features Features
}

// Schema is a validated, immutable set of node and edge type declarations.
// Construct via Load or Parse only.
type Schema struct {
	nodes     map[string]*NodeType
	edges     map[string]*EdgeType
	nodeNames []string // sorted
	edgeNames []string // sorted
}

// NodeType returns the declaration for a node type name.
func (s *Schema) NodeType(name string) (*NodeType, bool) {
	nt, ok := s.nodes[name]
	return nt, ok
}

// EdgeType returns the declaration for an edge type name.
func (s *Schema) EdgeType(name string) (*EdgeType, bool) {
	et, ok := s.edges[name]
	return et, ok
}

// NodeTypes returns all node type declarations in name order.
func (s *Schema) NodeTypes() []*NodeType {
	out := make([]*NodeType, 0, len(s.nodeNames))
	for _, name := range s.nodeNames {
		out = append(out, s.nodes[name])
	}
	return out
}

// EdgeTypes returns all edge type declarations in name order.
func (s *Schema) EdgeTypes() []*EdgeType {
	out := make([]*EdgeType, 0, len(s.edgeNames))
	for _, name := range s.edgeNames {
		out = append(out, s.edges[name])
	}
	return out
}

// sortedKeys returns map keys in sorted order for deterministic iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
