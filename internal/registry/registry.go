package registry

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/thecodizt/graph-server/internal/schema"
)

// Registry is the live-state store for one simulation run.
//
// It holds two primary mappings (node id -> Node, edge id -> Edge) plus, per
// node type, the slice of live ids for O(1) random endpoint selection, and a
// monotonically increasing id counter per type. Ids are formed as
// "<TypeName>-<counter>", which guarantees uniqueness without coordination.
type Registry struct {
	schema *schema.Schema

	nodes map[string]*Node
	edges map[string]*Edge

	// Live ids in creation order. Creation order keeps sampling
	// deterministic for a fixed seed.
	nodeIDsByType map[string][]string
	edgeIDsByType map[string][]string

	// edgePairs tracks (edge type, source, target) triples so the generator
	// can avoid duplicate parallel edges.
	edgePairs map[string]bool

	nodeCounters map[string]int
	edgeCounters map[string]int
}

// New creates an empty registry bound to a validated schema.
func New(s *schema.Schema) *Registry {
	return &Registry{
		schema:        s,
		nodes:         make(map[string]*Node),
		edges:         make(map[string]*Edge),
		nodeIDsByType: make(map[string][]string),
		edgeIDsByType: make(map[string][]string),
		edgePairs:     make(map[string]bool),
		nodeCounters:  make(map[string]int),
		edgeCounters:  make(map[string]int),
	}
}

// Schema returns the schema this registry validates against.
func (r *Registry) Schema() *schema.Schema {
	return r.schema
}

// AllocateNodeID reserves the next id for a node type.
//
// Allocation is separate from insertion: the generator embeds the id in a
// create operation first, and the instance only comes into existence when
// that operation is applied.
func (r *Registry) AllocateNodeID(typeName string) string {
	r.nodeCounters[typeName]++
	return fmt.Sprintf("%s-%d", typeName, r.nodeCounters[typeName])
}

// AllocateEdgeID reserves the next id for an edge type.
func (r *Registry) AllocateEdgeID(typeName string) string {
	r.edgeCounters[typeName]++
	return fmt.Sprintf("%s-%d", typeName, r.edgeCounters[typeName])
}

// CreateNode validates properties against the declared node type and inserts
// a new instance under the given id.
//
// Every declared property must be present with a type-matching value; extra
// properties, a reused id, or an unknown type fail with ValidationError. If
// the type declares an "id" property it must carry the instance id (it is
// filled in when absent).
func (r *Registry) CreateNode(typeName, id string, props map[string]any, ts int64) (*Node, error) {
	nt, ok := r.schema.NodeType(typeName)
	if !ok {
		return nil, &ValidationError{TypeName: typeName, EntityID: id, Message: "unknown node type"}
	}
	if _, exists := r.nodes[id]; exists {
		return nil, &ValidationError{TypeName: typeName, EntityID: id, Message: "node id already exists"}
	}

	stored, err := validateFullSet(nt.Features, typeName, id, props)
	if err != nil {
		return nil, err
	}

	node := &Node{
		ID:         id,
		Type:       typeName,
		Properties: stored,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	r.nodes[id] = node
	r.nodeIDsByType[typeName] = append(r.nodeIDsByType[typeName], id)
	return node, nil
}

// CreateEdge validates endpoints and properties and inserts a new edge.
//
// Both endpoints must already exist in the registry and match the edge
// type's declared source/target node types; violations fail with
// IntegrityError before any property validation runs.
func (r *Registry) CreateEdge(typeName, id, sourceID, targetID string, props map[string]any, ts int64) (*Edge, error) {
	et, ok := r.schema.EdgeType(typeName)
	if !ok {
		return nil, &ValidationError{TypeName: typeName, EntityID: id, Message: "unknown edge type"}
	}
	if err := r.checkEndpoint(et, "source", sourceID, et.Source); err != nil {
		return nil, err
	}
	if err := r.checkEndpoint(et, "target", targetID, et.Target); err != nil {
		return nil, err
	}
	if _, exists := r.edges[id]; exists {
		return nil, &ValidationError{TypeName: typeName, EntityID: id, Message: "edge id already exists"}
	}

	stored, err := validateFullSet(et.Features, typeName, id, props)
	if err != nil {
		return nil, err
	}

	edge := &Edge{
		ID:         id,
		Type:       typeName,
		SourceID:   sourceID,
		TargetID:   targetID,
		Properties: stored,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	r.edges[id] = edge
	r.edgeIDsByType[typeName] = append(r.edgeIDsByType[typeName], id)
	r.edgePairs[pairKey(typeName, sourceID, targetID)] = true
	return edge, nil
}

func (r *Registry) checkEndpoint(et *schema.EdgeType, role, id, wantType string) error {
	node, ok := r.nodes[id]
	if !ok {
		return &IntegrityError{EdgeType: et.Name, Role: role, EndpointID: id, Message: "endpoint does not exist"}
	}
	if node.Type != wantType {
		return &IntegrityError{
			EdgeType:   et.Name,
			Role:       role,
			EndpointID: id,
			Message:    fmt.Sprintf("endpoint type %q does not match declared %q", node.Type, wantType),
		}
	}
	return nil
}

// UpdateNodeProperty overwrites a single declared property and bumps the
// node's last-modified tick.
func (r *Registry) UpdateNodeProperty(id, name string, value any, ts int64) (*Node, error) {
	node, ok := r.nodes[id]
	if !ok {
		return nil, &NotFoundError{Entity: "node", ID: id}
	}
	nt, _ := r.schema.NodeType(node.Type)
	stored, err := validateSingle(nt.Features, node.Type, id, name, value)
	if err != nil {
		return nil, err
	}
	node.Properties[name] = stored
	node.UpdatedAt = ts
	return node, nil
}

// UpdateEdgeProperty overwrites a single declared property and bumps the
// edge's last-modified tick.
func (r *Registry) UpdateEdgeProperty(id, name string, value any, ts int64) (*Edge, error) {
	edge, ok := r.edges[id]
	if !ok {
		return nil, &NotFoundError{Entity: "edge", ID: id}
	}
	et, _ := r.schema.EdgeType(edge.Type)
	stored, err := validateSingle(et.Features, edge.Type, id, name, value)
	if err != nil {
		return nil, err
	}
	edge.Properties[name] = stored
	edge.UpdatedAt = ts
	return edge, nil
}

// Node returns a live node instance. Callers must treat it as read-only.
func (r *Registry) Node(id string) (*Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Edge returns a live edge instance. Callers must treat it as read-only.
func (r *Registry) Edge(id string) (*Edge, bool) {
	e, ok := r.edges[id]
	return e, ok
}

// NodeCount returns the live instance count for a node type.
func (r *Registry) NodeCount(typeName string) int {
	return len(r.nodeIDsByType[typeName])
}

// EdgeCount returns the live instance count for an edge type.
func (r *Registry) EdgeCount(typeName string) int {
	return len(r.edgeIDsByType[typeName])
}

// TotalNodes returns the number of live nodes across all types.
func (r *Registry) TotalNodes() int {
	return len(r.nodes)
}

// TotalEdges returns the number of live edges across all types.
func (r *Registry) TotalEdges() int {
	return len(r.edges)
}

// SampleNodeID returns a uniformly random live id of the given node type,
// or false if the population is empty.
func (r *Registry) SampleNodeID(typeName string, rng *rand.Rand) (string, bool) {
	ids := r.nodeIDsByType[typeName]
	if len(ids) == 0 {
		return "", false
	}
	return ids[rng.Intn(len(ids))], true
}

// SampleEdgeID returns a uniformly random live id of the given edge type,
// or false if the population is empty.
func (r *Registry) SampleEdgeID(typeName string, rng *rand.Rand) (string, bool) {
	ids := r.edgeIDsByType[typeName]
	if len(ids) == 0 {
		return "", false
	}
	return ids[rng.Intn(len(ids))], true
}

// HasEdgeBetween reports whether an edge of the given type already links
// source to target.
func (r *Registry) HasEdgeBetween(edgeType, sourceID, targetID string) bool {
	return r.edgePairs[pairKey(edgeType, sourceID, targetID)]
}

func pairKey(edgeType, sourceID, targetID string) string {
	return edgeType + "\x00" + sourceID + "\x00" + targetID
}

// Snapshot is a deep-copied, id-sorted view of all live instances.
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// Snapshot captures the current graph end-state. The copy shares nothing
// with the registry, so it stays valid across further mutations.
func (r *Registry) Snapshot() Snapshot {
	snap := Snapshot{
		Nodes: make([]Node, 0, len(r.nodes)),
		Edges: make([]Edge, 0, len(r.edges)),
	}
	for _, n := range r.nodes {
		snap.Nodes = append(snap.Nodes, n.clone())
	}
	for _, e := range r.edges {
		snap.Edges = append(snap.Edges, e.clone())
	}
	sort.Slice(snap.Nodes, func(i, j int) bool { return snap.Nodes[i].ID < snap.Nodes[j].ID })
	sort.Slice(snap.Edges, func(i, j int) bool { return snap.Edges[i].ID < snap.Edges[j].ID })
	return snap
}

// validateFullSet checks a creation property set: every declared property
// present, type-correct, and nothing extra. Returns a normalized copy.
func validateFullSet(features schema.Features, typeName, id string, props map[string]any) (map[string]any, error) {
	stored := make(map[string]any, features.Len())
	for _, feat := range features.All() {
		raw, present := props[feat.Name]
		if !present {
			if feat.Name == schema.IDProperty && feat.Type == schema.TypeString {
				// The reserved id property is bound to the instance id.
				stored[feat.Name] = id
				continue
			}
			return nil, &ValidationError{TypeName: typeName, EntityID: id, Property: feat.Name, Message: "declared property missing"}
		}
		val, ok := normalizeValue(feat.Type, raw)
		if !ok {
			return nil, &ValidationError{
				TypeName: typeName,
				EntityID: id,
				Property: feat.Name,
				Message:  fmt.Sprintf("value %v does not match declared type %q", raw, feat.Type),
			}
		}
		if feat.Name == schema.IDProperty && feat.Type == schema.TypeString && val != id {
			return nil, &ValidationError{TypeName: typeName, EntityID: id, Property: feat.Name, Message: "id property must equal the instance id"}
		}
		stored[feat.Name] = val
	}
	for name := range props {
		if !features.Has(name) {
			return nil, &ValidationError{TypeName: typeName, EntityID: id, Property: name, Message: "property not declared for type"}
		}
	}
	return stored, nil
}

// validateSingle checks one update pair against the declared features.
func validateSingle(features schema.Features, typeName, id, name string, value any) (any, error) {
	declared, ok := features.Type(name)
	if !ok {
		return nil, &ValidationError{TypeName: typeName, EntityID: id, Property: name, Message: "property not declared for type"}
	}
	if name == schema.IDProperty {
		return nil, &ValidationError{TypeName: typeName, EntityID: id, Property: name, Message: "identifier property cannot be updated"}
	}
	val, ok := normalizeValue(declared, value)
	if !ok {
		return nil, &ValidationError{
			TypeName: typeName,
			EntityID: id,
			Property: name,
			Message:  fmt.Sprintf("value %v does not match declared type %q", value, declared),
		}
	}
	return val, nil
}

// normalizeValue checks a runtime value against a declared primitive and
// normalizes integer widths to int64.
func normalizeValue(t schema.PropertyType, v any) (any, bool) {
	switch t {
	case schema.TypeString:
		s, ok := v.(string)
		return s, ok
	case schema.TypeInteger:
		switch n := v.(type) {
		case int:
			return int64(n), true
		case int64:
			return n, true
		}
		return nil, false
	case schema.TypeFloat:
		f, ok := v.(float64)
		return f, ok
	case schema.TypeDatetime:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, false
		}
		return ts.UTC(), true
	default:
		return nil, false
	}
}
