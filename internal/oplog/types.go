package oplog

// Kind tags an operation variant.
//
// The set is closed for this engine: entities are created once and then
// updated zero or more times. Deletion is deliberately absent; a future
// delete variant would be additive, paired with a cascade-or-reject policy
// on dependent edges.
type Kind string

const (
	KindCreateNode         Kind = "create_node"
	KindCreateEdge         Kind = "create_edge"
	KindUpdateNodeProperty Kind = "update_node_property"
	KindUpdateEdgeProperty Kind = "update_edge_property"
)

// Operation is a single, fully self-describing graph mutation.
//
// Field population by kind:
//   - create_node:          NodeID, NodeType, Properties (full declared set)
//   - create_edge:          EdgeID, EdgeType, SourceID, TargetID, Properties
//   - update_node_property: NodeID, NodeType, Property, Value
//   - update_edge_property: EdgeID, EdgeType, Property, Value
//
// Property values are string, int64, float64, or time.Time (UTC), matching
// the four schema primitives. Timestamp is virtual clock ticks, not wall
// time; ordering is the only meaning it carries.
type Operation struct {
	Kind      Kind  `json:"kind"`
	Timestamp int64 `json:"timestamp"`

	NodeID   string `json:"node_id,omitempty"`
	NodeType string `json:"node_type,omitempty"`

	EdgeID   string `json:"edge_id,omitempty"`
	EdgeType string `json:"edge_type,omitempty"`
	SourceID string `json:"source_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	// Properties carries the full property set for creations.
	Properties map[string]any `json:"properties,omitempty"`

	// Property and Value carry a single name/value pair for updates.
	Property string `json:"property,omitempty"`
	Value    any    `json:"value,omitempty"`
}

// IsCreate reports whether the operation creates an entity.
func (o Operation) IsCreate() bool {
	return o.Kind == KindCreateNode || o.Kind == KindCreateEdge
}

// Batch is an ordered run of operations sharing a batch index.
// Batches are the unit of output grouping; there is no rollback.
type Batch struct {
	Index      int         `json:"index"`
	Operations []Operation `json:"operations"`
}

// Log is the ordered sequence of batches produced by one run.
type Log []Batch

// Len returns the total operation count across all batches.
func (l Log) Len() int {
	n := 0
	for _, b := range l {
		n += len(b.Operations)
	}
	return n
}

// Operations flattens the log into a single operation sequence in log order.
func (l Log) Operations() []Operation {
	out := make([]Operation, 0, l.Len())
	for _, b := range l {
		out = append(out, b.Operations...)
	}
	return out
}
