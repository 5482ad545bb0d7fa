package registry

// Node is a live node instance. Instances are created once and then updated
// through the operation log; deletion is outside this engine's scope.
//
// CreatedAt/UpdatedAt are virtual clock ticks, not wall time.
type Node struct {
	ID         string
	Type       string
	Properties map[string]any
	CreatedAt  int64
	UpdatedAt  int64
}

// Edge is a live edge instance. Its endpoints reference node instances that
// exist for the edge's entire lifetime: edges are created strictly after
// both endpoints and nothing is ever deleted.
type Edge struct {
	ID         string
	Type       string
	SourceID   string
	TargetID   string
	Properties map[string]any
	CreatedAt  int64
	UpdatedAt  int64
}

func copyProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

func (n *Node) clone() Node {
	c := *n
	c.Properties = copyProperties(n.Properties)
	return c
}

func (e *Edge) clone() Edge {
	c := *e
	c.Properties = copyProperties(e.Properties)
	return c
}
