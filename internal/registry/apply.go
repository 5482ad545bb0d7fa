package registry

import (
	"fmt"

	"github.com/thecodizt/graph-server/internal/oplog"
)

// Apply mutates the registry with a single logged operation.
//
// This is the only write path: the live run applies each operation right
// after generating it, and replay applies the same operations against a
// fresh registry. Replaying any prefix of a valid log therefore always
// yields a valid graph state.
func (r *Registry) Apply(op oplog.Operation) error {
	switch op.Kind {
	case oplog.KindCreateNode:
		_, err := r.CreateNode(op.NodeType, op.NodeID, op.Properties, op.Timestamp)
		return err

	case oplog.KindCreateEdge:
		_, err := r.CreateEdge(op.EdgeType, op.EdgeID, op.SourceID, op.TargetID, op.Properties, op.Timestamp)
		return err

	case oplog.KindUpdateNodeProperty:
		_, err := r.UpdateNodeProperty(op.NodeID, op.Property, op.Value, op.Timestamp)
		return err

	case oplog.KindUpdateEdgeProperty:
		_, err := r.UpdateEdgeProperty(op.EdgeID, op.Property, op.Value, op.Timestamp)
		return err

	default:
		return fmt.Errorf("unknown operation kind: %q", op.Kind)
	}
}
