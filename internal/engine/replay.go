package engine

import (
	"fmt"

	"github.com/thecodizt/graph-server/internal/oplog"
	"github.com/thecodizt/graph-server/internal/registry"
	"github.com/thecodizt/graph-server/internal/schema"
)

// Replay applies a log in order against a fresh registry.
//
// The log is a complete, order-sensitive description of final state:
// replaying a run's log reproduces exactly the run's final snapshot (same
// ids, same property values). Replay goes through the same Apply dispatch
// the live run used, so a log that violates any graph invariant fails at
// the offending operation.
func Replay(s *schema.Schema, log oplog.Log) (*registry.Registry, error) {
	reg := registry.New(s)
	for _, batch := range log {
		for i, op := range batch.Operations {
			if err := reg.Apply(op); err != nil {
				return nil, fmt.Errorf("replay batch %d operation %d: %w", batch.Index, i, err)
			}
		}
	}
	return reg, nil
}
