package harness

import (
	"fmt"
	"reflect"
	"time"

	"github.com/thecodizt/graph-server/internal/engine"
	"github.com/thecodizt/graph-server/internal/oplog"
	"github.com/thecodizt/graph-server/internal/registry"
	"github.com/thecodizt/graph-server/internal/schema"
)

// evaluateAssertions runs every scenario assertion against the result and
// returns failure messages in assertion order. All assertions are evaluated
// even after failures so a single run reports everything that is wrong.
func evaluateAssertions(scenario *Scenario, result *Result) []string {
	var failures []string
	for i, a := range scenario.Assertions {
		msgs := evaluateAssertion(scenario, result, a)
		for _, msg := range msgs {
			failures = append(failures, fmt.Sprintf("assertion %d (%s): %s", i, a.Type, msg))
		}
	}
	return failures
}

func evaluateAssertion(scenario *Scenario, result *Result, a Assertion) []string {
	switch a.Type {
	case AssertNodeCount:
		return assertNodeCount(result, a)
	case AssertEdgeCountMin:
		return assertEdgeCountMin(result, a)
	case AssertLogLength:
		return assertLogLength(result, a)
	case AssertBatchCadence:
		return assertBatchCadence(scenario, result)
	case AssertMonotonicTime:
		return assertMonotonicTime(result)
	case AssertReferentialIntegrity:
		return assertReferentialIntegrity(result)
	case AssertTypeConformance:
		return assertTypeConformance(result)
	case AssertIDUniqueness:
		return assertIDUniqueness(result)
	case AssertEdgeAfterEndpoints:
		return assertEdgeAfterEndpoints(result)
	case AssertReplayMatches:
		return assertReplayMatches(result)
	default:
		// LoadScenario rejects unknown types; reaching here is a bug.
		return []string{fmt.Sprintf("unknown assertion type %q", a.Type)}
	}
}

func assertNodeCount(result *Result, a Assertion) []string {
	got := 0
	for _, n := range result.Snapshot.Nodes {
		if n.Type == a.NodeType {
			got++
		}
	}
	if got != a.Count {
		return []string{fmt.Sprintf("node type %s: got %d instances, want %d", a.NodeType, got, a.Count)}
	}
	return nil
}

func assertEdgeCountMin(result *Result, a Assertion) []string {
	got := 0
	for _, e := range result.Snapshot.Edges {
		if e.Type == a.EdgeType {
			got++
		}
	}
	if got < a.Count {
		return []string{fmt.Sprintf("edge type %s: got %d instances, want at least %d", a.EdgeType, got, a.Count)}
	}
	return nil
}

func assertLogLength(result *Result, a Assertion) []string {
	if got := result.Log.Len(); got != a.Count {
		return []string{fmt.Sprintf("log holds %d operations, want %d", got, a.Count)}
	}
	return nil
}

// assertBatchCadence checks batch indices are contiguous from zero, no batch
// is empty, every batch but the last holds exactly the configured batch
// size, and the last holds at most that.
func assertBatchCadence(scenario *Scenario, result *Result) []string {
	size := scenario.BatchSize
	if size <= 0 {
		size = engine.DefaultBatchSize
	}

	var failures []string
	for i, b := range result.Log {
		if b.Index != i {
			failures = append(failures, fmt.Sprintf("batch at position %d has index %d", i, b.Index))
		}
		switch {
		case len(b.Operations) == 0:
			failures = append(failures, fmt.Sprintf("batch %d is empty", b.Index))
		case i < len(result.Log)-1 && len(b.Operations) != size:
			failures = append(failures, fmt.Sprintf("batch %d holds %d operations, want %d", b.Index, len(b.Operations), size))
		case len(b.Operations) > size:
			failures = append(failures, fmt.Sprintf("batch %d holds %d operations, exceeds batch size %d", b.Index, len(b.Operations), size))
		}
	}
	return failures
}

func assertMonotonicTime(result *Result) []string {
	var failures []string
	prev := int64(0)
	for i, op := range result.Log.Operations() {
		if op.Timestamp <= prev {
			failures = append(failures, fmt.Sprintf("operation %d: timestamp %d does not advance past %d", i, op.Timestamp, prev))
		}
		prev = op.Timestamp
	}
	return failures
}

// assertReferentialIntegrity checks every snapshot edge references snapshot
// nodes of the declared endpoint types.
func assertReferentialIntegrity(result *Result) []string {
	nodeType := make(map[string]string, len(result.Snapshot.Nodes))
	for _, n := range result.Snapshot.Nodes {
		nodeType[n.ID] = n.Type
	}

	var failures []string
	for _, e := range result.Snapshot.Edges {
		et, ok := result.Schema.EdgeType(e.Type)
		if !ok {
			failures = append(failures, fmt.Sprintf("edge %s has undeclared type %s", e.ID, e.Type))
			continue
		}
		if got, ok := nodeType[e.SourceID]; !ok {
			failures = append(failures, fmt.Sprintf("edge %s: source %s is dangling", e.ID, e.SourceID))
		} else if got != et.Source {
			failures = append(failures, fmt.Sprintf("edge %s: source %s has type %s, want %s", e.ID, e.SourceID, got, et.Source))
		}
		if got, ok := nodeType[e.TargetID]; !ok {
			failures = append(failures, fmt.Sprintf("edge %s: target %s is dangling", e.ID, e.TargetID))
		} else if got != et.Target {
			failures = append(failures, fmt.Sprintf("edge %s: target %s has type %s, want %s", e.ID, e.TargetID, got, et.Target))
		}
	}
	return failures
}

// assertTypeConformance checks every snapshot entity carries exactly its
// declared property set with the declared runtime types.
func assertTypeConformance(result *Result) []string {
	var failures []string
	for _, n := range result.Snapshot.Nodes {
		nt, ok := result.Schema.NodeType(n.Type)
		if !ok {
			failures = append(failures, fmt.Sprintf("node %s has undeclared type %s", n.ID, n.Type))
			continue
		}
		failures = append(failures, checkProperties("node", n.ID, nt.Features, n.Properties)...)
	}
	for _, e := range result.Snapshot.Edges {
		et, ok := result.Schema.EdgeType(e.Type)
		if !ok {
			failures = append(failures, fmt.Sprintf("edge %s has undeclared type %s", e.ID, e.Type))
			continue
		}
		failures = append(failures, checkProperties("edge", e.ID, et.Features, e.Properties)...)
	}
	return failures
}

func checkProperties(entity, id string, features schema.Features, props map[string]any) []string {
	var failures []string
	for _, f := range features.All() {
		v, ok := props[f.Name]
		if !ok {
			failures = append(failures, fmt.Sprintf("%s %s: missing property %s", entity, id, f.Name))
			continue
		}
		if !valueConforms(f.Type, v) {
			failures = append(failures, fmt.Sprintf("%s %s: property %s holds %T, want %s", entity, id, f.Name, v, f.Type))
		}
	}
	for name := range props {
		if !features.Has(name) {
			failures = append(failures, fmt.Sprintf("%s %s: undeclared property %s", entity, id, name))
		}
	}
	return failures
}

func valueConforms(t schema.PropertyType, v any) bool {
	switch t {
	case schema.TypeString:
		_, ok := v.(string)
		return ok
	case schema.TypeInteger:
		_, ok := v.(int64)
		return ok
	case schema.TypeFloat:
		_, ok := v.(float64)
		return ok
	case schema.TypeDatetime:
		_, ok := v.(time.Time)
		return ok
	default:
		return false
	}
}

func assertIDUniqueness(result *Result) []string {
	var failures []string
	nodeIDs := make(map[string]bool)
	edgeIDs := make(map[string]bool)
	for i, op := range result.Log.Operations() {
		switch op.Kind {
		case oplog.KindCreateNode:
			if nodeIDs[op.NodeID] {
				failures = append(failures, fmt.Sprintf("operation %d: duplicate node id %s", i, op.NodeID))
			}
			nodeIDs[op.NodeID] = true
		case oplog.KindCreateEdge:
			if edgeIDs[op.EdgeID] {
				failures = append(failures, fmt.Sprintf("operation %d: duplicate edge id %s", i, op.EdgeID))
			}
			edgeIDs[op.EdgeID] = true
		}
	}
	return failures
}

// assertEdgeAfterEndpoints checks that in log order, every edge creation
// follows the creation of both its endpoints, and every update follows the
// creation of its entity.
func assertEdgeAfterEndpoints(result *Result) []string {
	var failures []string
	nodes := make(map[string]bool)
	edges := make(map[string]bool)
	for i, op := range result.Log.Operations() {
		switch op.Kind {
		case oplog.KindCreateNode:
			nodes[op.NodeID] = true
		case oplog.KindCreateEdge:
			if !nodes[op.SourceID] {
				failures = append(failures, fmt.Sprintf("operation %d: edge %s created before source %s", i, op.EdgeID, op.SourceID))
			}
			if !nodes[op.TargetID] {
				failures = append(failures, fmt.Sprintf("operation %d: edge %s created before target %s", i, op.EdgeID, op.TargetID))
			}
			edges[op.EdgeID] = true
		case oplog.KindUpdateNodeProperty:
			if !nodes[op.NodeID] {
				failures = append(failures, fmt.Sprintf("operation %d: update of node %s before its creation", i, op.NodeID))
			}
		case oplog.KindUpdateEdgeProperty:
			if !edges[op.EdgeID] {
				failures = append(failures, fmt.Sprintf("operation %d: update of edge %s before its creation", i, op.EdgeID))
			}
		}
	}
	return failures
}

// assertReplayMatches re-applies the log against a fresh registry and
// compares the rebuilt snapshot to the run's snapshot.
func assertReplayMatches(result *Result) []string {
	reg, err := engine.Replay(result.Schema, result.Log)
	if err != nil {
		return []string{fmt.Sprintf("replay failed: %v", err)}
	}
	if !snapshotsEqual(reg.Snapshot(), result.Snapshot) {
		return []string{"replayed snapshot differs from run snapshot"}
	}
	return nil
}

func snapshotsEqual(a, b registry.Snapshot) bool {
	return reflect.DeepEqual(a, b)
}
