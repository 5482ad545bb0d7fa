package engine

import (
	"math/rand"

	"github.com/thecodizt/graph-server/internal/oplog"
	"github.com/thecodizt/graph-server/internal/registry"
	"github.com/thecodizt/graph-server/internal/schema"
)

// Candidate weights for the operation-kind choice. Node creation dominates
// while any type is below target; edge creation and updates split the rest.
const (
	weightCreateNode = 4
	weightCreateEdge = 3
	weightUpdate     = 3
)

// edgeSampleAttempts bounds resampling when looking for an endpoint pair
// not already linked by the chosen edge type.
const edgeSampleAttempts = 8

// dynamicUpdateWeight is the per-instance weight multiplier for
// dynamic-kind node types when picking an update target. Dynamic types model
// quantitative state that changes over time, so they attract more updates
// than static structure.
const dynamicUpdateWeight = 3

// generator decides, one call at a time, which operation to emit next.
//
// It reads registry state but never writes it: the driver applies the
// returned operation, then records it. The generator only allocates ids
// (a counter bump) so the operation is fully self-describing before apply.
type generator struct {
	schema  *schema.Schema
	reg     *registry.Registry
	targets map[string]int
	budget  int
	emitted int
	order   []string // node type creation order, topology-aware
	clock   *virtualClock
	rng     *rand.Rand
}

func newGenerator(s *schema.Schema, reg *registry.Registry, targets map[string]int, budget int, clock *virtualClock, rng *rand.Rand) *generator {
	return &generator{
		schema:  s,
		reg:     reg,
		targets: targets,
		budget:  budget,
		order:   s.CreationOrder(),
		clock:   clock,
		rng:     rng,
	}
}

// next synthesizes exactly one operation consistent with current state, or
// fails with ExhaustedError when nothing meaningful can be generated.
func (g *generator) next() (oplog.Operation, error) {
	deficit := g.totalDeficit()
	remaining := g.budget - g.emitted

	// Starvation guarantee: once the remaining budget only just covers the
	// remaining node deficit, nothing but node creation may be chosen.
	forced := deficit > 0 && remaining <= deficit

	wNode := 0
	if deficit > 0 {
		wNode = weightCreateNode
	}
	wEdge := 0
	if !forced && len(g.eligibleEdgeTypes()) > 0 {
		wEdge = weightCreateEdge
	}
	wUpdate := 0
	if !forced && g.updatePossible() {
		wUpdate = weightUpdate
	}

	total := wNode + wEdge + wUpdate
	if total == 0 {
		return oplog.Operation{}, &ExhaustedError{
			Reason:  "no node deficit, no satisfiable edge types, and no updatable entities",
			Emitted: g.emitted,
		}
	}

	var op oplog.Operation
	switch pick := g.rng.Intn(total); {
	case pick < wNode:
		op = g.createNode()
	case pick < wNode+wEdge:
		op = g.createEdge()
	default:
		op = g.update()
	}
	g.emitted++
	return op, nil
}

// deficits returns the per-type gap between target and live population.
func (g *generator) deficits() map[string]int {
	out := make(map[string]int)
	for name, want := range g.targets {
		if gap := want - g.reg.NodeCount(name); gap > 0 {
			out[name] = gap
		}
	}
	return out
}

func (g *generator) totalDeficit() int {
	total := 0
	for _, gap := range g.deficits() {
		total += gap
	}
	return total
}

// createNode materializes the first creation-ordered node type still below
// target. Core hierarchies fill root-first, so edge prerequisites appear as
// early as possible.
func (g *generator) createNode() oplog.Operation {
	var nt *schema.NodeType
	for _, name := range g.order {
		if g.targets[name] > g.reg.NodeCount(name) {
			nt, _ = g.schema.NodeType(name)
			break
		}
	}

	ts := g.clock.Next()
	id := g.reg.AllocateNodeID(nt.Name)
	props := make(map[string]any, nt.Features.Len())
	for _, feat := range nt.Features.All() {
		if feat.Name == schema.IDProperty && feat.Type == schema.TypeString {
			props[feat.Name] = id
			continue
		}
		props[feat.Name] = synthesizeValue(g.rng, feat.Name, feat.Type, ts)
	}

	return oplog.Operation{
		Kind:       oplog.KindCreateNode,
		Timestamp:  ts,
		NodeID:     id,
		NodeType:   nt.Name,
		Properties: props,
	}
}

// eligibleEdgeTypes returns edge types whose endpoint types both have at
// least one live instance, in deterministic name order.
func (g *generator) eligibleEdgeTypes() []*schema.EdgeType {
	var out []*schema.EdgeType
	for _, et := range g.schema.EdgeTypes() {
		if g.reg.NodeCount(et.Source) > 0 && g.reg.NodeCount(et.Target) > 0 {
			out = append(out, et)
		}
	}
	return out
}

// createEdge links two sampled endpoints with a fresh edge. Endpoint pairs
// already linked by the same edge type are resampled a bounded number of
// times; a saturated neighborhood falls back to an update (the populated
// endpoints guarantee at least the node-update path exists) or, failing
// that, a duplicate-free retry is abandoned in favor of node creation.
func (g *generator) createEdge() oplog.Operation {
	candidates := g.eligibleEdgeTypes()
	et := candidates[g.rng.Intn(len(candidates))]

	var sourceID, targetID string
	found := false
	for i := 0; i < edgeSampleAttempts; i++ {
		src, _ := g.reg.SampleNodeID(et.Source, g.rng)
		dst, _ := g.reg.SampleNodeID(et.Target, g.rng)
		if src == dst {
			continue
		}
		if g.reg.HasEdgeBetween(et.Name, src, dst) {
			continue
		}
		sourceID, targetID = src, dst
		found = true
		break
	}
	if !found {
		if g.updatePossible() {
			return g.update()
		}
		if g.totalDeficit() > 0 {
			return g.createNode()
		}
		// Fully saturated pair space with nothing to update: accept a
		// parallel edge rather than stall the run.
		sourceID, _ = g.reg.SampleNodeID(et.Source, g.rng)
		targetID, _ = g.reg.SampleNodeID(et.Target, g.rng)
	}

	ts := g.clock.Next()
	id := g.reg.AllocateEdgeID(et.Name)
	props := make(map[string]any, et.Features.Len())
	for _, feat := range et.Features.All() {
		props[feat.Name] = synthesizeValue(g.rng, feat.Name, feat.Type, ts)
	}

	return oplog.Operation{
		Kind:       oplog.KindCreateEdge,
		Timestamp:  ts,
		EdgeID:     id,
		EdgeType:   et.Name,
		SourceID:   sourceID,
		TargetID:   targetID,
		Properties: props,
	}
}

// updateCandidate is one weighted (type, node-or-edge) update pool.
type updateCandidate struct {
	typeName string
	isNode   bool
	weight   int
}

// updateCandidates lists every type with live instances and at least one
// updatable (non-identifier) property. Dynamic node types weigh heavier per
// instance than static ones.
func (g *generator) updateCandidates() []updateCandidate {
	var out []updateCandidate
	for _, nt := range g.schema.NodeTypes() {
		count := g.reg.NodeCount(nt.Name)
		if count == 0 || len(updatableFeatures(nt.Features)) == 0 {
			continue
		}
		weight := count
		if nt.Kind == schema.KindDynamic {
			weight *= dynamicUpdateWeight
		}
		out = append(out, updateCandidate{typeName: nt.Name, isNode: true, weight: weight})
	}
	for _, et := range g.schema.EdgeTypes() {
		count := g.reg.EdgeCount(et.Name)
		if count == 0 || len(updatableFeatures(et.Features)) == 0 {
			continue
		}
		out = append(out, updateCandidate{typeName: et.Name, isNode: false, weight: count})
	}
	return out
}

func (g *generator) updatePossible() bool {
	return len(g.updateCandidates()) > 0
}

// update overwrites one uniformly chosen declared property of an existing
// entity with a fresh type-correct value.
func (g *generator) update() oplog.Operation {
	candidates := g.updateCandidates()
	total := 0
	for _, c := range candidates {
		total += c.weight
	}
	pick := g.rng.Intn(total)
	var chosen updateCandidate
	for _, c := range candidates {
		if pick < c.weight {
			chosen = c
			break
		}
		pick -= c.weight
	}

	if chosen.isNode {
		nt, _ := g.schema.NodeType(chosen.typeName)
		id, _ := g.reg.SampleNodeID(chosen.typeName, g.rng)
		node, _ := g.reg.Node(id)
		feat := pickFeature(g.rng, updatableFeatures(nt.Features))
		ts := g.clock.Next()
		return oplog.Operation{
			Kind:      oplog.KindUpdateNodeProperty,
			Timestamp: ts,
			NodeID:    id,
			NodeType:  chosen.typeName,
			Property:  feat.Name,
			Value:     synthesizeValue(g.rng, feat.Name, feat.Type, maxInt64(node.UpdatedAt, ts)),
		}
	}

	et, _ := g.schema.EdgeType(chosen.typeName)
	id, _ := g.reg.SampleEdgeID(chosen.typeName, g.rng)
	edge, _ := g.reg.Edge(id)
	feat := pickFeature(g.rng, updatableFeatures(et.Features))
	ts := g.clock.Next()
	return oplog.Operation{
		Kind:      oplog.KindUpdateEdgeProperty,
		Timestamp: ts,
		EdgeID:    id,
		EdgeType:  chosen.typeName,
		Property:  feat.Name,
		Value:     synthesizeValue(g.rng, feat.Name, feat.Type, maxInt64(edge.UpdatedAt, ts)),
	}
}

// updatableFeatures filters out the reserved identifier property.
func updatableFeatures(features schema.Features) []schema.Feature {
	all := features.All()
	out := all[:0]
	for _, feat := range all {
		if feat.Name != schema.IDProperty {
			out = append(out, feat)
		}
	}
	return out
}

func pickFeature(rng *rand.Rand, features []schema.Feature) schema.Feature {
	return features[rng.Intn(len(features))]
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
