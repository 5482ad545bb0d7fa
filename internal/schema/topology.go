package schema

import "sort"

// CreationOrder returns the order in which a generator should materialize
// node types: core types topologically sorted over the core-to-core edge
// subgraph (edge sources before targets), followed by any remaining types in
// name order.
//
// Core hierarchies are materialized root-first so that edge prerequisites
// are satisfied as early as possible. Cycles in the core subgraph (e.g. a
// self-referential social edge) do not fail; the cyclic remainder falls back
// to name order. Supplement types always come last, also in name order.
//
// The result is deterministic for a given schema.
func (s *Schema) CreationOrder() []string {
	var core, supplement []string
	for _, name := range s.nodeNames {
		if s.nodes[name].Usage == UsageCore {
			core = append(core, name)
		} else {
			supplement = append(supplement, name)
		}
	}

	// Kahn's algorithm over the core-to-core subgraph. At each step the
	// smallest ready name is taken, which makes the sort total.
	isCore := make(map[string]bool, len(core))
	for _, name := range core {
		isCore[name] = true
	}
	indegree := make(map[string]int, len(core))
	children := make(map[string][]string, len(core))
	for _, name := range core {
		indegree[name] = 0
	}
	for _, edgeName := range s.edgeNames {
		et := s.edges[edgeName]
		if isCore[et.Source] && isCore[et.Target] && et.Source != et.Target {
			children[et.Source] = append(children[et.Source], et.Target)
			indegree[et.Target]++
		}
	}

	var ready []string
	for _, name := range core {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(s.nodeNames))
	placed := make(map[string]bool, len(core))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		placed[name] = true
		for _, child := range children[name] {
			indegree[child]--
			if indegree[child] == 0 {
				ready = append(ready, child)
			}
		}
		sort.Strings(ready)
	}

	// Cyclic remainder, if any, in name order.
	for _, name := range core {
		if !placed[name] {
			order = append(order, name)
		}
	}
	return append(order, supplement...)
}
