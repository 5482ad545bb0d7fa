// Package harness provides conformance testing for the simulation engine.
//
// The harness loads a scenario, runs a full simulation with deterministic
// inputs (fixed seed, fixed run token, fixed batch cadence), and validates
// structural properties of the emitted log and final snapshot.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	schema:
//	  nodes:
//	    Person: { type: static, usage: core, features: { id: string } }
//	  edges: {}
//	nodes_per_type: { Person: 3 }
//	num_updates: 10
//	seed: 42
//	batch_size: 4
//	run_token: "test-run-0001"
//	expect_error: exhausted   # optional
//	assertions:
//	  - type: node_count
//	    node_type: Person
//	    count: 3
//	  - type: referential_integrity
//
// # Assertion Types
//
//   - node_count: a node type has exactly N instances in the snapshot
//   - edge_count_min: an edge type has at least N instances
//   - log_length: the log holds exactly N operations in total
//   - batch_cadence: batch indices are contiguous from zero, no batch is
//     empty, and every batch except the last holds exactly the batch size
//   - monotonic_time: operation timestamps strictly increase across the log
//   - referential_integrity: every edge's endpoints exist with the declared types
//   - type_conformance: every property value matches its declared primitive
//   - id_uniqueness: no node id or edge id appears in two create operations
//   - edge_after_endpoints: no edge creation precedes the first instance of
//     both its endpoint types in the log
//   - replay_matches: replaying the log against a fresh registry reproduces
//     the run's final snapshot exactly
//
// # Deterministic Testing
//
// Scenarios execute with a seeded random source, a fixed-step virtual
// clock, and a fixed run token, so identical scenarios produce identical
// logs across runs - which is what RunWithGolden's snapshot comparison
// relies on.
package harness
