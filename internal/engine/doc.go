// Package engine implements the simulation engine: the component that turns
// a validated schema plus population targets into a timestamped, batched
// operation log and a final graph snapshot.
//
// ARCHITECTURE:
//
// Single-Writer Run Loop:
// A run executes in one goroutine that owns the registry and the virtual
// clock. Each iteration is one indivisible decide/apply/record step:
//
//  1. The generator picks the next operation (create node, create edge,
//     update node property, update edge property) from current registry
//     state, stamping it from the virtual clock.
//  2. The driver applies it to the registry - the same dispatch replay uses,
//     so the log is the source of truth for all instance state.
//  3. The batch recorder appends it to the open batch; batches are cut at a
//     configurable cadence.
//
// Because decide and apply never interleave across operations, every update
// in the emitted log targets an entity some earlier operation created, and
// replaying any prefix of the log yields a valid graph.
//
// Forward progress:
// An edge type is only eligible once both its endpoint types have at least
// one live instance; until then the generator creates missing-prerequisite
// nodes instead, and node creation is force-selected whenever the remaining
// budget only just covers the remaining node deficit. Generation therefore
// never deadlocks; if targets are genuinely unreachable the run fails with
// ExhaustedError, leaving the partial log and snapshot attached for
// inspection (never rolled back).
//
// Determinism:
// All randomness flows from one seeded source threaded through the driver,
// and the clock advances by a fixed tick (plus optional seeded jitter). The
// same schema, targets, budget, and seed reproduce the same log byte for
// byte.
package engine
