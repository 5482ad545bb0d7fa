// Package registry holds the live state of a single simulation run: every
// instantiated node and edge, per-type id counters, and the indexes the
// generator samples from.
//
// The registry is the sole owner and only writer of instance state, and it
// is populated exclusively through Apply - both the live run and replay feed
// the same operation dispatch, so the operation log is the source of truth
// by construction, never a side effect.
//
// Thread-safety: none. A registry belongs to exactly one run and is mutated
// only from that run's single-writer loop. Independent runs use independent
// registries and cannot interfere.
//
// Error taxonomy:
//   - ValidationError: property set or value does not match the declared schema
//   - IntegrityError: edge endpoint missing or of the wrong declared type
//   - NotFoundError: update targeting an unknown id
//
// All three indicate generator bugs when surfaced from a run and are treated
// as fatal by the driver.
package registry
