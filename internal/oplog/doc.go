// Package oplog defines the operation log emitted by a simulation run.
//
// A run produces an ordered sequence of Batches; each Batch is an ordered
// sequence of Operations. Every Operation is fully self-describing (kind,
// timestamp, target ids, payload), so a downstream consumer can replay the
// entire graph construction deterministically from the log alone. The log is
// the source of truth: the live registry is populated exclusively by applying
// operations in log order.
//
// Within a batch, operations appear in generation order, which already
// respects referential dependency: a create that establishes a prerequisite
// for a later operation in the same batch always precedes it. Across the
// whole log, timestamps are strictly increasing.
//
// MarshalCanonical produces a byte-stable JSON encoding (sorted keys, NFC
// strings, RFC 3339 UTC datetimes) for golden comparison and for consumers
// that diff or hash logs.
package oplog
