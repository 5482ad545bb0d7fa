package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/thecodizt/graph-server/internal/oplog"
	"github.com/thecodizt/graph-server/internal/registry"
	"github.com/thecodizt/graph-server/internal/schema"
)

// DefaultBatchSize is the default batch cadence: a batch is cut every this
// many operations.
const DefaultBatchSize = 25

// Driver orchestrates simulation runs against one schema.
//
// A Driver is stateless across runs - the registry and virtual clock are
// instantiated per run, so concurrent/independent runs cannot interfere.
type Driver struct {
	schema    *schema.Schema
	tokens    TokenGenerator
	batchSize int
	jitter    int
}

// Option configures a Driver.
type Option func(*Driver)

// WithBatchSize sets how many operations each batch holds before the driver
// cuts it and opens the next one.
func WithBatchSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.batchSize = n
		}
	}
}

// WithClockJitter widens each virtual clock step by a random 0..n extra
// ticks. The default of 0 keeps the fixed one-tick step.
func WithClockJitter(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.jitter = n
		}
	}
}

// New creates a Driver for a validated schema.
// tokens may be nil, in which case run tokens are UUIDv7.
func New(s *schema.Schema, tokens TokenGenerator, opts ...Option) *Driver {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	d := &Driver{
		schema:    s,
		tokens:    tokens,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result is the output of one run: the full operation log and the final
// graph snapshot, tagged with the run token.
type Result struct {
	RunToken string
	Log      oplog.Log
	Snapshot registry.Snapshot
}

// Run executes one simulation to completion.
//
// nodesPerType gives the desired instance count per node type; numUpdates is
// the total operation budget (counting every operation kind, not just
// updates). The run succeeds when exactly numUpdates operations have been
// emitted and every node type has reached its target.
//
// All randomness derives from seed, so identical inputs reproduce identical
// logs.
//
// On failure the returned Result is still populated with the partial log and
// snapshot up to the failure point - nothing is rolled back. ExhaustedError
// signals caller misconfiguration (budget too small for the targets, or
// nothing left to generate); any ValidationError, IntegrityError, or
// NotFoundError surfacing from apply is an engine bug and aborts the run the
// same way.
func (d *Driver) Run(ctx context.Context, nodesPerType map[string]int, numUpdates int, seed int64) (*Result, error) {
	for name := range nodesPerType {
		if _, ok := d.schema.NodeType(name); !ok {
			return nil, fmt.Errorf("population target for undeclared node type %q", name)
		}
	}

	token := d.tokens.Generate()
	rng := rand.New(rand.NewSource(seed))
	clock := newVirtualClock(d.jitter, rng)
	reg := registry.New(d.schema)
	gen := newGenerator(d.schema, reg, nodesPerType, numUpdates, clock, rng)
	rec := NewBatchRecorder()
	rec.OpenBatch()

	slog.Info("simulation starting",
		"run_token", token,
		"budget", numUpdates,
		"node_targets", len(nodesPerType),
		"seed", seed,
	)

	partial := func() *Result {
		rec.CloseBatch()
		return &Result{RunToken: token, Log: rec.Log(), Snapshot: reg.Snapshot()}
	}

	for emitted := 0; emitted < numUpdates; emitted++ {
		select {
		case <-ctx.Done():
			slog.Info("simulation cancelled", "run_token", token, "emitted", emitted)
			return partial(), ctx.Err()
		default:
		}

		op, err := gen.next()
		if err != nil {
			return partial(), err
		}

		// Decide, apply, record: one indivisible step. An apply failure here
		// means the generator emitted an operation violating its own
		// invariants - fatal, never retried.
		if err := reg.Apply(op); err != nil {
			return partial(), fmt.Errorf("apply generated operation %d (%s): %w", emitted, op.Kind, err)
		}
		rec.Record(op)

		if rec.CurrentLen() >= d.batchSize {
			batch, _ := rec.CloseBatch()
			rec.OpenBatch()
			slog.Debug("batch closed",
				"run_token", token,
				"batch", batch.Index,
				"operations", len(batch.Operations),
			)
		}
	}

	if missing := deficitsAfterRun(reg, nodesPerType); len(missing) > 0 {
		return partial(), &ExhaustedError{
			Reason:  "operation budget exhausted before node targets were met",
			Emitted: numUpdates,
			Missing: missing,
		}
	}

	result := partial()
	slog.Info("simulation complete",
		"run_token", token,
		"operations", result.Log.Len(),
		"batches", len(result.Log),
		"nodes", len(result.Snapshot.Nodes),
		"edges", len(result.Snapshot.Edges),
	)
	return result, nil
}

// deficitsAfterRun reports node types that ended below target.
func deficitsAfterRun(reg *registry.Registry, targets map[string]int) map[string]int {
	missing := make(map[string]int)
	for name, want := range targets {
		if gap := want - reg.NodeCount(name); gap > 0 {
			missing[name] = gap
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return missing
}
