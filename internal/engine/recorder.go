package engine

import (
	"fmt"

	"github.com/thecodizt/graph-server/internal/oplog"
)

// BatchRecorder groups generated operations into indexed batches.
//
// Batches are the unit of output grouping, nothing more: once Record
// succeeds the operation is durably part of the run's log (the registry has
// already been mutated to reflect it), and there is no rollback. Closing an
// empty batch records nothing and does not consume an index.
//
// Misuse (recording with no open batch, opening twice, closing with nothing
// open) is an error; the driver's loop never does this, but the recorder is
// usable standalone.
type BatchRecorder struct {
	batches   []oplog.Batch
	current   []oplog.Operation
	open      bool
	nextIndex int
}

// NewBatchRecorder creates an empty recorder.
func NewBatchRecorder() *BatchRecorder {
	return &BatchRecorder{}
}

// OpenBatch starts a new batch.
func (r *BatchRecorder) OpenBatch() error {
	if r.open {
		return fmt.Errorf("batch recorder: batch %d already open", r.nextIndex)
	}
	r.current = nil
	r.open = true
	return nil
}

// Record appends an operation to the currently open batch.
func (r *BatchRecorder) Record(op oplog.Operation) error {
	if !r.open {
		return fmt.Errorf("batch recorder: no open batch")
	}
	r.current = append(r.current, op)
	return nil
}

// CloseBatch freezes the open batch, assigns it the next batch index, and
// returns it. An empty batch is discarded and an empty Batch is returned.
func (r *BatchRecorder) CloseBatch() (oplog.Batch, error) {
	if !r.open {
		return oplog.Batch{}, fmt.Errorf("batch recorder: no open batch")
	}
	r.open = false
	if len(r.current) == 0 {
		return oplog.Batch{}, nil
	}
	batch := oplog.Batch{Index: r.nextIndex, Operations: r.current}
	r.current = nil
	r.nextIndex++
	r.batches = append(r.batches, batch)
	return batch, nil
}

// CurrentLen returns the number of operations in the open batch.
func (r *BatchRecorder) CurrentLen() int {
	return len(r.current)
}

// Log returns all closed batches in index order.
func (r *BatchRecorder) Log() oplog.Log {
	out := make(oplog.Log, len(r.batches))
	copy(out, r.batches)
	return out
}
