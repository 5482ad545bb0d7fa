package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecodizt/graph-server/internal/oplog"
)

func op(ts int64) oplog.Operation {
	return oplog.Operation{Kind: oplog.KindCreateNode, Timestamp: ts, NodeID: "A-1", NodeType: "A"}
}

func TestRecorderBasicCycle(t *testing.T) {
	r := NewBatchRecorder()

	require.NoError(t, r.OpenBatch())
	require.NoError(t, r.Record(op(1)))
	require.NoError(t, r.Record(op(2)))
	assert.Equal(t, 2, r.CurrentLen())

	batch, err := r.CloseBatch()
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Index)
	assert.Len(t, batch.Operations, 2)

	log := r.Log()
	require.Len(t, log, 1)
	assert.Equal(t, 2, log.Len())
}

func TestRecorderIndicesAreSequential(t *testing.T) {
	r := NewBatchRecorder()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.OpenBatch())
		require.NoError(t, r.Record(op(int64(i+1))))
		batch, err := r.CloseBatch()
		require.NoError(t, err)
		assert.Equal(t, i, batch.Index)
	}

	log := r.Log()
	require.Len(t, log, 3)
	for i, b := range log {
		assert.Equal(t, i, b.Index)
	}
}

// Closing an empty batch records nothing and must not consume an index.
func TestRecorderDiscardsEmptyBatch(t *testing.T) {
	r := NewBatchRecorder()

	require.NoError(t, r.OpenBatch())
	batch, err := r.CloseBatch()
	require.NoError(t, err)
	assert.Empty(t, batch.Operations)

	require.NoError(t, r.OpenBatch())
	require.NoError(t, r.Record(op(1)))
	batch, err = r.CloseBatch()
	require.NoError(t, err)
	assert.Equal(t, 0, batch.Index)

	assert.Len(t, r.Log(), 1)
}

func TestRecorderMisuse(t *testing.T) {
	r := NewBatchRecorder()

	assert.Error(t, r.Record(op(1)))
	_, err := r.CloseBatch()
	assert.Error(t, err)

	require.NoError(t, r.OpenBatch())
	assert.Error(t, r.OpenBatch())
}

// The returned log is a copy at the batch level; closing more batches later
// must not grow a previously returned log.
func TestRecorderLogIsStable(t *testing.T) {
	r := NewBatchRecorder()
	require.NoError(t, r.OpenBatch())
	require.NoError(t, r.Record(op(1)))
	_, err := r.CloseBatch()
	require.NoError(t, err)

	first := r.Log()

	require.NoError(t, r.OpenBatch())
	require.NoError(t, r.Record(op(2)))
	_, err = r.CloseBatch()
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, r.Log(), 2)
}
