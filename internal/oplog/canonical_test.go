package oplog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"kind", KindCreateNode, `"create_node"`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"float", 3.5, "3.5"},
		{"float shortest form", 0.1, "0.1"},
		{"nil", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array", []any{int64(1), "two", 3.0}, `[1,"two",3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	result, err := MarshalCanonical(map[string]any{
		"zebra": int64(1),
		"alpha": int64(2),
		"beta":  int64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(result))
}

// NFC normalization: a decomposed "e" + combining acute must encode the same
// bytes as the precomposed form.
func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	decomposed, err := MarshalCanonical("Café")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("Café")
	require.NoError(t, err)
	assert.Equal(t, string(precomposed), string(decomposed))
}

func TestMarshalCanonicalDatetimeUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	result, err := MarshalCanonical(time.Date(2024, 3, 1, 7, 30, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T12:30:00Z"`, string(result))
}

func TestMarshalCanonicalRejectsUnknownType(t *testing.T) {
	_, err := MarshalCanonical(struct{ X int }{1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestMarshalCanonicalOperationOmitsZeroFields(t *testing.T) {
	op := Operation{
		Kind:      KindCreateNode,
		Timestamp: 1,
		NodeID:    "Person-1",
		NodeType:  "Person",
	}

	result, err := MarshalCanonical(op)
	require.NoError(t, err)
	assert.Equal(t,
		`{"kind":"create_node","node_id":"Person-1","node_type":"Person","timestamp":1}`,
		string(result))
}

func TestMarshalCanonicalUpdateCarriesPropertyAndValue(t *testing.T) {
	op := Operation{
		Kind:      KindUpdateEdgeProperty,
		Timestamp: 5,
		EdgeID:    "LIVES_AT-1",
		EdgeType:  "LIVES_AT",
		Property:  "lead_time",
		Value:     int64(2),
	}

	result, err := MarshalCanonical(op)
	require.NoError(t, err)
	assert.Equal(t,
		`{"edge_id":"LIVES_AT-1","edge_type":"LIVES_AT","kind":"update_edge_property","property":"lead_time","timestamp":5,"value":2}`,
		string(result))
}

// TestMarshalCanonicalFullLog pins the complete wire form of a small
// hand-built log covering all four operation kinds and both batch shapes.
func TestMarshalCanonicalFullLog(t *testing.T) {
	log := Log{
		{Index: 0, Operations: []Operation{
			{Kind: KindCreateNode, Timestamp: 1, NodeID: "Person-1", NodeType: "Person",
				Properties: map[string]any{"id": "Person-1", "name": "Ada", "importance": int64(4)}},
			{Kind: KindCreateNode, Timestamp: 2, NodeID: "Address-1", NodeType: "Address",
				Properties: map[string]any{"location": "Chicago"}},
			{Kind: KindCreateEdge, Timestamp: 3, EdgeID: "LIVES_AT-1", EdgeType: "LIVES_AT",
				SourceID: "Person-1", TargetID: "Address-1",
				Properties: map[string]any{"lead_time": int64(7)}},
		}},
		{Index: 1, Operations: []Operation{
			{Kind: KindUpdateNodeProperty, Timestamp: 4, NodeID: "Person-1", NodeType: "Person",
				Property: "importance", Value: int64(9)},
			{Kind: KindUpdateEdgeProperty, Timestamp: 5, EdgeID: "LIVES_AT-1", EdgeType: "LIVES_AT",
				Property: "lead_time", Value: int64(2)},
		}},
	}

	result, err := MarshalCanonical(log)
	require.NoError(t, err)

	expected := `[{"index":0,"operations":[` +
		`{"kind":"create_node","node_id":"Person-1","node_type":"Person","properties":{"id":"Person-1","importance":4,"name":"Ada"},"timestamp":1},` +
		`{"kind":"create_node","node_id":"Address-1","node_type":"Address","properties":{"location":"Chicago"},"timestamp":2},` +
		`{"edge_id":"LIVES_AT-1","edge_type":"LIVES_AT","kind":"create_edge","properties":{"lead_time":7},"source_id":"Person-1","target_id":"Address-1","timestamp":3}]},` +
		`{"index":1,"operations":[` +
		`{"kind":"update_node_property","node_id":"Person-1","node_type":"Person","property":"importance","timestamp":4,"value":9},` +
		`{"edge_id":"LIVES_AT-1","edge_type":"LIVES_AT","kind":"update_edge_property","property":"lead_time","timestamp":5,"value":2}]}]`
	assert.Equal(t, expected, string(result))
}

// Marshal twice; identical input must give identical bytes.
func TestMarshalCanonicalIdempotent(t *testing.T) {
	log := Log{
		{Index: 0, Operations: []Operation{
			{Kind: KindCreateNode, Timestamp: 1, NodeID: "Person-1", NodeType: "Person",
				Properties: map[string]any{"b": "x", "a": "y", "c": int64(1)}},
		}},
	}

	first, err := MarshalCanonical(log)
	require.NoError(t, err)
	second, err := MarshalCanonical(log)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
