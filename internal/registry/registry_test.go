package registry

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecodizt/graph-server/internal/testutil"
)

func personProps(id string) map[string]any {
	return map[string]any{"id": id, "name": "someone", "importance": int64(3)}
}

func addressProps(id string) map[string]any {
	return map[string]any{"id": id, "location": "Chicago"}
}

func TestAllocateIDsAreSequentialPerType(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	assert.Equal(t, "Person-1", r.AllocateNodeID("Person"))
	assert.Equal(t, "Person-2", r.AllocateNodeID("Person"))
	assert.Equal(t, "Address-1", r.AllocateNodeID("Address"))
	assert.Equal(t, "LIVES_AT-1", r.AllocateEdgeID("LIVES_AT"))
	assert.Equal(t, "LIVES_AT-2", r.AllocateEdgeID("LIVES_AT"))
}

func TestCreateNode(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	node, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 5)
	require.NoError(t, err)

	assert.Equal(t, "Person-1", node.ID)
	assert.Equal(t, "Person", node.Type)
	assert.Equal(t, int64(5), node.CreatedAt)
	assert.Equal(t, int64(5), node.UpdatedAt)
	assert.Equal(t, int64(3), node.Properties["importance"])
	assert.Equal(t, 1, r.NodeCount("Person"))
	assert.Equal(t, 1, r.TotalNodes())
}

func TestCreateNodeFillsIDProperty(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	node, err := r.CreateNode("Person", "Person-1",
		map[string]any{"name": "someone", "importance": int64(1)}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Person-1", node.Properties["id"])
}

func TestCreateNodeRejectsMismatchedIDProperty(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	_, err := r.CreateNode("Person", "Person-1",
		map[string]any{"id": "Person-9", "name": "someone", "importance": int64(1)}, 1)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "id property must equal the instance id")
}

func TestCreateNodeUnknownType(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	_, err := r.CreateNode("Ghost", "Ghost-1", nil, 1)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "unknown node type")
}

func TestCreateNodeDuplicateID(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)
	_, err = r.CreateNode("Person", "Person-1", personProps("Person-1"), 2)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateNodeMissingProperty(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	_, err := r.CreateNode("Person", "Person-1",
		map[string]any{"id": "Person-1", "name": "someone"}, 1)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), `property "importance"`)
	assert.Contains(t, err.Error(), "missing")
}

func TestCreateNodeExtraProperty(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	props := personProps("Person-1")
	props["height"] = int64(180)
	_, err := r.CreateNode("Person", "Person-1", props, 1)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "not declared")
}

func TestCreateNodeTypeMismatch(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	props := personProps("Person-1")
	props["importance"] = "very"
	_, err := r.CreateNode("Person", "Person-1", props, 1)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "does not match declared type")
}

// Plain int values normalize to int64 so downstream consumers see one width.
func TestCreateNodeNormalizesInt(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	props := personProps("Person-1")
	props["importance"] = 7
	node, err := r.CreateNode("Person", "Person-1", props, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), node.Properties["importance"])
}

func TestCreateEdge(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)
	_, err = r.CreateNode("Address", "Address-1", addressProps("Address-1"), 2)
	require.NoError(t, err)

	edge, err := r.CreateEdge("LIVES_AT", "LIVES_AT-1", "Person-1", "Address-1",
		map[string]any{"lead_time": int64(4)}, 3)
	require.NoError(t, err)

	assert.Equal(t, "Person-1", edge.SourceID)
	assert.Equal(t, "Address-1", edge.TargetID)
	assert.Equal(t, int64(3), edge.CreatedAt)
	assert.Equal(t, 1, r.EdgeCount("LIVES_AT"))
	assert.True(t, r.HasEdgeBetween("LIVES_AT", "Person-1", "Address-1"))
	assert.False(t, r.HasEdgeBetween("LIVES_AT", "Address-1", "Person-1"))
}

func TestCreateEdgeMissingEndpoint(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)

	_, err = r.CreateEdge("LIVES_AT", "LIVES_AT-1", "Person-1", "Address-1",
		map[string]any{"lead_time": int64(4)}, 2)
	require.Error(t, err)
	assert.True(t, IsIntegrity(err))
	assert.Contains(t, err.Error(), `target "Address-1"`)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestCreateEdgeEndpointTypeMismatch(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)
	_, err = r.CreateNode("Person", "Person-2", personProps("Person-2"), 2)
	require.NoError(t, err)

	_, err = r.CreateEdge("LIVES_AT", "LIVES_AT-1", "Person-1", "Person-2",
		map[string]any{"lead_time": int64(4)}, 3)
	require.Error(t, err)
	assert.True(t, IsIntegrity(err))
	assert.Contains(t, err.Error(), `endpoint type "Person" does not match declared "Address"`)
}

func TestUpdateNodeProperty(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)

	node, err := r.UpdateNodeProperty("Person-1", "importance", int64(5), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(5), node.Properties["importance"])
	assert.Equal(t, int64(1), node.CreatedAt)
	assert.Equal(t, int64(9), node.UpdatedAt)
}

func TestUpdateNodePropertyNotFound(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	_, err := r.UpdateNodeProperty("Person-404", "importance", int64(5), 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `node "Person-404" not found`)
}

func TestUpdateNodePropertyUndeclared(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)

	_, err = r.UpdateNodeProperty("Person-1", "height", int64(5), 2)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateNodePropertyRejectsID(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)

	_, err = r.UpdateNodeProperty("Person-1", "id", "Person-2", 2)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "identifier property cannot be updated")
}

func TestUpdateEdgeProperty(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)
	_, err = r.CreateNode("Address", "Address-1", addressProps("Address-1"), 2)
	require.NoError(t, err)
	_, err = r.CreateEdge("LIVES_AT", "LIVES_AT-1", "Person-1", "Address-1",
		map[string]any{"lead_time": int64(4)}, 3)
	require.NoError(t, err)

	edge, err := r.UpdateEdgeProperty("LIVES_AT-1", "lead_time", int64(11), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(11), edge.Properties["lead_time"])
	assert.Equal(t, int64(7), edge.UpdatedAt)
}

func TestUpdateEdgePropertyNotFound(t *testing.T) {
	r := New(testutil.PersonAddressSchema())

	_, err := r.UpdateEdgeProperty("LIVES_AT-404", "lead_time", int64(1), 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDatetimeNormalizedToUTC(t *testing.T) {
	s := testutil.SupplyChainSchema()
	r := New(s)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	local := time.Date(2024, 6, 1, 8, 0, 0, 0, loc)

	props := map[string]any{
		"id": "Parts-1", "name": "bolt", "type": "Type A",
		"cost": 12.5, "importance": int64(2), "expected_life": int64(400),
		"units_in_chain": int64(10), "expiry": local,
	}
	node, err := r.CreateNode("Parts", "Parts-1", props, 1)
	require.NoError(t, err)

	stored, ok := node.Properties["expiry"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, stored.Location())
	assert.True(t, stored.Equal(local))
}

func TestSampleNodeID(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	rng := rand.New(rand.NewSource(1))

	_, ok := r.SampleNodeID("Person", rng)
	assert.False(t, ok)

	_, err := r.CreateNode("Person", "Person-1", personProps("Person-1"), 1)
	require.NoError(t, err)

	id, ok := r.SampleNodeID("Person", rng)
	require.True(t, ok)
	assert.Equal(t, "Person-1", id)
}

func TestSnapshotIsSortedAndDetached(t *testing.T) {
	r := New(testutil.PersonAddressSchema())
	_, err := r.CreateNode("Person", "Person-2", personProps("Person-2"), 1)
	require.NoError(t, err)
	_, err = r.CreateNode("Person", "Person-1", personProps("Person-1"), 2)
	require.NoError(t, err)

	snap := r.Snapshot()
	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, "Person-1", snap.Nodes[0].ID)
	assert.Equal(t, "Person-2", snap.Nodes[1].ID)

	// Later registry mutations must not leak into the snapshot.
	_, err = r.UpdateNodeProperty("Person-1", "name", "changed", 3)
	require.NoError(t, err)
	assert.Equal(t, "someone", snap.Nodes[0].Properties["name"])
}
