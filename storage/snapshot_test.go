package storage

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/ontology"
)

type memBucket struct {
	data   map[string][]byte
	rev    uint64
	putErr error
}

func newMemBucket() *memBucket {
	return &memBucket{data: make(map[string][]byte)}
}

func (m *memBucket) Get(_ context.Context, key string) ([]byte, uint64, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, 0, ErrNotFound
	}
	return v, m.rev, nil
}

func (m *memBucket) Put(_ context.Context, key string, value []byte) (uint64, error) {
	if m.putErr != nil {
		return 0, m.putErr
	}
	m.rev++
	m.data[key] = value
	return m.rev, nil
}

func (m *memBucket) Keys(context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memBucket) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// testStore returns a store whose clock advances one second per call.
func testStore(b Bucket) *Store {
	s := NewStoreWithBucket(b, nil)
	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func sampleGraph(t *testing.T, refs ...string) *ontology.Graph {
	t.Helper()
	g := ontology.NewGraph()
	for _, ref := range refs {
		require.NoError(t, g.AddNode(ref, map[string]any{"type": "query"}))
	}
	if len(refs) > 1 {
		require.NoError(t, g.AddEdge(refs[0], refs[1], ontology.RelationDependsOn))
	}
	return g
}

func TestSnapshotID(t *testing.T) {
	id := NewSnapshotID(KindGraph)
	assert.Equal(t, KindGraph, id.Kind)
	assert.NotEmpty(t, id.ID)

	parsed, err := ParseSnapshotID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	tests := []string{"graph", "graph:", "node:123", ""}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSnapshotID(input)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoadGraph(t *testing.T) {
	ctx := context.Background()
	bucket := newMemBucket()
	s := testStore(bucket)

	g := sampleGraph(t, "a", "b")
	id, err := s.SaveGraph(ctx, "orders.json", g)
	require.NoError(t, err)
	assert.Contains(t, bucket.data, "graph."+id.ID)

	loaded, snap, err := s.LoadGraph(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "orders.json", snap.Contract)
	assert.Equal(t, id.String(), snap.ID)
	assert.Len(t, snap.Fingerprint, 64)
	assert.Equal(t, g.GetAllEdges(), loaded.GetAllEdges())

	fp, err := ontology.Fingerprint(loaded)
	require.NoError(t, err)
	assert.Equal(t, snap.Fingerprint, fp)
}

func TestSaveGraphReusesUnchangedSnapshot(t *testing.T) {
	ctx := context.Background()
	bucket := newMemBucket()
	s := testStore(bucket)

	first, err := s.SaveGraph(ctx, "orders.json", sampleGraph(t, "a", "b"))
	require.NoError(t, err)
	again, err := s.SaveGraph(ctx, "orders.json", sampleGraph(t, "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, bucket.data, 1)

	changed, err := s.SaveGraph(ctx, "orders.json", sampleGraph(t, "a", "b", "c"))
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	other, err := s.SaveGraph(ctx, "billing.json", sampleGraph(t, "a", "b"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	latest, err := s.Latest(ctx, KindGraph, "orders.json")
	require.NoError(t, err)
	assert.Equal(t, changed.String(), latest.ID)
}

func TestSaveReport(t *testing.T) {
	ctx := context.Background()
	s := testStore(newMemBucket())

	report := diagnostics.Report{
		ID:         "4f1c2d9e-0000-4000-8000-000000000001",
		Contract:   "orders.json",
		TotalScore: 87,
		Lint:       diagnostics.LintResult{Graph: diagnostics.GraphStats{Fingerprint: "abc"}},
	}
	id, err := s.SaveReport(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, SnapshotID{Kind: KindReport, ID: report.ID}, id)

	snap, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, snap.Report)
	assert.Equal(t, 87, snap.Report.TotalScore)
	assert.Equal(t, "abc", snap.Fingerprint)
	assert.Nil(t, snap.Graph)

	_, _, err = s.LoadGraph(ctx, id)
	assert.ErrorContains(t, err, "expected graph")
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := testStore(newMemBucket())

	first, err := s.SaveGraph(ctx, "a.json", sampleGraph(t, "x"))
	require.NoError(t, err)
	second, err := s.SaveGraph(ctx, "b.json", sampleGraph(t, "y"))
	require.NoError(t, err)
	_, err = s.SaveReport(ctx, diagnostics.Report{Contract: "a.json"})
	require.NoError(t, err)

	graphs, err := s.List(ctx, KindGraph)
	require.NoError(t, err)
	require.Len(t, graphs, 2)
	assert.Equal(t, second.String(), graphs[0].ID, "newest first")
	assert.Equal(t, first.String(), graphs[1].ID)

	reports, err := s.List(ctx, KindReport)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	require.NoError(t, s.Delete(ctx, first))
	_, err = s.Get(ctx, first)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Latest(ctx, KindGraph, "a.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveGraphPutFailure(t *testing.T) {
	bucket := newMemBucket()
	bucket.putErr = errors.New("bucket offline")
	_, err := testStore(bucket).SaveGraph(context.Background(), "a.json", sampleGraph(t, "x"))
	assert.ErrorContains(t, err, "store graph snapshot: bucket offline")
}
