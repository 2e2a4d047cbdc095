package ontology

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGraph(t *testing.T, refs []string, edges ...Edge) *Graph {
	t.Helper()
	g := NewGraph()
	for _, ref := range refs {
		require.NoError(t, g.AddNode(ref, nil))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.Source, e.Target, e.Type))
	}
	return g
}

func dep(source, target string) Edge {
	return Edge{Source: source, Target: target, Type: RelationDependsOn}
}

func TestGraphAddNode(t *testing.T) {
	t.Run("rejects empty ref", func(t *testing.T) {
		g := NewGraph()
		err := g.AddNode("", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRef))

		var storeErr *StoreError
		assert.True(t, errors.As(err, &storeErr))
	})

	t.Run("nil metadata stored as empty map", func(t *testing.T) {
		g := NewGraph()
		require.NoError(t, g.AddNode("a", nil))

		n, ok := g.GetNode("a")
		require.True(t, ok)
		assert.Equal(t, map[string]any{}, n.Metadata)
	})

	t.Run("re-adding overwrites metadata and keeps edges", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b"}, dep("a", "b"))
		require.NoError(t, g.AddNode("a", map[string]any{"type": "mutation"}))

		n, ok := g.GetNode("a")
		require.True(t, ok)
		assert.Equal(t, "mutation", n.Metadata["type"])
		assert.Equal(t, 2, g.NodeCount())
		assert.Equal(t, []Edge{dep("a", "b")}, g.GetEdges("a"))
	})

	t.Run("unknown node", func(t *testing.T) {
		g := NewGraph()
		_, ok := g.GetNode("missing")
		assert.False(t, ok)
	})

	t.Run("nodes keep insertion order", func(t *testing.T) {
		g := mustGraph(t, []string{"c", "a", "b"})
		var refs []string
		for _, n := range g.GetAllNodes() {
			refs = append(refs, n.Ref)
		}
		assert.Equal(t, []string{"c", "a", "b"}, refs)
	})
}

func TestGraphNodeMetadataIsolated(t *testing.T) {
	newGraph := func(t *testing.T) *Graph {
		g := NewGraph()
		require.NoError(t, g.AddNode("a", map[string]any{"type": "query"}))
		return g
	}

	tests := []struct {
		name     string
		metadata func(g *Graph) map[string]any
	}{
		{"GetNode", func(g *Graph) map[string]any {
			n, _ := g.GetNode("a")
			return n.Metadata
		}},
		{"GetAllNodes", func(g *Graph) map[string]any {
			return g.GetAllNodes()[0].Metadata
		}},
		{"ToDocument", func(g *Graph) map[string]any {
			return g.ToDocument().Nodes[0].Metadata
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t)
			md := tt.metadata(g)
			md["type"] = "mutation"
			md["intent"] = "injected"

			n, ok := g.GetNode("a")
			require.True(t, ok)
			assert.Equal(t, map[string]any{"type": "query"}, n.Metadata)
		})
	}
}

func TestGraphAddEdge(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		target   string
		rel      RelationType
		sentinel error
		contains []string
	}{
		{
			name:     "unknown relation type",
			source:   "a",
			target:   "b",
			rel:      RelationType("calls"),
			sentinel: ErrUnknownRelation,
			contains: []string{`"calls"`},
		},
		{
			name:     "missing source",
			source:   "ghost",
			target:   "b",
			rel:      RelationDependsOn,
			sentinel: ErrMissingEndpoint,
			contains: []string{`"ghost"`},
		},
		{
			name:     "missing target",
			source:   "a",
			target:   "ghost",
			rel:      RelationComposes,
			sentinel: ErrMissingEndpoint,
			contains: []string{`"ghost"`},
		},
		{
			name:     "both endpoints missing",
			source:   "x",
			target:   "y",
			rel:      RelationExtends,
			sentinel: ErrMissingEndpoint,
			contains: []string{`"x"`, `"y"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, []string{"a", "b"})
			err := g.AddEdge(tt.source, tt.target, tt.rel)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
			assert.Equal(t, 0, g.EdgeCount())
		})
	}

	t.Run("parallel edges are kept", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b"}, dep("a", "b"), dep("a", "b"))
		assert.Len(t, g.GetEdges("a"), 2)
		assert.Empty(t, g.GetEdges("b"))
	})

	t.Run("all edges grouped by source in insertion order", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b", "c"},
			dep("b", "c"),
			Edge{Source: "a", Target: "b", Type: RelationProduces},
			dep("b", "a"),
		)
		assert.Equal(t, []Edge{
			dep("b", "c"),
			dep("b", "a"),
			{Source: "a", Target: "b", Type: RelationProduces},
		}, g.GetAllEdges())
	})
}

func TestRelationTypeValid(t *testing.T) {
	for _, r := range RelationTypes {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, RelationType("").Valid())
	assert.False(t, RelationType("DEPENDS_ON").Valid())
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Run("lossless for JSON metadata", func(t *testing.T) {
		g := NewGraph()
		require.NoError(t, g.AddNode("svc.order.list", map[string]any{
			"type":       "query",
			"timeout_ms": float64(500),
			"intent":     nil,
			"tags":       []any{"read", "paged"},
			"nested":     map[string]any{"flag": true, "depth": float64(2)},
		}))
		require.NoError(t, g.AddNode("svc.order.update", map[string]any{}))
		require.NoError(t, g.AddNode("svc.auth", nil))
		require.NoError(t, g.AddEdge("svc.order.update", "svc.auth", RelationDependsOn))
		require.NoError(t, g.AddEdge("svc.order.list", "svc.order.update", RelationComposes))
		require.NoError(t, g.AddEdge("svc.order.update", "svc.order.list", RelationComposes))

		data, err := json.Marshal(g)
		require.NoError(t, err)

		restored, err := ParseDocument(data)
		require.NoError(t, err)

		assert.ElementsMatch(t, g.GetAllNodes(), restored.GetAllNodes())
		assert.Equal(t, g.GetAllEdges(), restored.GetAllEdges())
		for _, ref := range []string{"svc.order.list", "svc.order.update", "svc.auth"} {
			assert.Equal(t, g.GetEdges(ref), restored.GetEdges(ref))
		}

		again, err := json.Marshal(restored)
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(again))
	})

	t.Run("empty graph encodes empty arrays", func(t *testing.T) {
		data, err := json.Marshal(NewGraph())
		require.NoError(t, err)
		assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(data))
	})

	t.Run("null document is an empty graph", func(t *testing.T) {
		g, err := ParseDocument([]byte("null"))
		require.NoError(t, err)
		assert.Equal(t, 0, g.NodeCount())
		assert.Equal(t, 0, g.EdgeCount())

		assert.Equal(t, 0, FromDocument(nil).NodeCount())
	})

	t.Run("missing metadata becomes empty map", func(t *testing.T) {
		g, err := ParseDocument([]byte(`{"nodes":[{"ref":"a"},{"ref":"b","metadata":null}]}`))
		require.NoError(t, err)

		for _, ref := range []string{"a", "b"} {
			n, ok := g.GetNode(ref)
			require.True(t, ok)
			assert.Equal(t, map[string]any{}, n.Metadata)
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{"nodes": 7}`))
		assert.Error(t, err)
	})

	t.Run("edges restored without endpoint checks", func(t *testing.T) {
		g := FromDocument(&Document{
			Nodes: []Node{{Ref: "a"}},
			Edges: []Edge{dep("a", "gone")},
		})
		assert.Equal(t, []Edge{dep("a", "gone")}, g.GetAllEdges())
	})
}

func TestFingerprint(t *testing.T) {
	build := func(order []string, md map[string]any) *Graph {
		g := NewGraph()
		for _, ref := range order {
			require.NoError(t, g.AddNode(ref, nil))
		}
		require.NoError(t, g.AddNode("b", md))
		require.NoError(t, g.AddEdge("a", "b", RelationDependsOn))
		require.NoError(t, g.AddEdge("c", "b", RelationProduces))
		return g
	}

	first, err := Fingerprint(build([]string{"a", "b", "c"}, map[string]any{"type": "query"}))
	require.NoError(t, err)
	assert.Len(t, first, 64)

	reordered, err := Fingerprint(build([]string{"c", "a", "b"}, map[string]any{"type": "query"}))
	require.NoError(t, err)
	assert.Equal(t, first, reordered)

	changed, err := Fingerprint(build([]string{"a", "b", "c"}, map[string]any{"type": "mutation"}))
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}
