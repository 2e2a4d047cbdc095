package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withoutNode simulates corruption by dropping a node behind the store API.
func withoutNode(t *testing.T, g *Graph, ref string) *Graph {
	t.Helper()
	doc := g.ToDocument()
	kept := doc.Nodes[:0]
	for _, n := range doc.Nodes {
		if n.Ref != ref {
			kept = append(kept, n)
		}
	}
	doc.Nodes = kept
	return FromDocument(&doc)
}

func TestValidateCycles(t *testing.T) {
	tests := []struct {
		name    string
		refs    []string
		edges   []Edge
		members []string
	}{
		{
			name:    "self loop",
			refs:    []string{"a"},
			edges:   []Edge{dep("a", "a")},
			members: []string{"a"},
		},
		{
			name:    "two node cycle",
			refs:    []string{"a", "b"},
			edges:   []Edge{dep("a", "b"), dep("b", "a")},
			members: []string{"a", "b"},
		},
		{
			name:    "three node cycle",
			refs:    []string{"a", "b", "c"},
			edges:   []Edge{dep("a", "b"), dep("b", "c"), dep("c", "a")},
			members: []string{"a", "b", "c"},
		},
		{
			name:    "cycle behind a tail",
			refs:    []string{"root", "x", "y"},
			edges:   []Edge{dep("root", "x"), dep("x", "y"), dep("y", "x")},
			members: []string{"x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGraph(t, tt.refs, tt.edges...)
			result := Validate(g)

			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)

			found := false
			for _, e := range result.Errors {
				if e.Code != CodeCycleDetected {
					continue
				}
				found = true
				cycle := e.Details.Cycle
				require.GreaterOrEqual(t, len(cycle), 2)
				assert.Equal(t, cycle[0], cycle[len(cycle)-1])
				assert.Subset(t, cycle, tt.members)
				assert.Contains(t, e.Message, "Cycle detected in depends_on: ")
			}
			assert.True(t, found)
		})
	}

	t.Run("message joins the path with arrows", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b"}, dep("a", "b"), dep("b", "a"))
		result := Validate(g)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Cycle detected in depends_on: a → b → a", result.Errors[0].Message)
		assert.Equal(t, []string{"a", "b", "a"}, result.Errors[0].Details.Cycle)
	})

	t.Run("structural relations may be cyclic", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b"},
			Edge{Source: "a", Target: "b", Type: RelationComposes},
			Edge{Source: "b", Target: "a", Type: RelationComposes},
			Edge{Source: "a", Target: "b", Type: RelationExtends},
			Edge{Source: "b", Target: "a", Type: RelationProduces},
			Edge{Source: "a", Target: "a", Type: RelationComposes},
		)
		result := Validate(g)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("diamond is not a cycle", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b", "c", "d"},
			dep("a", "b"), dep("a", "c"), dep("b", "d"), dep("c", "d"))
		assert.True(t, Validate(g).Valid)
	})

	t.Run("overlapping cycles report each back edge", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b", "c"},
			dep("a", "b"), dep("b", "a"), dep("b", "c"), dep("c", "b"))
		result := Validate(g)
		assert.Len(t, result.Errors, 2)
	})
}

func TestValidateDanglingEdges(t *testing.T) {
	t.Run("one error per dangling edge", func(t *testing.T) {
		g := mustGraph(t, []string{"a", "b", "c"},
			dep("a", "b"),
			Edge{Source: "c", Target: "b", Type: RelationProduces},
			dep("a", "c"),
		)
		corrupted := withoutNode(t, g, "b")

		result := Validate(corrupted)
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 2)
		for _, e := range result.Errors {
			assert.Equal(t, CodeDanglingEdgeTarget, e.Code)
			assert.Equal(t, "b", e.Details.Target)
			assert.Equal(t, "Edge target 'b' does not exist as a node", e.Message)
		}
		assert.Equal(t, "a", result.Errors[0].Details.Source)
		assert.Equal(t, "c", result.Errors[1].Details.Source)
	})

	t.Run("dangling and cycle errors coexist", func(t *testing.T) {
		corrupted := FromDocument(&Document{
			Nodes: []Node{{Ref: "a"}, {Ref: "b"}},
			Edges: []Edge{dep("a", "b"), dep("b", "a"), dep("a", "gone")},
		})
		result := Validate(corrupted)

		codes := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			codes = append(codes, e.Code)
		}
		assert.Equal(t, []string{CodeDanglingEdgeTarget, CodeCycleDetected}, codes)
	})

	t.Run("chain stops silently at dangling edge", func(t *testing.T) {
		corrupted := FromDocument(&Document{
			Nodes: []Node{{Ref: "a"}, {Ref: "b"}},
			Edges: []Edge{dep("a", "b"), dep("b", "gone")},
		})
		chain := QueryDependencyChain(corrupted, "a")
		assert.Equal(t, []string{"b", "gone"}, chain.Chain)
	})
}

func TestValidateEmptyGraph(t *testing.T) {
	result := Validate(NewGraph())
	assert.True(t, result.Valid)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}
