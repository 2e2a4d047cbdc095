package ontology

import (
	"strings"

	"github.com/c360studio/capgraph/contract"
)

// Metadata keys written by the compiler.
const (
	MetaType           = "type"
	MetaTimeoutMS      = "timeout_ms"
	MetaIntent         = "intent"
	MetaPreconditions  = "preconditions"
	MetaPostconditions = "postconditions"
)

// BuildFromContract compiles the bindings of a capability contract into a
// graph. A contract without bindings yields an empty graph.
//
// Bindings without a non-empty string ref are skipped. Edges are inferred
// over the accepted bindings only:
//   - composes: refs with at least two segments that share every segment but
//     the last are linked pairwise in both directions
//   - depends_on: each depends_on ref naming an accepted binding adds one edge
//     from the declaring binding; unknown refs are ignored
func BuildFromContract(c *contract.Contract) *Graph {
	g := NewGraph()

	var accepted []contract.Binding
	for _, b := range c.Bindings() {
		ref, ok := b.Ref()
		if !ok {
			continue
		}
		// AddNode only fails on an empty ref, which Ref already rejects.
		_ = g.AddNode(ref, bindingMetadata(b))
		accepted = append(accepted, b)
	}

	inferComposes(g)

	for _, b := range accepted {
		ref, _ := b.Ref()
		for _, dep := range b.DependsOn() {
			if !g.HasNode(dep) {
				continue
			}
			_ = g.AddEdge(ref, dep, RelationDependsOn)
		}
	}

	return g
}

func bindingMetadata(b contract.Binding) map[string]any {
	md := map[string]any{
		MetaIntent:         nil,
		MetaPreconditions:  []string{},
		MetaPostconditions: []string{},
	}
	if v, ok := b.Field(MetaType); ok {
		md[MetaType] = v
	}
	if v, ok := b.Field(MetaTimeoutMS); ok {
		md[MetaTimeoutMS] = v
	}
	if s, ok := b.Field(MetaIntent); ok {
		if intent, ok := s.(string); ok && strings.TrimSpace(intent) != "" {
			md[MetaIntent] = intent
		}
	}
	if v, ok := b.Field(MetaPreconditions); ok {
		md[MetaPreconditions] = stringElements(v)
	}
	if v, ok := b.Field(MetaPostconditions); ok {
		md[MetaPostconditions] = stringElements(v)
	}
	return md
}

// inferComposes links every pair of nodes sharing a ref prefix. Node order
// decides edge order, and each distinct ref takes part once.
func inferComposes(g *Graph) {
	groups := make(map[string][]string)
	var prefixes []string
	for _, n := range g.nodes {
		idx := strings.LastIndex(n.Ref, ".")
		if idx < 0 {
			continue
		}
		prefix := n.Ref[:idx]
		if _, ok := groups[prefix]; !ok {
			prefixes = append(prefixes, prefix)
		}
		groups[prefix] = append(groups[prefix], n.Ref)
	}

	for _, prefix := range prefixes {
		refs := groups[prefix]
		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				_ = g.AddEdge(refs[i], refs[j], RelationComposes)
				_ = g.AddEdge(refs[j], refs[i], RelationComposes)
			}
		}
	}
}

// stringElements keeps the string elements of an array value.
func stringElements(v any) []string {
	items, ok := contract.AsArray(v)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
