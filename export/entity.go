package export

import (
	"math"
	"net/url"

	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/ontology"
	"github.com/c360studio/capgraph/vocabulary/capgraph"
)

// Triple is one predicate/object pair of an exported binding. When Link is
// set, Object is the ref of another binding.
type Triple struct {
	Predicate string
	Object    any
	Link      bool
}

// Entity is an exportable binding with its type and triples.
type Entity struct {
	Ref        string
	EntityType capgraph.EntityType
	Triples    []Triple
}

// BindingIRI returns the IRI of a binding ref.
func BindingIRI(ref string) string {
	return capgraph.EntityNamespace + "binding/" + url.PathEscape(ref)
}

// Entities converts every node of g, in insertion order, into an export
// entity. Outgoing edges become link triples; parallel edges collapse into
// one triple. contractName, when set, is attached to every binding.
func Entities(g *ontology.Graph, contractName string) []Entity {
	nodes := g.GetAllNodes()
	entities := make([]Entity, 0, len(nodes))
	for _, n := range nodes {
		entities = append(entities, nodeEntity(g, n, contractName))
	}
	return entities
}

func nodeEntity(g *ontology.Graph, n ontology.Node, contractName string) Entity {
	bindingType, _ := n.Metadata[ontology.MetaType].(string)
	e := Entity{
		Ref:        n.Ref,
		EntityType: capgraph.EntityTypeFor(bindingType),
		Triples:    []Triple{{Predicate: capgraph.BindingRef, Object: n.Ref}},
	}

	if bindingType != "" {
		e.Triples = append(e.Triples, Triple{Predicate: capgraph.BindingType, Object: bindingType})
	}
	if timeout, ok := contract.AsNumber(n.Metadata[ontology.MetaTimeoutMS]); ok {
		e.Triples = append(e.Triples, Triple{Predicate: capgraph.BindingTimeout, Object: literalNumber(timeout)})
	}

	info := ontology.GetActionInfo(g, n.Ref)
	if info.Intent != nil && *info.Intent != "" {
		e.Triples = append(e.Triples, Triple{Predicate: capgraph.BindingIntent, Object: *info.Intent})
	}
	for _, p := range info.Preconditions {
		e.Triples = append(e.Triples, Triple{Predicate: capgraph.BindingPrecondition, Object: p})
	}
	for _, p := range info.Postconditions {
		e.Triples = append(e.Triples, Triple{Predicate: capgraph.BindingPostcondition, Object: p})
	}
	if contractName != "" {
		e.Triples = append(e.Triples, Triple{Predicate: capgraph.BindingContract, Object: contractName})
	}

	seen := make(map[ontology.Edge]bool)
	for _, edge := range g.GetEdges(n.Ref) {
		if seen[edge] {
			continue
		}
		seen[edge] = true
		predicate := capgraph.RelationPredicate(string(edge.Type))
		if predicate == "" {
			continue
		}
		e.Triples = append(e.Triples, Triple{Predicate: predicate, Object: edge.Target, Link: true})
	}

	return e
}

// literalNumber keeps integral values integral so they serialize as
// xsd:integer.
func literalNumber(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
