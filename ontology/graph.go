// Package ontology provides the typed directed multigraph of capability
// bindings together with the algorithms that build, validate and query it.
//
// The graph is built fresh per inspection, used for zero or more queries and
// discarded. Mutation is not safe for concurrent use; read-only queries
// against a fully built graph may run in parallel.
//
// Validation is a separate pass. Queries never validate implicitly, so a
// query over an unvalidated graph rebuilt from a document may return results
// computed over broken structure, such as dependency chains that stop at a
// dangling edge.
package ontology

import "maps"

// RelationType classifies an edge.
type RelationType string

const (
	// RelationDependsOn is an ordering dependency and must be acyclic.
	RelationDependsOn RelationType = "depends_on"
	// RelationComposes is a structural relation and may be cyclic.
	RelationComposes RelationType = "composes"
	RelationExtends  RelationType = "extends"
	RelationProduces RelationType = "produces"
)

// RelationTypes is the closed relation vocabulary in canonical order.
var RelationTypes = []RelationType{
	RelationDependsOn,
	RelationComposes,
	RelationExtends,
	RelationProduces,
}

// Valid reports whether r belongs to the closed vocabulary.
func (r RelationType) Valid() bool {
	switch r {
	case RelationDependsOn, RelationComposes, RelationExtends, RelationProduces:
		return true
	}
	return false
}

func relationNames() []string {
	names := make([]string, len(RelationTypes))
	for i, r := range RelationTypes {
		names[i] = string(r)
	}
	return names
}

// Node is a graph vertex keyed by its ref.
type Node struct {
	Ref      string         `json:"ref"`
	Metadata map[string]any `json:"metadata"`
}

// Edge is a directed, typed relation between two refs.
type Edge struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Type   RelationType `json:"type"`
}

// Graph is the Graph Store. Nodes live in a dense slice indexed by ref;
// outgoing edges are kept per source ref in first-insertion order.
type Graph struct {
	nodes []Node
	index map[string]int

	out     map[string][]Edge
	sources []string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
		out:   make(map[string][]Edge),
	}
}

// AddNode adds a node or overwrites the metadata of an existing one. Existing
// edges are left untouched. A nil metadata map is stored as an empty map.
func (g *Graph) AddNode(ref string, metadata map[string]any) error {
	if ref == "" {
		return invalidRefError()
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	if i, ok := g.index[ref]; ok {
		g.nodes[i].Metadata = metadata
		return nil
	}
	g.index[ref] = len(g.nodes)
	g.nodes = append(g.nodes, Node{Ref: ref, Metadata: metadata})
	return nil
}

// GetNode returns the node with the given ref. The metadata map is a shallow
// copy; use AddNode to change a stored node.
func (g *Graph) GetNode(ref string) (Node, bool) {
	i, ok := g.index[ref]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i].clone(), true
}

// HasNode reports whether ref is a node.
func (g *Graph) HasNode(ref string) bool {
	_, ok := g.index[ref]
	return ok
}

// GetAllNodes returns every node in insertion order, with metadata copied
// as in GetNode.
func (g *Graph) GetAllNodes() []Node {
	nodes := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = n.clone()
	}
	return nodes
}

func (n Node) clone() Node {
	md := maps.Clone(n.Metadata)
	if md == nil {
		md = map[string]any{}
	}
	return Node{Ref: n.Ref, Metadata: md}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// AddEdge appends a directed edge. Both endpoints must already be nodes and
// the relation type must be in the closed vocabulary. Identical calls add
// parallel edges; the store does not deduplicate.
func (g *Graph) AddEdge(source, target string, rel RelationType) error {
	if !rel.Valid() {
		return unknownRelationError(rel)
	}
	var missing []string
	if !g.HasNode(source) {
		missing = append(missing, source)
	}
	if !g.HasNode(target) {
		missing = append(missing, target)
	}
	if len(missing) > 0 {
		return missingEndpointError(missing)
	}
	g.appendEdge(Edge{Source: source, Target: target, Type: rel})
	return nil
}

// appendEdge stores an edge without any checks.
func (g *Graph) appendEdge(e Edge) {
	if _, ok := g.out[e.Source]; !ok {
		g.sources = append(g.sources, e.Source)
	}
	g.out[e.Source] = append(g.out[e.Source], e)
}

// GetEdges returns the outgoing edges of ref.
func (g *Graph) GetEdges(ref string) []Edge {
	edges := g.out[ref]
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}

// GetAllEdges returns every edge grouped by source in first-insertion order.
func (g *Graph) GetAllEdges() []Edge {
	var all []Edge
	for _, src := range g.sources {
		all = append(all, g.out[src]...)
	}
	return all
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, edges := range g.out {
		n += len(edges)
	}
	return n
}

// outgoing iterates stored edges of ref without copying.
func (g *Graph) outgoing(ref string) []Edge {
	return g.out[ref]
}
