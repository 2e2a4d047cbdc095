package ontology

import "strings"

// Query error messages.
const (
	ErrMsgNodeNotFound   = "Node not found"
	ErrMsgSourceNotFound = "Source node not found"
	ErrMsgTargetNotFound = "Target node not found"
)

// DependencyChain is the result of QueryDependencyChain.
type DependencyChain struct {
	Ref      string   `json:"ref"`
	Chain    []string `json:"chain"`
	HasCycle bool     `json:"hasCycle"`
	Error    string   `json:"error,omitempty"`
}

// QueryDependencyChain resolves every node transitively reachable from ref
// over depends_on edges, in depth-first discovery order. ref itself is never
// part of the chain and each node appears once. HasCycle is set when the
// walk re-enters a node on the current path, including ref.
func QueryDependencyChain(g *Graph, ref string) DependencyChain {
	result := DependencyChain{Ref: ref, Chain: []string{}}
	if !g.HasNode(ref) {
		result.Error = ErrMsgNodeNotFound
		return result
	}

	seen := map[string]bool{ref: true}
	onPath := map[string]bool{ref: true}
	stack := []dfsFrame{{ref: ref}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		edges := g.outgoing(top.ref)

		advanced := false
		for top.next < len(edges) {
			e := edges[top.next]
			top.next++
			if e.Type != RelationDependsOn {
				continue
			}
			if onPath[e.Target] {
				result.HasCycle = true
				continue
			}
			if seen[e.Target] {
				continue
			}
			seen[e.Target] = true
			onPath[e.Target] = true
			result.Chain = append(result.Chain, e.Target)
			stack = append(stack, dfsFrame{ref: e.Target})
			advanced = true
			break
		}
		if advanced {
			continue
		}

		delete(onPath, top.ref)
		stack = stack[:len(stack)-1]
	}

	return result
}

// ImpactOptions controls FindImpactRadius.
type ImpactOptions struct {
	// MaxDepth bounds the number of hops explored; 0 means unbounded.
	MaxDepth int
	// RelationTypes filters the edges followed; empty means depends_on only.
	RelationTypes []RelationType
}

// ImpactDetail records where an impacted node was first discovered.
type ImpactDetail struct {
	Ref     string       `json:"ref"`
	Depth   int          `json:"depth"`
	Via     RelationType `json:"via"`
	Through string       `json:"through"`
}

// ImpactRadius is the result of FindImpactRadius.
type ImpactRadius struct {
	Ref           string         `json:"ref"`
	RelationTypes []RelationType `json:"relationTypes,omitempty"`
	Impacted      []string       `json:"impacted"`
	Total         int            `json:"total"`
	Details       []ImpactDetail `json:"details"`
	Error         string         `json:"error,omitempty"`
}

// FindImpactRadius finds every node with a chain of filtered edges leading
// into ref, breadth first. Each node is recorded once at its shallowest
// depth; among edges found at the same depth the first in GetAllEdges order
// wins.
func FindImpactRadius(g *Graph, ref string, opts ImpactOptions) ImpactRadius {
	result := ImpactRadius{Ref: ref, Impacted: []string{}, Details: []ImpactDetail{}}
	if !g.HasNode(ref) {
		result.Error = ErrMsgNodeNotFound
		return result
	}

	types := opts.RelationTypes
	if len(types) == 0 {
		types = []RelationType{RelationDependsOn}
	}
	filter, msg := relationFilter(types)
	if msg != "" {
		result.Error = msg
		return result
	}
	result.RelationTypes = types

	incoming := g.incomingIndex(filter)

	type item struct {
		ref   string
		depth int
	}
	visited := map[string]bool{ref: true}
	queue := []item{{ref: ref}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if opts.MaxDepth > 0 && current.depth >= opts.MaxDepth {
			continue
		}

		for _, e := range incoming[current.ref] {
			if visited[e.Source] {
				continue
			}
			visited[e.Source] = true
			result.Impacted = append(result.Impacted, e.Source)
			result.Details = append(result.Details, ImpactDetail{
				Ref:     e.Source,
				Depth:   current.depth + 1,
				Via:     e.Type,
				Through: current.ref,
			})
			queue = append(queue, item{ref: e.Source, depth: current.depth + 1})
		}
	}

	result.Total = len(result.Impacted)
	return result
}

// PathOptions controls FindRelationPath.
type PathOptions struct {
	// RelationTypes filters the edges followed; empty means every type.
	RelationTypes []RelationType
	// Undirected also follows edges against their stored direction.
	Undirected bool
}

// Path directions.
const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
)

// PathEdge is one hop of a relation path. The endpoints keep the stored
// orientation of the edge; Direction tells how the hop traversed it.
type PathEdge struct {
	Source    string       `json:"source"`
	Target    string       `json:"target"`
	Type      RelationType `json:"type"`
	Direction string       `json:"direction"`
}

// RelationPath is the result of FindRelationPath. Hops is nil when no path
// exists.
type RelationPath struct {
	Found bool       `json:"found"`
	Hops  *int       `json:"hops"`
	Nodes []string   `json:"nodes"`
	Edges []PathEdge `json:"edges"`
	Error string     `json:"error,omitempty"`
}

// FindRelationPath returns a shortest path from source to target. Outgoing
// edges are tried before incoming ones, each in stored order.
func FindRelationPath(g *Graph, source, target string, opts PathOptions) RelationPath {
	result := RelationPath{Nodes: []string{}, Edges: []PathEdge{}}
	if !g.HasNode(source) {
		result.Error = ErrMsgSourceNotFound
		return result
	}
	if !g.HasNode(target) {
		result.Error = ErrMsgTargetNotFound
		return result
	}

	types := opts.RelationTypes
	if len(types) == 0 {
		types = RelationTypes
	}
	filter, msg := relationFilter(types)
	if msg != "" {
		result.Error = msg
		return result
	}

	if source == target {
		hops := 0
		result.Found = true
		result.Hops = &hops
		result.Nodes = []string{source}
		return result
	}

	var incoming map[string][]Edge
	if opts.Undirected {
		incoming = g.incomingIndex(filter)
	}

	parent := map[string]pathStep{}
	visited := map[string]bool{source: true}
	queue := []string{source}

	visit := func(from, to string, edge PathEdge) bool {
		if visited[to] {
			return false
		}
		visited[to] = true
		parent[to] = pathStep{prev: from, edge: edge}
		queue = append(queue, to)
		return to == target
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range g.outgoing(current) {
			if !filter[e.Type] {
				continue
			}
			pe := PathEdge{Source: e.Source, Target: e.Target, Type: e.Type, Direction: DirectionOutgoing}
			if visit(current, e.Target, pe) {
				return buildPath(source, target, parent)
			}
		}
		for _, e := range incoming[current] {
			pe := PathEdge{Source: e.Source, Target: e.Target, Type: e.Type, Direction: DirectionIncoming}
			if visit(current, e.Source, pe) {
				return buildPath(source, target, parent)
			}
		}
	}

	return result
}

type pathStep struct {
	prev string
	edge PathEdge
}

// buildPath walks parent links back from target and reverses them.
func buildPath(source, target string, parent map[string]pathStep) RelationPath {
	var nodes []string
	var edges []PathEdge
	for at := target; at != source; {
		s := parent[at]
		nodes = append(nodes, at)
		edges = append(edges, s.edge)
		at = s.prev
	}
	nodes = append(nodes, source)

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	hops := len(edges)
	return RelationPath{Found: true, Hops: &hops, Nodes: nodes, Edges: edges}
}

// ActionInfo is the action abstraction of a binding.
type ActionInfo struct {
	Ref            string   `json:"ref"`
	Intent         *string  `json:"intent"`
	Preconditions  []string `json:"preconditions"`
	Postconditions []string `json:"postconditions"`
}

// GetActionInfo returns the intent and conditions stored on a node. Missing
// nodes and wrong-typed fields degrade to null and empty lists.
func GetActionInfo(g *Graph, ref string) ActionInfo {
	info := ActionInfo{Ref: ref, Preconditions: []string{}, Postconditions: []string{}}
	n, ok := g.GetNode(ref)
	if !ok || n.Metadata == nil {
		return info
	}
	if s, ok := n.Metadata[MetaIntent].(string); ok {
		info.Intent = &s
	}
	info.Preconditions = stringElements(n.Metadata[MetaPreconditions])
	info.Postconditions = stringElements(n.Metadata[MetaPostconditions])
	return info
}

// relationFilter builds a type set, reporting every unknown entry.
func relationFilter(types []RelationType) (map[RelationType]bool, string) {
	filter := make(map[RelationType]bool, len(types))
	var invalid []string
	for _, t := range types {
		if !t.Valid() {
			invalid = append(invalid, string(t))
			continue
		}
		filter[t] = true
	}
	if len(invalid) > 0 {
		return nil, "Invalid relation type: " + strings.Join(invalid, ", ")
	}
	return filter, ""
}

// incomingIndex groups filtered edges by target, in GetAllEdges order.
func (g *Graph) incomingIndex(filter map[RelationType]bool) map[string][]Edge {
	incoming := make(map[string][]Edge)
	for _, src := range g.sources {
		for _, e := range g.out[src] {
			if filter[e.Type] {
				incoming[e.Target] = append(incoming[e.Target], e)
			}
		}
	}
	return incoming
}
