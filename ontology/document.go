package ontology

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the serialized form of a graph.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ToDocument returns the serialized form of g. Node and edge slices are
// never nil so that empty graphs encode as empty arrays. Node metadata is
// copied, so editing the document leaves g unchanged.
func (g *Graph) ToDocument() Document {
	doc := Document{
		Nodes: make([]Node, 0, len(g.nodes)),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, n.clone())
	}
	doc.Edges = append(doc.Edges, g.GetAllEdges()...)
	return doc
}

// FromDocument rebuilds a graph from its serialized form. A nil document
// yields an empty graph and nodes without metadata get an empty map.
//
// Edges are restored without endpoint or relation checks; run Validate on
// graphs obtained this way before trusting query results.
func FromDocument(doc *Document) *Graph {
	g := NewGraph()
	if doc == nil {
		return g
	}
	for _, n := range doc.Nodes {
		if n.Ref == "" {
			continue
		}
		_ = g.AddNode(n.Ref, n.Metadata)
	}
	for _, e := range doc.Edges {
		g.appendEdge(e)
	}
	return g
}

// MarshalJSON encodes the graph as its Document.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToDocument())
}

// UnmarshalJSON replaces g with the graph described by data. JSON null
// produces an empty graph.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var doc *Document
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		doc = &Document{}
		if err := json.Unmarshal(data, doc); err != nil {
			return fmt.Errorf("decode graph document: %w", err)
		}
	}
	*g = *FromDocument(doc)
	return nil
}

// ParseDocument decodes a serialized graph.
func ParseDocument(data []byte) (*Graph, error) {
	g := NewGraph()
	if err := g.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return g, nil
}
