package ontology

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Fingerprint computes a stable SHA-256 digest of the graph.
//
// The digest is computed from the canonical JSON form: nodes sorted by ref
// and edges sorted by source, target and type. encoding/json sorts metadata
// keys, so insertion order never affects the result while any node, edge or
// metadata change does.
func Fingerprint(g *Graph) (string, error) {
	doc := g.ToDocument()

	sort.SliceStable(doc.Nodes, func(i, j int) bool {
		return doc.Nodes[i].Ref < doc.Nodes[j].Ref
	})
	sort.SliceStable(doc.Edges, func(i, j int) bool {
		a, b := doc.Edges[i], doc.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Type < b.Type
	})

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("serialize graph for hashing: %w", err)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
