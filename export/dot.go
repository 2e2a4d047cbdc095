package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/capgraph/ontology"
)

// edgeStyles maps relation types to DOT edge attributes.
var edgeStyles = map[ontology.RelationType]string{
	ontology.RelationDependsOn: `color="#c62828"`,
	ontology.RelationComposes:  `color="#9e9e9e", style=dashed, arrowhead=none`,
	ontology.RelationExtends:   `color="#1565c0", arrowhead=empty`,
	ontology.RelationProduces:  `color="#2e7d32", style=bold`,
}

// WriteDOT writes g in Graphviz DOT format. Composes edges are stored in
// both directions; only one undirected line is drawn per pair.
func WriteDOT(w io.Writer, g *ontology.Graph) error {
	if _, err := fmt.Fprintln(w, "digraph Bindings {"); err != nil {
		return err
	}

	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box, style=filled, fontname=\"Arial\"];")
	fmt.Fprintln(w, "  edge [fontname=\"Arial\", fontsize=10];")

	for _, node := range g.GetAllNodes() {
		color := "white"
		shape := "box"

		switch node.Metadata[ontology.MetaType] {
		case "query":
			color = "#e1f5fe" // light blue
			shape = "ellipse"
		case "mutation":
			color = "#fff3e0" // light orange
			shape = "box"
		}

		fmt.Fprintf(w, "  %s [label=%s, fillcolor=\"%s\", shape=\"%s\"];\n",
			dotID(node.Ref), dotID(node.Ref), color, shape)
	}

	drawn := make(map[[2]string]bool)
	for _, edge := range g.GetAllEdges() {
		if edge.Type == ontology.RelationComposes {
			key := [2]string{min(edge.Source, edge.Target), max(edge.Source, edge.Target)}
			if drawn[key] {
				continue
			}
			drawn[key] = true
		}
		fmt.Fprintf(w, "  %s -> %s [label=\"%s\", %s];\n",
			dotID(edge.Source), dotID(edge.Target), edge.Type, edgeStyles[edge.Type])
	}

	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return nil
}

// dotID quotes an identifier, escaping quotes and newlines.
func dotID(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return `"` + s + `"`
}
