package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c360studio/capgraph/ontology"
)

// Format specifies the output serialization format.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatJSONLD   Format = "jsonld"
	FormatDOT      Format = "dot"
	FormatJSON     Format = "json"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
	FormatDOT: {
		Name:        FormatDOT,
		MIMEType:    "text/vnd.graphviz",
		Extension:   ".dot",
		Description: "Graphviz DOT",
	},
	FormatJSON: {
		Name:        FormatJSON,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "Graph document {nodes, edges}",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(name))
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unknown export format %q (expected one of %s)", name, strings.Join(formatNames(), ", "))
	}
	return f, nil
}

func formatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// Options configures Write.
type Options struct {
	// Profile selects RDF type assertions. Empty means ProfileMinimal.
	Profile Profile
	// Contract is attached to every binding in RDF output when set.
	Contract string
}

// Write serializes g to w in the given format.
func Write(w io.Writer, g *ontology.Graph, format Format, opts Options) error {
	switch format {
	case FormatDOT:
		return WriteDOT(w, g)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g.ToDocument()); err != nil {
			return fmt.Errorf("encode graph document: %w", err)
		}
		return nil
	case FormatTurtle, FormatNTriples, FormatJSONLD:
		profile := opts.Profile
		if profile == "" {
			profile = ProfileMinimal
		}
		exporter := NewRDFExporter(profile)
		exporter.AddGraph(g, opts.Contract)
		out, err := exporter.Export(format)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, out); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
