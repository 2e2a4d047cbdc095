// Package export serializes binding graphs as RDF (Turtle, N-Triples,
// JSON-LD) with BFO/CCO/PROV-O type alignment, as Graphviz DOT, or as the
// native graph document.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/capgraph/ontology"
	"github.com/c360studio/capgraph/vocabulary/capgraph"
)

const (
	rdfType   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	xsdPrefix = "http://www.w3.org/2001/XMLSchema#"
)

// RDFExporter exports binding entities to RDF with a configurable ontology
// profile.
type RDFExporter struct {
	profile  Profile
	entities []Entity
	prefixes map[string]string
}

// NewRDFExporter creates an exporter for the given profile.
func NewRDFExporter(profile Profile) *RDFExporter {
	return &RDFExporter{
		profile:  profile,
		entities: make([]Entity, 0),
		prefixes: defaultPrefixes(),
	}
}

func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":      "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":     "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":      xsdPrefix,
		"dc":       "http://purl.org/dc/terms/",
		"prov":     "http://www.w3.org/ns/prov#",
		"bfo":      "http://purl.obolibrary.org/obo/",
		"cco":      "http://www.ontologyrepository.com/CommonCoreOntologies/",
		"capgraph": capgraph.Namespace,
		"binding":  capgraph.EntityNamespace + "binding/",
	}
}

// AddEntity adds an entity to be exported.
func (e *RDFExporter) AddEntity(entity Entity) {
	e.entities = append(e.entities, entity)
}

// AddGraph adds every binding of g.
func (e *RDFExporter) AddGraph(g *ontology.Graph, contractName string) {
	e.entities = append(e.entities, Entities(g, contractName)...)
}

// Export serializes all entities to an RDF format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	case FormatJSONLD:
		return e.toJSONLD()
	default:
		return "", fmt.Errorf("unsupported RDF format: %s", format)
	}
}

func (e *RDFExporter) toTurtle() string {
	w := NewTurtleWriter(e.prefixes)
	w.WritePrefixes()

	for _, entity := range e.entities {
		types := e.profile.TypeIRIs(entity.EntityType)
		w.WriteSubject(BindingIRI(entity.Ref))
		for i, typeIRI := range types {
			w.WriteType(typeIRI, i == len(types)-1 && len(entity.Triples) == 0)
		}
		for i, t := range entity.Triples {
			w.WritePredicate(capgraph.GetPredicateIRI(t.Predicate), t, i == len(entity.Triples)-1)
		}
		w.WriteBlank()
	}

	return w.String()
}

func (e *RDFExporter) toNTriples() string {
	w := NewNTriplesWriter()

	for _, entity := range e.entities {
		iri := BindingIRI(entity.Ref)
		for _, typeIRI := range e.profile.TypeIRIs(entity.EntityType) {
			w.WriteTypeTriple(iri, typeIRI)
		}
		for _, t := range entity.Triples {
			w.WriteTriple(iri, capgraph.GetPredicateIRI(t.Predicate), t)
		}
	}

	return w.String()
}

func (e *RDFExporter) toJSONLD() (string, error) {
	w := NewJSONLDWriter()
	w.SetContext(e.prefixes)

	for _, entity := range e.entities {
		props := make(map[string]any)
		for _, t := range entity.Triples {
			key := capgraph.GetPredicateIRI(t.Predicate)
			value := jsonLDValue(t)
			switch existing := props[key].(type) {
			case nil:
				props[key] = value
			case []any:
				props[key] = append(existing, value)
			default:
				props[key] = []any{existing, value}
			}
		}
		w.AddNode(BindingIRI(entity.Ref), e.profile.TypeIRIs(entity.EntityType), props)
	}

	return w.String()
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a Turtle writer with the given prefixes.
func NewTurtleWriter(prefixes map[string]string) *TurtleWriter {
	return &TurtleWriter{prefixes: prefixes}
}

// WritePrefixes writes prefix declarations in prefix order.
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.sb.WriteString("\n")
}

// WriteSubject starts a new subject block.
func (w *TurtleWriter) WriteSubject(iri string) {
	fmt.Fprintf(&w.sb, "<%s>\n", iri)
}

// WriteType writes a type assertion.
func (w *TurtleWriter) WriteType(typeIRI string, last bool) {
	fmt.Fprintf(&w.sb, "    a <%s>%s\n", typeIRI, terminator(last))
}

// WritePredicate writes a predicate-object pair.
func (w *TurtleWriter) WritePredicate(predicateIRI string, t Triple, last bool) {
	fmt.Fprintf(&w.sb, "    <%s> %s%s\n", predicateIRI, turtleObject(t), terminator(last))
}

// WriteBlank writes a blank line between subjects.
func (w *TurtleWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// String returns the accumulated output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

func terminator(last bool) string {
	if last {
		return " ."
	}
	return " ;"
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates an N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(subject, predicate string, t Triple) {
	fmt.Fprintf(&w.sb, "<%s> <%s> %s .\n", subject, predicate, nTriplesObject(t))
}

// WriteTypeTriple writes a type assertion.
func (w *NTriplesWriter) WriteTypeTriple(subject, typeIRI string) {
	fmt.Fprintf(&w.sb, "<%s> <%s> <%s> .\n", subject, rdfType, typeIRI)
}

// String returns the accumulated output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// JSONLDDocument is a JSON-LD document.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode is a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON flattens Properties next to @id and @type.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	for k, v := range n.Properties {
		m[k] = v
	}
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	return json.Marshal(m)
}

// JSONLDWriter writes RDF in JSON-LD format.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter creates a JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		doc: JSONLDDocument{
			Context: make(map[string]any),
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext adds prefixes to the @context.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
}

// AddNode adds a node to the graph.
func (w *JSONLDWriter) AddNode(id string, types []string, properties map[string]any) {
	w.doc.Graph = append(w.doc.Graph, JSONLDNode{ID: id, Type: types, Properties: properties})
}

// String returns the indented document.
func (w *JSONLDWriter) String() (string, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return string(data) + "\n", nil
}

func turtleObject(t Triple) string {
	if t.Link {
		return "<" + BindingIRI(t.Object.(string)) + ">"
	}
	lexical, datatype := literal(t.Object)
	if datatype == "" {
		return lexical
	}
	return lexical + "^^xsd:" + datatype
}

func nTriplesObject(t Triple) string {
	if t.Link {
		return "<" + BindingIRI(t.Object.(string)) + ">"
	}
	lexical, datatype := literal(t.Object)
	if datatype == "" {
		return lexical
	}
	return lexical + "^^<" + xsdPrefix + datatype + ">"
}

func jsonLDValue(t Triple) any {
	if t.Link {
		return map[string]string{"@id": BindingIRI(t.Object.(string))}
	}
	return t.Object
}

// literal returns the quoted lexical form and the xsd datatype local name.
// Plain strings have no datatype.
func literal(v any) (string, string) {
	switch x := v.(type) {
	case string:
		return `"` + escapeString(x) + `"`, ""
	case int:
		return `"` + strconv.Itoa(x) + `"`, "integer"
	case int64:
		return `"` + strconv.FormatInt(x, 10) + `"`, "integer"
	case float64:
		return `"` + strconv.FormatFloat(x, 'f', -1, 64) + `"`, "decimal"
	case bool:
		return `"` + strconv.FormatBool(x) + `"`, "boolean"
	default:
		return `"` + escapeString(fmt.Sprint(x)) + `"`, ""
	}
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
