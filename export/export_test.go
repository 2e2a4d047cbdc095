package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/export"
	"github.com/c360studio/capgraph/ontology"
	"github.com/c360studio/capgraph/vocabulary/capgraph"
)

func orderGraph(t *testing.T) *ontology.Graph {
	t.Helper()
	c := contract.New("orders.json", map[string]any{
		"capability_contract": map[string]any{
			"bindings": []any{
				map[string]any{
					"ref":           "shop.order.list",
					"type":          "query",
					"timeout_ms":    float64(1500),
					"intent":        "List \"open\" orders",
					"preconditions": []any{"authenticated"},
				},
				map[string]any{
					"ref":        "shop.order.create",
					"type":       "mutation",
					"depends_on": "shop.order.list",
				},
			},
		},
	})
	return ontology.BuildFromContract(c)
}

func TestEntities(t *testing.T) {
	entities := export.Entities(orderGraph(t), "orders.json")
	require.Len(t, entities, 2)

	list := entities[0]
	assert.Equal(t, "shop.order.list", list.Ref)
	assert.Equal(t, capgraph.EntityTypeQuery, list.EntityType)
	assert.Equal(t, []export.Triple{
		{Predicate: capgraph.BindingRef, Object: "shop.order.list"},
		{Predicate: capgraph.BindingType, Object: "query"},
		{Predicate: capgraph.BindingTimeout, Object: int64(1500)},
		{Predicate: capgraph.BindingIntent, Object: "List \"open\" orders"},
		{Predicate: capgraph.BindingPrecondition, Object: "authenticated"},
		{Predicate: capgraph.BindingContract, Object: "orders.json"},
		{Predicate: capgraph.RelationComposes, Object: "shop.order.create", Link: true},
	}, list.Triples)

	create := entities[1]
	assert.Equal(t, capgraph.EntityTypeMutation, create.EntityType)
	assert.Contains(t, create.Triples, export.Triple{Predicate: capgraph.RelationDependsOn, Object: "shop.order.list", Link: true})
}

func TestEntitiesCollapseParallelEdges(t *testing.T) {
	g := ontology.NewGraph()
	require.NoError(t, g.AddNode("a", nil))
	require.NoError(t, g.AddNode("b", nil))
	require.NoError(t, g.AddEdge("a", "b", ontology.RelationProduces))
	require.NoError(t, g.AddEdge("a", "b", ontology.RelationProduces))

	entities := export.Entities(g, "")
	require.Len(t, entities, 2)
	assert.Equal(t, []export.Triple{
		{Predicate: capgraph.BindingRef, Object: "a"},
		{Predicate: capgraph.RelationProduces, Object: "b", Link: true},
	}, entities[0].Triples)
	assert.Equal(t, capgraph.EntityTypeBinding, entities[1].EntityType)
}

func TestExportTurtle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, orderGraph(t), export.FormatTurtle, export.Options{Profile: export.ProfileBFO}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "@prefix bfo: <"), "prefixes are sorted")
	assert.Contains(t, out, "<"+export.BindingIRI("shop.order.list")+">\n")
	assert.Contains(t, out, "    a <"+capgraph.ClassQueryBinding+"> ;")
	assert.Contains(t, out, "    a <"+bfo.GenericallyDependentContinuant+"> ;")
	assert.Contains(t, out, `"1500"^^xsd:integer`)
	assert.Contains(t, out, `"List \"open\" orders"`)
	assert.Contains(t, out, "<"+capgraph.PropDependsOn+"> <"+export.BindingIRI("shop.order.list")+"> .")
}

func TestExportNTriples(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, orderGraph(t), export.FormatNTriples, export.Options{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), line)
		assert.True(t, strings.HasPrefix(line, "<"), line)
	}
	assert.Contains(t, lines,
		"<"+export.BindingIRI("shop.order.list")+"> <"+capgraph.PropTimeout+"> \"1500\"^^<http://www.w3.org/2001/XMLSchema#integer> .")
	assert.Contains(t, lines,
		"<"+export.BindingIRI("shop.order.list")+"> <"+vocabulary.DcIdentifier+"> \"shop.order.list\" .")
}

func TestExportJSONLD(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, orderGraph(t), export.FormatJSONLD, export.Options{Profile: export.ProfileCCO}))

	var doc struct {
		Context map[string]any   `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, capgraph.Namespace, doc.Context["capgraph"])
	require.Len(t, doc.Graph, 2)

	create := doc.Graph[1]
	assert.Equal(t, export.BindingIRI("shop.order.create"), create["@id"])
	assert.Len(t, create["@type"], 4)
	assert.Equal(t, map[string]any{"@id": export.BindingIRI("shop.order.list")}, create[capgraph.PropDependsOn])
}

func TestWriteJSONRoundTrip(t *testing.T) {
	g := orderGraph(t)
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, g, export.FormatJSON, export.Options{}))

	restored, err := ontology.ParseDocument(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, g.NodeCount(), restored.NodeCount())
	assert.Equal(t, g.GetAllEdges(), restored.GetAllEdges())
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteDOT(&buf, orderGraph(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph Bindings {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"shop.order.list" [label="shop.order.list", fillcolor="#e1f5fe", shape="ellipse"];`)
	assert.Contains(t, out, `"shop.order.create" -> "shop.order.list" [label="depends_on"`)
	assert.Equal(t, 1, strings.Count(out, `[label="composes"`), "composes pairs are drawn once")
}

func TestParseFormatAndProfile(t *testing.T) {
	f, err := export.ParseFormat("Turtle")
	require.NoError(t, err)
	assert.Equal(t, export.FormatTurtle, f)

	_, err = export.ParseFormat("rdfxml")
	assert.ErrorContains(t, err, "dot, json, jsonld, ntriples, turtle")

	p, err := export.ParseProfile("")
	require.NoError(t, err)
	assert.Equal(t, export.ProfileMinimal, p)

	_, err = export.ParseProfile("owl")
	assert.Error(t, err)

	for format := range export.FormatRegistry {
		info, ok := export.GetFormatInfo(format)
		assert.True(t, ok)
		assert.True(t, strings.HasPrefix(info.Extension, "."))
	}
}

func TestTypeTriples(t *testing.T) {
	now := time.Now()
	triples := export.TypeTriples("capgraph.local.ontology.binding.binding.a", capgraph.EntityTypeQuery, export.ProfileBFO, now)
	require.Len(t, triples, 3)
	assert.Equal(t, capgraph.ClassQueryBinding, triples[0].Object)
	assert.Equal(t, "rdf.syntax.type", triples[0].Predicate)
	assert.Equal(t, now, triples[0].Timestamp)
}
