package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/capgraph/contract"
)

func TestParseEntityRelationshipModel(t *testing.T) {
	t.Run("absent model", func(t *testing.T) {
		m := ParseEntityRelationshipModel(contract.New("test", nil))
		assert.Equal(t, "", m.Section)
		assert.Empty(t, m.Entities)
		assert.Equal(t, ModelSummary{}, m.Summary)
	})

	t.Run("aliases and defaults", func(t *testing.T) {
		m := ParseEntityRelationshipModel(contract.New("test", map[string]any{
			"ontology_model": map[string]any{
				"entities": []any{
					map[string]any{"id": "Order"},
					map[string]any{"ref": "Customer"},
					map[string]any{"name": "Invoice"},
					"Payment",
					map[string]any{"label": "anonymous"},
				},
				"relations": []any{
					map[string]any{"source": "Order", "target": "Customer", "type": "belongs_to"},
					map[string]any{"from": "Invoice", "to": "Order", "relation": "bills"},
					map[string]any{"from": "Payment", "to": "Ledger"},
					map[string]any{"from": "Payment"},
				},
			},
		}))

		assert.Equal(t, "ontology_model", m.Section)
		assert.Equal(t, []Entity{{ID: "Order"}, {ID: "Customer"}, {ID: "Invoice"}, {ID: "Payment"}}, m.Entities)
		assert.Equal(t, []Relation{
			{Source: "Order", Target: "Customer", Type: "belongs_to", Linked: true},
			{Source: "Invoice", Target: "Order", Type: "bills", Linked: true},
			{Source: "Payment", Target: "Ledger", Type: DefaultRelationType, Linked: false},
		}, m.Relations)
		assert.Equal(t, ModelSummary{Entities: 4, Relations: 3, LinkedRelations: 2, DanglingRelations: 1}, m.Summary)
	})

	t.Run("semantic_model fallback with relationships list", func(t *testing.T) {
		m := ParseEntityRelationshipModel(contract.New("test", map[string]any{
			"semantic_model": map[string]any{
				"entities":      []any{"A", "B"},
				"relationships": []any{map[string]any{"from": "A", "to": "B"}},
			},
		}))
		assert.Equal(t, "semantic_model", m.Section)
		assert.Equal(t, 2, m.Summary.Entities)
		assert.Equal(t, 1, m.Summary.LinkedRelations)
	})

	t.Run("ontology_model wins over semantic_model", func(t *testing.T) {
		m := ParseEntityRelationshipModel(contract.New("test", map[string]any{
			"ontology_model": map[string]any{"entities": []any{"A"}},
			"semantic_model": map[string]any{"entities": []any{"X", "Y"}},
		}))
		assert.Equal(t, "ontology_model", m.Section)
		assert.Equal(t, 1, m.Summary.Entities)
	})
}
