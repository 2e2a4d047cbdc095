package semantic

import "github.com/c360studio/capgraph/contract"

// DefaultRelationType is used for relations that declare no type.
const DefaultRelationType = "related_to"

// Alias lists, tried in order.
var (
	entityIDKeys       = []string{"id", "ref", "name"}
	relationSourceKeys = []string{"source", "from"}
	relationTargetKeys = []string{"target", "to"}
	relationTypeKeys   = []string{"type", "relation"}
	relationListKeys   = []string{"relations", "relationships"}
)

// Entity is a declared entity of the semantic model.
type Entity struct {
	ID string `json:"id"`
}

// Relation is a normalized entity relation.
type Relation struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	// Linked is true when both endpoints are declared entities.
	Linked bool `json:"linked"`
}

// ModelSummary counts the semantic model.
type ModelSummary struct {
	Entities          int `json:"entities"`
	Relations         int `json:"relations"`
	LinkedRelations   int `json:"linked_relations"`
	DanglingRelations int `json:"dangling_relations"`
}

// EntityRelationshipModel is the parsed ontology_model/semantic_model section.
type EntityRelationshipModel struct {
	// Section names the contract key the model was read from, "" if absent.
	Section   string       `json:"section"`
	Entities  []Entity     `json:"entities"`
	Relations []Relation   `json:"relations"`
	Summary   ModelSummary `json:"summary"`
}

// ParseEntityRelationshipModel reads entities and relations from
// ontology_model, falling back to semantic_model. Entities are identified by
// id, ref or name (bare strings are accepted); relations need both endpoints
// and default to the related_to type.
func ParseEntityRelationshipModel(c *contract.Contract) EntityRelationshipModel {
	result := EntityRelationshipModel{Entities: []Entity{}, Relations: []Relation{}}

	model, section, ok := c.SemanticModel()
	if !ok {
		return result
	}
	result.Section = section

	declared := make(map[string]bool)
	entities, _ := contract.AsArray(model["entities"])
	for _, item := range entities {
		id := entityID(item)
		if id == "" {
			continue
		}
		declared[id] = true
		result.Entities = append(result.Entities, Entity{ID: id})
	}

	relations, _ := contract.FirstArray(model, relationListKeys...)
	for _, item := range relations {
		obj, ok := contract.AsObject(item)
		if !ok {
			continue
		}
		rel := Relation{
			Source: contract.FirstString(obj, relationSourceKeys...),
			Target: contract.FirstString(obj, relationTargetKeys...),
			Type:   contract.FirstString(obj, relationTypeKeys...),
		}
		if rel.Source == "" || rel.Target == "" {
			continue
		}
		if rel.Type == "" {
			rel.Type = DefaultRelationType
		}
		rel.Linked = declared[rel.Source] && declared[rel.Target]
		result.Relations = append(result.Relations, rel)

		if rel.Linked {
			result.Summary.LinkedRelations++
		} else {
			result.Summary.DanglingRelations++
		}
	}

	result.Summary.Entities = len(result.Entities)
	result.Summary.Relations = len(result.Relations)
	return result
}

func entityID(item any) string {
	if s, ok := item.(string); ok {
		return s
	}
	obj, ok := contract.AsObject(item)
	if !ok {
		return ""
	}
	return contract.FirstString(obj, entityIDKeys...)
}
