package capgraph

import (
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

// EntityType classifies a binding for ontology alignment.
type EntityType string

const (
	EntityTypeBinding  EntityType = "binding"
	EntityTypeQuery    EntityType = "query"
	EntityTypeMutation EntityType = "mutation"
)

// EntityTypeFor maps a binding's type metadata to an EntityType. Unknown or
// missing types are plain bindings.
func EntityTypeFor(bindingType string) EntityType {
	switch EntityType(bindingType) {
	case EntityTypeQuery:
		return EntityTypeQuery
	case EntityTypeMutation:
		return EntityTypeMutation
	default:
		return EntityTypeBinding
	}
}

// ClassMap maps entity types to capgraph class IRIs.
var ClassMap = map[EntityType]string{
	EntityTypeBinding:  ClassBinding,
	EntityTypeQuery:    ClassQueryBinding,
	EntityTypeMutation: ClassMutationBinding,
}

// BFOClassMap maps entity types to BFO class IRIs.
var BFOClassMap = map[EntityType]string{
	EntityTypeBinding:  bfo.GenericallyDependentContinuant,
	EntityTypeQuery:    bfo.GenericallyDependentContinuant,
	EntityTypeMutation: bfo.GenericallyDependentContinuant,
}

// CCOClassMap maps entity types to CCO class IRIs.
var CCOClassMap = map[EntityType]string{
	EntityTypeBinding:  cco.InformationContentEntity,
	EntityTypeQuery:    cco.Specification,
	EntityTypeMutation: cco.DirectiveInformationContentEntity,
}

// PredicateIRIMap maps dotted predicates to standard IRIs where one exists.
var PredicateIRIMap = map[string]string{
	BindingRef:       vocabulary.DcIdentifier,
	BindingContract:  vocabulary.DcSource,
	RelationProduces: vocabulary.ProvGenerated,
}

// GetTypesForEntity returns all type IRIs for an entity type and profile:
//   - "minimal": capgraph + PROV-O types
//   - "bfo": adds the BFO type
//   - "cco": adds the BFO and CCO types
func GetTypesForEntity(entityType EntityType, profile string) []string {
	types := make([]string, 0, 4)

	if class, ok := ClassMap[entityType]; ok {
		types = append(types, class)
	}
	types = append(types, vocabulary.ProvEntity)

	if profile == "bfo" || profile == "cco" {
		if class, ok := BFOClassMap[entityType]; ok {
			types = append(types, class)
		}
	}
	if profile == "cco" {
		if class, ok := CCOClassMap[entityType]; ok {
			types = append(types, class)
		}
	}

	return types
}

// GetPredicateIRI returns the IRI for a dotted predicate. Standard mappings
// win over registered IRIs; unregistered predicates fall back to the
// capgraph namespace.
func GetPredicateIRI(predicate string) string {
	if iri, ok := PredicateIRIMap[predicate]; ok {
		return iri
	}
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return Namespace + predicate
}

// RelationPredicate returns the dotted predicate for a graph relation type
// name, or "" for unknown names.
func RelationPredicate(relation string) string {
	switch relation {
	case "depends_on":
		return RelationDependsOn
	case "composes":
		return RelationComposes
	case "extends":
		return RelationExtends
	case "produces":
		return RelationProduces
	default:
		return ""
	}
}
