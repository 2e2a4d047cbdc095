package capgraph

import "github.com/c360studio/semstreams/vocabulary"

// Binding predicates describe a single capability binding.
const (
	// BindingRef is the binding reference, e.g. "moqui.OrderHeader.list".
	BindingRef = "capgraph.binding.ref"

	// BindingType is the binding kind.
	// Values: query, mutation
	BindingType = "capgraph.binding.type"

	// BindingTimeout is the binding timeout in milliseconds.
	BindingTimeout = "capgraph.binding.timeout_ms"

	// BindingIntent is the business intent of the binding.
	BindingIntent = "capgraph.binding.intent"

	// BindingPrecondition is one precondition of the binding (repeated).
	BindingPrecondition = "capgraph.binding.precondition"

	// BindingPostcondition is one postcondition of the binding (repeated).
	BindingPostcondition = "capgraph.binding.postcondition"

	// BindingContract names the contract the binding was compiled from.
	BindingContract = "capgraph.binding.contract"
)

// Relation predicates link bindings. Each corresponds to one graph
// relation type.
const (
	RelationDependsOn = "capgraph.relation.depends_on"
	RelationComposes  = "capgraph.relation.composes"
	RelationExtends   = "capgraph.relation.extends"
	RelationProduces  = "capgraph.relation.produces"
)

func init() {
	registerBindingPredicates()
	registerRelationPredicates()
}

func registerBindingPredicates() {
	vocabulary.Register(BindingRef,
		vocabulary.WithDescription("Binding reference"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropRef))

	vocabulary.Register(BindingType,
		vocabulary.WithDescription("Binding kind (query, mutation)"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropBindingType))

	vocabulary.Register(BindingTimeout,
		vocabulary.WithDescription("Binding timeout in milliseconds"),
		vocabulary.WithDataType("int"),
		vocabulary.WithIRI(PropTimeout))

	vocabulary.Register(BindingIntent,
		vocabulary.WithDescription("Business intent"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropIntent))

	vocabulary.Register(BindingPrecondition,
		vocabulary.WithDescription("Condition that must hold before the binding runs"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropPrecondition))

	vocabulary.Register(BindingPostcondition,
		vocabulary.WithDescription("Condition that holds after the binding runs"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropPostcondition))

	vocabulary.Register(BindingContract,
		vocabulary.WithDescription("Contract the binding was compiled from"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropSourceContract))
}

func registerRelationPredicates() {
	vocabulary.Register(RelationDependsOn,
		vocabulary.WithDescription("Binding requires the target binding"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropDependsOn))

	vocabulary.Register(RelationComposes,
		vocabulary.WithDescription("Bindings share a reference prefix"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropComposes))

	vocabulary.Register(RelationExtends,
		vocabulary.WithDescription("Binding specializes the target binding"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropExtends))

	vocabulary.Register(RelationProduces,
		vocabulary.WithDescription("Binding generates the target"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvGenerated))
}
