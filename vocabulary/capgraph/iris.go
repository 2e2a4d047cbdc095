package capgraph

// Namespace is the base IRI prefix for capgraph ontology terms.
const Namespace = "https://capgraph.dev/ontology/"

// EntityNamespace is the base IRI prefix for binding instances.
const EntityNamespace = "https://capgraph.dev/entity/"

// Class IRIs.
const (
	// ClassBinding is a capability binding: a named, addressable operation
	// of the described system.
	ClassBinding = Namespace + "Binding"

	// ClassQueryBinding is a binding that reads data.
	ClassQueryBinding = Namespace + "QueryBinding"

	// ClassMutationBinding is a binding that changes data.
	ClassMutationBinding = Namespace + "MutationBinding"
)

// Object property IRIs for relation types without a standard equivalent.
const (
	PropDependsOn = Namespace + "dependsOn"
	PropComposes  = Namespace + "composes"
	PropExtends   = Namespace + "extends"
)

// Datatype property IRIs.
const (
	PropRef            = Namespace + "ref"
	PropBindingType    = Namespace + "bindingType"
	PropTimeout        = Namespace + "timeoutMs"
	PropIntent         = Namespace + "intent"
	PropPrecondition   = Namespace + "precondition"
	PropPostcondition  = Namespace + "postcondition"
	PropSourceContract = Namespace + "sourceContract"
)
