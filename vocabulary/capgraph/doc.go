// Package capgraph provides the vocabulary predicates and ontology IRIs for
// capability binding graphs.
//
// Predicates follow the semstreams three-level dotted notation
// (domain.category.property) and are registered in init() with
// vocabulary.Register so that triple publishers and RDF exporters resolve
// the same descriptions, data types and IRIs.
//
// # Ontology Alignment
//
// Bindings are information content: a query binding is a specification of
// how to read data, a mutation binding is a directive to change it. The
// class maps in this package align binding types with BFO and CCO so RDF
// exports can be loaded next to other BFO-aligned graphs:
//
//	binding  → bfo:GenericallyDependentContinuant, cco:InformationContentEntity
//	query    → bfo:GenericallyDependentContinuant, cco:Specification
//	mutation → bfo:GenericallyDependentContinuant, cco:DirectiveInformationContentEntity
//
// Relations between bindings map to BFO/PROV-O object properties where a
// close match exists and to the capgraph namespace otherwise.
package capgraph
