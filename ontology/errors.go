package ontology

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error checking via errors.Is().
var (
	// ErrInvalidRef indicates a node ref that is not a non-empty string.
	ErrInvalidRef = errors.New("invalid node ref")

	// ErrUnknownRelation indicates a relation type outside the closed vocabulary.
	ErrUnknownRelation = errors.New("unknown relation type")

	// ErrMissingEndpoint indicates an edge endpoint that is not a node.
	ErrMissingEndpoint = errors.New("missing edge endpoint")
)

// StoreError reports a Graph Store invariant violation. These are misuse
// errors from the mutation API, never data-quality findings.
type StoreError struct {
	Kind error    // One of the sentinel errors above
	Msg  string   // Deterministic error message
	Refs []string // Offending refs or relation type, when applicable
}

func (e *StoreError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *StoreError) Unwrap() error { return e.Kind }

func invalidRefError() error {
	return &StoreError{Kind: ErrInvalidRef, Msg: "ref must be a non-empty string"}
}

func unknownRelationError(rel RelationType) error {
	return &StoreError{
		Kind: ErrUnknownRelation,
		Msg:  fmt.Sprintf("%q (expected one of %s)", rel, strings.Join(relationNames(), ", ")),
		Refs: []string{string(rel)},
	}
}

func missingEndpointError(missing []string) error {
	quoted := make([]string, len(missing))
	for i, ref := range missing {
		quoted[i] = fmt.Sprintf("%q", ref)
	}
	return &StoreError{
		Kind: ErrMissingEndpoint,
		Msg:  fmt.Sprintf("node(s) %s do not exist", strings.Join(quoted, " and ")),
		Refs: missing,
	}
}
