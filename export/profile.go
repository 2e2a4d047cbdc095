package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/capgraph/vocabulary/capgraph"
)

// Profile determines which ontology type assertions are included in an
// export.
type Profile string

const (
	// ProfileMinimal asserts capgraph and PROV-O types only.
	ProfileMinimal Profile = "minimal"

	// ProfileBFO adds BFO type assertions.
	ProfileBFO Profile = "bfo"

	// ProfileCCO adds CCO type assertions on top of BFO.
	ProfileCCO Profile = "cco"
)

// Profiles describes every available profile.
var Profiles = map[Profile]string{
	ProfileMinimal: "capgraph and PROV-O types",
	ProfileBFO:     "BFO type assertions plus minimal profile",
	ProfileCCO:     "Full CCO/BFO/PROV-O alignment",
}

// ParseProfile resolves a profile name. Empty selects ProfileMinimal.
func ParseProfile(name string) (Profile, error) {
	if name == "" {
		return ProfileMinimal, nil
	}
	p := Profile(strings.ToLower(name))
	if _, ok := Profiles[p]; !ok {
		return "", fmt.Errorf("unknown export profile %q (expected minimal, bfo or cco)", name)
	}
	return p, nil
}

// TypeIRIs returns the rdf:type IRIs asserted for an entity type.
func (p Profile) TypeIRIs(entityType capgraph.EntityType) []string {
	return capgraph.GetTypesForEntity(entityType, string(p))
}

// TypeTriples returns rdf:type assertions as message triples, for
// publishing type information alongside binding predicates.
func TypeTriples(entityID string, entityType capgraph.EntityType, profile Profile, now time.Time) []message.Triple {
	iris := profile.TypeIRIs(entityType)
	triples := make([]message.Triple, 0, len(iris))
	for _, iri := range iris {
		triples = append(triples, message.Triple{
			Subject:    entityID,
			Predicate:  "rdf.syntax.type",
			Object:     iri,
			Source:     "capgraph.rdf-export",
			Timestamp:  now,
			Confidence: 1.0,
		})
	}
	return triples
}
