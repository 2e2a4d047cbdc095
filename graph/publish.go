// Package graph publishes compiled binding graphs to the knowledge graph.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/c360studio/semstreams/message"

	"github.com/c360studio/capgraph/export"
	"github.com/c360studio/capgraph/ontology"
)

// GraphIngestSubject is the subject binding entities are published to.
const GraphIngestSubject = "graph.ingest.entity"

const tripleSource = "capgraph.publish"

// Publisher publishes a message to a JetStream subject.
// *natsclient.Client satisfies it.
type Publisher interface {
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// refEscaper keeps refs one-to-one with entity IDs. '_' is the escape
// character, so it is escaped too.
var refEscaper = strings.NewReplacer("_", "_5f", ".", "_2e")

// BindingEntityID generates a consistent entity ID for a binding ref.
// Format: capgraph.local.ontology.binding.binding.<escaped ref>, where '_'
// becomes "_5f" and '.' becomes "_2e".
func BindingEntityID(ref string) string {
	return "capgraph.local.ontology.binding.binding." + refEscaper.Replace(ref)
}

// BindingTriples converts an export entity into message triples: rdf:type
// assertions for the profile followed by the binding predicates. Link
// objects are rewritten to entity IDs.
func BindingTriples(e export.Entity, profile export.Profile, now time.Time) []message.Triple {
	entityID := BindingEntityID(e.Ref)
	triples := export.TypeTriples(entityID, e.EntityType, profile, now)
	for _, t := range e.Triples {
		object := t.Object
		if t.Link {
			object = BindingEntityID(t.Object.(string))
		}
		triples = append(triples, message.Triple{
			Subject:    entityID,
			Predicate:  t.Predicate,
			Object:     object,
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}
	return triples
}

// GraphPublisher publishes every binding of a graph as one entity message.
type GraphPublisher struct {
	pub     Publisher
	profile export.Profile
	logger  *slog.Logger
}

// NewGraphPublisher creates a publisher. A nil Publisher turns publishing
// into a no-op.
func NewGraphPublisher(pub Publisher, profile export.Profile, logger *slog.Logger) *GraphPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if profile == "" {
		profile = export.ProfileMinimal
	}
	return &GraphPublisher{pub: pub, profile: profile, logger: logger}
}

// PublishGraph publishes each binding of g and returns how many were sent.
// It stops at the first failure or when ctx is done.
func (p *GraphPublisher) PublishGraph(ctx context.Context, g *ontology.Graph, contractName string) (int, error) {
	if p.pub == nil {
		p.logger.Debug("No publisher configured, skipping graph publish", "contract", contractName)
		return 0, nil
	}

	now := time.Now()
	published := 0
	for _, entity := range export.Entities(g, contractName) {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		payload := &BindingPayload{
			EntityID_:  BindingEntityID(entity.Ref),
			TripleData: BindingTriples(entity, p.profile, now),
			UpdatedAt:  now,
		}
		if err := payload.Validate(); err != nil {
			return published, fmt.Errorf("binding %q: %w", entity.Ref, err)
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return published, fmt.Errorf("marshal binding entity %q: %w", entity.Ref, err)
		}
		if err := p.pub.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
			return published, fmt.Errorf("publish binding entity %q: %w", entity.Ref, err)
		}
		published++
	}

	p.logger.Info("Published binding graph",
		"contract", contractName,
		"bindings", published,
		"subject", GraphIngestSubject)
	return published, nil
}
