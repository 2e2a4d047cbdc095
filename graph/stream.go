package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// IngestStream is the stream that captures GraphIngestSubject when no
// knowledge-graph deployment has created one yet.
const IngestStream = "GRAPH"

// EnsureIngestStream creates IngestStream when it does not exist.
func EnsureIngestStream(ctx context.Context, js jetstream.JetStream) error {
	return EnsureStream(ctx, js, IngestStream, "graph.ingest.>")
}

// EnsureStream creates a stream over subjects when no stream of that name
// exists. An existing stream is left untouched.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string, subjects ...string) error {
	_, err := js.Stream(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("get stream %s: %w", name, err)
	}
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     name,
		Subjects: subjects,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", name, err)
	}
	return nil
}
