// Package storage keeps graph and report snapshots in a NATS KV bucket.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/ontology"
)

// Kind is the type of a stored snapshot.
type Kind string

const (
	KindGraph  Kind = "graph"
	KindReport Kind = "report"
)

// SnapshotID is a typed snapshot identifier, rendered as "kind:uuid".
type SnapshotID struct {
	Kind Kind
	ID   string
}

// String returns the "kind:id" form.
func (s SnapshotID) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.ID)
}

// key is the KV key; KV keys may not contain ':'.
func (s SnapshotID) key() string {
	return string(s.Kind) + "." + s.ID
}

// ParseSnapshotID parses a "kind:id" string.
func ParseSnapshotID(s string) (SnapshotID, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return SnapshotID{}, fmt.Errorf("invalid snapshot ID format: %s", s)
	}
	kind := Kind(parts[0])
	switch kind {
	case KindGraph, KindReport:
		return SnapshotID{Kind: kind, ID: parts[1]}, nil
	default:
		return SnapshotID{}, fmt.Errorf("unknown snapshot kind: %s", parts[0])
	}
}

// NewSnapshotID generates a new unique ID for the given kind.
func NewSnapshotID(k Kind) SnapshotID {
	return SnapshotID{Kind: k, ID: uuid.New().String()}
}

// Snapshot is a stored graph or report.
type Snapshot struct {
	ID          string              `json:"id"`
	Kind        Kind                `json:"kind"`
	Contract    string              `json:"contract"`
	Fingerprint string              `json:"fingerprint,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	Revision    uint64              `json:"-"`
	Graph       *ontology.Document  `json:"graph,omitempty"`
	Report      *diagnostics.Report `json:"report,omitempty"`
}

// Store provides snapshot operations over a Bucket.
type Store struct {
	bucket Bucket
	logger *slog.Logger
	now    func() time.Time
}

// NewStore opens the snapshot bucket, creating it if it doesn't exist.
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string, logger *slog.Logger) (*Store, error) {
	if bucket == "" {
		bucket = BucketSnapshots
	}
	kv, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create snapshot bucket: %w", err)
	}
	return NewStoreWithBucket(NewKVBucket(kv), logger), nil
}

// NewStoreWithBucket creates a store over an existing bucket.
func NewStoreWithBucket(b Bucket, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{bucket: b, logger: logger, now: time.Now}
}

// SaveGraph stores a graph snapshot. When the newest graph snapshot of the
// same contract has the same fingerprint, its ID is returned and nothing is
// written.
func (s *Store) SaveGraph(ctx context.Context, contractName string, g *ontology.Graph) (SnapshotID, error) {
	fp, err := ontology.Fingerprint(g)
	if err != nil {
		return SnapshotID{}, fmt.Errorf("fingerprint graph: %w", err)
	}

	latest, err := s.Latest(ctx, KindGraph, contractName)
	switch {
	case err == nil && latest.Fingerprint == fp:
		id, _ := ParseSnapshotID(latest.ID)
		s.logger.Debug("Graph unchanged, reusing snapshot", "contract", contractName, "id", latest.ID)
		return id, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return SnapshotID{}, err
	}

	doc := g.ToDocument()
	id := NewSnapshotID(KindGraph)
	snap := &Snapshot{
		ID:          id.String(),
		Kind:        KindGraph,
		Contract:    contractName,
		Fingerprint: fp,
		CreatedAt:   s.now().UTC(),
		Graph:       &doc,
	}
	if err := s.put(ctx, id, snap); err != nil {
		return SnapshotID{}, err
	}

	s.logger.Info("Saved graph snapshot", "contract", contractName, "id", snap.ID, "fingerprint", fp)
	return id, nil
}

// SaveReport stores a report snapshot keyed by the report ID.
func (s *Store) SaveReport(ctx context.Context, report diagnostics.Report) (SnapshotID, error) {
	id := SnapshotID{Kind: KindReport, ID: report.ID}
	if id.ID == "" {
		id = NewSnapshotID(KindReport)
	}
	snap := &Snapshot{
		ID:          id.String(),
		Kind:        KindReport,
		Contract:    report.Contract,
		Fingerprint: report.Lint.Graph.Fingerprint,
		CreatedAt:   s.now().UTC(),
		Report:      &report,
	}
	if err := s.put(ctx, id, snap); err != nil {
		return SnapshotID{}, err
	}

	s.logger.Info("Saved report snapshot", "contract", report.Contract, "id", snap.ID, "score", report.TotalScore)
	return id, nil
}

func (s *Store) put(ctx context.Context, id SnapshotID, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", id.Kind, err)
	}
	rev, err := s.bucket.Put(ctx, id.key(), data)
	if err != nil {
		return fmt.Errorf("store %s snapshot: %w", id.Kind, err)
	}
	snap.Revision = rev
	return nil
}

// Get retrieves a snapshot by ID.
func (s *Store) Get(ctx context.Context, id SnapshotID) (*Snapshot, error) {
	data, rev, err := s.bucket.Get(ctx, id.key())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s snapshot: %w", id.Kind, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal %s snapshot: %w", id.Kind, err)
	}
	snap.Revision = rev
	return &snap, nil
}

// LoadGraph retrieves a graph snapshot and rebuilds its graph.
func (s *Store) LoadGraph(ctx context.Context, id SnapshotID) (*ontology.Graph, *Snapshot, error) {
	if id.Kind != KindGraph {
		return nil, nil, fmt.Errorf("invalid snapshot kind: expected graph, got %s", id.Kind)
	}
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ontology.FromDocument(snap.Graph), snap, nil
}

// List returns every snapshot of a kind, newest first.
func (s *Store) List(ctx context.Context, kind Kind) ([]*Snapshot, error) {
	keys, err := s.bucket.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshot keys: %w", err)
	}

	prefix := string(kind) + "."
	snaps := make([]*Snapshot, 0)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		snap, err := s.Get(ctx, SnapshotID{Kind: kind, ID: strings.TrimPrefix(key, prefix)})
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // deleted between Keys and Get
			}
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps, nil
}

// Latest returns the newest snapshot of a kind for a contract.
func (s *Store) Latest(ctx context.Context, kind Kind, contractName string) (*Snapshot, error) {
	snaps, err := s.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		if snap.Contract == contractName {
			return snap, nil
		}
	}
	return nil, ErrNotFound
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id SnapshotID) error {
	if err := s.bucket.Delete(ctx, id.key()); err != nil {
		return fmt.Errorf("delete %s snapshot: %w", id.Kind, err)
	}
	return nil
}
