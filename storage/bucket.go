package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
)

// BucketSnapshots is the KV bucket holding graph and report snapshots.
const BucketSnapshots = "CAPGRAPH_SNAPSHOTS"

// Bucket is the key-value subset the store needs.
type Bucket interface {
	// Get returns the value and revision of key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, uint64, error)
	// Put stores value under key and returns the new revision.
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	// Keys returns every key; an empty bucket yields no keys and no error.
	Keys(ctx context.Context) ([]string, error)
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// kvBucket adapts a JetStream KeyValue bucket.
type kvBucket struct {
	kv jetstream.KeyValue
}

// NewKVBucket wraps a JetStream KeyValue bucket.
func NewKVBucket(kv jetstream.KeyValue) Bucket {
	return &kvBucket{kv: kv}
}

func (b *kvBucket) Get(ctx context.Context, key string) ([]byte, uint64, error) {
	entry, err := b.kv.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return entry.Value(), entry.Revision(), nil
}

func (b *kvBucket) Put(ctx context.Context, key string, value []byte) (uint64, error) {
	return b.kv.Put(ctx, key, value)
}

func (b *kvBucket) Keys(ctx context.Context) ([]string, error) {
	keys, err := b.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, err
	}
	return keys, nil
}

func (b *kvBucket) Delete(ctx context.Context, key string) error {
	return b.kv.Delete(ctx, key)
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("capgraph %s storage", strings.ToLower(name)),
		History:     5,
	})
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "key not found")
}
