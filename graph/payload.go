package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"
)

// RegisterPayloads registers BindingPayload with reg.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	return reg.Register(&payloadregistry.Registration{
		Domain:      "capgraph",
		Category:    "binding",
		Version:     "v1",
		Description: "Capability binding entity with triples for graph ingestion",
		Factory:     func() any { return &BindingPayload{} },
	})
}

// BindingType is the message type for binding entity payloads.
var BindingType = message.Type{Domain: "capgraph", Category: "binding", Version: "v1"}

// BindingPayload carries one binding and its triples to the graph ingest
// subject.
type BindingPayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (b *BindingPayload) EntityID() string          { return b.EntityID_ }
func (b *BindingPayload) Triples() []message.Triple { return b.TripleData }
func (b *BindingPayload) Schema() message.Type      { return BindingType }

func (b *BindingPayload) Validate() error {
	if b.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	if len(b.TripleData) == 0 {
		return errors.New("at least one triple is required")
	}
	return nil
}

func (b *BindingPayload) MarshalJSON() ([]byte, error) {
	type Alias BindingPayload
	return json.Marshal((*Alias)(b))
}

func (b *BindingPayload) UnmarshalJSON(data []byte) error {
	type Alias BindingPayload
	return json.Unmarshal(data, (*Alias)(b))
}
