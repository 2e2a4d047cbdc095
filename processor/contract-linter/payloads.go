package contractlinter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"

	"github.com/c360studio/capgraph/diagnostics"
)

// RegisterPayloads registers the contract and report payloads with reg.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	registrations := []*payloadregistry.Registration{
		{
			Domain:      "capgraph",
			Category:    "contract",
			Version:     "v1",
			Description: "Capability contract document submitted for linting",
			Factory:     func() any { return &ContractPayload{} },
		},
		{
			Domain:      "capgraph",
			Category:    "report",
			Version:     "v1",
			Description: "Quality report of a linted capability contract",
			Factory:     func() any { return &ReportPayload{} },
		},
	}
	for _, r := range registrations {
		if err := reg.Register(r); err != nil {
			return fmt.Errorf("register %s payload: %w", r.Category, err)
		}
	}
	return nil
}

var (
	// ContractType is the message type for submitted contracts.
	ContractType = message.Type{Domain: "capgraph", Category: "contract", Version: "v1"}
	// ReportType is the message type for generated reports.
	ReportType = message.Type{Domain: "capgraph", Category: "report", Version: "v1"}
)

// ContractPayload carries a decoded contract and its optional scene manifest.
type ContractPayload struct {
	Name     string         `json:"name"`
	Document map[string]any `json:"document"`
	Manifest map[string]any `json:"manifest,omitempty"`
}

// Schema returns the message type for Payload interface.
func (p *ContractPayload) Schema() message.Type { return ContractType }

// Validate validates the payload for Payload interface.
func (p *ContractPayload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Document == nil {
		return errors.New("document is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *ContractPayload) MarshalJSON() ([]byte, error) {
	type Alias ContractPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ContractPayload) UnmarshalJSON(data []byte) error {
	type Alias ContractPayload
	return json.Unmarshal(data, (*Alias)(p))
}

// ReportPayload carries the report built for a submitted contract.
type ReportPayload struct {
	Report diagnostics.Report `json:"report"`
}

// Schema returns the message type for Payload interface.
func (p *ReportPayload) Schema() message.Type { return ReportType }

// Validate validates the payload for Payload interface.
func (p *ReportPayload) Validate() error {
	if p.Report.ID == "" {
		return errors.New("report id is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *ReportPayload) MarshalJSON() ([]byte, error) {
	type Alias ReportPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ReportPayload) UnmarshalJSON(data []byte) error {
	type Alias ReportPayload
	return json.Unmarshal(data, (*Alias)(p))
}
