// Package semantic parses the optional semantic sections of a capability
// contract (data lineage, the entity/relationship model, business rules and
// decision logic) and scores their structural completeness.
//
// Parsers never fail: malformed entries are dropped or counted, so callers
// can always render a result.
package semantic

import "github.com/c360studio/capgraph/contract"

// LineageEntry is one data lineage entry. Valid entries keep every property
// of the source document, including ones this package does not interpret.
type LineageEntry map[string]any

// Ref returns the entry ref.
func (e LineageEntry) Ref() string {
	s, _ := e["ref"].(string)
	return s
}

// Fields returns the entry fields.
func (e LineageEntry) Fields() []string {
	fields, _ := contract.AsStringSlice(e["fields"])
	return fields
}

// Operation returns the transform operation.
func (e LineageEntry) Operation() string {
	s, _ := e["operation"].(string)
	return s
}

// DataLineage is the parsed governance_contract.data_lineage section.
type DataLineage struct {
	Sources    []LineageEntry `json:"sources"`
	Transforms []LineageEntry `json:"transforms"`
	Sinks      []LineageEntry `json:"sinks"`
}

// ParseDataLineage returns the lineage section, or nil when the contract has
// no lineage object. Sources and sinks need a non-empty ref and a string
// array of fields; transforms need a non-empty operation.
func ParseDataLineage(c *contract.Contract) *DataLineage {
	raw, ok := c.DataLineage()
	if !ok {
		return nil
	}
	return &DataLineage{
		Sources:    filterEntries(raw["sources"], isEndpointEntry),
		Transforms: filterEntries(raw["transforms"], isTransformEntry),
		Sinks:      filterEntries(raw["sinks"], isEndpointEntry),
	}
}

func filterEntries(v any, keep func(map[string]any) bool) []LineageEntry {
	entries := []LineageEntry{}
	items, ok := contract.AsArray(v)
	if !ok {
		return entries
	}
	for _, item := range items {
		obj, ok := contract.AsObject(item)
		if !ok || !keep(obj) {
			continue
		}
		entries = append(entries, LineageEntry(obj))
	}
	return entries
}

func isEndpointEntry(m map[string]any) bool {
	ref, ok := m["ref"].(string)
	if !ok || ref == "" {
		return false
	}
	_, ok = contract.AsStringSlice(m["fields"])
	return ok
}

func isTransformEntry(m map[string]any) bool {
	op, ok := m["operation"].(string)
	return ok && op != ""
}

// LineageInfo lists every lineage entry naming one ref.
type LineageInfo struct {
	Ref      string         `json:"ref"`
	AsSource []LineageEntry `json:"asSource"`
	AsSink   []LineageEntry `json:"asSink"`
}

// GetLineageInfo returns the sources and sinks whose ref equals ref exactly.
// Duplicates are kept: a ref may be read with several field sets, and may
// be both a source and a sink.
func GetLineageInfo(c *contract.Contract, ref string) LineageInfo {
	info := LineageInfo{Ref: ref, AsSource: []LineageEntry{}, AsSink: []LineageEntry{}}
	lineage := ParseDataLineage(c)
	if lineage == nil {
		return info
	}
	for _, e := range lineage.Sources {
		if e.Ref() == ref {
			info.AsSource = append(info.AsSource, e)
		}
	}
	for _, e := range lineage.Sinks {
		if e.Ref() == ref {
			info.AsSink = append(info.AsSink, e)
		}
	}
	return info
}
