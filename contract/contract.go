// Package contract provides the capability contract and scene manifest
// documents consumed by the ontology engine and the diagnostics linter.
//
// Contracts are produced by external spec-authoring tooling and have a loose,
// optional shape. The types in this package keep the decoded document and
// expose typed accessors that return safe defaults instead of failing on
// missing or wrong-typed fields.
package contract

// KindSceneDomainProfile marks a reusable domain profile whose governance is
// cross-checked against a consuming scene manifest.
const KindSceneDomainProfile = "scene-domain-profile"

// Contract is a decoded capability contract document.
type Contract struct {
	// Name identifies the contract in reports (usually the file path).
	Name string

	raw map[string]any
}

// New wraps an already decoded document. A nil document is treated as empty.
func New(name string, raw map[string]any) *Contract {
	if raw == nil {
		raw = map[string]any{}
	}
	return &Contract{Name: name, raw: raw}
}

// Raw returns the underlying decoded document.
func (c *Contract) Raw() map[string]any {
	if c == nil {
		return nil
	}
	return c.raw
}

// Kind returns the contract kind discriminator, or "" when absent.
func (c *Contract) Kind() string {
	if c == nil {
		return ""
	}
	s, _ := c.raw["kind"].(string)
	return s
}

// Version returns the raw version field and whether it was present.
func (c *Contract) Version() (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.raw["version"]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Bindings returns every object entry of capability_contract.bindings in
// document order. Non-object entries are dropped.
func (c *Contract) Bindings() []Binding {
	if c == nil {
		return nil
	}
	capability, ok := AsObject(c.raw["capability_contract"])
	if !ok {
		return nil
	}
	entries, ok := AsArray(capability["bindings"])
	if !ok {
		return nil
	}
	bindings := make([]Binding, 0, len(entries))
	for i, entry := range entries {
		obj, ok := AsObject(entry)
		if !ok {
			continue
		}
		bindings = append(bindings, Binding{Index: i, fields: obj})
	}
	return bindings
}

// BoundRefs returns the set of valid binding refs.
func (c *Contract) BoundRefs() map[string]bool {
	refs := make(map[string]bool)
	for _, b := range c.Bindings() {
		if ref, ok := b.Ref(); ok {
			refs[ref] = true
		}
	}
	return refs
}

// Governance returns governance_contract when it is an object.
func (c *Contract) Governance() (map[string]any, bool) {
	if c == nil {
		return nil, false
	}
	return AsObject(c.raw["governance_contract"])
}

// BusinessRules returns governance_contract.business_rules entries.
func (c *Contract) BusinessRules() []any {
	gov, ok := c.Governance()
	if !ok {
		return nil
	}
	rules, _ := AsArray(gov["business_rules"])
	return rules
}

// DecisionLogic returns governance_contract.decision_logic entries.
func (c *Contract) DecisionLogic() []any {
	gov, ok := c.Governance()
	if !ok {
		return nil
	}
	decisions, _ := AsArray(gov["decision_logic"])
	return decisions
}

// DataLineage returns governance_contract.data_lineage when it is an object.
func (c *Contract) DataLineage() (map[string]any, bool) {
	gov, ok := c.Governance()
	if !ok {
		return nil, false
	}
	return AsObject(gov["data_lineage"])
}

// SemanticModel returns the entity/relationship model section. ontology_model
// wins; semantic_model is the fallback name. The returned key names the
// section that was found.
func (c *Contract) SemanticModel() (model map[string]any, key string, ok bool) {
	if c == nil {
		return nil, "", false
	}
	for _, name := range []string{"ontology_model", "semantic_model"} {
		if m, ok := AsObject(c.raw[name]); ok {
			return m, name, true
		}
	}
	return nil, "", false
}

// AgentHints returns the raw agent_hints value and whether it was present.
func (c *Contract) AgentHints() (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.raw["agent_hints"]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Binding is one capability_contract.bindings entry.
type Binding struct {
	// Index is the position of the entry in the bindings array.
	Index int

	fields map[string]any
}

// NewBinding wraps a decoded binding object.
func NewBinding(index int, fields map[string]any) Binding {
	return Binding{Index: index, fields: fields}
}

// Ref returns the binding ref when it is a non-empty string.
func (b Binding) Ref() (string, bool) {
	s, ok := b.fields["ref"].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Field returns a raw field. A JSON null counts as absent.
func (b Binding) Field(name string) (any, bool) {
	v, ok := b.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// DependsOn returns the refs named by depends_on. Both a single ref and an
// array of refs are accepted; non-string entries are ignored.
func (b Binding) DependsOn() []string {
	v, ok := b.Field("depends_on")
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	items, ok := AsArray(v)
	if !ok {
		return nil
	}
	refs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			refs = append(refs, s)
		}
	}
	return refs
}

// Label returns the ref for messages, falling back to the array position.
func (b Binding) Label() string {
	if ref, ok := b.Ref(); ok {
		return ref
	}
	return "#" + itoa(b.Index)
}

// Manifest is a companion scene manifest document.
type Manifest struct {
	Name string

	raw map[string]any
}

// NewManifest wraps a decoded scene manifest.
func NewManifest(name string, raw map[string]any) *Manifest {
	if raw == nil {
		raw = map[string]any{}
	}
	return &Manifest{Name: name, raw: raw}
}

// Raw returns the underlying decoded document.
func (m *Manifest) Raw() map[string]any {
	if m == nil {
		return nil
	}
	return m.raw
}

// Governance returns spec.governance_contract when it is an object.
func (m *Manifest) Governance() (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	spec, ok := AsObject(m.raw["spec"])
	if !ok {
		return nil, false
	}
	return AsObject(spec["governance_contract"])
}

// BusinessRules returns the manifest's governance business rules.
func (m *Manifest) BusinessRules() []any {
	gov, ok := m.Governance()
	if !ok {
		return nil
	}
	rules, _ := AsArray(gov["business_rules"])
	return rules
}

// DecisionLogic returns the manifest's governance decision logic.
func (m *Manifest) DecisionLogic() []any {
	gov, ok := m.Governance()
	if !ok {
		return nil
	}
	decisions, _ := AsArray(gov["decision_logic"])
	return decisions
}
