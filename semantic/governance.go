package semantic

import (
	"strings"

	"github.com/c360studio/capgraph/contract"
)

var (
	ruleIDKeys       = []string{"id", "rule_id", "name"}
	ruleEntityKeys   = []string{"entity_ref", "entity"}
	decisionIDKeys   = []string{"id", "decision_id", "name"}
	passedStatuses   = statusSet("enforced", "active", "passed", "implemented")
	resolvedStatuses = statusSet("resolved", "decided", "approved", "implemented", "active", "enforced")
)

func statusSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func normalizeStatus(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// BusinessRule is one governance business rule.
type BusinessRule struct {
	ID        string `json:"id,omitempty"`
	EntityRef string `json:"entity_ref,omitempty"`
	Status    string `json:"status,omitempty"`
	Mapped    bool   `json:"mapped"`
	Passed    bool   `json:"passed"`
}

// RuleSummary counts business rules.
type RuleSummary struct {
	Total    int `json:"total"`
	Mapped   int `json:"mapped"`
	Unmapped int `json:"unmapped"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
}

// BusinessRules is the parsed governance_contract.business_rules section.
type BusinessRules struct {
	Rules   []BusinessRule `json:"rules"`
	Summary RuleSummary    `json:"summary"`
}

// ParseBusinessRules reads governance_contract.business_rules. A rule is
// mapped when it names an entity and passed when its status is one of
// enforced, active, passed or implemented.
func ParseBusinessRules(c *contract.Contract) BusinessRules {
	return parseBusinessRules(c.BusinessRules())
}

func parseBusinessRules(entries []any) BusinessRules {
	result := BusinessRules{Rules: []BusinessRule{}}
	for _, item := range entries {
		obj, ok := governanceObject(item)
		if !ok {
			continue
		}
		status := normalizeStatus(obj["status"])
		rule := BusinessRule{
			ID:        contract.FirstString(obj, ruleIDKeys...),
			EntityRef: contract.FirstString(obj, ruleEntityKeys...),
			Status:    status,
			Passed:    passedStatuses[status],
		}
		rule.Mapped = rule.EntityRef != ""
		result.Rules = append(result.Rules, rule)

		result.Summary.Total++
		if rule.Mapped {
			result.Summary.Mapped++
		} else {
			result.Summary.Unmapped++
		}
		if rule.Passed {
			result.Summary.Passed++
		} else {
			result.Summary.Failed++
		}
	}
	return result
}

// Decision is one governance decision logic entry.
type Decision struct {
	ID        string `json:"id,omitempty"`
	Status    string `json:"status,omitempty"`
	Resolved  bool   `json:"resolved"`
	Automated bool   `json:"automated"`
}

// DecisionSummary counts decision logic entries.
type DecisionSummary struct {
	Total     int `json:"total"`
	Resolved  int `json:"resolved"`
	Pending   int `json:"pending"`
	Automated int `json:"automated"`
}

// DecisionLogic is the parsed governance_contract.decision_logic section.
type DecisionLogic struct {
	Decisions []Decision      `json:"decisions"`
	Summary   DecisionSummary `json:"summary"`
}

// ParseDecisionLogic reads governance_contract.decision_logic. A decision is
// resolved when its status indicates resolution and automated when tested
// is truthy.
func ParseDecisionLogic(c *contract.Contract) DecisionLogic {
	return parseDecisionLogic(c.DecisionLogic())
}

func parseDecisionLogic(entries []any) DecisionLogic {
	result := DecisionLogic{Decisions: []Decision{}}
	for _, item := range entries {
		obj, ok := governanceObject(item)
		if !ok {
			continue
		}
		status := normalizeStatus(obj["status"])
		d := Decision{
			ID:        contract.FirstString(obj, decisionIDKeys...),
			Status:    status,
			Resolved:  resolvedStatuses[status],
			Automated: contract.Truthy(obj["tested"]),
		}
		result.Decisions = append(result.Decisions, d)

		result.Summary.Total++
		if d.Resolved {
			result.Summary.Resolved++
		} else {
			result.Summary.Pending++
		}
		if d.Automated {
			result.Summary.Automated++
		}
	}
	return result
}

// governanceObject accepts object entries and bare string identifiers.
func governanceObject(item any) (map[string]any, bool) {
	if s, ok := item.(string); ok && s != "" {
		return map[string]any{"id": s}, true
	}
	return contract.AsObject(item)
}

// RuleIDs returns the distinct identifiers of business rule entries, in
// document order. Entries without an identifier are skipped.
func RuleIDs(entries []any) []string {
	return identifiers(entries, ruleIDKeys)
}

// DecisionIDs returns the distinct identifiers of decision logic entries.
func DecisionIDs(entries []any) []string {
	return identifiers(entries, decisionIDKeys)
}

func identifiers(entries []any, keys []string) []string {
	ids := []string{}
	seen := make(map[string]bool)
	for _, item := range entries {
		obj, ok := governanceObject(item)
		if !ok {
			continue
		}
		id := contract.FirstString(obj, keys...)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
