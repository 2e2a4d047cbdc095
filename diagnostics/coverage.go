package diagnostics

import (
	"fmt"
	"strings"

	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/semantic"
)

// CheckOntologySemanticCoverage cross-checks a scene domain profile against
// the scene manifest that consumes it. Contracts of any other kind are not
// checked.
//
// The profile must declare entities, relations, business rules and decision
// logic. The manifest must carry a governance contract whose rule and
// decision identifiers are non-empty and equal to the profile's own.
func CheckOntologySemanticCoverage(c *contract.Contract, m *contract.Manifest) []Item {
	if c.Kind() != contract.KindSceneDomainProfile {
		return nil
	}

	var items []Item

	model := semantic.ParseEntityRelationshipModel(c)
	if model.Summary.Entities == 0 {
		items = append(items, warningItem(CodeEntitiesMissing,
			"Scene domain profile declares no ontology entities"))
	}
	if model.Summary.Relations == 0 {
		items = append(items, warningItem(CodeRelationsMissing,
			"Scene domain profile declares no ontology relations"))
	}
	if len(c.BusinessRules()) == 0 {
		items = append(items, warningItem(CodeBusinessRulesMissing,
			"Scene domain profile declares no business rules").
			at("", "governance_contract.business_rules"))
	}
	if len(c.DecisionLogic()) == 0 {
		items = append(items, warningItem(CodeDecisionLogicMissing,
			"Scene domain profile declares no decision logic").
			at("", "governance_contract.decision_logic"))
	}

	if _, ok := m.Governance(); !ok {
		items = append(items, warningItem(CodeSceneGovernanceMissing,
			"Scene manifest has no governance contract").
			at("", "spec.governance_contract"))
		return items
	}

	items = append(items, alignment(
		"business rules",
		semantic.RuleIDs(c.BusinessRules()),
		semantic.RuleIDs(m.BusinessRules()),
		CodeSceneRulesMissing, CodeSceneRulesUnaligned,
		"spec.governance_contract.business_rules",
	)...)
	items = append(items, alignment(
		"decision logic",
		semantic.DecisionIDs(c.DecisionLogic()),
		semantic.DecisionIDs(m.DecisionLogic()),
		CodeSceneDecisionsMissing, CodeSceneDecisionsUnaligned,
		"spec.governance_contract.decision_logic",
	)...)

	return items
}

// alignment compares the identifier sets of the profile and the scene.
// Nothing can drift when the profile itself declares no identifiers.
func alignment(what string, declared, enforced []string, missingCode, unalignedCode, path string) []Item {
	if len(enforced) == 0 {
		return []Item{warningItem(missingCode,
			fmt.Sprintf("Scene governance contract declares no %s", what)).at("", path)}
	}
	if len(declared) == 0 {
		return nil
	}

	notEnforced := difference(declared, enforced)
	sceneOnly := difference(enforced, declared)
	if len(notEnforced) == 0 && len(sceneOnly) == 0 {
		return nil
	}

	var parts []string
	if len(notEnforced) > 0 {
		parts = append(parts, "missing from scene: "+strings.Join(notEnforced, ", "))
	}
	if len(sceneOnly) > 0 {
		parts = append(parts, "only in scene: "+strings.Join(sceneOnly, ", "))
	}
	return []Item{warningItem(unalignedCode,
		fmt.Sprintf("Scene %s are not aligned with the domain profile (%s)", what, strings.Join(parts, "; "))).
		at("", path)}
}

// difference returns the entries of a absent from b, in a's order.
func difference(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, s := range b {
		in[s] = true
	}
	var out []string
	for _, s := range a {
		if !in[s] {
			out = append(out, s)
		}
	}
	return out
}
