// Package diagnostics lints capability contracts and turns the findings,
// together with the semantic quality score, into a release-gate report.
//
// Every check returns lint items rather than errors: a malformed contract is
// an expected, actionable outcome.
package diagnostics

// Level is the severity of a lint item.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Lint item codes.
const (
	CodeEmptyIntent             = "EMPTY_INTENT"
	CodeInvalidPreconditions    = "INVALID_PRECONDITIONS"
	CodeInvalidPostconditions   = "INVALID_POSTCONDITIONS"
	CodeLineageSourceNotBound   = "LINEAGE_SOURCE_NOT_IN_BINDINGS"
	CodeLineageSinkNotBound     = "LINEAGE_SINK_NOT_IN_BINDINGS"
	CodeEntitiesMissing         = "ONTOLOGY_ENTITIES_MISSING"
	CodeRelationsMissing        = "ONTOLOGY_RELATIONS_MISSING"
	CodeBusinessRulesMissing    = "BUSINESS_RULES_MISSING"
	CodeDecisionLogicMissing    = "DECISION_LOGIC_MISSING"
	CodeSceneGovernanceMissing  = "SCENE_GOVERNANCE_CONTRACT_MISSING"
	CodeSceneRulesMissing       = "SCENE_GOVERNANCE_RULES_MISSING"
	CodeSceneRulesUnaligned     = "SCENE_GOVERNANCE_RULES_UNALIGNED"
	CodeSceneDecisionsMissing   = "SCENE_GOVERNANCE_DECISIONS_MISSING"
	CodeSceneDecisionsUnaligned = "SCENE_GOVERNANCE_DECISIONS_UNALIGNED"
	CodeInvalidAgentHints       = "INVALID_AGENT_HINTS"
	CodeEmptyAgentSummary       = "EMPTY_AGENT_SUMMARY"
	CodeInvalidAgentComplexity  = "INVALID_AGENT_COMPLEXITY"
	CodeInvalidAgentDuration    = "INVALID_AGENT_DURATION"
	CodeInvalidVersion          = "INVALID_CONTRACT_VERSION"
	CodeUnsupportedVersion      = "UNSUPPORTED_CONTRACT_VERSION"
	CodeInvalidConstraint       = "INVALID_VERSION_CONSTRAINT"
)

// Item is a single lint finding.
type Item struct {
	Level   Level  `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
	// Ref names the binding or entry the finding is about, when there is one.
	Ref string `json:"ref,omitempty"`
	// Path locates the offending value in the contract document.
	Path string `json:"path,omitempty"`
}

func errorItem(code, message string) Item {
	return Item{Level: LevelError, Code: code, Message: message}
}

func warningItem(code, message string) Item {
	return Item{Level: LevelWarning, Code: code, Message: message}
}

func (i Item) at(ref, path string) Item {
	i.Ref = ref
	i.Path = path
	return i
}
