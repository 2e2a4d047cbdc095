package diagnostics

import (
	"fmt"
	"strings"

	"github.com/c360studio/capgraph/contract"
)

var validComplexity = map[string]bool{"low": true, "medium": true, "high": true}

// Agent readiness points.
const (
	summaryPoints    = 4
	complexityPoints = 3
	sequencePoints   = 3

	// MaxAgentReadiness is the largest agent readiness bonus.
	MaxAgentReadiness = summaryPoints + complexityPoints + sequencePoints
)

// CheckAgentHints inspects the optional agent_hints block: an explicitly
// empty summary is a warning, and a complexity outside low/medium/high or a
// duration that is not a positive integer are errors.
func CheckAgentHints(c *contract.Contract) []Item {
	raw, ok := c.AgentHints()
	if !ok {
		return nil
	}
	hints, ok := contract.AsObject(raw)
	if !ok {
		return []Item{warningItem(CodeInvalidAgentHints, "agent_hints must be an object").
			at("", "agent_hints")}
	}

	var items []Item

	if v, ok := present(hints, "summary"); ok {
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			items = append(items, warningItem(CodeEmptyAgentSummary,
				"agent_hints.summary is empty").at("", "agent_hints.summary"))
		}
	}

	if v, ok := present(hints, "complexity"); ok {
		if s, isString := v.(string); !isString || !validComplexity[s] {
			items = append(items, errorItem(CodeInvalidAgentComplexity,
				fmt.Sprintf("agent_hints.complexity must be one of low, medium, high (got %v)", v)).
				at("", "agent_hints.complexity"))
		}
	}

	if v, ok := present(hints, "estimated_duration_ms"); ok {
		if !contract.IsPositiveInteger(v) {
			items = append(items, errorItem(CodeInvalidAgentDuration,
				fmt.Sprintf("agent_hints.estimated_duration_ms must be a positive integer (got %v)", v)).
				at("", "agent_hints.estimated_duration_ms"))
		}
	}

	return items
}

// AgentReadiness is the agent readiness bonus with its per-field breakdown.
type AgentReadiness struct {
	Score   int            `json:"score"`
	Max     int            `json:"max"`
	Details map[string]int `json:"details"`
}

// ScoreAgentReadiness awards up to 10 bonus points for the agent hints of the
// linted contract: 4 for a non-empty summary, 3 for a valid complexity and 3
// for a non-empty suggested_sequence. The bonus is added on top of the base
// quality score.
func ScoreAgentReadiness(result LintResult) AgentReadiness {
	readiness := AgentReadiness{Max: MaxAgentReadiness, Details: map[string]int{}}

	raw, ok := result.ctx.contract.AgentHints()
	if !ok {
		return readiness
	}
	hints, ok := contract.AsObject(raw)
	if !ok {
		return readiness
	}

	if s, ok := hints["summary"].(string); ok && strings.TrimSpace(s) != "" {
		readiness.Details["summary"] = summaryPoints
	}
	if s, ok := hints["complexity"].(string); ok && validComplexity[s] {
		readiness.Details["complexity"] = complexityPoints
	}
	if seq, ok := contract.AsArray(hints["suggested_sequence"]); ok && len(seq) > 0 {
		readiness.Details["suggested_sequence"] = sequencePoints
	}

	for _, points := range readiness.Details {
		readiness.Score += points
	}
	return readiness
}

// present returns a field that exists and is not null.
func present(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
