package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/capgraph/contract"
)

func codes(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Code)
	}
	return out
}

func withBindings(bindings ...any) map[string]any {
	return map[string]any{
		"capability_contract": map[string]any{"bindings": bindings},
	}
}

func TestCheckActionAbstraction(t *testing.T) {
	tests := []struct {
		name    string
		binding map[string]any
		want    []string
	}{
		{
			name:    "absent fields never report",
			binding: map[string]any{"ref": "a.b"},
			want:    []string{},
		},
		{
			name:    "null fields count as absent",
			binding: map[string]any{"ref": "a.b", "intent": nil, "preconditions": nil},
			want:    []string{},
		},
		{
			name:    "valid action",
			binding: map[string]any{"ref": "a.b", "intent": "Ship", "preconditions": []any{"paid"}, "postconditions": []any{}},
			want:    []string{},
		},
		{
			name:    "empty intent",
			binding: map[string]any{"ref": "a.b", "intent": ""},
			want:    []string{CodeEmptyIntent},
		},
		{
			name:    "whitespace intent",
			binding: map[string]any{"ref": "a.b", "intent": "  "},
			want:    []string{CodeEmptyIntent},
		},
		{
			name:    "preconditions not an array",
			binding: map[string]any{"ref": "a.b", "preconditions": "paid"},
			want:    []string{CodeInvalidPreconditions},
		},
		{
			name:    "postconditions with non-string element",
			binding: map[string]any{"ref": "a.b", "postconditions": []any{"ok", 1}},
			want:    []string{CodeInvalidPostconditions},
		},
		{
			name:    "all at once",
			binding: map[string]any{"ref": "a.b", "intent": "", "preconditions": map[string]any{}, "postconditions": false},
			want:    []string{CodeEmptyIntent, CodeInvalidPreconditions, CodeInvalidPostconditions},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := CheckActionAbstraction(contract.New("test", withBindings(tt.binding)))
			assert.Equal(t, tt.want, codes(items))
		})
	}

	t.Run("levels and location", func(t *testing.T) {
		items := CheckActionAbstraction(contract.New("test", withBindings(
			map[string]any{"ref": "first"},
			map[string]any{"ref": "svc.pay", "intent": "", "preconditions": 3},
		)))
		require.Len(t, items, 2)
		assert.Equal(t, LevelWarning, items[0].Level)
		assert.Equal(t, "svc.pay", items[0].Ref)
		assert.Equal(t, "capability_contract.bindings[1].intent", items[0].Path)
		assert.Equal(t, LevelError, items[1].Level)
		assert.Equal(t, "capability_contract.bindings[1].preconditions", items[1].Path)
	})
}

func TestCheckDataLineage(t *testing.T) {
	raw := withBindings(map[string]any{"ref": "orders.list"})
	raw["governance_contract"] = map[string]any{
		"data_lineage": map[string]any{
			"sources": []any{
				map[string]any{"ref": "orders.list", "fields": []any{"id"}},
				map[string]any{"ref": "ledger.read", "fields": []any{"amount"}},
				map[string]any{"ref": "ledger.read", "fields": []any{"currency"}},
			},
			"sinks": []any{
				map[string]any{"ref": "orders.list", "fields": []any{"status"}},
				map[string]any{"ref": "reports.write", "fields": []any{"total"}},
				map[string]any{"ref": "", "fields": []any{"dropped"}},
			},
		},
	}

	items := CheckDataLineage(contract.New("test", raw))
	assert.Equal(t, []string{
		CodeLineageSourceNotBound,
		CodeLineageSourceNotBound,
		CodeLineageSinkNotBound,
	}, codes(items))
	for _, i := range items {
		assert.Equal(t, LevelWarning, i.Level)
	}
	assert.Equal(t, "reports.write", items[2].Ref)

	assert.Empty(t, CheckDataLineage(contract.New("test", withBindings())))
}

func TestCheckAgentHints(t *testing.T) {
	hints := func(h any) *contract.Contract {
		return contract.New("test", map[string]any{"agent_hints": h})
	}

	t.Run("all three problems", func(t *testing.T) {
		items := CheckAgentHints(hints(map[string]any{
			"summary":               "",
			"complexity":            "extreme",
			"estimated_duration_ms": -5,
		}))
		require.Len(t, items, 3)
		assert.Equal(t, []string{CodeEmptyAgentSummary, CodeInvalidAgentComplexity, CodeInvalidAgentDuration}, codes(items))
		assert.Equal(t, LevelWarning, items[0].Level)
		assert.Equal(t, LevelError, items[1].Level)
		assert.Equal(t, LevelError, items[2].Level)
	})

	tests := []struct {
		name  string
		hints any
		want  []string
	}{
		{"absent", nil, []string{}},
		{"valid", map[string]any{"summary": "Do it", "complexity": "low", "estimated_duration_ms": float64(1200)}, []string{}},
		{"not an object", "fast", []string{CodeInvalidAgentHints}},
		{"fractional duration", map[string]any{"estimated_duration_ms": 1.5}, []string{CodeInvalidAgentDuration}},
		{"zero duration", map[string]any{"estimated_duration_ms": 0}, []string{CodeInvalidAgentDuration}},
		{"string duration", map[string]any{"estimated_duration_ms": "100"}, []string{CodeInvalidAgentDuration}},
		{"complexity wrong case", map[string]any{"complexity": "High"}, []string{CodeInvalidAgentComplexity}},
		{"complexity not a string", map[string]any{"complexity": 2}, []string{CodeInvalidAgentComplexity}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(CheckAgentHints(hints(tt.hints))))
		})
	}
}

func TestScoreAgentReadiness(t *testing.T) {
	tests := []struct {
		name    string
		hints   any
		score   int
		details map[string]int
	}{
		{"absent", nil, 0, map[string]int{}},
		{"not an object", []any{"x"}, 0, map[string]int{}},
		{
			name:    "complete",
			hints:   map[string]any{"summary": "Refund", "complexity": "medium", "suggested_sequence": []any{"a", "b"}},
			score:   10,
			details: map[string]int{"summary": 4, "complexity": 3, "suggested_sequence": 3},
		},
		{
			name:    "partial",
			hints:   map[string]any{"summary": " ", "complexity": "extreme", "suggested_sequence": []any{"a"}},
			score:   3,
			details: map[string]int{"suggested_sequence": 3},
		},
		{
			name:    "empty sequence",
			hints:   map[string]any{"summary": "Refund", "suggested_sequence": []any{}},
			score:   4,
			details: map[string]int{"summary": 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lint(contract.New("test", map[string]any{"agent_hints": tt.hints}), nil, LintOptions{})
			got := ScoreAgentReadiness(result)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.details, got.Details)
			assert.Equal(t, MaxAgentReadiness, got.Max)
		})
	}

	t.Run("zero result", func(t *testing.T) {
		assert.Equal(t, 0, ScoreAgentReadiness(LintResult{}).Score)
	})
}

func TestCheckContractVersion(t *testing.T) {
	tests := []struct {
		name       string
		version    any
		constraint string
		want       []string
	}{
		{"absent", nil, ">=1.0.0", []string{}},
		{"valid without constraint", "1.2.3", "", []string{}},
		{"satisfied", "1.4.0", "^1.0.0", []string{}},
		{"numeric version", float64(2), ">=2.0.0", []string{}},
		{"not semantic", "latest", "", []string{CodeInvalidVersion}},
		{"wrong type", []any{"1"}, "", []string{CodeInvalidVersion}},
		{"unsupported", "2.0.0", "^1.0.0", []string{CodeUnsupportedVersion}},
		{"bad constraint", "1.0.0", "banana", []string{CodeInvalidConstraint}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{}
			if tt.version != nil {
				raw["version"] = tt.version
			}
			got := CheckContractVersion(contract.New("test", raw), tt.constraint)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}
