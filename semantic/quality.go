package semantic

import (
	"fmt"
	"math"

	"github.com/c360studio/capgraph/contract"
)

// Level buckets a 0-100 score.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Readiness thresholds shared by every 0-100 score.
const (
	HighThreshold   = 70
	MediumThreshold = 40
)

// LevelForScore returns high for scores >= 70, medium for >= 40, low otherwise.
func LevelForScore(score float64) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// weightTolerance is how far a weight sum may drift from 1.0.
const weightTolerance = 0.01

// entityTarget is the entity count that earns a full entity sub-score.
const entityTarget = 5

// Weights configures the semantic quality criteria. They must sum to 1.0.
type Weights struct {
	Entities      float64 `yaml:"entities" json:"entities"`
	Relations     float64 `yaml:"relations" json:"relations"`
	BusinessRules float64 `yaml:"business_rules" json:"business_rules"`
	DecisionLogic float64 `yaml:"decision_logic" json:"decision_logic"`
}

// DefaultWeights weighs every criterion equally.
func DefaultWeights() Weights {
	return Weights{Entities: 0.25, Relations: 0.25, BusinessRules: 0.25, DecisionLogic: 0.25}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Entities + w.Relations + w.BusinessRules + w.DecisionLogic
}

// IsZero reports whether no weight is set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// Validate checks that weights are non-negative and sum to 1.0.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"entities", w.Entities},
		{"relations", w.Relations},
		{"business_rules", w.BusinessRules},
		{"decision_logic", w.DecisionLogic},
	} {
		if f.value < 0 || math.IsNaN(f.value) {
			return fmt.Errorf("weight %s must be non-negative, got %v", f.name, f.value)
		}
	}
	if total := w.Sum(); math.Abs(total-1.0) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.3f", total)
	}
	return nil
}

// CriterionScore is one weighted criterion of the score breakdown.
type CriterionScore struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// QualityMetrics exposes every input of the semantic score, so the score can
// be reproduced from the metrics alone.
type QualityMetrics struct {
	Entities           int `json:"entities"`
	Relations          int `json:"relations"`
	LinkedRelations    int `json:"linked_relations"`
	BusinessRules      int `json:"business_rules"`
	RulesMapped        int `json:"rules_mapped"`
	RulesPassed        int `json:"rules_passed"`
	Decisions          int `json:"decisions"`
	DecisionsResolved  int `json:"decisions_resolved"`
	DecisionsAutomated int `json:"decisions_automated"`

	Breakdown []CriterionScore `json:"breakdown"`
}

// SemanticQuality is the result of EvaluateOntologySemanticQuality.
type SemanticQuality struct {
	Score   int            `json:"score"`
	Level   Level          `json:"level"`
	Metrics QualityMetrics `json:"metrics"`
}

// EvaluateOntologySemanticQuality scores the semantic completeness of a
// contract from 0 to 100. Each criterion yields a sub-score in [0, 1]:
//
//	entities        min(n, 5) / 5
//	relations       min(r, max(n-1, 1)) / max(n-1, 1), 0 without entities
//	business rules  (mapped + passed) / (2 * total)
//	decision logic  (resolved + automated) / (2 * total)
//
// The score is the weighted sum scaled to 100 and rounded. Zero weights
// select DefaultWeights.
func EvaluateOntologySemanticQuality(c *contract.Contract, weights Weights) SemanticQuality {
	if weights.IsZero() {
		weights = DefaultWeights()
	}

	model := ParseEntityRelationshipModel(c)
	rules := ParseBusinessRules(c)
	decisions := ParseDecisionLogic(c)

	m := QualityMetrics{
		Entities:           model.Summary.Entities,
		Relations:          model.Summary.Relations,
		LinkedRelations:    model.Summary.LinkedRelations,
		BusinessRules:      rules.Summary.Total,
		RulesMapped:        rules.Summary.Mapped,
		RulesPassed:        rules.Summary.Passed,
		Decisions:          decisions.Summary.Total,
		DecisionsResolved:  decisions.Summary.Resolved,
		DecisionsAutomated: decisions.Summary.Automated,
	}

	criteria := []struct {
		name   string
		score  float64
		weight float64
	}{
		{"entities", entityScore(m.Entities), weights.Entities},
		{"relations", relationScore(m.Entities, m.Relations), weights.Relations},
		{"business_rules", ratio(m.RulesMapped+m.RulesPassed, 2*m.BusinessRules), weights.BusinessRules},
		{"decision_logic", ratio(m.DecisionsResolved+m.DecisionsAutomated, 2*m.Decisions), weights.DecisionLogic},
	}

	total := 0.0
	m.Breakdown = make([]CriterionScore, 0, len(criteria))
	for _, cr := range criteria {
		weighted := cr.score * cr.weight
		total += weighted
		m.Breakdown = append(m.Breakdown, CriterionScore{
			Name:     cr.name,
			Score:    cr.score,
			Weight:   cr.weight,
			Weighted: weighted,
		})
	}

	score := int(math.Round(100 * total))
	score = max(0, min(100, score))

	return SemanticQuality{
		Score:   score,
		Level:   LevelForScore(float64(score)),
		Metrics: m,
	}
}

func entityScore(n int) float64 {
	return float64(min(n, entityTarget)) / entityTarget
}

func relationScore(entities, relations int) float64 {
	if entities == 0 {
		return 0
	}
	expected := max(entities-1, 1)
	return float64(min(relations, expected)) / float64(expected)
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}
