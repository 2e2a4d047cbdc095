package diagnostics

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/capgraph/semantic"
)

// Report dimension names.
const (
	DimensionOntologySemantic = "ontology_semantic"
	DimensionLintHealth       = "lint_health"
	DimensionAgentReadiness   = "agent_readiness"
)

// ReportConfig weighs the base dimensions and sets the release gate.
type ReportConfig struct {
	// SemanticWeight and LintWeight must sum to 1.0.
	SemanticWeight float64
	LintWeight     float64

	// ErrorPenalty and WarningPenalty are deducted from 100 per lint item.
	ErrorPenalty   float64
	WarningPenalty float64

	// MinScore is the lowest base score that passes the release gate.
	MinScore int
}

// DefaultReportConfig returns the default report weighting.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		SemanticWeight: 0.6,
		LintWeight:     0.4,
		ErrorPenalty:   20,
		WarningPenalty: 5,
		MinScore:       60,
	}
}

// Dimension is one scored aspect of a report.
type Dimension struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Max    float64 `json:"max"`
	Weight float64 `json:"weight,omitempty"`
	// Bonus dimensions are added on top of the base score.
	Bonus bool `json:"bonus,omitempty"`
}

// Report is the aggregate quality report of one contract.
type Report struct {
	ID          string    `json:"id"`
	Contract    string    `json:"contract"`
	GeneratedAt time.Time `json:"generated_at"`

	Dimensions []Dimension `json:"dimensions"`

	// BaseScore is the weighted 0-100 score of the base dimensions.
	BaseScore int `json:"base_score"`
	// TotalScore adds the agent readiness bonus and may exceed 100.
	TotalScore int            `json:"total_score"`
	Level      semantic.Level `json:"level"`

	// Passed is the release gate: no lint errors and a base score of at
	// least the configured minimum.
	Passed bool `json:"passed"`

	Lint           LintResult               `json:"lint"`
	Quality        semantic.SemanticQuality `json:"quality"`
	AgentReadiness AgentReadiness           `json:"agent_readiness"`
}

// BuildReport combines lint findings, the semantic quality score and the
// agent readiness bonus into a report. A zero config selects
// DefaultReportConfig.
func BuildReport(lint LintResult, quality semantic.SemanticQuality, cfg ReportConfig) Report {
	if cfg == (ReportConfig{}) {
		cfg = DefaultReportConfig()
	}

	health := LintHealth(lint, cfg)
	agent := ScoreAgentReadiness(lint)

	base := int(math.Round(cfg.SemanticWeight*float64(quality.Score) + cfg.LintWeight*health))
	base = max(0, min(100, base))

	return Report{
		ID:          uuid.NewString(),
		Contract:    lint.Contract,
		GeneratedAt: time.Now().UTC(),
		Dimensions: []Dimension{
			{Name: DimensionOntologySemantic, Score: float64(quality.Score), Max: 100, Weight: cfg.SemanticWeight},
			{Name: DimensionLintHealth, Score: health, Max: 100, Weight: cfg.LintWeight},
			{Name: DimensionAgentReadiness, Score: float64(agent.Score), Max: float64(agent.Max), Bonus: true},
		},
		BaseScore:      base,
		TotalScore:     base + agent.Score,
		Level:          semantic.LevelForScore(float64(base)),
		Passed:         lint.Errors == 0 && base >= cfg.MinScore,
		Lint:           lint,
		Quality:        quality,
		AgentReadiness: agent,
	}
}

// LintHealth is 100 minus the lint penalties, floored at 0.
func LintHealth(lint LintResult, cfg ReportConfig) float64 {
	penalty := float64(lint.Errors)*cfg.ErrorPenalty + float64(lint.Warnings)*cfg.WarningPenalty
	return math.Max(0, 100-penalty)
}

// Validate checks report weights, penalties and the minimum score.
func (c ReportConfig) Validate() error {
	if c.SemanticWeight < 0 || c.LintWeight < 0 {
		return fmt.Errorf("report weights must be non-negative")
	}
	if total := c.SemanticWeight + c.LintWeight; math.Abs(total-1.0) > 0.01 {
		return fmt.Errorf("report weights must sum to 1.0, got %.3f", total)
	}
	if c.ErrorPenalty < 0 || c.WarningPenalty < 0 {
		return fmt.Errorf("lint penalties must be non-negative")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min score must be between 0 and 100, got %d", c.MinScore)
	}
	return nil
}
