// Package config provides configuration loading and management for capgraph.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/export"
	"github.com/c360studio/capgraph/ontology"
	"github.com/c360studio/capgraph/semantic"
	"github.com/c360studio/capgraph/storage"
)

// Config represents the complete capgraph configuration
type Config struct {
	Query   QueryConfig   `yaml:"query"`
	Quality QualityConfig `yaml:"quality"`
	Lint    LintConfig    `yaml:"lint"`
	NATS    NATSConfig    `yaml:"nats"`
	Watch   WatchConfig   `yaml:"watch"`
	Output  OutputConfig  `yaml:"output"`
	Export  ExportConfig  `yaml:"export"`
}

// QueryConfig sets query defaults used when no flag overrides them
type QueryConfig struct {
	// ImpactRelations are the relation types followed by impact queries
	ImpactRelations []string `yaml:"impact_relations"`
	// MaxDepth bounds impact queries; 0 means unbounded
	MaxDepth int `yaml:"max_depth"`
}

// QualityConfig configures semantic scoring and the report gate
type QualityConfig struct {
	Weights semantic.Weights `yaml:"weights"`
	Report  ReportConfig     `yaml:"report"`
}

// ReportConfig mirrors diagnostics.ReportConfig for YAML
type ReportConfig struct {
	SemanticWeight float64 `yaml:"semantic_weight"`
	LintWeight     float64 `yaml:"lint_weight"`
	ErrorPenalty   float64 `yaml:"error_penalty"`
	WarningPenalty float64 `yaml:"warning_penalty"`
	MinScore       int     `yaml:"min_score"`
}

// LintConfig configures the linter and its exit status
type LintConfig struct {
	// ContractVersionConstraint is a semver constraint contract versions must satisfy
	ContractVersionConstraint string `yaml:"contract_version_constraint"`
	// FailOnWarnings makes warnings fail the lint gate
	FailOnWarnings bool `yaml:"fail_on_warnings"`
}

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// Bucket is the KV bucket for snapshots
	Bucket string `yaml:"bucket"`
	// Timeout bounds connecting and each request
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig configures contract watching
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// OutputConfig configures terminal output
type OutputConfig struct {
	Color bool `yaml:"color"`
}

// ExportConfig configures RDF export
type ExportConfig struct {
	// Profile is minimal, bfo or cco
	Profile string `yaml:"profile"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	report := diagnostics.DefaultReportConfig()
	return &Config{
		Query: QueryConfig{
			ImpactRelations: []string{string(ontology.RelationDependsOn)},
			MaxDepth:        0,
		},
		Quality: QualityConfig{
			Weights: semantic.DefaultWeights(),
			Report: ReportConfig{
				SemanticWeight: report.SemanticWeight,
				LintWeight:     report.LintWeight,
				ErrorPenalty:   report.ErrorPenalty,
				WarningPenalty: report.WarningPenalty,
				MinScore:       report.MinScore,
			},
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Bucket:  storage.BucketSnapshots,
			Timeout: 10 * time.Second,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Output: OutputConfig{
			Color: true,
		},
		Export: ExportConfig{
			Profile: string(export.ProfileMinimal),
		},
	}
}

// ReportConfig converts the report section for diagnostics.BuildReport
func (q QualityConfig) ReportConfig() diagnostics.ReportConfig {
	return diagnostics.ReportConfig{
		SemanticWeight: q.Report.SemanticWeight,
		LintWeight:     q.Report.LintWeight,
		ErrorPenalty:   q.Report.ErrorPenalty,
		WarningPenalty: q.Report.WarningPenalty,
		MinScore:       q.Report.MinScore,
	}
}

// ImpactRelationTypes returns the configured impact relation types
func (q QueryConfig) ImpactRelationTypes() []ontology.RelationType {
	types := make([]ontology.RelationType, 0, len(q.ImpactRelations))
	for _, r := range q.ImpactRelations {
		types = append(types, ontology.RelationType(r))
	}
	return types
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	for _, r := range c.Query.ImpactRelationTypes() {
		if !r.Valid() {
			return fmt.Errorf("query.impact_relations: unknown relation type %q", r)
		}
	}
	if c.Query.MaxDepth < 0 {
		return fmt.Errorf("query.max_depth must be non-negative")
	}
	if err := c.Quality.Weights.Validate(); err != nil {
		return fmt.Errorf("quality.weights: %w", err)
	}
	if err := c.Quality.ReportConfig().Validate(); err != nil {
		return fmt.Errorf("quality.report: %w", err)
	}
	if s := c.Lint.ContractVersionConstraint; s != "" {
		if _, err := semver.NewConstraint(s); err != nil {
			return fmt.Errorf("lint.contract_version_constraint: %w", err)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be non-negative")
	}
	if _, err := export.ParseProfile(c.Export.Profile); err != nil {
		return fmt.Errorf("export.profile: %w", err)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.apply(path); err != nil {
		return nil, err
	}
	return config, nil
}

// apply overlays the keys present in a YAML file onto c
func (c *Config) apply(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
