package contractlinter

import (
	"fmt"
	"reflect"

	"github.com/Masterminds/semver/v3"
	"github.com/c360studio/semstreams/component"

	"github.com/c360studio/capgraph/diagnostics"
)

// Default subjects and stream.
const (
	DefaultStream        = "CAPGRAPH"
	DefaultInputSubject  = "capgraph.contract.submitted"
	DefaultOutputSubject = "capgraph.report.generated"
)

// contractLinterSchema defines the configuration schema.
var contractLinterSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Config holds configuration for the contract-linter processor.
type Config struct {
	Ports             *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`
	VersionConstraint string                `json:"version_constraint" schema:"type:string,description:Semver constraint contract versions must satisfy,category:basic"`
	MinScore          int                   `json:"min_score" schema:"type:int,description:Lowest base score that passes the quality gate,category:basic,default:60"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.VersionConstraint != "" {
		if _, err := semver.NewConstraint(c.VersionConstraint); err != nil {
			return fmt.Errorf("invalid version_constraint %q: %w", c.VersionConstraint, err)
		}
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("min_score must be between 0 and 100, got %d", c.MinScore)
	}
	return nil
}

// ReportConfig returns the report weighting with the configured gate.
func (c *Config) ReportConfig() diagnostics.ReportConfig {
	cfg := diagnostics.DefaultReportConfig()
	if c.MinScore > 0 {
		cfg.MinScore = c.MinScore
	}
	return cfg
}

// DefaultConfig returns the default configuration for contract-linter.
func DefaultConfig() Config {
	return Config{
		Ports: &component.PortConfig{
			Inputs: []component.PortDefinition{
				{
					Name:        "contracts_in",
					Type:        "jetstream",
					Subject:     DefaultInputSubject,
					StreamName:  DefaultStream,
					Required:    true,
					Description: "Capability contracts submitted for linting",
				},
			},
			Outputs: []component.PortDefinition{
				{
					Name:        "reports_out",
					Type:        "jetstream",
					Subject:     DefaultOutputSubject,
					Required:    true,
					Description: "Quality reports for downstream consumers",
				},
			},
		},
		MinScore: 60,
	}
}
