package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/capgraph/ontology"
	"github.com/c360studio/capgraph/semantic"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []ontology.RelationType{ontology.RelationDependsOn}, cfg.Query.ImpactRelationTypes())
	assert.Equal(t, semantic.DefaultWeights(), cfg.Quality.Weights)
	assert.Equal(t, 60, cfg.Quality.ReportConfig().MinScore)
	assert.Equal(t, "CAPGRAPH_SNAPSHOTS", cfg.NATS.Bucket)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.True(t, cfg.Output.Color)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default config",
			modify: func(c *Config) {},
		},
		{
			name:    "unknown impact relation",
			modify:  func(c *Config) { c.Query.ImpactRelations = []string{"depends_on", "calls"} },
			wantErr: `query.impact_relations: unknown relation type "calls"`,
		},
		{
			name:    "negative depth",
			modify:  func(c *Config) { c.Query.MaxDepth = -1 },
			wantErr: "query.max_depth",
		},
		{
			name:    "weights not summing to one",
			modify:  func(c *Config) { c.Quality.Weights.Entities = 0.5 },
			wantErr: "quality.weights",
		},
		{
			name:    "report weights not summing to one",
			modify:  func(c *Config) { c.Quality.Report.LintWeight = 0.1 },
			wantErr: "quality.report",
		},
		{
			name:    "negative penalty",
			modify:  func(c *Config) { c.Quality.Report.ErrorPenalty = -5 },
			wantErr: "quality.report",
		},
		{
			name:    "min score out of range",
			modify:  func(c *Config) { c.Quality.Report.MinScore = 120 },
			wantErr: "quality.report",
		},
		{
			name:    "invalid version constraint",
			modify:  func(c *Config) { c.Lint.ContractVersionConstraint = "banana" },
			wantErr: "lint.contract_version_constraint",
		},
		{
			name:   "valid version constraint",
			modify: func(c *Config) { c.Lint.ContractVersionConstraint = ">= 1.2, < 2" },
		},
		{
			name:    "unknown export profile",
			modify:  func(c *Config) { c.Export.Profile = "owl" },
			wantErr: "export.profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, `
query:
  impact_relations: [depends_on, extends]
  max_depth: 3
quality:
  weights:
    entities: 0.4
    relations: 0.4
    business_rules: 0.1
    decision_logic: 0.1
lint:
  fail_on_warnings: true
nats:
  url: "nats://test:4222"
watch:
  debounce: 2s
output:
  color: false
`)

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"depends_on", "extends"}, cfg.Query.ImpactRelations)
	assert.Equal(t, 3, cfg.Query.MaxDepth)
	assert.Equal(t, 0.4, cfg.Quality.Weights.Entities)
	assert.True(t, cfg.Lint.FailOnWarnings)
	assert.Equal(t, "nats://test:4222", cfg.NATS.URL)
	assert.Equal(t, "CAPGRAPH_SNAPSHOTS", cfg.NATS.Bucket, "unset keys keep defaults")
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.False(t, cfg.Output.Color)
	assert.NoError(t, cfg.Validate())

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "contracts", "orders")
	require.NoError(t, os.MkdirAll(work, 0755))

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
query:
  max_depth: 2
output:
  color: false
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
query:
  max_depth: 5
lint:
  contract_version_constraint: "^1.0.0"
`)

	l := NewLoader(nil)
	l.homeDir = home
	l.workDir = work

	t.Run("user then project", func(t *testing.T) {
		cfg, err := l.Load("")
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Query.MaxDepth, "project overrides user")
		assert.False(t, cfg.Output.Color, "user setting survives")
		assert.Equal(t, "^1.0.0", cfg.Lint.ContractVersionConstraint)
	})

	t.Run("explicit file wins", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "ci.yaml")
		writeFile(t, explicit, "query:\n  max_depth: 9\n")

		cfg, err := l.Load(explicit)
		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Query.MaxDepth)
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		_, err := l.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid result fails validation", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, explicit, "quality:\n  report:\n    min_score: 150\n")

		_, err := l.Load(explicit)
		assert.ErrorContains(t, err, "quality.report")
	})
}

func TestEnsureUserConfig(t *testing.T) {
	l := NewLoader(nil)
	l.homeDir = t.TempDir()

	path, err := l.EnsureUserConfig()
	require.NoError(t, err)

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)

	again, err := l.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, path, again)
}
