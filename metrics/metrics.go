// Package metrics exposes Prometheus counters and gauges for graph
// validation, lint runs, quality scores and queries.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/ontology"
)

// Metrics holds the capgraph collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	validationsTotal      *prometheus.CounterVec
	validationErrorsTotal *prometheus.CounterVec
	lintRunsTotal         prometheus.Counter
	lintItemsTotal        *prometheus.CounterVec
	graphNodes            *prometheus.GaugeVec
	graphEdges            *prometheus.GaugeVec
	qualityScore          *prometheus.GaugeVec
	reportScore           *prometheus.GaugeVec
	queryDuration         *prometheus.HistogramVec
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capgraph_validations_total",
				Help: "Number of graph validations by outcome.",
			},
			[]string{"result"},
		),
		validationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capgraph_validation_errors_total",
				Help: "Number of graph validation errors by code.",
			},
			[]string{"code"},
		),
		lintRunsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "capgraph_lint_runs_total",
				Help: "Number of contracts linted.",
			},
		),
		lintItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "capgraph_lint_items_total",
				Help: "Number of lint items by level and code.",
			},
			[]string{"level", "code"},
		),
		graphNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "capgraph_graph_nodes",
				Help: "Number of binding nodes in the last compiled graph of a contract.",
			},
			[]string{"contract"},
		),
		graphEdges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "capgraph_graph_edges",
				Help: "Number of edges in the last compiled graph of a contract.",
			},
			[]string{"contract"},
		),
		qualityScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "capgraph_semantic_quality_score",
				Help: "Last semantic quality score (0-100) of a contract.",
			},
			[]string{"contract"},
		),
		reportScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "capgraph_report_total_score",
				Help: "Last report total score of a contract, including the agent readiness bonus.",
			},
			[]string{"contract"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "capgraph_query_duration_seconds",
				Help:    "Time taken by graph queries.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query"},
		),
	}

	m.registry.MustRegister(
		m.validationsTotal,
		m.validationErrorsTotal,
		m.lintRunsTotal,
		m.lintItemsTotal,
		m.graphNodes,
		m.graphEdges,
		m.qualityScore,
		m.reportScore,
		m.queryDuration,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveGraph records the size of a compiled graph.
func (m *Metrics) ObserveGraph(contractName string, g *ontology.Graph) {
	m.graphNodes.WithLabelValues(contractName).Set(float64(g.NodeCount()))
	m.graphEdges.WithLabelValues(contractName).Set(float64(g.EdgeCount()))
}

// ObserveValidation records a validation outcome and its error codes.
func (m *Metrics) ObserveValidation(result ontology.ValidationResult) {
	outcome := "valid"
	if !result.Valid {
		outcome = "invalid"
	}
	m.validationsTotal.WithLabelValues(outcome).Inc()
	for _, e := range result.Errors {
		m.validationErrorsTotal.WithLabelValues(e.Code).Inc()
	}
}

// ObserveLint records a lint run and every item it produced.
func (m *Metrics) ObserveLint(result diagnostics.LintResult) {
	m.lintRunsTotal.Inc()
	for _, item := range result.Items {
		m.lintItemsTotal.WithLabelValues(string(item.Level), item.Code).Inc()
	}
	m.graphNodes.WithLabelValues(result.Contract).Set(float64(result.Graph.Nodes))
	m.graphEdges.WithLabelValues(result.Contract).Set(float64(result.Graph.Edges))
}

// ObserveReport records the scores of a report.
func (m *Metrics) ObserveReport(report diagnostics.Report) {
	m.qualityScore.WithLabelValues(report.Contract).Set(float64(report.Quality.Score))
	m.reportScore.WithLabelValues(report.Contract).Set(float64(report.TotalScore))
}

// ObserveQuery records how long a query took.
func (m *Metrics) ObserveQuery(query string, d time.Duration) {
	m.queryDuration.WithLabelValues(query).Observe(d.Seconds())
}

// WriteToTextfile writes every metric in the Prometheus text format, for
// pickup by the node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
