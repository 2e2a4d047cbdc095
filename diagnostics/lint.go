package diagnostics

import (
	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/ontology"
)

// LintOptions configures Lint.
type LintOptions struct {
	// VersionConstraint is a semver constraint the contract version must
	// satisfy. Empty disables the check.
	VersionConstraint string
}

// GraphStats summarizes the compiled binding graph.
type GraphStats struct {
	Nodes       int    `json:"nodes"`
	Edges       int    `json:"edges"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// LintResult aggregates every finding for one contract.
type LintResult struct {
	Contract string     `json:"contract"`
	Items    []Item     `json:"items"`
	Errors   int        `json:"errors"`
	Warnings int        `json:"warnings"`
	Graph    GraphStats `json:"graph"`

	ctx lintContext
}

// lintContext carries the linted contract to scorers that read it back.
type lintContext struct {
	contract *contract.Contract
}

// LintedContract returns the linted contract.
func (r LintResult) LintedContract() *contract.Contract { return r.ctx.contract }

// Passed reports whether the result clears the lint gate.
func (r LintResult) Passed(failOnWarnings bool) bool {
	if r.Errors > 0 {
		return false
	}
	return !failOnWarnings || r.Warnings == 0
}

// Lint compiles and validates the binding graph and runs every contract
// check. Graph validation findings become error items with the validator's
// codes. A nil manifest is reported by the coverage check for scene domain
// profiles and ignored otherwise.
func Lint(c *contract.Contract, m *contract.Manifest, opts LintOptions) LintResult {
	result := LintResult{
		Items: []Item{},
		ctx:   lintContext{contract: c},
	}
	if c != nil {
		result.Contract = c.Name
	}

	g := ontology.BuildFromContract(c)
	result.Graph = GraphStats{Nodes: g.NodeCount(), Edges: g.EdgeCount()}
	if fp, err := ontology.Fingerprint(g); err == nil {
		result.Graph.Fingerprint = fp
	}

	for _, ve := range ontology.Validate(g).Errors {
		ref := ve.Details.Source
		if len(ve.Details.Cycle) > 0 {
			ref = ve.Details.Cycle[0]
		}
		result.Items = append(result.Items, errorItem(ve.Code, ve.Message).at(ref, "capability_contract.bindings"))
	}

	result.Items = append(result.Items, CheckActionAbstraction(c)...)
	result.Items = append(result.Items, CheckDataLineage(c)...)
	result.Items = append(result.Items, CheckOntologySemanticCoverage(c, m)...)
	result.Items = append(result.Items, CheckAgentHints(c)...)
	result.Items = append(result.Items, CheckContractVersion(c, opts.VersionConstraint)...)

	for _, item := range result.Items {
		switch item.Level {
		case LevelError:
			result.Errors++
		case LevelWarning:
			result.Warnings++
		}
	}

	return result
}
