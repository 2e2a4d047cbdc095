package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/ontology"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	passLabel    = color.New(color.FgGreen, color.Bold)
	dim          = color.New(color.Faint)
)

func levelLabel(level diagnostics.Level) string {
	switch level {
	case diagnostics.LevelError:
		return errorLabel.Sprint("error  ")
	case diagnostics.LevelWarning:
		return warningLabel.Sprint("warning")
	default:
		return string(level)
	}
}

func statusLabel(ok bool) string {
	if ok {
		return passLabel.Sprint("PASS")
	}
	return errorLabel.Sprint("FAIL")
}

func renderValidation(w io.Writer, name string, g *ontology.Graph, result ontology.ValidationResult) {
	fmt.Fprintf(w, "%s %s (%d bindings, %d edges)\n", statusLabel(result.Valid), name, g.NodeCount(), g.EdgeCount())
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s %s %s\n", levelLabel(diagnostics.LevelError), e.Code, e.Message)
	}
}

func renderLint(w io.Writer, result diagnostics.LintResult, failOnWarnings bool) {
	fmt.Fprintf(w, "%s %s\n", statusLabel(result.Passed(failOnWarnings)), result.Contract)
	for _, item := range result.Items {
		fmt.Fprintf(w, "  %s %s %s\n", levelLabel(item.Level), item.Code, item.Message)
		if item.Path != "" {
			fmt.Fprintf(w, "          %s\n", dim.Sprint(item.Path))
		}
	}
	fmt.Fprintf(w, "  %d error(s), %d warning(s)\n", result.Errors, result.Warnings)
}

func renderReport(w io.Writer, report diagnostics.Report) {
	fmt.Fprintf(w, "%s %s  score %d (base %d, %s)\n",
		statusLabel(report.Passed), report.Contract, report.TotalScore, report.BaseScore, report.Level)
	for _, d := range report.Dimensions {
		suffix := ""
		if d.Bonus {
			suffix = dim.Sprint(" bonus")
		}
		fmt.Fprintf(w, "  %-18s %5.1f / %.0f%s\n", d.Name, d.Score, d.Max, suffix)
	}
	for _, item := range report.Lint.Items {
		fmt.Fprintf(w, "  %s %s %s\n", levelLabel(item.Level), item.Code, item.Message)
	}
}
