package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/semantic"
)

// lint runs the contract checks with the configured options.
func (a *app) lint(c *contract.Contract, m *contract.Manifest) diagnostics.LintResult {
	result := diagnostics.Lint(c, m, diagnostics.LintOptions{
		VersionConstraint: a.cfg.Lint.ContractVersionConstraint,
	})
	a.metrics.ObserveLint(result)
	return result
}

// score lints a contract and builds its quality report.
func (a *app) score(c *contract.Contract, m *contract.Manifest) diagnostics.Report {
	lint := a.lint(c, m)
	quality := semantic.EvaluateOntologySemanticQuality(c, a.cfg.Quality.Weights)
	report := diagnostics.BuildReport(lint, quality, a.cfg.Quality.ReportConfig())
	a.metrics.ObserveReport(report)
	return report
}

func lintCmd(a *app) *cobra.Command {
	var (
		manifestPath   string
		asJSON         bool
		failOnWarnings bool
	)

	cmd := &cobra.Command{
		Use:   "lint <pattern>...",
		Short: "Lint contracts selected by paths or glob patterns",
		Long: `Lint runs every contract check: graph validation, action abstraction,
data lineage, ontology coverage, agent hints and contract version.

Patterns support ** for recursive matching, for example "contracts/**/*.json".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fail-on-warnings") {
				failOnWarnings = a.cfg.Lint.FailOnWarnings
			}

			m, err := a.loadManifest(manifestPath)
			if err != nil {
				return err
			}

			paths, err := contract.Discover(args)
			if err != nil {
				return err
			}

			results := make([]diagnostics.LintResult, 0, len(paths))
			failed := 0
			for _, path := range paths {
				c, err := contract.Load(path)
				if err != nil {
					return err
				}
				result := a.lint(c, m)
				if !result.Passed(failOnWarnings) {
					failed++
				}
				results = append(results, result)
				if !asJSON {
					renderLint(a.out, result, failOnWarnings)
				}
			}

			if asJSON {
				if err := a.printJSON(results); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d contract(s) failed lint", failed, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Scene manifest to check governance alignment against")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print lint results as JSON")
	cmd.Flags().BoolVar(&failOnWarnings, "fail-on-warnings", false, "Treat warnings as failures")
	return cmd
}

func scoreCmd(a *app) *cobra.Command {
	var (
		manifestPath string
		asJSON       bool
		save         bool
	)

	cmd := &cobra.Command{
		Use:   "score <contract>",
		Short: "Build the quality report of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManifest(manifestPath)
			if err != nil {
				return err
			}
			c, err := contract.Load(args[0])
			if err != nil {
				return err
			}

			report := a.score(c, m)

			if save {
				if err := a.saveReport(cmd.Context(), report); err != nil {
					return err
				}
			}

			if asJSON {
				if err := a.printJSON(report); err != nil {
					return err
				}
			} else {
				renderReport(a.out, report)
			}

			if !report.Passed {
				return fmt.Errorf("%s: quality gate failed (base score %d)", report.Contract, report.BaseScore)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Scene manifest to check governance alignment against")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Store the report as a snapshot in NATS KV")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "watch <pattern>...",
		Short: "Re-lint contracts whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadManifest(manifestPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.watch(ctx, args, m)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Scene manifest to check governance alignment against")
	return cmd
}

// watch lints every contract event until ctx is done.
func (a *app) watch(ctx context.Context, patterns []string, m *contract.Manifest) error {
	w, err := contract.NewWatcher(contract.WatcherConfig{
		Patterns:      patterns,
		DebounceDelay: a.cfg.Watch.Debounce,
		Logger:        a.logger,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Watching %d pattern(s), press Ctrl+C to stop\n", len(patterns))

	for event := range w.Events() {
		switch {
		case event.Error != nil:
			fmt.Fprintf(a.out, "%s %s: %v\n", errorLabel.Sprint("error"), event.Path, event.Error)
		case event.Operation == contract.OpDelete:
			fmt.Fprintf(a.out, "%s %s\n", dim.Sprint("removed"), event.Path)
		default:
			renderLint(a.out, a.lint(event.Contract, m), a.cfg.Lint.FailOnWarnings)
		}
	}
	return nil
}
