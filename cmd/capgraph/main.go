// Package main provides the capgraph binary entry point.
// capgraph compiles capability contracts into binding graphs, validates and
// queries them, and scores their semantic quality.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/c360studio/capgraph/config"
	"github.com/c360studio/capgraph/metrics"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "capgraph"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the CLI and writes the metrics file whether or not the
// command succeeded.
func execute(args []string, out, errOut io.Writer) error {
	a := &app{out: out}
	cmd := rootCmd(a, errOut)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.Execute()
	if ferr := a.flushMetrics(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func rootCmd(a *app, errOut io.Writer) *cobra.Command {
	var (
		configPath string
		logLevel   string
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Capability contract graph engine",
		Long: `capgraph compiles capability contracts into a typed graph of bindings.

It provides:
- Graph validation (dangling edges, depends_on cycles)
- Dependency chain, impact radius and relation path queries
- Contract linting and semantic quality reports
- RDF and Graphviz export
- Knowledge-graph publishing, snapshots and a lint worker over NATS`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(errOut, logLevel)
			slog.SetDefault(a.logger)

			cfg, err := config.NewLoader(a.logger).Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.metrics = metrics.New()

			if noColor || !cfg.Output.Color {
				color.NoColor = true
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		validateCmd(a),
		queryCmd(a),
		lintCmd(a),
		scoreCmd(a),
		lineageCmd(a),
		semanticCmd(a),
		exportCmd(a),
		watchCmd(a),
		publishCmd(a),
		snapshotCmd(a),
		submitCmd(a),
		lintWorkerCmd(a),
		initConfigCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(a.out, "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
