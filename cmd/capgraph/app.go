package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"

	"github.com/c360studio/capgraph/config"
	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/metrics"
	"github.com/c360studio/capgraph/ontology"
	"github.com/c360studio/capgraph/storage"
)

// app holds what every command shares once the root command has run.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	out     io.Writer

	metricsFile string
}

// compile loads a contract and builds its graph.
func (a *app) compile(path string) (*contract.Contract, *ontology.Graph, error) {
	c, err := contract.Load(path)
	if err != nil {
		return nil, nil, err
	}
	g := ontology.BuildFromContract(c)
	a.metrics.ObserveGraph(c.Name, g)
	a.logger.Debug("Compiled contract", "contract", c.Name, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return c, g, nil
}

// loadManifest loads the optional scene manifest; an empty path yields nil.
func (a *app) loadManifest(path string) (*contract.Manifest, error) {
	if path == "" {
		return nil, nil
	}
	return contract.LoadManifest(path)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// timed runs a query and records its duration.
func timed[T any](a *app, name string, query func() T) T {
	start := time.Now()
	result := query()
	a.metrics.ObserveQuery(name, time.Since(start))
	return result
}

func (a *app) flushMetrics() error {
	if a.metricsFile == "" || a.metrics == nil {
		return nil
	}
	if err := a.metrics.WriteToTextfile(a.metricsFile); err != nil {
		return err
	}
	a.logger.Debug("Wrote metrics", "path", a.metricsFile)
	return nil
}

// natsURL resolves the server URL; environment variables take precedence
// over the config file.
func (a *app) natsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}
	if envURL := os.Getenv("CAPGRAPH_NATS_URL"); envURL != "" {
		return envURL
	}
	return a.cfg.NATS.URL
}

func (a *app) connectNATS(ctx context.Context) (*natsclient.Client, error) {
	url := a.natsURL()
	a.logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(3),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, a.cfg.NATS.Timeout)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	a.logger.Info("Connected to NATS", "url", url)
	return client, nil
}

func (a *app) openStore(ctx context.Context, client *natsclient.Client) (*storage.Store, error) {
	js, err := client.JetStream()
	if err != nil {
		return nil, fmt.Errorf("get jetstream: %w", err)
	}
	return storage.NewStore(ctx, js, a.cfg.NATS.Bucket, a.logger)
}

// wrapNATSError adds guidance when NATS is unreachable.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Set nats.url in capgraph.yaml or the NATS_URL environment variable to
point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
