// Package contractlinter provides a stream processor that lints submitted
// capability contracts and publishes their quality reports.
package contractlinter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semstreams/payloadregistry"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/semantic"
)

const (
	componentName = "contract-linter"
	description   = "Lints capability contracts and publishes semantic quality reports"
)

// Component implements the contract-linter processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	decoder    *message.Decoder
	logger     *slog.Logger

	inputSubject  string
	inputStream   string
	outputSubject string

	// Lifecycle
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc

	// Metrics
	contractsLinted atomic.Int64
	gateFailures    atomic.Int64
	decodeErrors    atomic.Int64
	publishErrors   atomic.Int64
	lastActivityMu  sync.RWMutex
	lastActivity    time.Time
}

// NewComponent creates a new contract-linter processor.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	config := DefaultConfig()
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &config); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	inputSubject := DefaultInputSubject
	inputStream := DefaultStream
	outputSubject := DefaultOutputSubject

	if config.Ports != nil {
		if len(config.Ports.Inputs) > 0 {
			inputSubject = config.Ports.Inputs[0].Subject
			inputStream = config.Ports.Inputs[0].StreamName
		}
		if len(config.Ports.Outputs) > 0 {
			outputSubject = config.Ports.Outputs[0].Subject
		}
	}

	// Without a shared registry the component decodes its own payloads.
	reg := deps.PayloadRegistry
	if reg == nil {
		reg = payloadregistry.New()
		if err := RegisterPayloads(reg); err != nil {
			return nil, err
		}
	}

	return &Component{
		name:          componentName,
		config:        config,
		natsClient:    deps.NATSClient,
		decoder:       message.NewDecoder(reg),
		logger:        deps.GetLogger(),
		inputSubject:  inputSubject,
		inputStream:   inputStream,
		outputSubject: outputSubject,
	}, nil
}

// Initialize prepares the component.
func (c *Component) Initialize() error {
	return nil
}

// Start begins consuming submitted contracts.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.natsClient == nil {
		c.mu.Unlock()
		return fmt.Errorf("NATS client required")
	}

	c.running = true
	c.startTime = time.Now()

	consumeCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	consumerCfg := natsclient.StreamConsumerConfig{
		StreamName:    c.inputStream,
		ConsumerName:  componentName,
		FilterSubject: c.inputSubject,
		DeliverPolicy: "new",
		AckPolicy:     "explicit",
		MaxDeliver:    3,
		AckWait:       10 * time.Second,
	}

	err := c.natsClient.ConsumeStreamWithConfig(consumeCtx, consumerCfg, c.handleMessage)
	if err != nil {
		c.mu.Lock()
		c.running = false
		c.cancel = nil
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("start consumer: %w", err)
	}

	c.logger.Info("contract-linter started",
		"input", c.inputSubject,
		"output", c.outputSubject,
		"version_constraint", c.config.VersionConstraint)

	return nil
}

// Evaluate lints a submitted contract and builds its report.
func (c *Component) Evaluate(p *ContractPayload) diagnostics.Report {
	doc := contract.New(p.Name, p.Document)

	var manifest *contract.Manifest
	if p.Manifest != nil {
		manifest = contract.NewManifest(p.Name+"#manifest", p.Manifest)
	}

	lint := diagnostics.Lint(doc, manifest, diagnostics.LintOptions{
		VersionConstraint: c.config.VersionConstraint,
	})
	quality := semantic.EvaluateOntologySemanticQuality(doc, semantic.DefaultWeights())
	return diagnostics.BuildReport(lint, quality, c.config.ReportConfig())
}

// handleMessage lints one submitted contract. Malformed messages are
// terminated; publish failures are retried.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	baseMsg, err := c.decoder.Decode(msg.Data())
	if err != nil {
		c.logger.Warn("Failed to unmarshal base message",
			"error", err,
			"subject", msg.Subject())
		c.decodeErrors.Add(1)
		_ = msg.Term()
		return
	}

	payload, ok := baseMsg.Payload().(*ContractPayload)
	if !ok {
		c.logger.Warn("Unexpected payload type",
			"type", baseMsg.Type(),
			"subject", msg.Subject())
		c.decodeErrors.Add(1)
		_ = msg.Term()
		return
	}

	report := c.Evaluate(payload)
	if !report.Passed {
		c.gateFailures.Add(1)
	}

	if err := c.publishReport(ctx, report); err != nil {
		c.logger.Warn("Failed to publish report",
			"contract", payload.Name,
			"subject", c.outputSubject,
			"error", err)
		c.publishErrors.Add(1)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()
	c.contractsLinted.Add(1)
	c.updateLastActivity()

	c.logger.Debug("Linted contract",
		"contract", payload.Name,
		"score", report.TotalScore,
		"passed", report.Passed)
}

func (c *Component) publishReport(ctx context.Context, report diagnostics.Report) error {
	baseMsg := message.NewBaseMessage(ReportType, &ReportPayload{Report: report}, componentName)
	data, err := json.Marshal(baseMsg)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return c.natsClient.PublishToStream(ctx, c.outputSubject, data)
}

// Stop gracefully stops the component.
func (c *Component) Stop(_ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	c.running = false
	c.logger.Info("contract-linter stopped",
		"contracts_linted", c.contractsLinted.Load(),
		"gate_failures", c.gateFailures.Load(),
		"decode_errors", c.decodeErrors.Load(),
		"publish_errors", c.publishErrors.Load())

	return nil
}

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        componentName,
		Type:        "processor",
		Description: description,
		Version:     "1.0.0",
	}
}

// InputPorts returns configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}
	ports := make([]component.Port, len(c.config.Ports.Inputs))
	for i, portDef := range c.config.Ports.Inputs {
		ports[i] = buildPort(portDef, component.DirectionInput)
	}
	return ports
}

// OutputPorts returns configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}
	ports := make([]component.Port, len(c.config.Ports.Outputs))
	for i, portDef := range c.config.Ports.Outputs {
		ports[i] = buildPort(portDef, component.DirectionOutput)
	}
	return ports
}

func buildPort(portDef component.PortDefinition, direction component.Direction) component.Port {
	port := component.Port{
		Name:        portDef.Name,
		Direction:   direction,
		Required:    portDef.Required,
		Description: portDef.Description,
	}
	if portDef.Type == "jetstream" {
		port.Config = component.JetStreamPort{
			StreamName: portDef.StreamName,
			Subjects:   []string{portDef.Subject},
		}
	} else {
		port.Config = component.NATSPort{Subject: portDef.Subject}
	}
	return port
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return contractLinterSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	status := "stopped"
	if running {
		status = "running"
	}

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.decodeErrors.Load() + c.publishErrors.Load()),
		Uptime:     time.Since(startTime),
		Status:     status,
	}
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	return component.FlowMetrics{
		LastActivity: c.getLastActivity(),
	}
}

func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}
