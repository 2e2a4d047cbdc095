package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/c360studio/semstreams/payloadregistry"
	"github.com/spf13/cobra"

	"github.com/c360studio/capgraph/config"
	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/diagnostics"
	"github.com/c360studio/capgraph/export"
	"github.com/c360studio/capgraph/graph"
	contractlinter "github.com/c360studio/capgraph/processor/contract-linter"
	"github.com/c360studio/capgraph/storage"
)

// withStore connects to NATS, opens the snapshot store and runs fn.
func (a *app) withStore(ctx context.Context, fn func(*storage.Store) error) error {
	return a.withNATS(ctx, func(client *natsclient.Client) error {
		store, err := a.openStore(ctx, client)
		if err != nil {
			return err
		}
		return fn(store)
	})
}

func (a *app) withNATS(ctx context.Context, fn func(*natsclient.Client) error) error {
	client, err := a.connectNATS(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(ctx); err != nil {
			a.logger.Warn("Failed to close NATS client", "error", err)
		}
	}()
	return fn(client)
}

// newPayloadRegistry registers every payload capgraph puts on the bus.
func newPayloadRegistry() (*payloadregistry.Registry, error) {
	reg := payloadregistry.New()
	for _, register := range []func(*payloadregistry.Registry) error{
		graph.RegisterPayloads,
		contractlinter.RegisterPayloads,
	} {
		if err := register(reg); err != nil {
			return nil, fmt.Errorf("register payloads: %w", err)
		}
	}
	return reg, nil
}

func (a *app) saveReport(ctx context.Context, report diagnostics.Report) error {
	return a.withStore(ctx, func(store *storage.Store) error {
		id, err := store.SaveReport(ctx, report)
		if err != nil {
			return err
		}
		a.logger.Info("Saved report snapshot", "id", id.String(), "contract", report.Contract)
		return nil
	})
}

func publishCmd(a *app) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "publish <contract>",
		Short: "Publish the binding graph to the knowledge graph over NATS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile == "" {
				profile = a.cfg.Export.Profile
			}
			p, err := export.ParseProfile(profile)
			if err != nil {
				return err
			}

			c, g, err := a.compile(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return a.withNATS(ctx, func(client *natsclient.Client) error {
				js, err := client.JetStream()
				if err != nil {
					return fmt.Errorf("get jetstream: %w", err)
				}
				if err := graph.EnsureIngestStream(ctx, js); err != nil {
					return err
				}

				n, err := graph.NewGraphPublisher(client, p, a.logger).PublishGraph(ctx, g, c.Name)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Published %d binding(s) from %s to %s\n", n, c.Name, graph.GraphIngestSubject)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Ontology profile for entity types (minimal, bfo, cco)")
	return cmd
}

func snapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store and retrieve graph and report snapshots in NATS KV",
	}
	cmd.AddCommand(snapshotSaveCmd(a), snapshotLoadCmd(a), snapshotListCmd(a), snapshotDeleteCmd(a))
	return cmd
}

func snapshotSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save <contract>",
		Short: "Store the binding graph of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, g, err := a.compile(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.withStore(ctx, func(store *storage.Store) error {
				id, err := store.SaveGraph(ctx, c.Name, g)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, id.String())
				return nil
			})
		},
	}
}

func snapshotLoadCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Print a stored snapshot",
		Long: `Load prints a stored snapshot. Graph snapshots can be rendered in any
export format; report snapshots are always printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := storage.ParseSnapshotID(args[0])
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := export.ParseProfile(a.cfg.Export.Profile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return a.withStore(ctx, func(store *storage.Store) error {
				if id.Kind != storage.KindGraph {
					snap, err := store.Get(ctx, id)
					if err != nil {
						return err
					}
					return a.printJSON(snap)
				}
				g, snap, err := store.LoadGraph(ctx, id)
				if err != nil {
					return err
				}
				return export.Write(a.out, g, f, export.Options{Profile: p, Contract: snap.Contract})
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatJSON), "Output format for graph snapshots")
	return cmd
}

func snapshotListCmd(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k := storage.Kind(kind)
			if k != storage.KindGraph && k != storage.KindReport {
				return fmt.Errorf("invalid snapshot kind %q (expected graph or report)", kind)
			}

			ctx := cmd.Context()
			return a.withStore(ctx, func(store *storage.Store) error {
				snaps, err := store.List(ctx, k)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tCONTRACT\tCREATED")
				for _, s := range snaps {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Contract, s.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(storage.KindGraph), "Snapshot kind (graph, report)")
	return cmd
}

func snapshotDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := storage.ParseSnapshotID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return a.withStore(ctx, func(store *storage.Store) error {
				return store.Delete(ctx, id)
			})
		},
	}
}

func initConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create the user config file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(a.logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
}

// ensureLinterStream creates the stream carrying submitted contracts and
// their reports.
func ensureLinterStream(ctx context.Context, client *natsclient.Client) error {
	js, err := client.JetStream()
	if err != nil {
		return fmt.Errorf("get jetstream: %w", err)
	}
	return graph.EnsureStream(ctx, js, contractlinter.DefaultStream, "capgraph.contract.>", "capgraph.report.>")
}

func submitCmd(a *app) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "submit <contract>",
		Short: "Submit a contract to the lint worker over NATS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contract.Load(args[0])
			if err != nil {
				return err
			}
			payload := &contractlinter.ContractPayload{Name: c.Name, Document: c.Raw()}
			if manifestPath != "" {
				m, err := contract.LoadManifest(manifestPath)
				if err != nil {
					return err
				}
				payload.Manifest = m.Raw()
			}
			if err := payload.Validate(); err != nil {
				return err
			}

			data, err := json.Marshal(message.NewBaseMessage(contractlinter.ContractType, payload, appName))
			if err != nil {
				return fmt.Errorf("marshal contract: %w", err)
			}

			ctx := cmd.Context()
			return a.withNATS(ctx, func(client *natsclient.Client) error {
				if err := ensureLinterStream(ctx, client); err != nil {
					return err
				}
				if err := client.PublishToStream(ctx, contractlinter.DefaultInputSubject, data); err != nil {
					return fmt.Errorf("publish contract: %w", err)
				}
				fmt.Fprintf(a.out, "Submitted %s to %s\n", c.Name, contractlinter.DefaultInputSubject)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Scene manifest to submit with the contract")
	return cmd
}

func lintWorkerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint-worker",
		Short: "Lint submitted contracts and publish their reports until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rawConfig, err := json.Marshal(map[string]any{
				"version_constraint": a.cfg.Lint.ContractVersionConstraint,
				"min_score":          a.cfg.Quality.Report.MinScore,
			})
			if err != nil {
				return err
			}
			payloads, err := newPayloadRegistry()
			if err != nil {
				return err
			}

			return a.withNATS(ctx, func(client *natsclient.Client) error {
				if err := ensureLinterStream(ctx, client); err != nil {
					return err
				}

				discoverable, err := contractlinter.NewComponent(rawConfig, component.Dependencies{
					NATSClient:      client,
					Logger:          a.logger,
					PayloadRegistry: payloads,
				})
				if err != nil {
					return err
				}
				linter := discoverable.(*contractlinter.Component)
				if err := linter.Start(ctx); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Linting contracts from %s, press Ctrl+C to stop\n", contractlinter.DefaultInputSubject)

				<-ctx.Done()
				return linter.Stop(5 * time.Second)
			})
		},
	}
}
