package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/capgraph/export"
	"github.com/c360studio/capgraph/ontology"
	"github.com/c360studio/capgraph/semantic"
)

func validateCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <contract>",
		Short: "Build the binding graph and check it for dangling edges and cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, g, err := a.compile(args[0])
			if err != nil {
				return err
			}

			result := ontology.Validate(g)
			a.metrics.ObserveValidation(result)

			if asJSON {
				if err := a.printJSON(result); err != nil {
					return err
				}
			} else {
				renderValidation(a.out, c.Name, g, result)
			}

			if !result.Valid {
				return fmt.Errorf("%s: %d validation error(s)", c.Name, len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the validation result as JSON")
	return cmd
}

func queryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the binding graph of a contract",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "chain <contract> <ref>",
			Short: "List every binding a binding transitively depends on",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, g, err := a.compile(args[0])
				if err != nil {
					return err
				}
				result := timed(a, "chain", func() ontology.DependencyChain {
					return ontology.QueryDependencyChain(g, args[1])
				})
				return a.printQuery(result, result.Error)
			},
		},
		impactCmd(a),
		pathCmd(a),
		&cobra.Command{
			Use:   "action <contract> <ref>",
			Short: "Show the intent and conditions of a binding",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, g, err := a.compile(args[0])
				if err != nil {
					return err
				}
				info := timed(a, "action", func() ontology.ActionInfo {
					return ontology.GetActionInfo(g, args[1])
				})
				return a.printJSON(info)
			},
		},
	)

	return cmd
}

func impactCmd(a *app) *cobra.Command {
	var (
		maxDepth  int
		relations []string
	)

	cmd := &cobra.Command{
		Use:   "impact <contract> <ref>",
		Short: "List every binding affected by a change to a binding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := a.compile(args[0])
			if err != nil {
				return err
			}

			opts := ontology.ImpactOptions{
				MaxDepth:      a.cfg.Query.MaxDepth,
				RelationTypes: a.cfg.Query.ImpactRelationTypes(),
			}
			if cmd.Flags().Changed("max-depth") {
				opts.MaxDepth = maxDepth
			}
			if len(relations) > 0 {
				opts.RelationTypes = relationTypes(relations)
			}

			result := timed(a, "impact", func() ontology.ImpactRadius {
				return ontology.FindImpactRadius(g, args[1], opts)
			})
			return a.printQuery(result, result.Error)
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum hops to explore (0 = unbounded)")
	cmd.Flags().StringSliceVar(&relations, "relation", nil, "Relation types to follow (repeatable)")
	return cmd
}

func pathCmd(a *app) *cobra.Command {
	var (
		relations  []string
		undirected bool
	)

	cmd := &cobra.Command{
		Use:   "path <contract> <source> <target>",
		Short: "Find the shortest relation path between two bindings",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := a.compile(args[0])
			if err != nil {
				return err
			}

			opts := ontology.PathOptions{
				RelationTypes: relationTypes(relations),
				Undirected:    undirected,
			}
			result := timed(a, "path", func() ontology.RelationPath {
				return ontology.FindRelationPath(g, args[1], args[2], opts)
			})
			return a.printQuery(result, result.Error)
		},
	}

	cmd.Flags().StringSliceVar(&relations, "relation", nil, "Relation types to follow (repeatable, default all)")
	cmd.Flags().BoolVar(&undirected, "undirected", false, "Also traverse edges against their direction")
	return cmd
}

// printQuery prints a query result and turns its error field into a
// command failure.
func (a *app) printQuery(result any, queryErr string) error {
	if err := a.printJSON(result); err != nil {
		return err
	}
	if queryErr != "" {
		return errors.New(queryErr)
	}
	return nil
}

func relationTypes(names []string) []ontology.RelationType {
	if len(names) == 0 {
		return nil
	}
	types := make([]ontology.RelationType, 0, len(names))
	for _, n := range names {
		types = append(types, ontology.RelationType(n))
	}
	return types
}

func lineageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lineage <contract> [ref]",
		Short: "Show the data lineage of a contract or of one binding",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.compile(args[0])
			if err != nil {
				return err
			}
			if len(args) == 2 {
				return a.printJSON(semantic.GetLineageInfo(c, args[1]))
			}
			lineage := semantic.ParseDataLineage(c)
			if lineage == nil {
				return fmt.Errorf("%s: no data lineage declared", c.Name)
			}
			return a.printJSON(lineage)
		},
	}
}

// semanticView groups the semantic sections of a contract.
type semanticView struct {
	Model         semantic.EntityRelationshipModel `json:"model"`
	BusinessRules semantic.BusinessRules            `json:"business_rules"`
	DecisionLogic semantic.DecisionLogic            `json:"decision_logic"`
}

func semanticCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "semantic <contract>",
		Short: "Show the entity model, business rules and decision logic of a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := a.compile(args[0])
			if err != nil {
				return err
			}
			return a.printJSON(semanticView{
				Model:         semantic.ParseEntityRelationshipModel(c),
				BusinessRules: semantic.ParseBusinessRules(c),
				DecisionLogic: semantic.ParseDecisionLogic(c),
			})
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var (
		format  string
		profile string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export <contract>",
		Short: "Export the binding graph as RDF, Graphviz DOT or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
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

			w := a.out
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			if err := export.Write(w, g, f, export.Options{Profile: p, Contract: c.Name}); err != nil {
				return err
			}
			if output != "" {
				a.logger.Info("Exported graph", "contract", c.Name, "format", f, "path", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "Output format (turtle, ntriples, jsonld, dot, json)")
	cmd.Flags().StringVar(&profile, "profile", "", "RDF ontology profile (minimal, bfo, cco)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
