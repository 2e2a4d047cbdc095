package ontology

import (
	"fmt"
	"strings"
)

// Validation error codes.
const (
	CodeDanglingEdgeTarget = "DANGLING_EDGE_TARGET"
	CodeCycleDetected      = "CYCLE_DETECTED"
)

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// ValidationError is a single structural finding.
type ValidationError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details ValidationDetails `json:"details"`
}

// ValidationDetails carries the refs involved in a finding.
type ValidationDetails struct {
	Source string   `json:"source,omitempty"`
	Target string   `json:"target,omitempty"`
	Cycle  []string `json:"cycle,omitempty"`
}

// Validate checks the structural integrity of g. Graphs built through the
// store API cannot hold dangling edges, but graphs rebuilt with FromDocument
// can. Both passes always run, so dangling-edge and cycle findings may be
// reported together.
func Validate(g *Graph) ValidationResult {
	errs := make([]ValidationError, 0)
	errs = append(errs, danglingEdges(g)...)
	errs = append(errs, dependsOnCycles(g)...)
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func danglingEdges(g *Graph) []ValidationError {
	var errs []ValidationError
	for _, e := range g.GetAllEdges() {
		if g.HasNode(e.Target) {
			continue
		}
		errs = append(errs, ValidationError{
			Code:    CodeDanglingEdgeTarget,
			Message: fmt.Sprintf("Edge target '%s' does not exist as a node", e.Target),
			Details: ValidationDetails{Source: e.Source, Target: e.Target},
		})
	}
	return errs
}

type dfsFrame struct {
	ref  string
	next int
}

// dependsOnCycles walks depends_on edges from every node with an explicit
// stack. Each back-edge into the current path is reported as one cycle,
// starting and ending with the re-entered ref.
func dependsOnCycles(g *Graph) []ValidationError {
	var errs []ValidationError

	done := make(map[string]bool)
	onPath := make(map[string]int)
	var path []string
	var stack []dfsFrame

	push := func(ref string) {
		onPath[ref] = len(path)
		path = append(path, ref)
		stack = append(stack, dfsFrame{ref: ref})
	}

	for _, n := range g.nodes {
		if done[n.Ref] {
			continue
		}
		push(n.Ref)

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := g.outgoing(top.ref)

			advanced := false
			for top.next < len(edges) {
				e := edges[top.next]
				top.next++
				if e.Type != RelationDependsOn {
					continue
				}
				if start, ok := onPath[e.Target]; ok {
					errs = append(errs, cycleError(path[start:], e.Target))
					continue
				}
				if done[e.Target] {
					continue
				}
				push(e.Target)
				advanced = true
				break
			}
			if advanced {
				continue
			}

			done[top.ref] = true
			delete(onPath, top.ref)
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	return errs
}

func cycleError(segment []string, closing string) ValidationError {
	cycle := make([]string, 0, len(segment)+1)
	cycle = append(cycle, segment...)
	cycle = append(cycle, closing)
	return ValidationError{
		Code:    CodeCycleDetected,
		Message: "Cycle detected in depends_on: " + strings.Join(cycle, " → "),
		Details: ValidationDetails{Cycle: cycle},
	}
}
