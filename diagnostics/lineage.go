package diagnostics

import (
	"fmt"

	"github.com/c360studio/capgraph/contract"
	"github.com/c360studio/capgraph/semantic"
)

// CheckDataLineage warns about lineage sources and sinks whose ref is not a
// bound capability, one item per offending entry.
func CheckDataLineage(c *contract.Contract) []Item {
	lineage := semantic.ParseDataLineage(c)
	if lineage == nil {
		return nil
	}
	bound := c.BoundRefs()

	var items []Item
	for _, e := range lineage.Sources {
		if bound[e.Ref()] {
			continue
		}
		items = append(items, warningItem(CodeLineageSourceNotBound,
			fmt.Sprintf("Lineage source '%s' is not declared in capability bindings", e.Ref())).
			at(e.Ref(), "governance_contract.data_lineage.sources"))
	}
	for _, e := range lineage.Sinks {
		if bound[e.Ref()] {
			continue
		}
		items = append(items, warningItem(CodeLineageSinkNotBound,
			fmt.Sprintf("Lineage sink '%s' is not declared in capability bindings", e.Ref())).
			at(e.Ref(), "governance_contract.data_lineage.sinks"))
	}
	return items
}
