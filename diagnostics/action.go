package diagnostics

import (
	"fmt"
	"strings"

	"github.com/c360studio/capgraph/contract"
)

// CheckActionAbstraction inspects the intent and conditions of every
// binding. An explicitly empty intent is a warning; present conditions that
// are not string arrays are errors. Absent fields never report.
func CheckActionAbstraction(c *contract.Contract) []Item {
	var items []Item
	for _, b := range c.Bindings() {
		label := b.Label()
		base := fmt.Sprintf("capability_contract.bindings[%d]", b.Index)

		if v, ok := b.Field("intent"); ok {
			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				items = append(items, warningItem(CodeEmptyIntent,
					fmt.Sprintf("Binding '%s' declares an empty intent", label)).
					at(label, base+".intent"))
			}
		}

		for _, f := range []struct {
			field string
			code  string
		}{
			{"preconditions", CodeInvalidPreconditions},
			{"postconditions", CodeInvalidPostconditions},
		} {
			v, ok := b.Field(f.field)
			if !ok {
				continue
			}
			if _, valid := contract.AsStringSlice(v); valid {
				continue
			}
			items = append(items, errorItem(f.code,
				fmt.Sprintf("Binding '%s' %s must be an array of strings", label, f.field)).
				at(label, base+"."+f.field))
		}
	}
	return items
}
