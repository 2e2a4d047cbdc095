package diagnostics

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/c360studio/capgraph/contract"
)

// CheckContractVersion validates the optional contract version. A version
// that is not semantic is a warning, as is one outside constraint when a
// constraint is given.
func CheckContractVersion(c *contract.Contract, constraint string) []Item {
	raw, ok := c.Version()
	if !ok {
		return nil
	}

	var text string
	switch v := raw.(type) {
	case string:
		text = v
	default:
		if _, isNumber := contract.AsNumber(v); !isNumber {
			return []Item{warningItem(CodeInvalidVersion,
				fmt.Sprintf("Contract version must be a string, got %T", raw)).at("", "version")}
		}
		text = fmt.Sprint(v)
	}

	version, err := semver.NewVersion(text)
	if err != nil {
		return []Item{warningItem(CodeInvalidVersion,
			fmt.Sprintf("Contract version %q is not a semantic version", text)).at("", "version")}
	}

	if constraint == "" {
		return nil
	}
	constraints, err := semver.NewConstraint(constraint)
	if err != nil {
		return []Item{warningItem(CodeInvalidConstraint,
			fmt.Sprintf("Version constraint %q is invalid: %v", constraint, err))}
	}
	if !constraints.Check(version) {
		return []Item{warningItem(CodeUnsupportedVersion,
			fmt.Sprintf("Contract version %s does not satisfy %s", version, constraint)).at("", "version")}
	}
	return nil
}
