package rules

import (
	"context"

	"lwcgraph/internal/correlate"
	"lwcgraph/internal/diag"
)

// Source produces reports for a rule id and a host file name.
// *correlate.Correlator implements it.
type Source interface {
	Reports(ctx context.Context, ruleID, hostFilename string) ([]diag.Report, error)
}

var _ Source = (*correlate.Correlator)(nil)

// Context is what the host exposes to a rule while evaluating one virtual
// file.
type Context interface {
	// Filename is the virtual file name, possibly mangled by the host.
	Filename() string
	// PhysicalFilename is the file on disk the virtual file came from.
	PhysicalFilename() string
	Report(r diag.Report)
}

// Rule is a built-in rule.
type Rule struct {
	Name string
}

// ID is the namespaced rule id.
func (r Rule) ID() string { return Prefix + "/" + r.Name }

// Code is the analyzer catalog code the rule maps to.
func (r Rule) Code() string { return correlate.RuleCode(r.Name) }

// DocURL is the rule's documentation page.
func (r Rule) DocURL() string { return DocURL(r.Name) }

// Evaluate forwards every report src has for this rule and file to the host.
func (r Rule) Evaluate(ctx context.Context, host Context, src Source) error {
	reports, err := src.Reports(ctx, r.ID(), host.Filename())
	if err != nil {
		return err
	}
	for _, rep := range reports {
		host.Report(rep)
	}
	return nil
}
