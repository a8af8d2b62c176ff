// Package correlate maps analyzer diagnostics for a cached bundle back to
// host reports for one rule and one primary file.
package correlate

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/charmbracelet/log"

	"lwcgraph/internal/analyzer"
	"lwcgraph/internal/diag"
	"lwcgraph/internal/logx"
	"lwcgraph/internal/state"
)

// DefaultNamespace is sent with every analyzer request unless configured.
const DefaultNamespace = "c"

// Correlator answers "which diagnostics does rule R produce for the file the
// host is evaluating right now".
type Correlator struct {
	cache     *state.Cache
	analyzer  analyzer.Analyzer
	log       *log.Logger
	namespace string
}

// New builds a correlator. A nil logger discards warnings; an empty
// namespace means DefaultNamespace.
func New(cache *state.Cache, a analyzer.Analyzer, logger *log.Logger, namespace string) *Correlator {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Correlator{
		cache:     cache,
		analyzer:  a,
		log:       logx.OrDiscard(logger),
		namespace: namespace,
	}
}

// Reports runs the analyzer over the bundle registered for hostFilename and
// returns the reports belonging to ruleID and the bundle's primary file.
// A missing bundle or a rule without a catalog entry yields no reports and a
// warning. Analyzer failures are returned.
func (c *Correlator) Reports(ctx context.Context, ruleID, hostFilename string) ([]diag.Report, error) {
	b, key, ok := c.cache.Lookup(hostFilename)
	if !ok {
		c.log.Warn("no bundle registered for file; another processor may own this file type",
			"file", hostFilename, "key", key, "rule", ruleID)
		return []diag.Report{}, nil
	}
	primary := b.Primary()
	if primary == nil {
		c.log.Warn("cached bundle has no primary file", "bundle", b.String())
		return []diag.Report{}, nil
	}

	diags, err := c.analyzer.Analyze(ctx, analyzer.NewRequest(c.namespace, b))
	if err != nil {
		return nil, err
	}

	code := RuleCode(ruleID)
	catalog, err := c.analyzer.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", ruleID, err)
	}
	entry, ok := catalog.Lookup(code)
	if !ok {
		c.log.Warn("rule has no analyzer catalog entry", "rule", ruleID, "code", code)
		return []diag.Report{}, nil
	}

	reports := make([]diag.Report, 0, len(diags))
	for _, d := range diags {
		if d.Code.Value != entry.Code || d.Code.Target.Path != primary.Name {
			continue
		}
		rep, err := ToReport(d)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", ruleID, err)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// RuleCode turns a namespaced rule id into an analyzer catalog code:
// "@scope/plugin/no-eval-usage" -> "NO_EVAL_USAGE".
func RuleCode(ruleID string) string {
	name := ruleID
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// ToReport converts a zero-based analyzer range into host coordinates. Lines
// become one-based; columns pass through unchanged.
func ToReport(d analyzer.Diagnostic) (diag.Report, error) {
	start, err := toLineCol(d.Range.Start)
	if err != nil {
		return diag.Report{}, err
	}
	end, err := toLineCol(d.Range.End)
	if err != nil {
		return diag.Report{}, err
	}
	return diag.Report{
		Message: d.Message,
		Loc:     diag.Loc{Start: start, End: end},
	}, nil
}

func toLineCol(p analyzer.Position) (diag.LineCol, error) {
	line, err := safecast.Conv[uint32](p.Line + 1)
	if err != nil {
		return diag.LineCol{}, fmt.Errorf("line %d: %w", p.Line, err)
	}
	col, err := safecast.Conv[uint32](p.Character)
	if err != nil {
		return diag.LineCol{}, fmt.Errorf("column %d: %w", p.Character, err)
	}
	return diag.LineCol{Line: line, Column: col}, nil
}
