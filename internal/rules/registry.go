// Package rules is the built-in rule set. Every rule is a thin adapter: it
// asks a Source for the reports belonging to its own id and the file under
// evaluation and forwards them to the host.
package rules

import (
	"slices"
	"strings"

	"lwcgraph/internal/correlate"
	"lwcgraph/internal/version"
)

// Prefix namespaces every rule id.
const Prefix = "@salesforce/lwc-graph-analyzer"

// Homepage is where rule documentation lives.
const Homepage = "https://github.com/salesforce/eslint-plugin-lwc-graph-analyzer"

var names = []string{
	"no-getter-contains-more-than-return-statement",
	"no-assignment-expression-assigns-value-to-member-variable",
	"no-wire-config-references-non-local-property-reactive-value",
	"no-private-wire-config-property",
	"no-unresolved-parent-class-reference",
	"no-class-refers-to-parent-class-from-unsupported-namespace",
	"no-reference-to-unsupported-namespace-reference",
	"no-wire-config-property-uses-getter-function-returning-inaccessible-import",
	"no-wire-config-property-uses-getter-function-returning-non-literal",
	"no-wire-config-property-circular-wire-dependency",
	"no-wire-configuration-property-using-output-of-non-primeable-wire",
	"no-missing-resource-cannot-prime-wire-adapter",
	"no-wire-config-property-uses-imported-artifact-from-unsupported-namespace",
	"no-wire-adapter-of-resource-cannot-be-primed",
	"no-unsupported-member-variable-in-member-expression",
	"no-multiple-template-files",
	"no-assignment-expression-for-external-components",
	"no-tagged-template-expression-contains-unsupported-namespace",
	"no-expression-contains-module-level-variable-ref",
	"no-call-expression-references-unsupported-namespace",
	"no-eval-usage",
	"no-reference-to-class-functions",
	"no-reference-to-module-functions",
	"no-functions-declared-within-getter-method",
	"no-member-expression-reference-to-non-existent-member-variable",
	"no-member-expression-reference-to-unsupported-namespace-reference",
	"no-member-expression-contains-non-portable-identifier",
	"no-member-expression-reference-to-super-class",
	"no-member-expression-reference-to-unsupported-global",
	"no-composition-on-unanalyzable-getter-property",
	"no-composition-on-unanalyzable-property-from-unresolvable-wire",
	"no-composition-on-unanalyzable-property-missing",
	"no-composition-on-unanalyzable-property-non-public",
	"no-render-function-contains-more-than-return-statement",
	"no-render-function-return-statement-not-returning-imported-template",
	"no-render-function-return-statement",
}

var registry = func() map[string]Rule {
	m := make(map[string]Rule, len(names))
	for _, n := range names {
		m[n] = Rule{Name: n}
	}
	return m
}()

// All returns every built-in rule, sorted by name.
func All() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, r := range registry {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Rule) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Lookup finds a rule by short name or full id.
func Lookup(name string) (Rule, bool) {
	r, ok := registry[strings.TrimPrefix(name, Prefix+"/")]
	return r, ok
}

// DocURL is the documentation page of a rule at the current release.
func DocURL(name string) string {
	return Homepage + "/blob/" + version.Version + "/lib/docs/" + name + ".md"
}

// NameForCode is the inverse of correlate.RuleCode.
func NameForCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(code), "_", "-")
}

// CatalogDiff compares the registry with the codes an analyzer knows about.
// missing lists rules without a catalog entry; unknown lists codes no rule
// covers. Both are sorted.
func CatalogDiff(codes []string) (missing, unknown []string) {
	known := make(map[string]bool, len(codes))
	for _, c := range codes {
		known[c] = true
		if _, ok := registry[NameForCode(c)]; !ok {
			unknown = append(unknown, c)
		}
	}
	for _, r := range All() {
		if !known[correlate.RuleCode(r.Name)] {
			missing = append(missing, r.Name)
		}
	}
	slices.Sort(unknown)
	return missing, unknown
}
