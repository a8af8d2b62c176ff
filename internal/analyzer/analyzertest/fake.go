// Package analyzertest provides an in-memory analyzer double.
package analyzertest

import (
	"context"
	"slices"
	"sync"

	"lwcgraph/internal/analyzer"
)

// Fake returns canned diagnostics and records every request it sees.
type Fake struct {
	Diagnostics []analyzer.Diagnostic
	Entries     analyzer.Catalog
	Err         error
	CatalogErr  error

	mu       sync.Mutex
	requests []analyzer.Request
}

// Analyze implements analyzer.Analyzer.
func (f *Fake) Analyze(_ context.Context, req analyzer.Request) ([]analyzer.Diagnostic, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return slices.Clone(f.Diagnostics), nil
}

// Catalog implements analyzer.Analyzer.
func (f *Fake) Catalog(context.Context) (analyzer.Catalog, error) {
	if f.CatalogErr != nil {
		return nil, f.CatalogErr
	}
	return f.Entries, nil
}

// Requests returns the requests seen so far.
func (f *Fake) Requests() []analyzer.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// Diag builds a single-line diagnostic at zero-based (line, char)..(line, endChar).
func Diag(code, path, message string, line, char, endChar int) analyzer.Diagnostic {
	return analyzer.Diagnostic{
		Code:    analyzer.Code{Value: code, Target: analyzer.Target{Path: path}},
		Message: message,
		Range: analyzer.Range{
			Start: analyzer.Position{Line: line, Character: char},
			End:   analyzer.Position{Line: line, Character: endChar},
		},
	}
}

// CatalogOf builds a catalog where each rule code maps to a same-named entry.
func CatalogOf(codes ...string) analyzer.Catalog {
	cat := make(analyzer.Catalog, len(codes))
	for _, c := range codes {
		cat[c] = analyzer.CatalogEntry{Code: c}
	}
	return cat
}
