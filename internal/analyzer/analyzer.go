// Package analyzer describes the external graph analyzer that produces
// diagnostics for a flattened bundle, and provides an adapter that runs it
// as a subprocess.
package analyzer

import (
	"context"

	"lwcgraph/internal/bundle"
)

// Request types.
const (
	TypeBundle = "bundle"
	TypeFile   = "file"
)

// Analyzer is the capability the correlator consumes.
type Analyzer interface {
	// Analyze returns every diagnostic for the request, for all files.
	Analyze(ctx context.Context, req Request) ([]Diagnostic, error)
	// Catalog maps rule codes (UPPER_SNAKE) to catalog entries.
	Catalog(ctx context.Context) (Catalog, error)
}

// Request is one analysis unit.
type Request struct {
	Type      string            `json:"type" msgpack:"type"`
	Namespace string            `json:"namespace" msgpack:"namespace"`
	Name      string            `json:"name" msgpack:"name"`
	Files     map[string]string `json:"files" msgpack:"files"`
}

// NewRequest flattens b into a request. A bundle with exactly one file is
// sent as a "file" request.
func NewRequest(namespace string, b *bundle.Bundle) Request {
	files := b.FilesRecord()
	typ := TypeBundle
	if len(files) == 1 {
		typ = TypeFile
	}
	return Request{
		Type:      typ,
		Namespace: namespace,
		Name:      b.BaseName(),
		Files:     files,
	}
}

// Position is zero-based in both line and character.
type Position struct {
	Line      int `json:"line" msgpack:"line"`
	Character int `json:"character" msgpack:"character"`
}

type Range struct {
	Start Position `json:"start" msgpack:"start"`
	End   Position `json:"end" msgpack:"end"`
}

// Target names the bundle file a diagnostic applies to.
type Target struct {
	Path string `json:"path" msgpack:"path"`
}

type Code struct {
	Value  string `json:"value" msgpack:"value"`
	Target Target `json:"target" msgpack:"target"`
}

// Diagnostic is one analyzer finding.
type Diagnostic struct {
	Code    Code   `json:"code" msgpack:"code"`
	Message string `json:"message" msgpack:"message"`
	Range   Range  `json:"range" msgpack:"range"`
}

// CatalogEntry carries the stable code diagnostics are tagged with.
type CatalogEntry struct {
	Code string `json:"code" msgpack:"code"`
}

// Catalog is keyed by rule code, e.g. "NO_EVAL_USAGE".
type Catalog map[string]CatalogEntry

// Lookup returns the entry for code.
func (c Catalog) Lookup(code string) (CatalogEntry, bool) {
	e, ok := c[code]
	return e, ok
}
