package bundle

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"lwcgraph/internal/source"
)

// FromContent builds a bundle from raw contents using DefaultExtensions.
// See Extensions.FromContent.
func FromContent(baseName, scriptContent string, templateContents ...string) *Bundle {
	return DefaultExtensions.FromContent(baseName, scriptContent, templateContents...)
}

// FromFile builds a single-file bundle using DefaultExtensions.
// See Extensions.FromFile.
func FromFile(content, path, ext string) (*Bundle, error) {
	return DefaultExtensions.FromFile(content, path, ext)
}

// FromFilesystem discovers a bundle on disk using DefaultExtensions.
// See Extensions.FromFilesystem.
func FromFilesystem(content, path, ext string, fsys source.Provider) (*Bundle, error) {
	return DefaultExtensions.FromFilesystem(content, path, ext, fsys)
}

// FromContent builds a bundle from raw contents. An empty scriptContent means
// the bundle has no script. Templates are named <base><tmpl>, then
// <base>.2<tmpl>, <base>.3<tmpl> and so on, in input order. No file is primary.
func (e Extensions) FromContent(baseName, scriptContent string, templateContents ...string) *Bundle {
	var script *File
	if scriptContent != "" {
		script = newFile(baseName+e.ScriptExt(), scriptContent, KindScript)
	}
	var templates []*File
	for i, content := range templateContents {
		name := baseName + e.TemplateExt()
		if i > 0 {
			name = baseName + "." + strconv.Itoa(i+1) + e.TemplateExt()
		}
		templates = append(templates, newFile(name, content, KindTemplate))
	}
	return newWithExtensions(e, baseName, script, templates)
}

// FromFile makes the file at path the sole, primary member of a new bundle.
// It is the fallback for content that does not exist on disk.
func (e Extensions) FromFile(content, path, ext string) (*Bundle, error) {
	kind, err := e.kindOrErr(ext)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	f := newFile(name, content, kind)
	f.primary = true

	b := newWithExtensions(e, source.Stem(name), nil, nil)
	b.attach(f)
	return b, nil
}

// FromFilesystem builds a bundle around the file at path, which becomes the
// primary member, and attaches every sibling in the same directory that
// passes IsMember. It returns (nil, nil) when path does not exist: the content
// came from a caller rather than from disk and FromFile should be used.
// Listing and read failures are returned as-is.
func (e Extensions) FromFilesystem(content, path, ext string, fsys source.Provider) (*Bundle, error) {
	kind, err := e.kindOrErr(ext)
	if err != nil {
		return nil, err
	}
	if !fsys.Exists(path) {
		return nil, nil
	}

	dir := filepath.Dir(path)
	anchorName := filepath.Base(path)
	anchor := newFile(anchorName, content, kind)
	anchor.primary = true

	b := newWithExtensions(e, source.Stem(anchorName), nil, nil)
	b.attach(anchor)

	candidates, err := fsys.ListDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list bundle directory %s: %w", dir, err)
	}
	for _, name := range candidates {
		if !e.IsMember(name, anchorName) {
			continue
		}
		candidateKind, _ := e.KindOf(filepath.Ext(name))
		if candidateKind == KindScript && b.script.IsPrimary() {
			// the anchor keeps the script slot
			continue
		}
		text, err := fsys.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read bundle file %s: %w", name, err)
		}
		b.attach(newFile(name, text, candidateKind))
	}
	return b, nil
}

// IsMember reports whether candidate belongs to the bundle anchored at
// anchor: it has a script or template extension, its name up to the first
// '.' equals the anchor's, and it is not the anchor itself.
//
// This is a prefix heuristic, not an exact bundle boundary. It groups
// foo.html, foo.2.html and foo.3.html with foo.js and excludes foo.css and
// foobar.html, but foo.bar.html also matches a foo.js anchor.
func (e Extensions) IsMember(candidate, anchor string) bool {
	if _, ok := e.KindOf(filepath.Ext(candidate)); !ok {
		return false
	}
	return stemBeforeDot(candidate) == stemBeforeDot(anchor) && candidate != anchor
}

func stemBeforeDot(name string) string {
	stem, _, _ := strings.Cut(name, ".")
	return stem
}

func (b *Bundle) attach(f *File) {
	switch f.Kind {
	case KindScript:
		b.script = f
	case KindTemplate:
		b.templates = append(b.templates, f)
	}
}
