// Package bundle models a multi-file UI component (one script plus zero or
// more templates) as a single analyzable unit.
//
// A Bundle is assembled either from content supplied by a caller (FromContent,
// FromFile) or by scanning the directory of a file handed over by the lint
// host (FromFilesystem). At any time at most one member is marked primary: the
// file the host is currently analyzing. The primary file drives the bundle key
// used to correlate the host's pre-processing and rule-evaluation phases.
package bundle

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"lwcgraph/internal/source"
)

// Bundle is the set of files that together define one component.
type Bundle struct {
	baseName  string
	script    *File
	templates []*File
	id        string
	exts      Extensions
}

// New builds a bundle from already constructed files. The identity key is
// generated here, once per bundle.
func New(baseName string, script *File, templates []*File) *Bundle {
	return newWithExtensions(DefaultExtensions, baseName, script, templates)
}

func newWithExtensions(exts Extensions, baseName string, script *File, templates []*File) *Bundle {
	return &Bundle{
		baseName:  baseName,
		script:    script,
		templates: templates,
		id:        uuid.NewString(),
		exts:      exts,
	}
}

// NewFile constructs a non-primary file, resolving its Kind from the name.
func (e Extensions) NewFile(name, content string) (*File, error) {
	kind, err := e.kindOrErr(filepath.Ext(name))
	if err != nil {
		return nil, err
	}
	return newFile(name, content, kind), nil
}

// BaseName is the shared file stem, e.g. "myLwc" for "myLwc.js".
func (b *Bundle) BaseName() string { return b.baseName }

// Script returns the script file, or nil.
func (b *Bundle) Script() *File { return b.script }

// Templates returns the template files in bundle order.
func (b *Bundle) Templates() []*File { return b.templates }

// ID returns the process-unique identity key.
func (b *Bundle) ID() string { return b.id }

// Extensions returns the extension set the bundle was built with.
func (b *Bundle) Extensions() Extensions { return b.exts }

// Files returns every member, script first, then templates in order.
func (b *Bundle) Files() []*File {
	out := make([]*File, 0, len(b.templates)+1)
	if b.script != nil {
		out = append(out, b.script)
	}
	return append(out, b.templates...)
}

// Len returns the number of member files.
func (b *Bundle) Len() int {
	n := len(b.templates)
	if b.script != nil {
		n++
	}
	return n
}

// Primary returns the primary file, or nil when none is marked.
func (b *Bundle) Primary() *File {
	for _, f := range b.Files() {
		if f.primary {
			return f
		}
	}
	return nil
}

// SetPrimaryByContent marks the first file (script, then templates) whose
// content hash equals the hash of content as primary and clears every other
// file. It reports whether a match was found; without a match the bundle is
// left untouched.
func (b *Bundle) SetPrimaryByContent(content string) bool {
	want := source.HashString(content)
	files := b.Files()
	for _, f := range files {
		if f.hash != want {
			continue
		}
		b.markPrimary(f)
		return true
	}
	return false
}

// ClearPrimary unmarks every file.
func (b *Bundle) ClearPrimary() {
	b.markPrimary(nil)
}

func (b *Bundle) markPrimary(target *File) {
	for _, f := range b.Files() {
		f.primary = f == target
	}
}

// Key derives the cache key used to correlate host phases:
// <primary stem>-<identity key><script ext>. The script extension is always
// used because the downstream analyzer and host parser only accept scripts.
func (b *Bundle) Key() (string, error) {
	p := b.Primary()
	if p == nil {
		return "", fmt.Errorf("%w: %s", ErrNoPrimaryFile, b.baseName)
	}
	return source.TrimExt(p.Name) + "-" + b.id + b.exts.ScriptExt(), nil
}

// FilesRecord flattens the bundle into file name -> content, the shape the
// analyzer consumes.
func (b *Bundle) FilesRecord() map[string]string {
	out := make(map[string]string, b.Len())
	for _, f := range b.Files() {
		out[f.Name] = f.Content
	}
	return out
}

func (b *Bundle) String() string {
	primary := "-"
	if p := b.Primary(); p != nil {
		primary = p.Name
	}
	return b.baseName + "{files=" + strconv.Itoa(b.Len()) + " primary=" + primary + "}"
}
