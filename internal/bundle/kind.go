package bundle

import (
	"errors"
	"fmt"
	"slices"
)

// Kind classifies a bundle file. It is resolved once, at the point where a
// file name enters the package, and carried on File from then on.
type Kind uint8

const (
	// KindScript is the component logic file; at most one per bundle.
	KindScript Kind = iota + 1
	// KindTemplate is an auxiliary markup file; zero or more per bundle.
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindTemplate:
		return "template"
	}
	return "unknown"
}

var (
	// ErrUnsupportedExtension is returned when a file's extension is neither
	// script- nor template-typed.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrNoPrimaryFile is returned when a bundle key is requested while no
	// file is marked primary.
	ErrNoPrimaryFile = errors.New("bundle has no primary file")
)

// Extensions lists the recognized file extensions (with the leading dot) for
// each Kind. The first entry of each list is used for generated file names.
type Extensions struct {
	Script   []string `toml:"script"`
	Template []string `toml:"template"`
}

// DefaultExtensions matches Lightning Web Components bundles.
var DefaultExtensions = Extensions{
	Script:   []string{".js"},
	Template: []string{".html"},
}

// KindOf resolves an extension such as ".js" to a Kind.
func (e Extensions) KindOf(ext string) (Kind, bool) {
	switch {
	case slices.Contains(e.Script, ext):
		return KindScript, true
	case slices.Contains(e.Template, ext):
		return KindTemplate, true
	}
	return 0, false
}

// ScriptExt returns the extension used for generated script names and for
// bundle keys.
func (e Extensions) ScriptExt() string {
	if len(e.Script) == 0 {
		return DefaultExtensions.Script[0]
	}
	return e.Script[0]
}

// TemplateExt returns the extension used for generated template names.
func (e Extensions) TemplateExt() string {
	if len(e.Template) == 0 {
		return DefaultExtensions.Template[0]
	}
	return e.Template[0]
}

// Validate rejects empty or overlapping extension sets.
func (e Extensions) Validate() error {
	if len(e.Script) == 0 {
		return fmt.Errorf("no script extensions configured")
	}
	if len(e.Template) == 0 {
		return fmt.Errorf("no template extensions configured")
	}
	for _, ext := range e.Script {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("script extension %q must start with '.'", ext)
		}
		if slices.Contains(e.Template, ext) {
			return fmt.Errorf("extension %q is both script and template", ext)
		}
	}
	for _, ext := range e.Template {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("template extension %q must start with '.'", ext)
		}
	}
	return nil
}

func (e Extensions) kindOrErr(ext string) (Kind, error) {
	kind, ok := e.KindOf(ext)
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnsupportedExtension, ext)
	}
	return kind, nil
}
