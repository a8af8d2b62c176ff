// Package processor implements the host's pre-process/post-process hooks.
// Pre-processing assembles the bundle around the file the host is about to
// lint and registers it in the state cache under a virtual file name; the
// host then evaluates rules against that virtual name; post-processing
// flattens the resulting messages and evicts the bundle.
package processor

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"lwcgraph/internal/bundle"
	"lwcgraph/internal/diag"
	"lwcgraph/internal/logx"
	"lwcgraph/internal/source"
	"lwcgraph/internal/state"
)

// Block is one virtual file handed back to the host.
type Block struct {
	Text     string
	Filename string
}

// Options configures a Processor. Zero fields get defaults: a fresh cache,
// the OS filesystem, default extensions and a discarding logger.
type Options struct {
	Cache      *state.Cache
	FS         source.Provider
	Extensions bundle.Extensions
	Logger     *log.Logger
}

// Processor holds at most one in-flight bundle between Preprocess and
// Postprocess. It is not safe for concurrent passes.
type Processor struct {
	cache   *state.Cache
	fsys    source.Provider
	exts    bundle.Extensions
	log     *log.Logger
	current *bundle.Bundle

	// SupportsAutofix is always true: virtual file text is the original text
	// whenever the primary file is a script.
	SupportsAutofix bool
}

// New builds a processor.
func New(opts Options) *Processor {
	p := &Processor{
		cache:           opts.Cache,
		fsys:            opts.FS,
		exts:            opts.Extensions,
		log:             logx.OrDiscard(opts.Logger),
		SupportsAutofix: true,
	}
	if p.cache == nil {
		p.cache = state.NewCache(state.DefaultCapacity)
	}
	if p.fsys == nil {
		p.fsys = source.OSProvider{}
	}
	if len(p.exts.Script) == 0 && len(p.exts.Template) == 0 {
		p.exts = bundle.DefaultExtensions
	}
	return p
}

// Cache returns the state cache the processor registers bundles in.
func (p *Processor) Cache() *state.Cache { return p.cache }

// Bundle returns the in-flight bundle, or nil.
func (p *Processor) Bundle() *bundle.Bundle { return p.current }

// SetBundle stages b for the next Preprocess call. Passing nil clears it.
func (p *Processor) SetBundle(b *bundle.Bundle) { p.current = b }

// SetBundleFromContent stages a bundle built from raw contents, for callers
// that lint code which is not on disk. An empty script means no script.
func (p *Processor) SetBundleFromContent(baseName, script string, templates ...string) {
	p.current = p.exts.FromContent(baseName, script, templates...)
}

// Preprocess is the host's pre-process hook. It returns a single block named
// by the bundle key, or no blocks when the staged bundle has no file with
// this content. The error is non-nil only for an unsupported extension or a
// failing filesystem.
func (p *Processor) Preprocess(text, filename string) ([]Block, error) {
	ext := filepath.Ext(filename)
	if p.current != nil {
		if !p.current.SetPrimaryByContent(text) {
			p.log.Warn("no file in the staged bundle matches the content being processed; skipping",
				"file", filename, "bundle", p.current.String())
			return []Block{}, nil
		}
	} else {
		b, err := p.exts.FromFilesystem(text, filename, ext, p.fsys)
		if err != nil {
			return nil, fmt.Errorf("preprocess %s: %w", filename, err)
		}
		if b == nil {
			// content did not come from disk
			if b, err = p.exts.FromFile(text, filename, ext); err != nil {
				return nil, fmt.Errorf("preprocess %s: %w", filename, err)
			}
		}
		p.current = b
	}

	key, ok := p.cache.Add(p.current)
	if !ok {
		p.log.Warn("could not register bundle; rules will see no diagnostics",
			"file", filename, "bundle", p.current.String())
		return []Block{}, nil
	}
	return []Block{{Text: p.blockText(text), Filename: key}}, nil
}

// the analyzer and the host parser only understand scripts
func (p *Processor) blockText(text string) string {
	if primary := p.current.Primary(); primary != nil && primary.Kind == bundle.KindScript {
		return text
	}
	if script := p.current.Script(); script != nil {
		return script.Content
	}
	return ""
}

// Postprocess is the host's post-process hook. It flattens the per-block
// message batches and evicts the in-flight bundle, whatever happened before.
func (p *Processor) Postprocess(batches [][]diag.Message, filename string) []diag.Message {
	if p.current != nil {
		if !p.cache.Remove(p.current) {
			p.log.Debug("in-flight bundle was not cached", "file", filename)
		}
	}
	p.current = nil
	return diag.Flatten(batches)
}
