// Package driver is a minimal lint host. It runs every file through the
// processor's two-phase protocol: pre-process, evaluate each enabled rule
// against each virtual file, post-process. Host lints sequentially;
// LintParallel spreads files over several hosts sharing one cache.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"lwcgraph/internal/diag"
	"lwcgraph/internal/logx"
	"lwcgraph/internal/observ"
	"lwcgraph/internal/processor"
	"lwcgraph/internal/rules"
)

// Host drives one processor and one rule source. It lints one file at a
// time.
type Host struct {
	proc     *processor.Processor
	source   rules.Source
	settings rules.Settings
	timer    *observ.Timer
	progress ProgressSink
	log      *log.Logger
}

// Options configures a Host. Timer and Progress may be nil.
type Options struct {
	Processor *processor.Processor
	Source    rules.Source
	Settings  rules.Settings
	Timer     *observ.Timer
	Progress  ProgressSink
	Logger    *log.Logger
}

// New builds a host.
func New(opts Options) *Host {
	return &Host{
		proc:     opts.Processor,
		source:   opts.Source,
		settings: opts.Settings,
		timer:    opts.Timer,
		progress: opts.Progress,
		log:      logx.OrDiscard(opts.Logger),
	}
}

// FileResult holds the post-processed messages of one physical file.
type FileResult struct {
	Path     string
	Messages []diag.Message
}

// Result is the outcome of a lint run.
type Result struct {
	Files []FileResult
	Bag   *diag.Bag
}

// Lint lints every file in order. A file that fails is reported in the
// returned error and does not stop the run.
func (h *Host) Lint(ctx context.Context, files []string) (*Result, error) {
	res := &Result{Bag: diag.NewBag(0)}
	var errs []error
	for _, path := range files {
		h.emit(Event{File: path, Status: StatusQueued})
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		msgs, err := h.lintFile(ctx, path)
		if err != nil {
			errs = append(errs, err)
		}
		if msgs == nil {
			continue
		}
		res.Files = append(res.Files, FileResult{Path: path, Messages: msgs})
		res.Bag.AddAll(msgs)
	}
	res.Bag.Sort()
	return res, errors.Join(errs...)
}

// lintFile reads and lints one file. Messages are nil only when the file
// could not be read.
func (h *Host) lintFile(ctx context.Context, path string) ([]diag.Message, error) {
	h.emit(Event{File: path, Stage: StageRead, Status: StatusWorking})
	stop := h.timer.Begin("read")
	content, err := os.ReadFile(path)
	stop()
	if err != nil {
		err = fmt.Errorf("read %s: %w", path, err)
		h.emit(Event{File: path, Stage: StageRead, Status: StatusError, Err: err})
		return nil, err
	}
	msgs, err := h.LintText(ctx, string(content), path)
	if err != nil {
		h.emit(Event{File: path, Status: StatusError, Err: err, Messages: len(msgs)})
		return msgs, err
	}
	h.emit(Event{File: path, Status: StatusDone, Messages: len(msgs)})
	return msgs, nil
}

// LintText runs the two-phase protocol for one file whose content is text.
// Post-processing runs whenever pre-processing did not fail.
func (h *Host) LintText(ctx context.Context, text, filename string) ([]diag.Message, error) {
	h.emit(Event{File: filename, Stage: StagePreprocess, Status: StatusWorking})
	stop := h.timer.Begin("preprocess")
	blocks, err := h.proc.Preprocess(text, filename)
	stop()
	if err != nil {
		return []diag.Message{}, err
	}

	h.emit(Event{File: filename, Stage: StageRules, Status: StatusWorking})
	enabled := h.settings.Enabled()
	batches := make([][]diag.Message, len(blocks))
	var errs []error
	for i, block := range blocks {
		batch := diag.NewBag(0)
		host := &ruleContext{
			filename: VirtualFilename(filename, i, block.Filename),
			physical: filename,
		}
		stop := h.timer.Begin("rules")
		for _, r := range enabled {
			host.reporter = diag.BagReporter{
				Bag:      batch,
				RuleID:   r.ID(),
				Severity: h.settings.Severity(r.Name),
				Filename: filename,
			}
			if err := r.Evaluate(ctx, host, h.source); err != nil {
				errs = append(errs, fmt.Errorf("%s: rule %s: %w", filename, r.Name, err))
			}
		}
		stop()
		batch.Sort()
		batches[i] = batch.Items()
	}

	h.emit(Event{File: filename, Stage: StagePostprocess, Status: StatusWorking})
	stop = h.timer.Begin("postprocess")
	msgs := h.proc.Postprocess(batches, filename)
	stop()
	h.log.Debug("linted file", "file", filename, "blocks", len(blocks), "messages", len(msgs))
	return msgs, errors.Join(errs...)
}

// VirtualFilename mimics how lint hosts name processor output blocks: the
// block name, prefixed with its index, below the physical file.
func VirtualFilename(physical string, index int, block string) string {
	return filepath.Join(physical, strconv.Itoa(index)+"_"+block)
}

type ruleContext struct {
	filename string
	physical string
	reporter diag.Reporter
}

func (c *ruleContext) Filename() string         { return c.filename }
func (c *ruleContext) PhysicalFilename() string { return c.physical }
func (c *ruleContext) Report(r diag.Report)     { c.reporter.Report(r) }
