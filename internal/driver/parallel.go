package driver

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"lwcgraph/internal/diag"
	"lwcgraph/internal/processor"
)

// ParallelOptions configures LintParallel. Options.Processor is ignored:
// every worker owns the processor NewProcessor returns, since a processor
// holds only one in-flight bundle. The processors should share one cache so
// that Options.Source can see every bundle.
type ParallelOptions struct {
	Options
	Jobs         int
	NewProcessor func() *processor.Processor
}

// LintParallel lints files on up to Jobs workers. Results keep the order of
// files; like Lint, a failing file does not stop the run.
func LintParallel(ctx context.Context, files []string, opts ParallelOptions) (*Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = max(min(jobs, len(files)), 1)

	// у каждого воркера свой процессор
	hosts := make(chan *Host, jobs)
	for j := 0; j < jobs; j++ {
		hostOpts := opts.Options
		hostOpts.Processor = opts.NewProcessor()
		hosts <- New(hostOpts)
	}
	for _, path := range files {
		if opts.Progress != nil {
			opts.Progress.OnEvent(Event{File: path, Status: StatusQueued})
		}
	}

	type outcome struct {
		msgs []diag.Message
		err  error
	}
	// индексы уникальны для каждой горутины, мьютекс не нужен
	outcomes := make([]outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}
			h := <-hosts
			defer func() { hosts <- h }()
			msgs, err := h.lintFile(gctx, path)
			outcomes[i] = outcome{msgs: msgs, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Bag: diag.NewBag(0)}
	var errs []error
	for i, o := range outcomes {
		if o.err != nil {
			errs = append(errs, o.err)
		}
		if o.msgs == nil {
			continue
		}
		res.Files = append(res.Files, FileResult{Path: files[i], Messages: o.msgs})
		res.Bag.AddAll(o.msgs)
	}
	res.Bag.Sort()
	return res, errors.Join(errs...)
}
