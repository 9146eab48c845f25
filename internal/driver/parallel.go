package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
	"smlcheck/internal/source"
	"smlcheck/internal/statics"
)

// frontendResult holds one file's front-end output. Results are stored at
// the file's position in the results slice, so they stay in input order
// despite running out of order across goroutines.
type frontendResult struct {
	tree *cst.Tree
	mod  *hir.Module
	bag  *diag.Bag
}

// CheckParallel runs the front end (lex/parse/lower/tyvarscope) for every
// path concurrently, bounded by jobs (runtime.GOMAXPROCS(0) if jobs <= 0),
// then folds the sequential statics pass over the results in path order.
// Concurrency only ever applies to the file-independent front end; see
// Check's doc comment for why elaboration itself cannot be parallelized.
func CheckParallel(ctx context.Context, paths []string, jobs int, opts CheckOptions) (*CheckResult, error) {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics == 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	fs := source.NewFileSet()
	files := make([]*source.File, len(paths))
	for i, path := range paths {
		fileID, err := fs.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		files[i] = fs.Get(fileID)
	}

	results := make([]frontendResult, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)
	for i := range paths {
		i := i
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			emit(opts.Progress, paths[i], StageParse, StatusWorking)
			tree, mod, bag := frontend(files[i], maxDiagnostics)
			emit(opts.Progress, paths[i], StageLower, StatusWorking)
			results[i] = frontendResult{tree: tree, mod: mod, bag: bag}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	basis := statics.NewBasis()
	out := make([]FileResult, len(paths))
	for i, path := range paths {
		r := results[i]
		if !r.bag.HasErrors() {
			emit(opts.Progress, path, StageElaborate, StatusWorking)
			basis = statics.Elaborate(r.mod, basis, diag.BagReporter{Bag: r.bag})
		}
		if r.bag.HasErrors() {
			emit(opts.Progress, path, StageElaborate, StatusError)
		} else {
			emit(opts.Progress, path, StageElaborate, StatusDone)
		}
		out[i] = FileResult{Path: path, Tree: r.tree, HIR: r.mod, Bag: r.bag}
	}

	return &CheckResult{FileSet: fs, Files: out, Basis: basis}, nil
}
