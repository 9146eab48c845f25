// Package driver wires the lex/parse/lower/elaborate phases into
// path-based entry points for cmd/smlcheck: one-shot tokenize/parse
// inspection, and the full "check" pipeline over a project's files.
package driver

import (
	"fmt"

	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
	"smlcheck/internal/source"
	"smlcheck/internal/statics"
	"smlcheck/internal/tyvarscope"
)

// FileResult holds every intermediate artifact produced while checking one
// file, so callers (tests, the "check" command) can inspect any stage
// without re-running it.
type FileResult struct {
	Path   string
	Tree   *cst.Tree
	HIR    *hir.Module
	Bag    *diag.Bag
	Cached bool // true when Bag was served from the disk cache
}

// CheckOptions configures a Check/CheckFile run.
type CheckOptions struct {
	MaxDiagnostics int // per-file diagnostic cap; 0 means DefaultMaxDiagnostics
	Cache          *DiskCache
	Progress       ProgressSink // optional; see progress.go
}

// DefaultMaxDiagnostics is used when CheckOptions.MaxDiagnostics is 0.
const DefaultMaxDiagnostics = 200

// CheckResult is the outcome of checking an ordered set of files.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
	Basis   *statics.Basis
}

// frontend runs the phases that are independent of every other file: lex,
// parse, lower, and tyvarscope resolution. It never touches statics, so it
// is safe to run concurrently across files; see parallel.go.
func frontend(file *source.File, maxDiagnostics int) (*cst.Tree, *hir.Module, *diag.Bag) {
	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	tree := cst.Parse(file, rep)
	mod := hir.Lower(tree, rep)
	tyvarscope.Resolve(mod)
	return tree, mod, bag
}

// Check runs the full pipeline over paths in order, threading a single
// *statics.Basis from file to file so later files see earlier files'
// top-level bindings, the way declarations in one SML source file are
// visible to the declarations that follow it.
//
// Elaboration is strictly sequential: let-polymorphism generalization
// depends on the basis accumulated so far, so files cannot be elaborated
// out of order or concurrently. Front-end work (lex/parse/lower/tyvarscope)
// has no such dependency; CheckParallel in parallel.go exploits that split.
//
// The disk cache is not consulted here: a cache entry keyed only on file
// content would be unsound once the basis a file elaborates against can
// vary run to run. CheckFile, which always starts from the fixed initial
// basis, uses the cache safely.
func Check(paths []string, opts CheckOptions) (*CheckResult, error) {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics == 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}

	fs := source.NewFileSet()
	basis := statics.NewBasis()

	results := make([]FileResult, len(paths))
	for i, path := range paths {
		fileID, err := fs.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		file := fs.Get(fileID)

		emit(opts.Progress, path, StageParse, StatusWorking)
		tree, mod, bag := frontend(file, maxDiagnostics)
		emit(opts.Progress, path, StageLower, StatusWorking)
		if !bag.HasErrors() {
			emit(opts.Progress, path, StageElaborate, StatusWorking)
			basis = statics.Elaborate(mod, basis, diag.BagReporter{Bag: bag})
		}
		if bag.HasErrors() {
			emit(opts.Progress, path, StageElaborate, StatusError)
		} else {
			emit(opts.Progress, path, StageElaborate, StatusDone)
		}
		results[i] = FileResult{Path: path, Tree: tree, HIR: mod, Bag: bag}
	}

	return &CheckResult{FileSet: fs, Files: results, Basis: basis}, nil
}

// CheckFile runs the full pipeline over a single file against the fixed
// initial basis (statics.NewBasis()), the common case of checking one
// script or one editor buffer in isolation. Because the starting basis
// never varies, a cache entry keyed on the file's content hash alone is
// sound, unlike in the multi-file Check fold above.
func CheckFile(path string, opts CheckOptions) (*FileResult, *source.FileSet, error) {
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics == 0 {
		maxDiagnostics = DefaultMaxDiagnostics
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	file := fs.Get(fileID)

	if opts.Cache != nil {
		if bag, ok, cacheErr := opts.Cache.lookup(file); cacheErr == nil && ok {
			return &FileResult{Path: path, Bag: bag, Cached: true}, fs, nil
		}
	}

	tree, mod, bag := frontend(file, maxDiagnostics)
	if !bag.HasErrors() {
		statics.Elaborate(mod, statics.NewBasis(), diag.BagReporter{Bag: bag})
	}

	if opts.Cache != nil {
		opts.Cache.store(file, bag)
	}

	return &FileResult{Path: path, Tree: tree, HIR: mod, Bag: bag}, fs, nil
}
