package driver

import (
	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/source"
)

// ParseResult is the output of running the parser alone over one file, for
// the "parse" subcommand.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *cst.Tree
	Bag     *diag.Bag
}

// Parse loads filePath and parses it to a concrete syntax tree without
// lowering or elaborating it.
func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	tree := cst.Parse(file, diag.BagReporter{Bag: bag})

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    tree,
		Bag:     bag,
	}, nil
}
