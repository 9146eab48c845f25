package hir

// Ty is a surface type expression as written by the programmer, distinct
// from internal/statics.Ty (the elaborated semantic type); HIR types are
// just structured syntax statics reads, never mutated once built.
type Ty interface{ tyNode() }

// TyNone marks a missing type annotation.
type TyNone struct{}

type TyVar struct{ Name Name }

// TyCon is a type constructor applied to zero or more argument types
// (`int`, `int list`, `(int, bool) pair`).
type TyCon struct {
	Path Path
	Args []TyIdx
}

type TyRecordField struct {
	Label Label
	Ty    TyIdx
}

// TyRecord matches a record/tuple type; tuple types desugar into one with
// numeric labels 1..n, the same convention used by Exp/Pat records.
type TyRecord struct{ Fields []TyRecordField }

type TyFn struct{ Arg, Res TyIdx }

func (TyNone) tyNode()   {}
func (TyVar) tyNode()    {}
func (TyCon) tyNode()    {}
func (TyRecord) tyNode() {}
func (TyFn) tyNode()     {}
