package hir

// Pat mirrors Exp's shrunk-by-desugaring shape: tuple and list patterns
// become record/constructor-application patterns, just as their
// expression counterparts do.
type Pat interface{ patNode() }

// PatHole is a malformed/missing pattern (parse error recovery).
type PatHole struct{}

// PatWild is "_".
type PatWild struct{}

// PatScon matches a literal special constant.
type PatScon struct{ Value SCon }

// PatCon is a variable pattern (Arg absent) or constructor-application
// pattern (Arg present); which one it is cannot be decided until statics
// resolves Path against the value environment.
type PatCon struct {
	Path Path
	Arg  PatIdx // NoPatIdx if this is a plain variable/nullary-constructor pattern
}

// PatRecordField is one row of a record pattern.
type PatRecordField struct {
	Label Label
	Value PatIdx
}

// PatRecord matches a record; tuple patterns desugar into one with numeric
// labels 1..n. Rest marks a trailing "..." (partial record match).
type PatRecord struct {
	Fields []PatRecordField
	Rest   bool
}

// PatAs is "vid [: ty] as pat"; the bound name and any type ascription are
// folded in directly rather than via a separate Typed wrapper; Name is
// empty when the left side elaborates to a non-trivial pattern.
type PatAs struct {
	Name Name
	Ty   TyIdx // NoTyIdx if unannotated
	Pat  PatIdx
}

// PatTyped is "pat : ty".
type PatTyped struct {
	Pat PatIdx
	Ty  TyIdx
}

// PatOr is the SML/NJ "or-pattern" extension ("pat1 | pat2 | ..."), matching
// the first alternative that succeeds and requiring every alternative to
// bind the same set of names. The CST grammar (core Definition syntax only)
// never produces this node; it exists so statics has somewhere to go if a
// future grammar extension parses one, matching the sum type's listed shape.
type PatOr struct{ Alts []PatIdx }

func (PatHole) patNode()   {}
func (PatWild) patNode()   {}
func (PatScon) patNode()   {}
func (PatCon) patNode()    {}
func (PatRecord) patNode() {}
func (PatAs) patNode()     {}
func (PatTyped) patNode()  {}
func (PatOr) patNode()     {}
