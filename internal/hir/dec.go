package hir

// Dec is a core-level declaration after desugaring: "fun" has already been
// rewritten into a single recursive "val rec" binding over a "fn" whose
// body cases over a tuple of the clause arguments (see lower_dec.go), so
// DecVal is the only binding form statics ever has to generalize over.
type Dec interface{ decNode() }

type ValBind struct {
	Pat PatIdx
	Rhs ExpIdx
}

// DecVal is "val [rec] bind [and bind ...]"; Rec applies uniformly to the
// whole group (mutual recursion), matching how "fun" always desugars.
// TyVars starts empty at lowering time: an explicit type-variable sequence
// written on the dec ("val 'a f = ...") is parsed but not carried into the
// HIR. internal/tyvarscope fills TyVars in exactly once, after lowering
// completes for the whole file, with the implicitly scoped free variables
// it collects from the binding's patterns/expressions/types.
type DecVal struct {
	Rec    bool
	Binds  []ValBind
	TyVars []Name
}

type ConBind struct {
	Name Name
	Arg  TyIdx // NoTyIdx if the constructor is nullary
}

type DatBind struct {
	TyVars []Name
	Name   Name
	Cons   []ConBind
}

// DecDatatype introduces one or more mutually recursive datatypes, plus
// any "withtype" alias bindings sharing the same type-variable scope.
type DecDatatype struct {
	Binds    []DatBind
	WithType []TypBind
}

// DecDatatypeRepl is "datatype tycon = datatype longtycon" (a datatype
// replication, reusing another datatype's constructors under a new name).
type DecDatatypeRepl struct {
	Name Name
	Rhs  Path
}

type TypBind struct {
	TyVars []Name
	Name   Name
	Ty     TyIdx
}

type DecType struct{ Binds []TypBind }

// ExBind introduces a fresh exception constructor (Arg absent means
// nullary) or, when Rhs is set, renames an existing one.
type ExBind struct {
	Name Name
	Arg  TyIdx
	Rhs  Path // zero Path if this is a fresh declaration, not a replication
}

type DecException struct{ Binds []ExBind }

type DecOpen struct{ Paths []Path }

// DecAbstype hides its datatypes' representation from the rest of Body,
// exposing only the type name and whatever Body's trailing declarations
// add to scope.
type DecAbstype struct {
	Binds    []DatBind
	WithType []TypBind
	Body     DecIdx
}

type DecLocal struct{ First, Body DecIdx }

type DecSeq struct{ Decs []DecIdx }

type DecEmpty struct{}

func (DecVal) decNode()          {}
func (DecDatatype) decNode()     {}
func (DecDatatypeRepl) decNode() {}
func (DecType) decNode()         {}
func (DecException) decNode()    {}
func (DecOpen) decNode()         {}
func (DecAbstype) decNode()      {}
func (DecLocal) decNode()        {}
func (DecSeq) decNode()          {}
func (DecEmpty) decNode()        {}
