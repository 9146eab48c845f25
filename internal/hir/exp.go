package hir

// Exp is any desugared expression form. Source-level sugar (tuples,
// lists, sequences, if/andalso/orelse/while, case, selectors) is rewritten
// during lowering into these ten primitives; nothing downstream of HIR
// ever needs to special-case the surface syntax again.
type Exp interface{ expNode() }

// ExpHole stands in for a malformed or missing expression (parse error
// recovery); statics assigns it a fresh meta-variable and moves on instead
// of refusing to elaborate the rest of the file.
type ExpHole struct{}

// ExpScon is a literal special constant.
type ExpScon struct{ Value SCon }

// ExpPath is a value identifier reference, qualified or not.
type ExpPath struct{ Path Path }

// ExpRecordField is one label/value pair of a record expression. Tuples
// desugar into an ExpRecord whose Fields carry numeric labels 1..n.
type ExpRecordField struct {
	Label Label
	Value ExpIdx
}

type ExpRecord struct{ Fields []ExpRecordField }

// ExpLet is "let dec in exp end". A source-level sequence "(e1; e2; ...)"
// is not an ExpLet: it is folded into nested ExpApp of "fn _ => exp" per
// the right-fold sequence rule (case ek of _ => e(k+1)).
type ExpLet struct {
	Dec  DecIdx
	Body ExpIdx
}

// ExpApp is application of Func to Arg. Multi-argument application and
// infix/curried application both desugar into a left-associated chain of
// these; record (tuple) arguments carry multiple operands as one ExpRecord.
type ExpApp struct{ Func, Arg ExpIdx }

// ExpHandle is "exp handle match".
type ExpHandle struct {
	Body  ExpIdx
	Match Match
}

// ExpRaise is "raise exp".
type ExpRaise struct{ Exp ExpIdx }

// ExpFn is "fn match"; if/case/andalso/orelse/while all bottom out here.
type ExpFn struct{ Match Match }

// ExpTyped is "exp : ty".
type ExpTyped struct {
	Exp ExpIdx
	Ty  TyIdx
}

func (ExpHole) expNode()   {}
func (ExpScon) expNode()   {}
func (ExpPath) expNode()   {}
func (ExpRecord) expNode() {}
func (ExpLet) expNode()    {}
func (ExpApp) expNode()    {}
func (ExpHandle) expNode() {}
func (ExpRaise) expNode()  {}
func (ExpFn) expNode()     {}
func (ExpTyped) expNode()  {}

// MatchRule is one "pat => exp" arm.
type MatchRule struct {
	Pat  PatIdx
	Body ExpIdx
}

// Match is a "|"-separated sequence of rules; it is not its own arena
// (unlike Exp/Pat/Ty/Dec and the four module-level forms) since it never
// needs to be referenced by a standalone Idx - it only ever appears nested
// directly inside the ExpFn/ExpHandle that owns it.
type Match struct{ Rules []MatchRule }
