package hir

import (
	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

func (lw *lowerer) lowerPat(n cst.Node) PatIdx {
	if !n.Valid() {
		return NoPatIdx
	}
	switch n.Kind() {
	case cst.KPatWild:
		return lw.newPat(n, PatWild{})
	case cst.KPatScon:
		toks := n.Tokens()
		if len(toks) == 0 {
			return lw.holePat(n)
		}
		return lw.newPat(n, PatScon{Value: lowerSCon(toks[0], lw.rep)})
	case cst.KPatCon:
		return lw.lowerPatCon(n)
	case cst.KPatRecord:
		return lw.lowerPatRecord(n)
	case cst.KPatParen:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.holePat(n)
		}
		return lw.lowerPat(kids[0])
	case cst.KPatTuple:
		return lw.lowerPatTuple(n)
	case cst.KPatList:
		return lw.lowerPatList(n)
	case cst.KPatTyped:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return lw.holePat(n)
		}
		pat := lw.lowerPat(kids[0])
		ty := lw.lowerTy(kids[1])
		return lw.newPat(n, PatTyped{Pat: pat, Ty: ty})
	case cst.KPatAs:
		return lw.lowerPatAs(n)
	case cst.KPatOrInfix:
		return lw.lowerPatInfix(n)
	default:
		return lw.holePat(n)
	}
}

func (lw *lowerer) lowerPatCon(n cst.Node) PatIdx {
	kids := n.ChildNodes()
	if len(kids) == 0 {
		return lw.holePat(n)
	}
	path := lowerPath(kids[0])
	arg := NoPatIdx
	if len(kids) > 1 {
		arg = lw.lowerPat(kids[1])
	}
	return lw.newPat(n, PatCon{Path: path, Arg: arg})
}

func (lw *lowerer) lowerPatRecord(n cst.Node) PatIdx {
	var fields []PatRecordField
	rest := false
	for _, tok := range n.Tokens() {
		if tok.Kind == token.Ellipsis {
			rest = true
		}
	}
	for _, row := range n.ChildrenOfKind(cst.KPatRecordRow) {
		fields = append(fields, lw.lowerPatRecordRow(row))
	}
	return lw.newPat(n, PatRecord{Fields: fields, Rest: rest})
}

// lowerPatRecordRow handles the genuine "lab = pat" row and the punning
// short forms ("vid" and "vid : ty"), which parse but are not supported -
// see LowUnsupportedRowPunning.
func (lw *lowerer) lowerPatRecordRow(row cst.Node) PatRecordField {
	kids := row.ChildNodes()
	if len(kids) == 0 {
		return PatRecordField{}
	}
	lab := lowerLabel(kids[0], lw)
	if _, ok := row.TokenOfKind(token.Eq); ok && len(kids) == 2 {
		return PatRecordField{Label: lab, Value: lw.lowerPat(kids[1])}
	}
	lw.report(diag.LowUnsupportedRowPunning, row, "record pattern field punning is not supported")
	val := lw.newPat(row, PatCon{Path: PathOf(Name(lab.String()))})
	if _, ok := row.TokenOfKind(token.Colon); ok && len(kids) == 2 {
		ty := lw.lowerTy(kids[1])
		val = lw.newPat(row, PatTyped{Pat: val, Ty: ty})
	}
	return PatRecordField{Label: lab, Value: val}
}

// lowerPatTuple rewrites a tuple pattern into a record pattern with numeric
// labels 1..n, the convention shared by Exp/Pat/Ty records.
func (lw *lowerer) lowerPatTuple(n cst.Node) PatIdx {
	elems := n.ChildNodes()
	if len(elems) == 1 {
		lw.report(diag.LowOneTupleForbidden, n, "a 1-tuple is not a valid pattern")
	}
	var fields []PatRecordField
	for i, el := range elems {
		fields = append(fields, PatRecordField{Label: NumericLabel(uint32(i + 1)), Value: lw.lowerPat(el)})
	}
	return lw.newPat(n, PatRecord{Fields: fields})
}

// lowerPatList rewrites "[p1, p2, ..., pn]" into the right-folded
// constructor chain "p1 :: p2 :: ... :: pn :: nil".
func (lw *lowerer) lowerPatList(n cst.Node) PatIdx {
	elems := n.ChildNodes()
	tail := lw.newPat(n, PatCon{Path: PathOf("nil")})
	for i := len(elems) - 1; i >= 0; i-- {
		head := lw.lowerPat(elems[i])
		consArg := lw.newPat(n, PatRecord{Fields: []PatRecordField{
			{Label: NumericLabel(1), Value: head},
			{Label: NumericLabel(2), Value: tail},
		}})
		tail = lw.newPat(n, PatCon{Path: PathOf("::"), Arg: consArg})
	}
	return tail
}

// lowerPatAs requires the left side to reduce to a plain (optionally typed)
// variable binder, matching the Definition's "vid [: ty] as pat" grammar;
// anything more complex on the left is flagged rather than silently dropped.
func (lw *lowerer) lowerPatAs(n cst.Node) PatIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.holePat(n)
	}
	leftIdx := lw.lowerPat(kids[0])
	rightIdx := lw.lowerPat(kids[1])
	name, ty, ok := lw.asBinder(leftIdx)
	if !ok {
		lw.report(diag.LowUnsupportedConstruct, n, "left side of an \"as\" pattern must be a variable")
	}
	return lw.newPat(n, PatAs{Name: name, Ty: ty, Pat: rightIdx})
}

// asBinder reports whether idx names a plain variable pattern, possibly
// wrapped in a single type ascription, and returns the bound name and type.
func (lw *lowerer) asBinder(idx PatIdx) (Name, TyIdx, bool) {
	p := lw.mod.Pats.Get(uint32(idx))
	if p == nil {
		return "", NoTyIdx, false
	}
	switch v := (*p).(type) {
	case PatTyped:
		name, _, ok := lw.asBinder(v.Pat)
		return name, v.Ty, ok
	case PatCon:
		if v.Arg == NoPatIdx && len(v.Path.Qualifiers) == 0 {
			return v.Path.Last, NoTyIdx, true
		}
	}
	return "", NoTyIdx, false
}

// lowerPatInfix rewrites a resolved infix-constructor pattern ("x :: xs")
// into an ordinary PatCon applied to a 2-field tuple, the same shape an
// explicit prefix application would produce.
func (lw *lowerer) lowerPatInfix(n cst.Node) PatIdx {
	kids := n.ChildNodes()
	toks := n.Tokens()
	if len(kids) != 2 || len(toks) == 0 {
		return lw.holePat(n)
	}
	left := lw.lowerPat(kids[0])
	right := lw.lowerPat(kids[1])
	arg := lw.newPat(n, PatRecord{Fields: []PatRecordField{
		{Label: NumericLabel(1), Value: left},
		{Label: NumericLabel(2), Value: right},
	}})
	return lw.newPat(n, PatCon{Path: PathOf(Name(toks[0].Text)), Arg: arg})
}
