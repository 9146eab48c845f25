package hir

import (
	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

func (lw *lowerer) lowerDec(n cst.Node) DecIdx {
	if !n.Valid() {
		return NoDecIdx
	}
	switch n.Kind() {
	case cst.KDecVal:
		return lw.lowerDecVal(n)
	case cst.KDecFun:
		return lw.lowerDecFun(n)
	case cst.KDecType:
		return lw.lowerDecType(n)
	case cst.KDecDatatype:
		return lw.lowerDecDatatype(n)
	case cst.KDecDatatypeRepl:
		return lw.lowerDecDatatypeRepl(n)
	case cst.KDecAbstype:
		return lw.lowerDecAbstype(n)
	case cst.KDecException:
		return lw.lowerDecException(n)
	case cst.KDecOpen:
		return lw.lowerDecOpen(n)
	case cst.KDecLocal:
		return lw.lowerDecLocal(n)
	case cst.KDecSeq:
		return lw.lowerDecSeq(n)
	case cst.KDecInfix, cst.KDecInfixr, cst.KDecNonfix:
		// Fully consumed by the CST parser already (it mutates the live
		// fixity table as it goes); no HIR node carries runtime meaning.
		return lw.newDec(n, DecEmpty{})
	case cst.KDecEmpty:
		return lw.newDec(n, DecEmpty{})
	case cst.KError:
		return lw.newDec(n, DecEmpty{})
	default:
		lw.report(diag.LowUnsupportedConstruct, n, "unsupported declaration form")
		return lw.newDec(n, DecEmpty{})
	}
}

func (lw *lowerer) lowerDecVal(n cst.Node) DecIdx {
	rec := false
	for _, t := range n.Tokens() {
		if t.Kind == token.KwRec {
			rec = true
		}
	}
	var binds []ValBind
	for _, vb := range n.ChildrenOfKind(cst.KValBind) {
		kids := vb.ChildNodes()
		if len(kids) != 2 {
			continue
		}
		binds = append(binds, ValBind{Pat: lw.lowerPat(kids[0]), Rhs: lw.lowerExp(kids[1])})
	}
	return lw.newDec(n, DecVal{Rec: rec, Binds: binds})
}

// splitOptionalTyVarSeq peels a leading KTyVarSeq node off kids, if present.
func (lw *lowerer) splitOptionalTyVarSeq(kids []cst.Node) ([]Name, []cst.Node) {
	if len(kids) > 0 && kids[0].Kind() == cst.KTyVarSeq {
		return lw.lowerTyVarSeqNode(kids[0]), kids[1:]
	}
	return nil, kids
}

func (lw *lowerer) lowerTyVarSeqNode(n cst.Node) []Name {
	var names []Name
	for _, t := range n.Tokens() {
		if t.Kind == token.TyVar {
			names = append(names, Name(t.Text))
		}
	}
	return names
}

func firstIdentText(toks []token.Token) Name {
	for _, t := range toks {
		switch t.Kind {
		case token.KwOp, token.Eq, token.Colon, token.ColonGt, token.KwOf, token.KwDatatype:
			continue
		}
		return Name(t.Text)
	}
	return ""
}

func (lw *lowerer) lowerTypBind(tb cst.Node) TypBind {
	kids := tb.ChildNodes()
	tyVars, rest := lw.splitOptionalTyVarSeq(kids)
	var tyNode cst.Node
	if len(rest) > 0 {
		tyNode = rest[0]
	}
	return TypBind{TyVars: tyVars, Name: firstIdentText(tb.Tokens()), Ty: lw.lowerTy(tyNode)}
}

func (lw *lowerer) lowerDecType(n cst.Node) DecIdx {
	var binds []TypBind
	for _, tb := range n.ChildrenOfKind(cst.KTypBind) {
		binds = append(binds, lw.lowerTypBind(tb))
	}
	return lw.newDec(n, DecType{Binds: binds})
}

func (lw *lowerer) lowerConBind(cb cst.Node) ConBind {
	kids := cb.ChildNodes()
	arg := NoTyIdx
	if len(kids) == 1 {
		arg = lw.lowerTy(kids[0])
	}
	return ConBind{Name: firstIdentText(cb.Tokens()), Arg: arg}
}

func (lw *lowerer) lowerDatBind(db cst.Node) DatBind {
	kids := db.ChildNodes()
	tyVars, rest := lw.splitOptionalTyVarSeq(kids)
	var cons []ConBind
	for _, cb := range rest {
		if cb.Kind() == cst.KConBind {
			cons = append(cons, lw.lowerConBind(cb))
		}
	}
	return DatBind{TyVars: tyVars, Name: firstIdentText(db.Tokens()), Cons: cons}
}

func (lw *lowerer) lowerDecDatatype(n cst.Node) DecIdx {
	var binds []DatBind
	var withType []TypBind
	for _, k := range n.ChildNodes() {
		switch k.Kind() {
		case cst.KDatBind:
			binds = append(binds, lw.lowerDatBind(k))
		case cst.KTypBind:
			withType = append(withType, lw.lowerTypBind(k))
		}
	}
	return lw.newDec(n, DecDatatype{Binds: binds, WithType: withType})
}

func (lw *lowerer) lowerDecDatatypeRepl(n cst.Node) DecIdx {
	kids := n.ChildNodes()
	if len(kids) != 1 {
		return lw.newDec(n, DecEmpty{})
	}
	return lw.newDec(n, DecDatatypeRepl{Name: firstIdentText(n.Tokens()), Rhs: lowerPath(kids[0])})
}

func (lw *lowerer) lowerDecAbstype(n cst.Node) DecIdx {
	kids := n.ChildNodes()
	if len(kids) == 0 {
		return lw.newDec(n, DecEmpty{})
	}
	body := kids[len(kids)-1]
	rest := kids[:len(kids)-1]
	var binds []DatBind
	var withType []TypBind
	for _, k := range rest {
		switch k.Kind() {
		case cst.KDatBind:
			binds = append(binds, lw.lowerDatBind(k))
		case cst.KTypBind:
			withType = append(withType, lw.lowerTypBind(k))
		}
	}
	return lw.newDec(n, DecAbstype{Binds: binds, WithType: withType, Body: lw.lowerDec(body)})
}

func (lw *lowerer) lowerExBind(eb cst.Node) ExBind {
	switch eb.Kind() {
	case cst.KExBindRepl:
		kids := eb.ChildNodes()
		arg := Path{}
		if len(kids) == 1 {
			arg = lowerPath(kids[0])
		}
		return ExBind{Name: firstIdentText(eb.Tokens()), Rhs: arg}
	default:
		kids := eb.ChildNodes()
		arg := NoTyIdx
		if len(kids) == 1 {
			arg = lw.lowerTy(kids[0])
		}
		return ExBind{Name: firstIdentText(eb.Tokens()), Arg: arg}
	}
}

func (lw *lowerer) lowerDecException(n cst.Node) DecIdx {
	var binds []ExBind
	for _, eb := range n.ChildNodes() {
		if eb.Kind() == cst.KExBind || eb.Kind() == cst.KExBindRepl {
			binds = append(binds, lw.lowerExBind(eb))
		}
	}
	return lw.newDec(n, DecException{Binds: binds})
}

func (lw *lowerer) lowerDecOpen(n cst.Node) DecIdx {
	var paths []Path
	for _, p := range n.ChildNodes() {
		paths = append(paths, lowerPath(p))
	}
	return lw.newDec(n, DecOpen{Paths: paths})
}

func (lw *lowerer) lowerDecLocal(n cst.Node) DecIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.newDec(n, DecEmpty{})
	}
	return lw.newDec(n, DecLocal{First: lw.lowerDec(kids[0]), Body: lw.lowerDec(kids[1])})
}

func (lw *lowerer) lowerDecSeq(n cst.Node) DecIdx {
	var decs []DecIdx
	for _, d := range n.ChildNodes() {
		decs = append(decs, lw.lowerDec(d))
	}
	return lw.newDec(n, DecSeq{Decs: decs})
}

// lowerFunClause extracts one "[op] vid atpat+ [: ty] = exp" clause. Name
// comes from the clause's direct tokens (filtering "op"/":"/"="); argument
// patterns and the optional return type/body come from its node children,
// in order, with the body expression always last.
func (lw *lowerer) lowerFunClause(rule cst.Node) (Name, []PatIdx, ExpIdx) {
	name := firstIdentText(rule.Tokens())
	kids := rule.ChildNodes()
	if len(kids) == 0 {
		return name, nil, lw.holeExp(rule)
	}
	body := lw.lowerExp(kids[len(kids)-1])
	rest := kids[:len(kids)-1]
	if _, ok := rule.TokenOfKind(token.Colon); ok && len(rest) > 0 {
		rest = rest[:len(rest)-1] // drop the return-type annotation node
	}
	args := make([]PatIdx, 0, len(rest))
	for _, a := range rest {
		args = append(args, lw.lowerPat(a))
	}
	return name, args, body
}

// lowerDecFun rewrites every clause group into a single "val rec" binding:
// curried fn parameters wrapping a case over a tuple of those parameters,
// matched against each clause's argument patterns in order. This is the one
// place "fun" ever needs to be understood; everything downstream only ever
// sees the resulting DecVal.
func (lw *lowerer) lowerDecFun(n cst.Node) DecIdx {
	var binds []ValBind
	for _, fb := range n.ChildrenOfKind(cst.KFunBind) {
		clauses := fb.ChildrenOfKind(cst.KFunClause)
		if len(clauses) == 0 {
			continue
		}
		type clauseInfo struct {
			args []PatIdx
			body ExpIdx
		}
		var parsed []clauseInfo
		var fname Name
		arity := -1
		for i, cl := range clauses {
			name, args, body := lw.lowerFunClause(cl)
			if i == 0 {
				fname, arity = name, len(args)
			} else {
				if name != fname {
					lw.report(diag.LowFunClauseNameMismatch, cl, "every clause of a function binding must use the same name")
				}
				if len(args) != arity {
					lw.report(diag.LowFunClauseArityMismatch, cl, "every clause of a function binding must take the same number of arguments")
				}
			}
			parsed = append(parsed, clauseInfo{args: args, body: body})
		}
		if arity < 0 {
			arity = 0
		}

		params := make([]Name, arity)
		for i := range params {
			params[i] = lw.fresh.next(string(fname))
		}

		var scrut ExpIdx
		if arity == 1 {
			scrut = lw.newExp(fb, ExpPath{Path: PathOf(params[0])})
		} else {
			var fields []ExpRecordField
			for i, v := range params {
				fields = append(fields, ExpRecordField{Label: NumericLabel(uint32(i + 1)), Value: lw.newExp(fb, ExpPath{Path: PathOf(v)})})
			}
			scrut = lw.newExp(fb, ExpRecord{Fields: fields})
		}

		var rules []MatchRule
		for _, pc := range parsed {
			var pat PatIdx
			switch {
			case arity == 1 && len(pc.args) > 0:
				pat = pc.args[0]
			case arity == 1:
				pat = lw.newPat(fb, PatWild{})
			default:
				var pfields []PatRecordField
				for i := 0; i < arity; i++ {
					v := PatIdx(lw.newPat(fb, PatWild{}))
					if i < len(pc.args) {
						v = pc.args[i]
					}
					pfields = append(pfields, PatRecordField{Label: NumericLabel(uint32(i + 1)), Value: v})
				}
				pat = lw.newPat(fb, PatRecord{Fields: pfields})
			}
			rules = append(rules, MatchRule{Pat: pat, Body: pc.body})
		}

		body := lw.newExp(fb, ExpApp{Func: lw.newExp(fb, ExpFn{Match: Match{Rules: rules}}), Arg: scrut})
		for i := arity - 1; i >= 0; i-- {
			vp := lw.newPat(fb, PatCon{Path: PathOf(params[i])})
			body = lw.newExp(fb, ExpFn{Match: Match{Rules: []MatchRule{{Pat: vp, Body: body}}}})
		}
		binds = append(binds, ValBind{Pat: lw.newPat(fb, PatCon{Path: PathOf(fname)}), Rhs: body})
	}
	return lw.newDec(n, DecVal{Rec: true, Binds: binds})
}
