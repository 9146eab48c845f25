package hir

import (
	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// lowerExp converts one surface expression. Every derived form (if, while,
// case, andalso, orelse, tuples, lists, sequences, selectors) is rewritten
// here into the ten ExpX primitives in exp.go; nothing past this point ever
// sees the surface shape again.
func (lw *lowerer) lowerExp(n cst.Node) ExpIdx {
	if !n.Valid() {
		return NoExpIdx
	}
	switch n.Kind() {
	case cst.KExpScon:
		toks := n.Tokens()
		if len(toks) == 0 {
			return lw.holeExp(n)
		}
		return lw.newExp(n, ExpScon{Value: lowerSCon(toks[0], lw.rep)})
	case cst.KExpPath, cst.KExpOp:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.holeExp(n)
		}
		return lw.newExp(n, ExpPath{Path: lowerPath(kids[0])})
	case cst.KExpRecord:
		return lw.lowerExpRecord(n)
	case cst.KExpSelector:
		return lw.lowerExpSelector(n)
	case cst.KExpParen:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.holeExp(n)
		}
		return lw.lowerExp(kids[0])
	case cst.KExpTuple:
		return lw.lowerExpTuple(n)
	case cst.KExpList:
		return lw.lowerExpList(n)
	case cst.KExpSeq:
		return lw.lowerExpSeqNode(n)
	case cst.KExpLet:
		return lw.lowerExpLet(n)
	case cst.KExpApp:
		return lw.lowerExpApp(n)
	case cst.KExpInfixApp:
		return lw.lowerExpInfix(n)
	case cst.KExpAndalso:
		return lw.lowerExpAndAlso(n)
	case cst.KExpOrelse:
		return lw.lowerExpOrElse(n)
	case cst.KExpHandle:
		return lw.lowerExpHandle(n)
	case cst.KExpRaise:
		kids := n.ChildNodes()
		if len(kids) != 1 {
			return lw.holeExp(n)
		}
		return lw.newExp(n, ExpRaise{Exp: lw.lowerExp(kids[0])})
	case cst.KExpIf:
		return lw.lowerExpIf(n)
	case cst.KExpWhile:
		return lw.lowerExpWhile(n)
	case cst.KExpCase:
		return lw.lowerExpCase(n)
	case cst.KExpFn:
		return lw.lowerExpFn(n)
	case cst.KExpTyped:
		kids := n.ChildNodes()
		if len(kids) != 2 {
			return lw.holeExp(n)
		}
		return lw.newExp(n, ExpTyped{Exp: lw.lowerExp(kids[0]), Ty: lw.lowerTy(kids[1])})
	default:
		return lw.holeExp(n)
	}
}

func (lw *lowerer) lowerExpRecord(n cst.Node) ExpIdx {
	var fields []ExpRecordField
	for _, row := range n.ChildrenOfKind(cst.KExpRecordRow) {
		kids := row.ChildNodes()
		if len(kids) != 2 {
			continue
		}
		fields = append(fields, ExpRecordField{Label: lowerLabel(kids[0], lw), Value: lw.lowerExp(kids[1])})
	}
	return lw.newExp(n, ExpRecord{Fields: fields})
}

// lowerExpSelector rewrites "#lab" into "fn {lab = x, ...} => x" for a
// fresh x, the standard encoding of a record field selector as a function.
func (lw *lowerer) lowerExpSelector(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 1 {
		return lw.holeExp(n)
	}
	lab := lowerLabel(kids[0], lw)
	x := lw.fresh.next("sel")
	pat := lw.newPat(n, PatRecord{Fields: []PatRecordField{
		{Label: lab, Value: lw.newPat(n, PatCon{Path: PathOf(x)})},
	}, Rest: true})
	body := lw.newExp(n, ExpPath{Path: PathOf(x)})
	return lw.newExp(n, ExpFn{Match: Match{Rules: []MatchRule{{Pat: pat, Body: body}}}})
}

// lowerExpTuple rewrites "(e1, ..., en)" into a record expression with
// numeric labels 1..n; "()" is the 0-field record, i.e. unit.
func (lw *lowerer) lowerExpTuple(n cst.Node) ExpIdx {
	elems := n.ChildNodes()
	var fields []ExpRecordField
	for i, el := range elems {
		fields = append(fields, ExpRecordField{Label: NumericLabel(uint32(i + 1)), Value: lw.lowerExp(el)})
	}
	return lw.newExp(n, ExpRecord{Fields: fields})
}

// lowerExpList rewrites "[e1, ..., en]" into the right-folded constructor
// chain "e1 :: e2 :: ... :: en :: nil".
func (lw *lowerer) lowerExpList(n cst.Node) ExpIdx {
	elems := n.ChildNodes()
	tail := lw.newExp(n, ExpPath{Path: PathOf("nil")})
	for i := len(elems) - 1; i >= 0; i-- {
		head := lw.lowerExp(elems[i])
		pairIdx := lw.newExp(n, ExpRecord{Fields: []ExpRecordField{
			{Label: NumericLabel(1), Value: head},
			{Label: NumericLabel(2), Value: tail},
		}})
		consIdx := lw.newExp(n, ExpPath{Path: PathOf("::")})
		tail = lw.newExp(n, ExpApp{Func: consIdx, Arg: pairIdx})
	}
	return tail
}

// lowerExpSeqNode lowers a parenthesized "(e1; e2; ...; en)" sequence.
func (lw *lowerer) lowerExpSeqNode(n cst.Node) ExpIdx {
	return lw.lowerSeq(n, n.ChildNodes())
}

// lowerSeq right-folds a sequence of expressions into nested
// "case e_k of _ => rest" applications, evaluating every element but the
// last purely for effect.
func (lw *lowerer) lowerSeq(n cst.Node, elems []cst.Node) ExpIdx {
	if len(elems) == 0 {
		return lw.newExp(n, ExpRecord{})
	}
	result := lw.lowerExp(elems[len(elems)-1])
	for i := len(elems) - 2; i >= 0; i-- {
		e := lw.lowerExp(elems[i])
		wild := lw.newPat(n, PatWild{})
		fn := lw.newExp(n, ExpFn{Match: Match{Rules: []MatchRule{{Pat: wild, Body: result}}}})
		result = lw.newExp(n, ExpApp{Func: fn, Arg: e})
	}
	return result
}

// lowerExpLet lowers "let dec in e1; e2; ...; en end"; multiple body
// expressions (separated by ";") fold the same way a bare sequence does.
func (lw *lowerer) lowerExpLet(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) < 2 {
		return lw.holeExp(n)
	}
	dec := lw.lowerDec(kids[0])
	body := lw.lowerSeq(n, kids[1:])
	return lw.newExp(n, ExpLet{Dec: dec, Body: body})
}

func (lw *lowerer) lowerExpApp(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.holeExp(n)
	}
	return lw.newExp(n, ExpApp{Func: lw.lowerExp(kids[0]), Arg: lw.lowerExp(kids[1])})
}

// lowerExpInfix rewrites a resolved infix application ("x + y") into
// ordinary prefix application of the operator to a 2-field tuple, the
// encoding every infix identifier is given in the value environment.
func (lw *lowerer) lowerExpInfix(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	toks := n.Tokens()
	if len(kids) != 2 || len(toks) == 0 {
		return lw.holeExp(n)
	}
	left := lw.lowerExp(kids[0])
	right := lw.lowerExp(kids[1])
	pair := lw.newExp(n, ExpRecord{Fields: []ExpRecordField{
		{Label: NumericLabel(1), Value: left},
		{Label: NumericLabel(2), Value: right},
	}})
	op := lw.newExp(n, ExpPath{Path: PathOf(Name(toks[0].Text))})
	return lw.newExp(n, ExpApp{Func: op, Arg: pair})
}

// boolCaseExp builds "case scrut of true => onTrue | false => onFalse",
// itself immediately lowered again into ExpApp(ExpFn(...), scrut) - the
// single desugaring every one of if/andalso/orelse bottoms out in.
func (lw *lowerer) boolCaseExp(n cst.Node, scrut ExpIdx, onTrue, onFalse ExpIdx) ExpIdx {
	truePat := lw.newPat(n, PatCon{Path: PathOf("true")})
	falsePat := lw.newPat(n, PatCon{Path: PathOf("false")})
	match := Match{Rules: []MatchRule{{Pat: truePat, Body: onTrue}, {Pat: falsePat, Body: onFalse}}}
	fn := lw.newExp(n, ExpFn{Match: match})
	return lw.newExp(n, ExpApp{Func: fn, Arg: scrut})
}

func (lw *lowerer) lowerExpIf(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 3 {
		return lw.holeExp(n)
	}
	cond := lw.lowerExp(kids[0])
	thenE := lw.lowerExp(kids[1])
	elseE := lw.lowerExp(kids[2])
	return lw.boolCaseExp(n, cond, thenE, elseE)
}

// lowerExpAndAlso rewrites "e1 andalso e2" as "if e1 then e2 else false".
func (lw *lowerer) lowerExpAndAlso(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.holeExp(n)
	}
	left := lw.lowerExp(kids[0])
	right := lw.lowerExp(kids[1])
	falseE := lw.newExp(n, ExpPath{Path: PathOf("false")})
	return lw.boolCaseExp(n, left, right, falseE)
}

// lowerExpOrElse rewrites "e1 orelse e2" as "if e1 then true else e2".
func (lw *lowerer) lowerExpOrElse(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.holeExp(n)
	}
	left := lw.lowerExp(kids[0])
	right := lw.lowerExp(kids[1])
	trueE := lw.newExp(n, ExpPath{Path: PathOf("true")})
	return lw.boolCaseExp(n, left, trueE, right)
}

func (lw *lowerer) lowerExpHandle(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.holeExp(n)
	}
	body := lw.lowerExp(kids[0])
	match := lw.lowerMatch(kids[1])
	return lw.newExp(n, ExpHandle{Body: body, Match: match})
}

// lowerExpWhile rewrites "while e1 do e2" as:
//
//	let val rec v = fn () => if e1 then (e2; v ()) else () in v () end
//
// for a fresh v, so statics never has to model iteration specially.
func (lw *lowerer) lowerExpWhile(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.holeExp(n)
	}
	cond := lw.lowerExp(kids[0])
	body := lw.lowerExp(kids[1])

	v := lw.fresh.next("while")
	unitPat := lw.newPat(n, PatRecord{})
	unitExp := lw.newExp(n, ExpRecord{})

	vCall := lw.newExp(n, ExpApp{
		Func: lw.newExp(n, ExpPath{Path: PathOf(v)}),
		Arg:  unitExp,
	})
	bodyThenRecur := lw.newExp(n, ExpApp{
		Func: lw.newExp(n, ExpFn{Match: Match{Rules: []MatchRule{{Pat: lw.newPat(n, PatWild{}), Body: vCall}}}}),
		Arg:  body,
	})
	loopBody := lw.boolCaseExp(n, cond, bodyThenRecur, unitExp)
	fn := lw.newExp(n, ExpFn{Match: Match{Rules: []MatchRule{{Pat: unitPat, Body: loopBody}}}})

	vPat := lw.newPat(n, PatCon{Path: PathOf(v)})
	dec := lw.newDec(n, DecVal{Rec: true, Binds: []ValBind{{Pat: vPat, Rhs: fn}}})
	callV := lw.newExp(n, ExpApp{Func: lw.newExp(n, ExpPath{Path: PathOf(v)}), Arg: unitExp})
	return lw.newExp(n, ExpLet{Dec: dec, Body: callV})
}

// lowerExpCase rewrites "case e of m" as "(fn m) e".
func (lw *lowerer) lowerExpCase(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 2 {
		return lw.holeExp(n)
	}
	scrut := lw.lowerExp(kids[0])
	match := lw.lowerMatch(kids[1])
	fn := lw.newExp(n, ExpFn{Match: match})
	return lw.newExp(n, ExpApp{Func: fn, Arg: scrut})
}

func (lw *lowerer) lowerExpFn(n cst.Node) ExpIdx {
	kids := n.ChildNodes()
	if len(kids) != 1 {
		return lw.holeExp(n)
	}
	return lw.newExp(n, ExpFn{Match: lw.lowerMatch(kids[0])})
}

func (lw *lowerer) lowerMatch(n cst.Node) Match {
	var rules []MatchRule
	ruleNodes := n.ChildrenOfKind(cst.KMatchRule)
	if bar, ok := n.TokenOfKind(token.Bar); ok && len(ruleNodes) > 0 && bar.Span.Start < ruleNodes[0].Span().Start {
		lw.report(diag.LowPrecedingBar, n, "a leading '|' before the first match rule is not permitted")
	}
	for _, rule := range ruleNodes {
		kids := rule.ChildNodes()
		if len(kids) != 2 {
			continue
		}
		rules = append(rules, MatchRule{Pat: lw.lowerPat(kids[0]), Body: lw.lowerExp(kids[1])})
	}
	return Match{Rules: rules}
}
