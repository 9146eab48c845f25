package cst

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// parseStrDecItem parses one item at structure-declaration level: a
// structure/signature/functor binding, a module-level local, a bare core
// declaration (wrapped so HIR can tell the two apart), or - at the top of a
// file, REPL-style - a bare expression, sugar for "val it = exp".
func (p *Parser) parseStrDecItem() NodeID {
	switch {
	case p.at(token.Semicolon):
		tok := p.bump()
		return p.b.MakeNode(KStrDecEmpty, tok)
	case p.at(token.KwStructure):
		return p.parseStrDecStructure()
	case p.at(token.KwSignature):
		return p.parseDecSignature()
	case p.at(token.KwFunctor):
		return p.parseDecFunctor()
	case p.at(token.KwLocal):
		return p.parseStrDecLocal()
	case p.canStartDec():
		d := p.parseDecItem()
		return p.b.MakeNode(KStrDecDec, NodeChild(d))
	case p.expAtomStart() || p.atAny(token.KwIf, token.KwWhile, token.KwCase, token.KwFn, token.KwRaise):
		e := p.parseExp()
		return p.b.MakeNode(KStrDecDec, NodeChild(e))
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected a declaration")
		skipped := p.skipTo(token.Semicolon, token.KwVal, token.KwFun, token.KwType,
			token.KwDatatype, token.KwStructure, token.KwSignature, token.KwFunctor,
			token.KwEnd, token.KwIn)
		if len(skipped) == 0 {
			skipped = []Child{p.bump()}
		}
		return p.b.MakeNode(KError, skipped...)
	}
}

func (p *Parser) parseStrDecStructure() NodeID {
	kw := p.expect(token.KwStructure)
	kids := []Child{kw}
	bind := p.parseStrBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseStrBind()
		kids = append(kids, NodeChild(bind))
	}
	return p.b.MakeNode(KStrDecStructure, kids...)
}

func (p *Parser) parseStrBind() NodeID {
	name := p.expect(token.Ident)
	kids := []Child{name}
	if p.at(token.Colon) || p.at(token.ColonGt) {
		op := p.bump()
		sig := p.parseSigExp()
		kids = append(kids, op, NodeChild(sig))
	}
	kids = append(kids, p.expect(token.Eq))
	strexp := p.parseStrExp()
	kids = append(kids, NodeChild(strexp))
	return p.b.MakeNode(KStrBind, kids...)
}

func (p *Parser) parseStrExp() NodeID {
	var base NodeID
	switch {
	case p.at(token.KwStruct):
		kw := p.bump()
		body := p.parseStrDecBody(token.KwEnd)
		end := p.expect(token.KwEnd)
		base = p.b.MakeNode(KStrExpStruct, kw, NodeChild(body), end)
	case p.at(token.KwLet):
		kw := p.bump()
		body := p.parseStrDecBody(token.KwIn)
		inKw := p.expect(token.KwIn)
		inner := p.parseStrExp()
		end := p.expect(token.KwEnd)
		base = p.b.MakeNode(KStrExpLet, kw, NodeChild(body), inKw, NodeChild(inner), end)
	case p.at(token.Ident):
		path := p.parsePath()
		if p.at(token.LParen) {
			// Functor application: funid ( strexp ).
			lp := p.bump()
			arg := p.parseStrExp()
			rp := p.expect(token.RParen)
			base = p.b.MakeNode(KStrExpApp, NodeChild(path), lp, NodeChild(arg), rp)
		} else {
			base = p.b.MakeNode(KStrExpPath, NodeChild(path))
		}
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected a structure expression")
		sp := p.emptySpan()
		base = p.b.MakeNodeAt(KError, sp)
	}
	for p.at(token.Colon) || p.at(token.ColonGt) {
		op := p.bump()
		sig := p.parseSigExp()
		base = p.b.MakeNode(KStrExpAscription, NodeChild(base), op, NodeChild(sig))
	}
	return base
}

// parseStrDecBody parses the strdec sequence inside struct...end / let...in,
// reusing parseStrDecItem for each item and stopping at the terminator.
func (p *Parser) parseStrDecBody(stop token.Kind) NodeID {
	var kids []Child
	for !p.atEOF() && !p.at(stop) {
		before := p.pos
		item := p.parseStrDecItem()
		kids = append(kids, NodeChild(item))
		if p.pos == before {
			kids = append(kids, p.bump())
		}
	}
	if len(kids) == 0 {
		return p.b.MakeNodeAt(KStrDecEmpty, p.emptySpan())
	}
	return p.b.MakeNode(KStrDecSeq, kids...)
}

func (p *Parser) parseStrDecLocal() NodeID {
	kw := p.expect(token.KwLocal)
	d1 := p.parseStrDecBody(token.KwIn)
	inKw := p.expect(token.KwIn)
	d2 := p.parseStrDecBody(token.KwEnd)
	endKw := p.expect(token.KwEnd)
	return p.b.MakeNode(KStrDecLocal, kw, NodeChild(d1), inKw, NodeChild(d2), endKw)
}

func (p *Parser) parseDecSignature() NodeID {
	kw := p.expect(token.KwSignature)
	kids := []Child{kw}
	bind := p.parseSigBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseSigBind()
		kids = append(kids, NodeChild(bind))
	}
	return p.b.MakeNode(KDecSignature, kids...)
}

func (p *Parser) parseSigBind() NodeID {
	name := p.expect(token.Ident)
	eq := p.expect(token.Eq)
	sig := p.parseSigExp()
	return p.b.MakeNode(KSigBind, name, eq, NodeChild(sig))
}

func (p *Parser) parseSigExp() NodeID {
	var base NodeID
	switch {
	case p.at(token.KwSig):
		kw := p.bump()
		spec := p.parseSpecSeq(token.KwEnd)
		end := p.expect(token.KwEnd)
		base = p.b.MakeNode(KSigExpSpec, kw, NodeChild(spec), end)
	case p.at(token.Ident):
		tok := p.bump()
		base = p.b.MakeNode(KSigExpName, tok)
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected a signature expression")
		sp := p.emptySpan()
		base = p.b.MakeNodeAt(KError, sp)
	}
	for p.at(token.Ident) && p.cur().Text == "where" {
		kw := p.bump()
		typeKw := p.expect(token.KwType)
		var kids []Child
		if tv, ok := p.parseTyVarSeq(); ok {
			kids = append(kids, NodeChild(tv))
		}
		path := p.parsePath()
		kids = append(kids, NodeChild(path))
		eq := p.expect(token.Eq)
		ty := p.parseTy()
		kids = append([]Child{NodeChild(base), kw, typeKw}, append(kids, eq, NodeChild(ty))...)
		base = p.b.MakeNode(KSigExpWhereType, kids...)
	}
	return base
}

func (p *Parser) parseDecFunctor() NodeID {
	kw := p.expect(token.KwFunctor)
	kids := []Child{kw}
	bind := p.parseFunctorBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseFunctorBind()
		kids = append(kids, NodeChild(bind))
	}
	return p.b.MakeNode(KDecFunctor, kids...)
}

// parseFunctorBind supports the common single named-parameter form:
// funid ( strid : sigexp ) [: sigexp] = strexp. The Definition's sugared
// forms (an anonymous parameter spec, or a result signature given directly
// after the closing paren without "= strexp") are not accepted; they fail
// here with a syntax error from the first expected token that is missing.
func (p *Parser) parseFunctorBind() NodeID {
	name := p.expect(token.Ident)
	lp := p.expect(token.LParen)
	argName := p.expect(token.Ident)
	colon := p.expect(token.Colon)
	argSig := p.parseSigExp()
	rp := p.expect(token.RParen)
	kids := []Child{name, lp, argName, colon, NodeChild(argSig), rp}
	if p.at(token.Colon) || p.at(token.ColonGt) {
		op := p.bump()
		resSig := p.parseSigExp()
		kids = append(kids, op, NodeChild(resSig))
	}
	eq := p.expect(token.Eq)
	body := p.parseStrExp()
	kids = append(kids, eq, NodeChild(body))
	return p.b.MakeNode(KFunctorBind, kids...)
}

func (p *Parser) canStartSpec() bool {
	switch p.kind() {
	case token.KwVal, token.KwType, token.KwEqtype, token.KwDatatype, token.KwException,
		token.KwStructure, token.KwInclude, token.KwSharing:
		return true
	default:
		return false
	}
}

func (p *Parser) parseSpecSeq(stop ...token.Kind) NodeID {
	var kids []Child
	for !p.atEOF() && !p.atAny(stop...) {
		if p.at(token.Semicolon) {
			kids = append(kids, p.bump())
			continue
		}
		if !p.canStartSpec() {
			break
		}
		before := p.pos
		item := p.parseSpecItem()
		kids = append(kids, NodeChild(item))
		if p.pos == before {
			break
		}
	}
	if len(kids) == 0 {
		return p.b.MakeNodeAt(KSpecEmpty, p.emptySpan())
	}
	return p.b.MakeNode(KSpecSeq, kids...)
}

func (p *Parser) parseSpecItem() NodeID {
	// typDesc parses one type/eqtype spec binding, where "= ty" is optional
	// ("type 'a t" as well as "type t = int").
	typDesc := func() NodeID {
		var kids []Child
		if tv, ok := p.parseTyVarSeq(); ok {
			kids = append(kids, NodeChild(tv))
		}
		kids = append(kids, p.expect(token.Ident))
		if p.at(token.Eq) {
			kids = append(kids, p.bump(), NodeChild(p.parseTy()))
		}
		return p.b.MakeNode(KTypBind, kids...)
	}
	switch {
	case p.at(token.KwVal):
		kw := p.bump()
		kids := []Child{kw}
		d := p.parseValDesc()
		kids = append(kids, NodeChild(d))
		for p.at(token.KwAnd) {
			kids = append(kids, p.bump())
			d := p.parseValDesc()
			kids = append(kids, NodeChild(d))
		}
		return p.b.MakeNode(KSpecVal, kids...)
	case p.at(token.KwType):
		kw := p.bump()
		bind := typDesc()
		kids := []Child{kw, NodeChild(bind)}
		for p.at(token.KwAnd) {
			kids = append(kids, p.bump())
			bind := typDesc()
			kids = append(kids, NodeChild(bind))
		}
		return p.b.MakeNode(KSpecType, kids...)
	case p.at(token.KwEqtype):
		kw := p.bump()
		bind := typDesc()
		kids := []Child{kw, NodeChild(bind)}
		return p.b.MakeNode(KSpecEqtype, kids...)
	case p.at(token.KwDatatype):
		kw := p.bump()
		bind := p.parseDatBind()
		kids := []Child{kw, NodeChild(bind)}
		for p.at(token.KwAnd) {
			kids = append(kids, p.bump())
			bind := p.parseDatBind()
			kids = append(kids, NodeChild(bind))
		}
		return p.b.MakeNode(KSpecDatatype, kids...)
	case p.at(token.KwException):
		kw := p.bump()
		d := p.parseExBind()
		kids := []Child{kw, NodeChild(d)}
		for p.at(token.KwAnd) {
			kids = append(kids, p.bump())
			d := p.parseExBind()
			kids = append(kids, NodeChild(d))
		}
		return p.b.MakeNode(KSpecException, kids...)
	case p.at(token.KwStructure):
		kw := p.bump()
		d := p.parseStrDesc()
		kids := []Child{kw, NodeChild(d)}
		for p.at(token.KwAnd) {
			kids = append(kids, p.bump())
			d := p.parseStrDesc()
			kids = append(kids, NodeChild(d))
		}
		return p.b.MakeNode(KSpecStructure, kids...)
	case p.at(token.KwInclude):
		kw := p.bump()
		sig := p.parseSigExp()
		return p.b.MakeNode(KSpecInclude, kw, NodeChild(sig))
	case p.at(token.KwSharing):
		kw := p.bump()
		typeKw := Child{}
		hasType := false
		if p.at(token.KwType) {
			typeKw = p.bump()
			hasType = true
		}
		kids := []Child{kw}
		if hasType {
			kids = append(kids, typeKw)
		}
		path := p.parsePath()
		kids = append(kids, NodeChild(path))
		for p.at(token.Eq) {
			kids = append(kids, p.bump())
			next := p.parsePath()
			kids = append(kids, NodeChild(next))
		}
		return p.b.MakeNode(KSpecSharing, kids...)
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected a specification")
		sp := p.emptySpan()
		return p.b.MakeNodeAt(KError, sp)
	}
}

func (p *Parser) parseValDesc() NodeID {
	name := p.expect(token.Ident)
	colon := p.expect(token.Colon)
	ty := p.parseTy()
	return p.b.MakeNode(KValDesc, name, colon, NodeChild(ty))
}

func (p *Parser) parseStrDesc() NodeID {
	name := p.expect(token.Ident)
	colon := p.expect(token.Colon)
	sig := p.parseSigExp()
	return p.b.MakeNode(KStrDesc, name, colon, NodeChild(sig))
}
