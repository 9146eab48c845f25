package cst

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

func (p *Parser) canStartDec() bool {
	switch p.kind() {
	case token.KwVal, token.KwFun, token.KwType, token.KwDatatype, token.KwAbstype,
		token.KwException, token.KwLocal, token.KwOpen, token.KwInfix, token.KwInfixr, token.KwNonfix:
		return true
	default:
		return false
	}
}

// parseDecSeq parses a sequence of core declarations, optionally separated
// by ";", stopping at one of the given terminator kinds (or at EOF, or at
// any token that cannot start a dec).
func (p *Parser) parseDecSeq(stop ...token.Kind) NodeID {
	var kids []Child
	for {
		if p.atEOF() || p.atAny(stop...) {
			break
		}
		if p.at(token.Semicolon) {
			kids = append(kids, p.bump())
			continue
		}
		if !p.canStartDec() {
			break
		}
		before := p.pos
		d := p.parseDecItem()
		kids = append(kids, NodeChild(d))
		if p.pos == before {
			break
		}
	}
	if len(kids) == 0 {
		return p.b.MakeNodeAt(KDecEmpty, p.emptySpan())
	}
	if len(kids) == 1 && !kids[0].IsToken {
		return kids[0].Node
	}
	return p.b.MakeNode(KDecSeq, kids...)
}

func (p *Parser) parseDecItem() NodeID {
	switch {
	case p.at(token.KwVal):
		return p.parseDecVal()
	case p.at(token.KwFun):
		return p.parseDecFun()
	case p.at(token.KwType):
		return p.parseDecType()
	case p.at(token.KwDatatype):
		return p.parseDecDatatype()
	case p.at(token.KwAbstype):
		return p.parseDecAbstype()
	case p.at(token.KwException):
		return p.parseDecException()
	case p.at(token.KwLocal):
		return p.parseDecLocal()
	case p.at(token.KwOpen):
		return p.parseDecOpen()
	case p.at(token.KwInfix), p.at(token.KwInfixr), p.at(token.KwNonfix):
		return p.parseDecFixity()
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected a declaration")
		sp := p.emptySpan()
		return p.b.MakeNodeAt(KError, sp)
	}
}

// parseTyVarSeq parses an optional tyvar sequence: a bare tyvar, a
// parenthesized comma list, or nothing.
func (p *Parser) parseTyVarSeq() (NodeID, bool) {
	switch {
	case p.at(token.TyVar):
		tok := p.bump()
		return p.b.MakeNode(KTyVarSeq, tok), true
	case p.at(token.LParen) && p.peekN(1).Kind == token.TyVar:
		kids := []Child{p.expect(token.LParen)}
		kids = append(kids, p.expect(token.TyVar))
		for p.at(token.Comma) {
			kids = append(kids, p.bump())
			kids = append(kids, p.expect(token.TyVar))
		}
		kids = append(kids, p.expect(token.RParen))
		return p.b.MakeNode(KTyVarSeq, kids...), true
	default:
		return NoNodeID, false
	}
}

func (p *Parser) parseDecVal() NodeID {
	kids := []Child{p.expect(token.KwVal)}
	if tv, ok := p.parseTyVarSeq(); ok {
		kids = append(kids, NodeChild(tv))
	}
	if p.at(token.KwRec) {
		kids = append(kids, p.bump())
	}
	bind := p.parseValBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseValBind()
		kids = append(kids, NodeChild(bind))
	}
	return p.b.MakeNode(KDecVal, kids...)
}

func (p *Parser) parseValBind() NodeID {
	pat := p.parsePat()
	eq := p.expect(token.Eq)
	e := p.parseExp()
	return p.b.MakeNode(KValBind, NodeChild(pat), eq, NodeChild(e))
}

func (p *Parser) parseDecFun() NodeID {
	kids := []Child{p.expect(token.KwFun)}
	if tv, ok := p.parseTyVarSeq(); ok {
		kids = append(kids, NodeChild(tv))
	}
	bind := p.parseFunBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseFunBind()
		kids = append(kids, NodeChild(bind))
	}
	return p.b.MakeNode(KDecFun, kids...)
}

// parseFunBind parses one function's "|"-separated clauses. Only the
// prefix clause form is accepted ("[op] vid atpat+ [: ty] = exp"); the
// rarely-used infix clause form ("pat1 vid pat2 = exp") is not supported:
// the clause's argument patterns stop at the infix identifier, and the
// missing "=" there is reported as a syntax error.
func (p *Parser) parseFunBind() NodeID {
	clause := p.parseFunClause()
	kids := []Child{NodeChild(clause)}
	for p.at(token.Bar) {
		kids = append(kids, p.bump())
		clause := p.parseFunClause()
		kids = append(kids, NodeChild(clause))
	}
	return p.b.MakeNode(KFunBind, kids...)
}

func (p *Parser) parseFunClause() NodeID {
	var kids []Child
	if p.at(token.KwOp) {
		kids = append(kids, p.bump())
	}
	name := p.parsePathSegment()
	kids = append(kids, name)
	for p.patAtomStart() {
		arg := p.parsePatAtomic()
		kids = append(kids, NodeChild(arg))
	}
	if p.at(token.Colon) {
		kids = append(kids, p.bump())
		ty := p.parseTy()
		kids = append(kids, NodeChild(ty))
	}
	kids = append(kids, p.expect(token.Eq))
	e := p.parseExp()
	kids = append(kids, NodeChild(e))
	return p.b.MakeNode(KFunClause, kids...)
}

func (p *Parser) parseDecType() NodeID {
	kw := p.expect(token.KwType)
	bind := p.parseTypBind()
	kids := []Child{kw, NodeChild(bind)}
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseTypBind()
		kids = append(kids, NodeChild(bind))
	}
	return p.b.MakeNode(KDecType, kids...)
}

func (p *Parser) parseTypBind() NodeID {
	var kids []Child
	if tv, ok := p.parseTyVarSeq(); ok {
		kids = append(kids, NodeChild(tv))
	}
	kids = append(kids, p.expect(token.Ident))
	kids = append(kids, p.expect(token.Eq))
	ty := p.parseTy()
	kids = append(kids, NodeChild(ty))
	return p.b.MakeNode(KTypBind, kids...)
}

func (p *Parser) parseDecDatatype() NodeID {
	kw := p.expect(token.KwDatatype)
	// Replication form: datatype tycon = datatype longtycon.
	if p.peekN(1).Kind == token.Eq && p.peekN(2).Kind == token.KwDatatype {
		name := p.expect(token.Ident)
		eq := p.bump()
		dtKw := p.bump()
		rhs := p.parsePath()
		return p.b.MakeNode(KDecDatatypeRepl, kw, name, eq, dtKw, NodeChild(rhs))
	}
	kids := []Child{kw}
	bind := p.parseDatBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseDatBind()
		kids = append(kids, NodeChild(bind))
	}
	if p.at(token.KwWithtype) {
		kids = append(kids, p.bump())
		wb := p.parseTypBind()
		kids = append(kids, NodeChild(wb))
		for p.at(token.KwAnd) {
			kids = append(kids, p.bump())
			wb := p.parseTypBind()
			kids = append(kids, NodeChild(wb))
		}
	}
	return p.b.MakeNode(KDecDatatype, kids...)
}

func (p *Parser) parseDatBind() NodeID {
	var kids []Child
	if tv, ok := p.parseTyVarSeq(); ok {
		kids = append(kids, NodeChild(tv))
	}
	kids = append(kids, p.expect(token.Ident))
	kids = append(kids, p.expect(token.Eq))
	con := p.parseConBind()
	kids = append(kids, NodeChild(con))
	for p.at(token.Bar) {
		kids = append(kids, p.bump())
		con := p.parseConBind()
		kids = append(kids, NodeChild(con))
	}
	return p.b.MakeNode(KDatBind, kids...)
}

func (p *Parser) parseConBind() NodeID {
	var kids []Child
	if p.at(token.KwOp) {
		kids = append(kids, p.bump())
	}
	kids = append(kids, p.expect(token.Ident))
	if p.at(token.KwOf) {
		kids = append(kids, p.bump())
		ty := p.parseTy()
		kids = append(kids, NodeChild(ty))
	}
	return p.b.MakeNode(KConBind, kids...)
}

func (p *Parser) parseDecAbstype() NodeID {
	kw := p.expect(token.KwAbstype)
	kids := []Child{kw}
	bind := p.parseDatBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseDatBind()
		kids = append(kids, NodeChild(bind))
	}
	if p.at(token.KwWithtype) {
		kids = append(kids, p.bump())
		wb := p.parseTypBind()
		kids = append(kids, NodeChild(wb))
	}
	kids = append(kids, p.expect(token.KwWith))
	body := p.parseDecSeq(token.KwEnd)
	kids = append(kids, NodeChild(body))
	kids = append(kids, p.expect(token.KwEnd))
	return p.b.MakeNode(KDecAbstype, kids...)
}

func (p *Parser) parseDecException() NodeID {
	kw := p.expect(token.KwException)
	kids := []Child{kw}
	bind := p.parseExBind()
	kids = append(kids, NodeChild(bind))
	for p.at(token.KwAnd) {
		kids = append(kids, p.bump())
		bind := p.parseExBind()
		kids = append(kids, NodeChild(bind))
	}
	return p.b.MakeNode(KDecException, kids...)
}

func (p *Parser) parseExBind() NodeID {
	var kids []Child
	if p.at(token.KwOp) {
		kids = append(kids, p.bump())
	}
	kids = append(kids, p.expect(token.Ident))
	switch {
	case p.at(token.KwOf):
		kids = append(kids, p.bump())
		ty := p.parseTy()
		kids = append(kids, NodeChild(ty))
		return p.b.MakeNode(KExBind, kids...)
	case p.at(token.Eq):
		kids = append(kids, p.bump())
		if p.at(token.KwOp) {
			kids = append(kids, p.bump())
		}
		rhs := p.parsePath()
		kids = append(kids, NodeChild(rhs))
		return p.b.MakeNode(KExBindRepl, kids...)
	default:
		return p.b.MakeNode(KExBind, kids...)
	}
}

func (p *Parser) parseDecLocal() NodeID {
	kw := p.expect(token.KwLocal)
	d1 := p.parseDecSeq(token.KwIn)
	inKw := p.expect(token.KwIn)
	d2 := p.parseDecSeq(token.KwEnd)
	endKw := p.expect(token.KwEnd)
	return p.b.MakeNode(KDecLocal, kw, NodeChild(d1), inKw, NodeChild(d2), endKw)
}

func (p *Parser) parseDecOpen() NodeID {
	kw := p.expect(token.KwOpen)
	kids := []Child{kw}
	path := p.parsePath()
	kids = append(kids, NodeChild(path))
	for p.at(token.Ident) {
		path := p.parsePath()
		kids = append(kids, NodeChild(path))
	}
	return p.b.MakeNode(KDecOpen, kids...)
}

// parseDecFixity parses infix/infixr/nonfix declarations and immediately
// updates the parser's live fixity table, since subsequent expressions and
// patterns in the same file must be parsed under the new fixity.
func (p *Parser) parseDecFixity() NodeID {
	var kw Child
	var outKind Kind
	var assoc Assoc
	nonfix := false
	switch {
	case p.at(token.KwInfix):
		kw = p.bump()
		outKind, assoc = KDecInfix, AssocLeft
	case p.at(token.KwInfixr):
		kw = p.bump()
		outKind, assoc = KDecInfixr, AssocRight
	default:
		kw = p.bump()
		outKind = KDecNonfix
		nonfix = true
	}
	kids := []Child{kw}
	level := 0
	if p.at(token.IntLit) {
		level = decDigitValue(p.cur().Text)
		kids = append(kids, p.bump())
	}
	for p.at(token.Ident) || p.at(token.SymbolID) {
		name := p.cur().Text
		kids = append(kids, p.bump())
		if nonfix {
			delete(p.fixity, name)
		} else {
			p.fixity[name] = Fixity{Level: level, Assoc: assoc}
		}
	}
	return p.b.MakeNode(outKind, kids...)
}

func decDigitValue(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
