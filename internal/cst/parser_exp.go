package cst

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// parseExp parses a full expression: primary form (if/while/case/fn/raise,
// or the orelse/andalso/infix/application chain), then any trailing
// ": ty" ascription and "handle match" clauses, which apply uniformly to
// every primary form including the keyword-led ones.
func (p *Parser) parseExp() NodeID {
	e := p.parseExpPrimary()
	if p.at(token.Colon) {
		op := p.bump()
		ty := p.parseTy()
		e = p.b.MakeNode(KExpTyped, NodeChild(e), op, NodeChild(ty))
	}
	for p.at(token.KwHandle) {
		op := p.bump()
		m := p.parseMatch()
		e = p.b.MakeNode(KExpHandle, NodeChild(e), op, NodeChild(m))
	}
	return e
}

func (p *Parser) parseExpPrimary() NodeID {
	switch {
	case p.at(token.KwIf):
		kw := p.bump()
		cond := p.parseExp()
		thenKw := p.expect(token.KwThen)
		thenE := p.parseExp()
		elseKw := p.expect(token.KwElse)
		elseE := p.parseExp()
		return p.b.MakeNode(KExpIf, kw, NodeChild(cond), thenKw, NodeChild(thenE), elseKw, NodeChild(elseE))
	case p.at(token.KwWhile):
		kw := p.bump()
		cond := p.parseExp()
		doKw := p.expect(token.KwDo)
		body := p.parseExp()
		return p.b.MakeNode(KExpWhile, kw, NodeChild(cond), doKw, NodeChild(body))
	case p.at(token.KwCase):
		kw := p.bump()
		scrut := p.parseExp()
		ofKw := p.expect(token.KwOf)
		m := p.parseMatch()
		return p.b.MakeNode(KExpCase, kw, NodeChild(scrut), ofKw, NodeChild(m))
	case p.at(token.KwFn):
		kw := p.bump()
		m := p.parseMatch()
		return p.b.MakeNode(KExpFn, kw, NodeChild(m))
	case p.at(token.KwRaise):
		kw := p.bump()
		e := p.parseExp()
		return p.b.MakeNode(KExpRaise, kw, NodeChild(e))
	default:
		return p.parseExpOrElse()
	}
}

func (p *Parser) parseExpOrElse() NodeID {
	left := p.parseExpAndAlso()
	for p.at(token.KwOrelse) {
		op := p.bump()
		right := p.parseExpAndAlso()
		left = p.b.MakeNode(KExpOrelse, NodeChild(left), op, NodeChild(right))
	}
	return left
}

func (p *Parser) parseExpAndAlso() NodeID {
	left := p.parseExpInfix()
	for p.at(token.KwAndalso) {
		op := p.bump()
		right := p.parseExpInfix()
		left = p.b.MakeNode(KExpAndalso, NodeChild(left), op, NodeChild(right))
	}
	return left
}

// parseExpInfix mirrors parsePatInfix: a chain of application expressions
// joined by identifiers currently declared infix, resolved by precedence.
func (p *Parser) parseExpInfix() NodeID {
	first := p.parseExpApp()
	var operands []NodeID
	var ops []Child
	var fixities []Fixity
	operands = append(operands, first)
	for {
		_, ok := p.infixCandidate()
		if !ok {
			break
		}
		fx := p.fixity[p.cur().Text]
		opTok := p.bump()
		ops = append(ops, opTok)
		fixities = append(fixities, fx)
		operands = append(operands, p.parseExpApp())
	}
	if len(ops) == 0 {
		return first
	}
	return p.resolveInfix(operands, ops, fixities, KExpInfixApp)
}

// parseExpApp parses a left-associative chain of atomic expressions as
// function application: `f a b` is App(App(f, a), b).
func (p *Parser) parseExpApp() NodeID {
	e := p.parseExpAtomic()
	for p.expAtomStart() {
		arg := p.parseExpAtomic()
		e = p.b.MakeNode(KExpApp, NodeChild(e), NodeChild(arg))
	}
	return e
}

func (p *Parser) expAtomStart() bool {
	if _, ok := p.infixCandidate(); ok {
		// A bare occurrence of a declared-infix identifier is an operator,
		// not the start of a fresh application argument; "op +" still
		// reaches here through the KwOp branch below.
		return false
	}
	switch p.kind() {
	case token.IntLit, token.WordLit, token.RealLit, token.CharLit, token.StringLit,
		token.Ident, token.LParen, token.LBrace, token.LBracket, token.Hash, token.KwLet, token.KwOp:
		return true
	default:
		return false
	}
}

func (p *Parser) parseExpAtomic() NodeID {
	switch {
	case p.at(token.IntLit), p.at(token.WordLit), p.at(token.RealLit), p.at(token.CharLit), p.at(token.StringLit):
		tok := p.bump()
		return p.b.MakeNode(KExpScon, tok)
	case p.at(token.Hash):
		hashTok := p.bump()
		lab := p.parseLabel()
		return p.b.MakeNode(KExpSelector, hashTok, NodeChild(lab))
	case p.at(token.KwOp):
		opTok := p.bump()
		path := p.parsePath()
		return p.b.MakeNode(KExpOp, opTok, NodeChild(path))
	case p.at(token.Ident):
		path := p.parsePath()
		return p.b.MakeNode(KExpPath, NodeChild(path))
	case p.at(token.LBrace):
		return p.parseExpRecord()
	case p.at(token.LBracket):
		return p.parseExpList()
	case p.at(token.KwLet):
		return p.parseExpLet()
	case p.at(token.LParen):
		return p.parseExpParenGroup()
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected an expression")
		sp := p.emptySpan()
		return p.b.MakeNodeAt(KError, sp)
	}
}

func (p *Parser) parseExpRecord() NodeID {
	kids := []Child{p.expect(token.LBrace)}
	for !p.at(token.RBrace) && !p.atEOF() {
		row := p.parseExpRecordRow()
		kids = append(kids, NodeChild(row))
		if p.at(token.Comma) {
			kids = append(kids, p.bump())
			continue
		}
		break
	}
	kids = append(kids, p.expect(token.RBrace))
	return p.b.MakeNode(KExpRecord, kids...)
}

func (p *Parser) parseExpRecordRow() NodeID {
	lab := p.parseLabel()
	kids := []Child{NodeChild(lab), p.expect(token.Eq)}
	e := p.parseExp()
	kids = append(kids, NodeChild(e))
	return p.b.MakeNode(KExpRecordRow, kids...)
}

func (p *Parser) parseExpList() NodeID {
	kids := []Child{p.expect(token.LBracket)}
	for !p.at(token.RBracket) && !p.atEOF() {
		el := p.parseExp()
		kids = append(kids, NodeChild(el))
		if p.at(token.Comma) {
			kids = append(kids, p.bump())
			continue
		}
		break
	}
	kids = append(kids, p.expect(token.RBracket))
	return p.b.MakeNode(KExpList, kids...)
}

func (p *Parser) parseExpLet() NodeID {
	kids := []Child{p.expect(token.KwLet)}
	dec := p.parseDecSeq(token.KwIn)
	kids = append(kids, NodeChild(dec))
	kids = append(kids, p.expect(token.KwIn))
	first := p.parseExp()
	kids = append(kids, NodeChild(first))
	for p.at(token.Semicolon) {
		kids = append(kids, p.bump())
		next := p.parseExp()
		kids = append(kids, NodeChild(next))
	}
	kids = append(kids, p.expect(token.KwEnd))
	return p.b.MakeNode(KExpLet, kids...)
}

// parseExpParenGroup handles every parenthesized atexp form: "()" (unit),
// "(exp)" (paren), "(exp, exp, ...)" (tuple), and "(exp; exp; ...; exp)"
// (sequence) - the separator seen after the first expression decides which.
func (p *Parser) parseExpParenGroup() NodeID {
	kids := []Child{p.expect(token.LParen)}
	if p.at(token.RParen) {
		kids = append(kids, p.bump())
		return p.b.MakeNode(KExpTuple, kids...) // "()" is the 0-tuple, i.e. unit
	}
	first := p.parseExp()
	kids = append(kids, NodeChild(first))
	switch {
	case p.at(token.Comma):
		for p.at(token.Comma) {
			kids = append(kids, p.bump())
			next := p.parseExp()
			kids = append(kids, NodeChild(next))
		}
		kids = append(kids, p.expect(token.RParen))
		return p.b.MakeNode(KExpTuple, kids...)
	case p.at(token.Semicolon):
		for p.at(token.Semicolon) {
			kids = append(kids, p.bump())
			next := p.parseExp()
			kids = append(kids, NodeChild(next))
		}
		kids = append(kids, p.expect(token.RParen))
		return p.b.MakeNode(KExpSeq, kids...)
	default:
		kids = append(kids, p.expect(token.RParen))
		return p.b.MakeNode(KExpParen, kids...)
	}
}

// parseMatch parses a "|"-separated sequence of match rules. A leading "|"
// before the first rule is tolerated here (consumed into the node) and
// flagged with LowPrecedingBar during lowering, matching the Definition's
// treatment of that as a recoverable error rather than a parse failure.
func (p *Parser) parseMatch() NodeID {
	var kids []Child
	if p.at(token.Bar) {
		kids = append(kids, p.bump())
	}
	rule := p.parseMatchRule()
	kids = append(kids, NodeChild(rule))
	for p.at(token.Bar) {
		kids = append(kids, p.bump())
		rule := p.parseMatchRule()
		kids = append(kids, NodeChild(rule))
	}
	return p.b.MakeNode(KMatch, kids...)
}

func (p *Parser) parseMatchRule() NodeID {
	pat := p.parsePat()
	arrow := p.expect(token.DArrow)
	e := p.parseExp()
	return p.b.MakeNode(KMatchRule, NodeChild(pat), arrow, NodeChild(e))
}
