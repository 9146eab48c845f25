package cst

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// parsePat parses a full pattern: as-pattern > typed pattern > infix
// constructor application > atomic/constructor application pattern.
func (p *Parser) parsePat() NodeID {
	left := p.parsePatTyped()
	if p.at(token.KwAs) {
		op := p.bump()
		right := p.parsePat()
		return p.b.MakeNode(KPatAs, NodeChild(left), op, NodeChild(right))
	}
	return left
}

func (p *Parser) parsePatTyped() NodeID {
	left := p.parsePatInfix()
	if p.at(token.Colon) {
		op := p.bump()
		ty := p.parseTy()
		return p.b.MakeNode(KPatTyped, NodeChild(left), op, NodeChild(ty))
	}
	return left
}

// parsePatInfix resolves a sequence of constructor-application patterns
// joined by declared infix identifiers (e.g. "x :: xs", "lo ~~ hi") using
// the same fixity table the expression parser consults; the resulting
// KPatOrInfix node records the resolved left-to-right shape and is
// desugared during lowering into an ordinary constructor-applied-to-a-tuple
// pattern.
func (p *Parser) parsePatInfix() NodeID {
	first := p.parsePatApp()
	var operands []NodeID
	var ops []Child
	var fixities []Fixity
	operands = append(operands, first)
	for {
		// "=" ends a binding's pattern ("val x = ..."), even though it is
		// also an infix identifier in the fixity table.
		if p.at(token.Eq) {
			break
		}
		_, ok := p.infixCandidate()
		if !ok {
			break
		}
		fx := p.fixity[p.cur().Text]
		opTok := p.bump()
		ops = append(ops, opTok)
		fixities = append(fixities, fx)
		operands = append(operands, p.parsePatApp())
	}
	if len(ops) == 0 {
		return first
	}
	return p.resolveInfix(operands, ops, fixities, KPatOrInfix)
}

// parsePatApp parses either a bare atomic pattern or a constructor
// identifier applied to exactly one atomic pattern argument (SML patterns
// do not curry: `SOME x`, not `SOME x y`).
func (p *Parser) parsePatApp() NodeID {
	if p.at(token.KwOp) {
		opTok := p.bump()
		path := p.parsePath()
		con := p.b.MakeNode(KPatCon, opTok, NodeChild(path))
		if p.patAtomStart() {
			arg := p.parsePatAtomic()
			return p.b.MakeNode(KPatCon, opTok, NodeChild(path), NodeChild(arg))
		}
		return con
	}
	if p.at(token.Ident) && p.startsUpperOrKnownCon() && p.patAtomStartAt(1) {
		path := p.parsePath()
		arg := p.parsePatAtomic()
		return p.b.MakeNode(KPatCon, NodeChild(path), NodeChild(arg))
	}
	return p.parsePatAtomic()
}

// startsUpperOrKnownCon is a heuristic: SML has no syntactic distinction
// between a nullary constructor and a variable at parse time (both are
// plain vids); we treat any identifier immediately followed by another
// atomic-pattern-starting token as a unary constructor application, which
// matches how every real SML parser resolves this ambiguity without a
// symbol table (the alternative, consulting the value environment while
// parsing, is deferred to statics here).
func (p *Parser) startsUpperOrKnownCon() bool { return true }

func (p *Parser) patAtomStart() bool { return p.patAtomStartAt(0) }

func (p *Parser) patAtomStartAt(n int) bool {
	tok := p.peekN(n)
	if n == 0 {
		if _, ok := p.infixCandidate(); ok {
			return false
		}
	}
	switch tok.Kind {
	case token.Underscore, token.IntLit, token.WordLit, token.RealLit, token.CharLit, token.StringLit,
		token.Ident, token.LParen, token.LBrace, token.LBracket:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePatAtomic() NodeID {
	switch {
	case p.at(token.Underscore):
		tok := p.bump()
		return p.b.MakeNode(KPatWild, tok)
	case p.at(token.IntLit), p.at(token.WordLit), p.at(token.RealLit), p.at(token.CharLit), p.at(token.StringLit):
		tok := p.bump()
		return p.b.MakeNode(KPatScon, tok)
	case p.at(token.KwOp):
		opTok := p.bump()
		path := p.parsePath()
		return p.b.MakeNode(KPatCon, opTok, NodeChild(path))
	case p.at(token.Ident):
		path := p.parsePath()
		return p.b.MakeNode(KPatCon, NodeChild(path))
	case p.at(token.LBrace):
		return p.parsePatRecord()
	case p.at(token.LBracket):
		return p.parsePatList()
	case p.at(token.LParen):
		return p.parsePatParenOrTuple()
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected a pattern")
		sp := p.emptySpan()
		return p.b.MakeNodeAt(KError, sp)
	}
}

func (p *Parser) parsePatRecord() NodeID {
	kids := []Child{p.expect(token.LBrace)}
	for !p.at(token.RBrace) && !p.atEOF() {
		if p.at(token.Ellipsis) {
			kids = append(kids, p.bump())
			break
		}
		row := p.parsePatRecordRow()
		kids = append(kids, NodeChild(row))
		if p.at(token.Comma) {
			kids = append(kids, p.bump())
			continue
		}
		break
	}
	kids = append(kids, p.expect(token.RBrace))
	return p.b.MakeNode(KPatRecord, kids...)
}

// parsePatRecordRow parses one row of a record pattern: `lab = pat`, or the
// punning short form `vid [: ty]` (row punning is accepted syntactically
// here but rejected with LowUnsupportedRowPunning during lowering, since
// detecting it requires knowing it's punning rather than `lab = pat` with a
// coincidentally-identical label/var name, which the CST can determine
// structurally by the absence of "=").
func (p *Parser) parsePatRecordRow() NodeID {
	lab := p.parseLabel()
	kids := []Child{NodeChild(lab)}
	if p.at(token.Eq) {
		kids = append(kids, p.bump())
		pat := p.parsePat()
		kids = append(kids, NodeChild(pat))
	} else if p.at(token.Colon) {
		kids = append(kids, p.bump())
		ty := p.parseTy()
		kids = append(kids, NodeChild(ty))
	}
	return p.b.MakeNode(KPatRecordRow, kids...)
}

func (p *Parser) parsePatList() NodeID {
	kids := []Child{p.expect(token.LBracket)}
	for !p.at(token.RBracket) && !p.atEOF() {
		el := p.parsePat()
		kids = append(kids, NodeChild(el))
		if p.at(token.Comma) {
			kids = append(kids, p.bump())
			continue
		}
		break
	}
	kids = append(kids, p.expect(token.RBracket))
	return p.b.MakeNode(KPatList, kids...)
}

func (p *Parser) parsePatParenOrTuple() NodeID {
	kids := []Child{p.expect(token.LParen)}
	if p.at(token.RParen) {
		kids = append(kids, p.bump())
		return p.b.MakeNode(KPatTuple, kids...) // "()" - 0-tuple, the unit pattern
	}
	first := p.parsePat()
	elems := 1
	kids = append(kids, NodeChild(first))
	for p.at(token.Comma) {
		kids = append(kids, p.bump())
		next := p.parsePat()
		kids = append(kids, NodeChild(next))
		elems++
	}
	kids = append(kids, p.expect(token.RParen))
	if elems == 1 {
		return p.b.MakeNode(KPatParen, kids...)
	}
	return p.b.MakeNode(KPatTuple, kids...)
}
