package cst

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// parseTy parses a type expression: tuple > fn (right-assoc "->") > atomic,
// with postfix type-constructor application (`ty con`, `(ty,ty) con`)
// binding tighter than both.
func (p *Parser) parseTy() NodeID {
	left := p.parseTyTuple()
	if p.at(token.Arrow) {
		op := p.bump()
		right := p.parseTy()
		return p.b.MakeNode(KTyFn, NodeChild(left), op, NodeChild(right))
	}
	return left
}

// parseTyTuple parses a "*"-separated sequence of constructor-application
// types; a single element with no "*" is just that element.
func (p *Parser) parseTyTuple() NodeID {
	first := p.parseTyApp()
	if !p.at(token.Star) {
		return first
	}
	kids := []Child{NodeChild(first)}
	for p.at(token.Star) {
		kids = append(kids, p.bump())
		kids = append(kids, NodeChild(p.parseTyApp()))
	}
	return p.b.MakeNode(KTyTuple, kids...)
}

// parseTyApp parses an atomic type optionally followed by one or more type
// constructor identifiers (`int list`, `int list list`).
func (p *Parser) parseTyApp() NodeID {
	ty := p.parseTyAtomic()
	for p.at(token.Ident) && !p.at(token.Dot) {
		// A bare identifier following a type is a postfix type constructor
		// application; parsePath handles qualified constructors too.
		if !p.canStartPath() {
			break
		}
		con := p.parsePath()
		ty = p.b.MakeNode(KTyCon, NodeChild(ty), NodeChild(con))
	}
	return ty
}

func (p *Parser) canStartPath() bool {
	return p.at(token.Ident)
}

func (p *Parser) parseTyAtomic() NodeID {
	switch {
	case p.at(token.TyVar):
		tok := p.bump()
		return p.b.MakeNode(KTyVar, tok)
	case p.at(token.LBrace):
		return p.parseTyRecord()
	case p.at(token.LParen):
		return p.parseTyParenOrSeq()
	case p.at(token.Ident):
		path := p.parsePath()
		return p.b.MakeNode(KTyCon, NodeChild(path))
	default:
		p.errorHere(diag.SynUnexpectedToken, "expected a type")
		sp := p.emptySpan()
		return p.b.MakeNodeAt(KError, sp)
	}
}

func (p *Parser) parseTyRecord() NodeID {
	kids := []Child{p.expect(token.LBrace)}
	for !p.at(token.RBrace) && !p.atEOF() {
		row := p.parseTyRecordRow()
		kids = append(kids, NodeChild(row))
		if p.at(token.Comma) {
			kids = append(kids, p.bump())
		} else {
			break
		}
	}
	kids = append(kids, p.expect(token.RBrace))
	return p.b.MakeNode(KTyRecord, kids...)
}

func (p *Parser) parseTyRecordRow() NodeID {
	lab := p.parseLabel()
	kids := []Child{NodeChild(lab), p.expect(token.Colon)}
	ty := p.parseTy()
	kids = append(kids, NodeChild(ty))
	return p.b.MakeNode(KTyRecordRow, kids...)
}

// parseTyParenOrSeq handles "(" ty ")" (a parenthesized type, transparent)
// and "(" ty "," ty ... ")" id (a multi-argument type constructor, e.g.
// (int, bool) pair); the latter is only resolved once the trailing
// identifier is seen. A lone group stays a KTyParen node; a group followed
// by an identifier becomes a KTyCon with that KTyParen as its argument
// list child.
func (p *Parser) parseTyParenOrSeq() NodeID {
	kids := []Child{p.expect(token.LParen)}
	first := p.parseTy()
	args := []NodeID{first}
	kids = append(kids, NodeChild(first))
	for p.at(token.Comma) {
		kids = append(kids, p.bump())
		next := p.parseTy()
		args = append(args, next)
		kids = append(kids, NodeChild(next))
	}
	kids = append(kids, p.expect(token.RParen))
	if len(args) == 1 {
		group := p.b.MakeNode(KTyParen, kids...)
		if p.at(token.Ident) {
			con := p.parsePath()
			return p.b.MakeNode(KTyCon, NodeChild(group), NodeChild(con))
		}
		return group
	}
	group := p.b.MakeNode(KTyParen, kids...)
	con := p.parsePath()
	return p.b.MakeNode(KTyCon, NodeChild(group), NodeChild(con))
}
