package cst

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// parsePath parses a long identifier: id (. id)*. Works for value, type,
// structure, signature, and functor identifiers alike; the grammar is
// identical, only the namespace differs, which is resolved later in HIR.
func (p *Parser) parsePath() NodeID {
	var kids []Child
	kids = append(kids, p.parsePathSegment())
	for p.at(token.Dot) {
		kids = append(kids, p.bump())
		kids = append(kids, p.parsePathSegment())
	}
	return p.b.MakeNode(KPath, kids...)
}

func (p *Parser) parsePathSegment() Child {
	if p.at(token.Ident) || p.at(token.SymbolID) {
		return p.bump()
	}
	p.errorHere(diag.SynUnexpectedToken, "expected identifier")
	return p.bump()
}

// parseLabel parses a record/tuple label: either an alphanumeric
// identifier or a non-zero decimal integer (tuple position).
func (p *Parser) parseLabel() NodeID {
	tok := p.cur()
	child := p.bump()
	return p.b.MakeNodeAt(KLabel, tok.Span, child)
}
