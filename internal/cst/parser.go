package cst

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/lexer"
	"smlcheck/internal/source"
	"smlcheck/internal/token"
)

// Assoc is the associativity of a declared infix identifier.
type Assoc uint8

const (
	AssocLeft Assoc = iota
	AssocRight
)

// Fixity records an infix identifier's precedence and associativity.
type Fixity struct {
	Level int
	Assoc Assoc
}

// defaultFixity seeds the parser with the Standard ML Basis Library's
// top-level infix status (Definition, Appendix C and the Basis's initial
// infix declarations), since source files routinely use +, ::, etc. without
// redeclaring them.
func defaultFixity() map[string]Fixity {
	m := map[string]Fixity{}
	set := func(level int, assoc Assoc, names ...string) {
		for _, n := range names {
			m[n] = Fixity{Level: level, Assoc: assoc}
		}
	}
	set(7, AssocLeft, "*", "/", "div", "mod")
	set(6, AssocLeft, "+", "-", "^")
	set(5, AssocRight, "::", "@")
	set(4, AssocLeft, "=", "<>", "<", ">", "<=", ">=")
	set(3, AssocLeft, ":=", "o")
	set(0, AssocLeft, "before")
	return m
}

// Parser consumes a token stream (via a buffered lexer) and builds a Tree.
type Parser struct {
	toks     []token.Token
	pos      int
	b        *Builder
	rep      diag.Reporter
	fixity   map[string]Fixity
	fileID   source.FileID
}

// Parse lexes file in full and parses it as a sequence of top-level
// structure-level declarations (a "program" in the Definition's grammar),
// returning the built Tree. Parse errors are reported to rep and recovered
// from by skipping to the next plausible declaration boundary; Parse itself
// never returns an error, matching the teacher's collaborator-parser
// contract of "always produce a tree".
func Parse(file *source.File, rep diag.Reporter) *Tree {
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	p := &Parser{
		toks:   toks,
		b:      NewBuilder(),
		rep:    rep,
		fixity: defaultFixity(),
		fileID: file.ID,
	}
	root := p.parseFile()
	return p.b.Finish(root)
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) kind() token.Kind  { return p.toks[p.pos].Kind }
func (p *Parser) atEOF() bool       { return p.kind() == token.EOF }

func (p *Parser) peekN(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

// bump consumes the current token and returns a Child referencing it.
func (p *Parser) bump() Child {
	c := p.b.PushToken(p.cur())
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return c
}

// expect consumes the current token if it matches k, reporting
// SynUnexpectedToken otherwise (the token is still consumed so callers make
// forward progress).
func (p *Parser) expect(k token.Kind) Child {
	if p.kind() != k {
		p.errorHere(diag.SynUnexpectedToken, "expected "+k.String()+", found "+p.kind().String())
	}
	return p.bump()
}

func (p *Parser) at(k token.Kind) bool { return p.kind() == k }

// infixCandidate reports whether the current token could be an infix
// operator occurrence: an Ident or SymbolID (the common case), or one of
// the reserved symbols that the Basis Library also gives default infix
// status ("*" for multiplication, "=" for equality) despite being
// lexed as its own reserved Kind rather than a plain SymbolID.
func (p *Parser) infixCandidate() (string, bool) {
	switch p.kind() {
	case token.Ident, token.SymbolID, token.Star, token.Eq:
		if _, ok := p.fixity[p.cur().Text]; ok {
			return p.cur().Text, true
		}
	}
	return "", false
}

func (p *Parser) atAny(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.kind() == k {
			return true
		}
	}
	return false
}

func (p *Parser) errorHere(code diag.Code, msg string) {
	if p.rep == nil {
		return
	}
	p.rep.Report(code, diag.SevError, p.cur().Span, msg, nil)
}

func (p *Parser) emptySpan() source.Span {
	sp := p.cur().Span
	return sp.AtStart()
}

// skipTo advances until the current token is one of ks or EOF, for error
// recovery; it consumes tokens as anonymous error children so no source
// text is lost from the tree.
func (p *Parser) skipTo(ks ...token.Kind) []Child {
	var skipped []Child
	for !p.atEOF() && !p.atAny(ks...) {
		skipped = append(skipped, p.bump())
	}
	return skipped
}

// parseFile parses the whole file as a sequence of structure-level
// declarations (SML has no separate "program" nonterminal distinct from a
// sequence of top-level decs/exps; a bare expression at the top level is
// accepted as sugar for `val it = exp`, matching interactive-top-level
// behavior, which the Definition also treats as a StrDec).
func (p *Parser) parseFile() NodeID {
	var kids []Child
	for !p.atEOF() {
		before := p.pos
		sd := p.parseStrDecItem()
		kids = append(kids, NodeChild(sd))
		if p.pos == before {
			// Safety valve: parseStrDecItem must always make progress.
			kids = append(kids, p.bump())
		}
	}
	return p.b.MakeNode(KFile, kids...)
}
