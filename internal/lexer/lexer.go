package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"smlcheck/internal/diag"
	"smlcheck/internal/source"
	"smlcheck/internal/token"
)

const maxTokenLength = 64 * 1024 // hard limit in bytes to avoid pathological tokens

// Lexer converts source content into a stream of tokens.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	look    *token.Token   // one-token lookahead buffer
	hold    []token.Trivia // trivia accumulated ahead of the next token
	last    token.Token
	hasLast bool
}

// New creates a new Lexer for the provided file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// SetRange restricts the lexer to a specific byte range within the file.
func (lx *Lexer) SetRange(start, end uint32) {
	if lx == nil {
		return
	}
	lx.cursor.Off = start
	if end != 0 {
		lx.cursor.Limit = end
	}
	lx.look = nil
	lx.hold = nil
	lx.last = token.Token{}
	lx.hasLast = false
}

// Next returns the next significant token with its leading trivia attached.
// Once EOF is reached, it always returns an EOF token.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		lx.last = tok
		lx.hasLast = true
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '#':
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '#' && b1 == '"' {
			tok = lx.scanCharLiteral()
		} else {
			tok = lx.scanHash()
		}

	case ch == '\'':
		tok = lx.scanTyVar()

	case ch == '~':
		if lx.nextStartsNumberAfterTilde() {
			tok = lx.scanNumber()
		} else {
			tok = lx.scanSymbolicIdentOrPunct()
		}

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString()

	case ch >= utf8RuneSelf || isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	default:
		tok = lx.scanSymbolicIdentOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil

	lx.enforceTokenLength(&tok)

	lx.last = tok
	lx.hasLast = true
	return tok
}

// nextStartsNumberAfterTilde reports whether the '~' at the cursor begins a
// negative special constant, i.e. is immediately followed by a digit. A '~'
// not followed by a digit is the ordinary negation identifier instead.
func (lx *Lexer) nextStartsNumberAfterTilde() bool {
	_, b1, ok := lx.cursor.Peek2()
	return ok && isDec(b1)
}

// scanHash emits a lone '#' token (record/tuple selector prefix).
func (lx *Lexer) scanHash() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Hash, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Push injects a token back into the lookahead buffer.
func (lx *Lexer) Push(tok token.Token) {
	lx.look = &tok
}

// EmptySpan returns a zero-length span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) enforceTokenLength(tok *token.Token) {
	if tok == nil {
		return
	}
	length := tok.Span.End - tok.Span.Start
	if length <= maxTokenLength {
		return
	}
	msg := fmt.Sprintf("token length %d exceeds limit %d", length, maxTokenLength)
	lx.errLex(diag.LexTokenTooLong, tok.Span, msg)
	tok.Kind = token.Invalid
	if tok.Text == "" && tok.Span.End > tok.Span.Start && int(tok.Span.End) <= len(lx.file.Content) {
		tok.Text = string(lx.file.Content[tok.Span.Start:tok.Span.End])
	}
	// Fast-forward to EOF to avoid cascading work on a pathological token.
	if off, err := safecast.Conv[uint32](len(lx.file.Content)); err == nil {
		lx.cursor.Off = off
	}
}
