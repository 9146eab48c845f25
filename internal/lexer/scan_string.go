package lexer

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// scanString scans a "..." string literal, recognizing SML's escape
// sequences: \a \b \t \n \v \f \r \\ \" \^c (control character), \DDD
// (three decimal digits), \uXXXX (four hex digits), and the formatting
// escape \<whitespace>*\ which lets a literal span lines without embedding
// them. An escape this lexer doesn't recognize is consumed one character at
// a time rather than rejected outright; malformed numeric/unicode escapes
// are a statics-level concern once the literal's value is computed.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		case b == '\\':
			lx.scanStringEscape()
		case b == '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanStringEscape consumes one escape sequence (or formatting gap)
// starting at the current '\\'.
func (lx *Lexer) scanStringEscape() {
	lx.cursor.Bump() // '\\'
	if lx.cursor.EOF() {
		return
	}
	b := lx.cursor.Peek()
	switch {
	case isFormattingGapByte(b):
		for isFormattingGapByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.cursor.Eat('\\')
	case b == '^':
		lx.cursor.Bump()
		if !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
	case b == 'u':
		lx.cursor.Bump()
		for i := 0; i < 4 && isHex(lx.cursor.Peek()); i++ {
			lx.cursor.Bump()
		}
	case isDec(b):
		for i := 0; i < 3 && isDec(lx.cursor.Peek()); i++ {
			lx.cursor.Bump()
		}
	default:
		lx.cursor.Bump()
	}
}

func isFormattingGapByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// scanCharLiteral scans a #"c" character literal. The cursor is positioned
// at '#' with the next byte already confirmed to be '"'. The content between
// quotes must normalize (NFC) to exactly one rune; anything else - empty,
// multiple characters, or an unterminated literal - is reported.
func (lx *Lexer) scanCharLiteral() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	contentStart := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	for !lx.cursor.EOF() && lx.cursor.Peek() != '"' && lx.cursor.Peek() != '\n' {
		if lx.cursor.Peek() == '\\' {
			lx.scanStringEscape()
			continue
		}
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() != '"' {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnterminatedString, sp, "unterminated character literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	lx.cursor.Bump() // closing '"'

	sp := lx.cursor.SpanFrom(start)
	contentSp := lx.cursor.SpanFrom(contentStart)
	inner := lx.file.Content[contentSp.Start+1 : contentSp.End-1]
	// An escape sequence always denotes exactly one character's worth of
	// content; only a literal (non-escaped) body needs the rune-count check,
	// since NFC normalization operates on encoded text, not escape syntax.
	if len(inner) > 0 && inner[0] != '\\' {
		normalized := norm.NFC.Bytes(inner)
		if utf8.RuneCount(normalized) != 1 {
			lx.errLex(diag.LexBadCharLiteral, sp, "character literal must contain exactly one character")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	} else if len(inner) == 0 {
		lx.errLex(diag.LexBadCharLiteral, sp, "character literal must contain exactly one character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	return token.Token{Kind: token.CharLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
