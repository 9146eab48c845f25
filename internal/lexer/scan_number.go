package lexer

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// scanNumber scans an SML special constant: a decimal or hex integer, a
// decimal or hex word (0w.../0wx...), or a real literal. Per the Definition
// of Standard ML, a leading '~' is part of the literal (not a separate
// negation operator) when it immediately precedes a digit - the caller
// already checked that before dispatching here. Word literals never carry a
// '~'; unsigned is enforced by the grammar.
//
// Real literals are digits '.' digits [(e|E) ['~'] digits], or digits
// (e|E) ['~'] digits with no decimal point at all - "1e10" is a valid real
// with no fractional part.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '~' {
		lx.cursor.Bump()
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && b1 == 'w' {
		return lx.scanWordLiteral(start)
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digitsStart := lx.cursor.Mark()
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.Mark() == digitsStart {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumericLiteral, sp, "expected hex digit after '0x'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	kind := token.IntLit

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump() // '.'
		kind = token.RealLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '~' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			// Not actually an exponent (e.g. trailing identifier char); back
			// out and let the digits scanned so far stand as the literal.
			lx.cursor.Reset(mark)
		} else {
			kind = token.RealLit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanWordLiteral scans "0w<digits>" or "0wx<hexdigits>"; start marks the
// position before the leading "0" (and any '~', which is invalid here and
// reported).
func (lx *Lexer) scanWordLiteral(start Mark) token.Token {
	hadTilde := lx.file.Content[start] == '~'
	lx.cursor.Bump() // '0'
	lx.cursor.Bump() // 'w'

	digitsStart := lx.cursor.Mark()
	if lx.cursor.Peek() == 'x' || lx.cursor.Peek() == 'X' {
		lx.cursor.Bump()
		hexStart := lx.cursor.Mark()
		for isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.Mark() == hexStart {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumericLiteral, sp, "expected hex digit after '0wx'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	} else {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.Mark() == digitsStart {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumericLiteral, sp, "expected digit after '0w'")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}

	sp := lx.cursor.SpanFrom(start)
	if hadTilde {
		lx.errLex(diag.LexBadNumericLiteral, sp, "word literals cannot be negative")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
	return token.Token{Kind: token.WordLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
