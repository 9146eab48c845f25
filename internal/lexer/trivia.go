package lexer

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// collectLeadingTrivia gathers the run of trivia preceding the next
// significant token:
//   - ' ', '\t', '\r', '\f', '\v' coalesce into one TriviaSpace
//   - runs of '\n' coalesce into one TriviaNewline
//   - (* ... *) becomes a TriviaBlockComment; comments nest, matching the
//     Definition of Standard ML. An unterminated comment is reported and the
//     trivia run is cut off at EOF.
//
// SML has no line-comment syntax, so TriviaLineComment is never produced
// here; it exists in the token package only in case a future dialect flag
// adds one.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if isSpaceByte(b) {
			for isSpaceByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '(' {
			if lx.scanBlockCommentIntoHold() {
				continue
			}
		}

		break
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// scanBlockCommentIntoHold consumes a nestable (* ... *) comment starting at
// the cursor. Returns false (without consuming anything) if '(' is not
// actually followed by '*'.
func (lx *Lexer) scanBlockCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '(' || b1 != '*' {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		if c0, c1, ok := lx.cursor.Peek2(); ok {
			if c0 == '(' && c1 == '*' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth++
				continue
			}
			if c0 == '*' && c1 == ')' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth--
				continue
			}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if depth > 0 {
		lx.errLex(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	}
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaBlockComment,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
	return true
}
