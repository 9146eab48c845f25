package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ===== rune access on top of Cursor =====

func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // ASCII fast-path
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	return r, sz
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// ===== classifiers =====
//
// An SML identifier is a letter followed by letters, digits, primes, or
// underscores (the Definition disallows a leading underscore; this lexer is
// lenient and accepts it, matching what SML/NJ and MLton do in practice).

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9') || b == '\''
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// isSymbolicChar reports whether b is one of the fixed set of characters SML
// lets combine into a symbolic identifier (e.g. "@", "::", ">="). Notably
// '#' is excluded: it is always its own token (record selector or the start
// of a character literal), never part of a symbolic identifier.
func isSymbolicChar(b byte) bool {
	switch b {
	case '!', '%', '&', '$', '+', '-', '/', ':', '<', '=', '>', '?', '@', '\\', '~', '^', '|', '*':
		return true
	default:
		return false
	}
}
