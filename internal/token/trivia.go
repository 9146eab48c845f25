package token

import "smlcheck/internal/source"

// TriviaKind classifies a non-code source element.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment  // unused by SML (no line comments) but kept for comment-convention extensions
	TriviaBlockComment // (* ... *), nestable
)

// Trivia is whitespace or a comment attached to the following token as
// leading trivia, preserving the source losslessly.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
