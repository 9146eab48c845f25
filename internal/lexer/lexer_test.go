package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"smlcheck/internal/diag"
	"smlcheck/internal/lexer"
	"smlcheck/internal/source"
	"smlcheck/internal/token"
)

// testReporter collects every diagnostic reported by the lexer.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sml", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	return lx, reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)

	if len(tokens) > 0 && tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}

	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("expected kind %v, got %v (errors: %v)", expectedKind, tok.Kind, reporter.ErrorMessages())
	}
	if tok.Text != expectedText {
		t.Errorf("expected text %q, got %q", expectedText, tok.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestIdentifiers_ASCII(t *testing.T) {
	tests := []struct{ input string }{
		{"foo"}, {"_bar"}, {"__test"}, {"x1"}, {"camelCase"}, {"UPPER"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, token.Ident, tt.input)
		})
	}
}

func TestUnderscore_Single(t *testing.T) {
	expectSingleToken(t, "_", token.Underscore, "_")
}

func TestKeywords_Lowercase(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"fun", token.KwFun},
		{"let", token.KwLet},
		{"val", token.KwVal},
		{"fn", token.KwFn},
		{"if", token.KwIf},
		{"then", token.KwThen},
		{"else", token.KwElse},
		{"case", token.KwCase},
		{"of", token.KwOf},
		{"datatype", token.KwDatatype},
		{"structure", token.KwStructure},
		{"signature", token.KwSignature},
		{"functor", token.KwFunctor},
		{"andalso", token.KwAndalso},
		{"orelse", token.KwOrelse},
		{"withtype", token.KwWithtype},
		{"abstype", token.KwAbstype},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, _ := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != tt.kind {
				t.Errorf("expected %v, got %v", tt.kind, tok.Kind)
			}
		})
	}
}

func TestKeywords_CapitalizedAreIdents(t *testing.T) {
	tests := []string{"Fun", "LET", "Val", "If", "Case", "Datatype"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, _ := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Ident {
				t.Errorf("expected Ident for %q, got %v", input, tok.Kind)
			}
			if tok.Text != input {
				t.Errorf("expected text %q, got %q", input, tok.Text)
			}
		})
	}
}

func TestIdentifiers_Unicode(t *testing.T) {
	tests := []string{"идентификатор", "переменная", "变量"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, _ := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Ident {
				t.Errorf("expected Ident, got %v for %q", tok.Kind, input)
			}
			if tok.Text != input {
				t.Errorf("expected text %q, got %q", input, tok.Text)
			}
		})
	}
}

func TestTyVars(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"'a", "'a"},
		{"''eq", "''eq"},
		{"'a1", "'a1"},
		{"'foo", "'foo"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, token.TyVar, tt.text)
		})
	}
}

func TestNumbers_Decimal(t *testing.T) {
	tests := []string{"0", "123", "456789"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.IntLit, input)
		})
	}
}

func TestNumbers_NegativeDecimal(t *testing.T) {
	expectSingleToken(t, "~42", token.IntLit, "~42")
}

func TestNumbers_Hexadecimal(t *testing.T) {
	tests := []string{"0x0", "0xF", "0xDEADBEEF", "0xff"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.IntLit, input)
		})
	}
}

func TestNumbers_NegativeHex(t *testing.T) {
	expectSingleToken(t, "~0xFF", token.IntLit, "~0xFF")
}

func TestNumbers_Word(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0w123", token.WordLit},
		{"0wx1F", token.WordLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestNumbers_WordCannotBeNegative(t *testing.T) {
	lx, reporter := makeTestLexer("~0w1")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected Invalid for negative word literal, got %v", tok.Kind)
	}
	if !reporter.HasErrors() {
		t.Error("expected error report for negative word literal")
	}
}

func TestNumbers_Real(t *testing.T) {
	tests := []string{"1.0", "3.14", "0.5", "123.456"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.RealLit, input)
		})
	}
}

func TestNumbers_RealNoDecimalPoint(t *testing.T) {
	tests := []string{"1e10", "1E10", "1e~10"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.RealLit, input)
		})
	}
}

func TestNumbers_RealWithExponent(t *testing.T) {
	tests := []string{"1.5e10", "3.14e~2"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.RealLit, input)
		})
	}
}

func TestNumbers_BadExponentBacksOut(t *testing.T) {
	// "1e" with nothing following the 'e' is not an exponent: the bare
	// digit "1" stands as the literal, and 'e' starts a fresh identifier.
	expectTokens(t, "1e", []token.Kind{token.IntLit, token.Ident})
}

func TestNumbers_RangeNotEatenAsReal(t *testing.T) {
	// "1" must not eat the "." of a trailing ".foo" as the start of a real.
	expectTokens(t, "1.foo", []token.Kind{token.IntLit, token.Dot, token.Ident})
}

func TestString_Simple(t *testing.T) {
	tests := []string{`""`, `"hello"`, `"hello world"`, `"123"`}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.StringLit, input)
		})
	}
}

func TestString_Escapes(t *testing.T) {
	tests := []string{
		`"hello\nworld"`,
		`"tab\there"`,
		`"quote\"inside"`,
		`"backslash\\"`,
		`"\065"`,
		`"\u0041"`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.StringLit, input)
		})
	}
}

func TestString_FormattingGap(t *testing.T) {
	input := "\"abc\\  \n   \\def\""
	expectSingleToken(t, input, token.StringLit, input)
}

func TestString_Unterminated(t *testing.T) {
	tests := []string{`"hello`, `"unclosed string`}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Errorf("expected Invalid for unterminated string, got %v", tok.Kind)
			}
			if !reporter.HasErrors() {
				t.Error("expected error report for unterminated string")
			}
		})
	}
}

func TestString_NewlineInString(t *testing.T) {
	lx, reporter := makeTestLexer("\"hello\nworld\"")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected Invalid for newline in string, got %v", tok.Kind)
	}
	if !reporter.HasErrors() {
		t.Error("expected error report for newline in string")
	}
}

func TestCharLiteral_Simple(t *testing.T) {
	expectSingleToken(t, `#"a"`, token.CharLit, `#"a"`)
}

func TestCharLiteral_Escape(t *testing.T) {
	expectSingleToken(t, `#"\n"`, token.CharLit, `#"\n"`)
}

func TestCharLiteral_TooManyChars(t *testing.T) {
	lx, reporter := makeTestLexer(`#"ab"`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected Invalid for multi-char literal, got %v", tok.Kind)
	}
	if !reporter.HasErrors() {
		t.Error("expected error report for multi-char literal")
	}
}

func TestCharLiteral_Empty(t *testing.T) {
	lx, reporter := makeTestLexer(`#""`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected Invalid for empty char literal, got %v", tok.Kind)
	}
	if !reporter.HasErrors() {
		t.Error("expected error report for empty char literal")
	}
}

func TestHash_NotFollowedByQuote(t *testing.T) {
	expectTokens(t, "#1", []token.Kind{token.Hash, token.IntLit})
}

func TestSymbolicIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{":", token.Colon},
		{":>", token.ColonGt},
		{"|", token.Bar},
		{"=", token.Eq},
		{"=>", token.DArrow},
		{"->", token.Arrow},
		{"*", token.Star},
		{"+", token.SymbolID},
		{"::", token.SymbolID},
		{">=", token.SymbolID},
		{"o", token.Ident},
		{":=", token.SymbolID},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestSymbolicIdentifiers_Greedy(t *testing.T) {
	// Maximal munch: ">>=" is one SymbolID, not ">" ">" "=".
	expectTokens(t, ">>=", []token.Kind{token.SymbolID})
}

func TestNegation_TildeBeforeDigitIsLiteral(t *testing.T) {
	expectTokens(t, "~1", []token.Kind{token.IntLit})
}

func TestNegation_TildeBeforeIdentIsSymbolID(t *testing.T) {
	expectTokens(t, "~x", []token.Kind{token.SymbolID, token.Ident})
}

func TestPunctuation(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"(", token.LParen},
		{")", token.RParen},
		{"[", token.LBracket},
		{"]", token.RBracket},
		{"{", token.LBrace},
		{"}", token.RBrace},
		{",", token.Comma},
		{";", token.Semicolon},
		{"...", token.Ellipsis},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestTrivia_Spaces(t *testing.T) {
	lx, _ := makeTestLexer("  \t  foo")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaSpace {
		t.Fatalf("expected 1 TriviaSpace, got %+v", tok.Leading)
	}
}

func TestTrivia_Newlines(t *testing.T) {
	lx, _ := makeTestLexer("\n\n\nfoo")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaNewline {
		t.Fatalf("expected 1 coalesced TriviaNewline, got %+v", tok.Leading)
	}
}

func TestTrivia_BlockComment(t *testing.T) {
	lx, _ := makeTestLexer("(* comment *)foo")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaBlockComment {
		t.Fatalf("expected 1 TriviaBlockComment, got %+v", tok.Leading)
	}
}

func TestTrivia_NestedBlockComment(t *testing.T) {
	lx, _ := makeTestLexer("(* outer (* inner *) still outer *)foo")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaBlockComment {
		t.Fatalf("expected 1 TriviaBlockComment, got %+v", tok.Leading)
	}
}

func TestTrivia_UnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("(* unterminated\nfoo")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Errorf("expected EOF after unterminated block comment, got %v", tok.Kind)
	}
	if !reporter.HasErrors() {
		t.Error("expected error report for unterminated block comment")
	}
}

func TestTrivia_Mixed(t *testing.T) {
	input := "\n(* block *)\n\t foo"
	lx, _ := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) < 2 {
		t.Errorf("expected at least 2 leading trivia, got %d", len(tok.Leading))
	}
}

func TestLexer_SimpleBinding(t *testing.T) {
	expectTokens(t, "val x = 123 + 456", []token.Kind{
		token.KwVal, token.Ident, token.Eq, token.IntLit, token.SymbolID, token.IntLit,
	})
}

func TestLexer_FunctionDefinition(t *testing.T) {
	input := "fun add (a, b) = a + b"
	expectTokens(t, input, []token.Kind{
		token.KwFun, token.Ident, token.LParen, token.Ident, token.Comma, token.Ident,
		token.RParen, token.Eq, token.Ident, token.SymbolID, token.Ident,
	})
}

func TestLexer_Datatype(t *testing.T) {
	input := "datatype 'a tree = Leaf | Node of 'a tree * 'a * 'a tree"
	expectTokens(t, input, []token.Kind{
		token.KwDatatype, token.TyVar, token.Ident, token.Eq, token.Ident, token.Bar,
		token.Ident, token.KwOf, token.TyVar, token.Ident, token.Star, token.TyVar,
		token.Star, token.TyVar, token.Ident,
	})
}

func TestLexer_PeekBehavior(t *testing.T) {
	lx, _ := makeTestLexer("a b c")

	peek1 := lx.Peek()
	if peek1.Kind != token.Ident || peek1.Text != "a" {
		t.Errorf("first peek: expected Ident 'a', got %v %q", peek1.Kind, peek1.Text)
	}
	peek2 := lx.Peek()
	if peek2.Kind != peek1.Kind || peek2.Text != peek1.Text {
		t.Error("second peek should return the same token")
	}
	next1 := lx.Next()
	if next1.Kind != peek1.Kind || next1.Text != peek1.Text {
		t.Error("next should return the peeked token")
	}
	next2 := lx.Next()
	if next2.Text != "b" {
		t.Errorf("expected 'b', got %q", next2.Text)
	}
}

func TestLexer_PushBehavior(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	first := lx.Next()
	lx.Push(first)
	replayed := lx.Next()
	if replayed.Text != first.Text {
		t.Errorf("expected pushed token to be replayed, got %q", replayed.Text)
	}
}

func TestLexer_EOF(t *testing.T) {
	lx, _ := makeTestLexer("x")

	tok1 := lx.Next()
	if tok1.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok1.Kind)
	}
	tok2 := lx.Next()
	if tok2.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok2.Kind)
	}
	tok3 := lx.Next()
	if tok3.Kind != token.EOF {
		t.Errorf("expected EOF again, got %v", tok3.Kind)
	}
}

func TestLexer_EmptyInput(t *testing.T) {
	lx, _ := makeTestLexer("")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Errorf("expected EOF for empty input, got %v", tok.Kind)
	}
}

func TestLexer_OnlyWhitespace(t *testing.T) {
	lx, _ := makeTestLexer("   \t\n  ")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Errorf("expected EOF for whitespace-only input, got %v", tok.Kind)
	}
}

func TestLexer_UnknownCharacter(t *testing.T) {
	tests := []string{"$", "§", "€"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Errorf("expected Invalid for %q, got %v", input, tok.Kind)
			}
			if !reporter.HasErrors() {
				t.Error("expected error report for unknown character")
			}
		})
	}
}

func BenchmarkLexer_SimpleExpression(b *testing.B) {
	input := "val x = 123 + 456 * 789"
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("bench.sml", []byte(input))
	file := fs.Get(fileID)

	b.ResetTimer()
	for b.Loop() {
		lx := lexer.New(file, lexer.Options{})
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
		}
	}
}

func BenchmarkLexer_LargeFile(b *testing.B) {
	var sb strings.Builder
	for i := range 100 {
		sb.WriteString("fun f")
		fmt.Fprintf(&sb, "%d", i)
		sb.WriteString(" (x, y) = x + y\n")
	}
	input := sb.String()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("bench.sml", []byte(input))
	file := fs.Get(fileID)

	b.ResetTimer()
	for b.Loop() {
		lx := lexer.New(file, lexer.Options{})
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
		}
	}
}
