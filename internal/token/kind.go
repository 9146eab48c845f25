// Package token defines the lexical token vocabulary for Standard ML source
// text. It is a pure data package: the scanner (internal/lexer) produces
// tokens, the lossless tree builder (internal/cst) consumes them.
package token

// Kind categorizes a single token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident    // alphanumeric identifier: foo, Foo_bar, x1
	SymbolID // symbolic identifier: +, @@, <>, ++
	TyVar    // 'a, ''a (leading quote(s) then identifier)

	IntLit    // 123, ~42, 0x1F, ~0xFF
	WordLit   // 0w123, 0wx1F
	RealLit   // 1.0, ~1.0e~3, 3.14
	CharLit   // #"c"
	StringLit // "..."

	// Reserved words (SML '97, Appendix C).
	KwAbstype
	KwAnd
	KwAndalso
	KwAs
	KwCase
	KwDatatype
	KwDo
	KwElse
	KwEnd
	KwEqtype
	KwException
	KwFn
	KwFun
	KwFunctor
	KwHandle
	KwIf
	KwIn
	KwInclude
	KwInfix
	KwInfixr
	KwLet
	KwLocal
	KwNonfix
	KwOf
	KwOp
	KwOpen
	KwOrelse
	KwRaise
	KwRec
	KwSharing
	KwSig
	KwSignature
	KwStruct
	KwStructure
	KwThen
	KwType
	KwVal
	KwWith
	KwWithtype
	KwWhile

	// Reserved punctuation/symbols that are not ordinary SymbolIDs.
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	LBrace    // {
	RBrace    // }
	Comma     // ,
	Colon     // :
	ColonGt   // :>
	Semicolon // ;
	Ellipsis  // ...
	Underscore
	Bar      // |
	Eq       // =
	DArrow   // =>
	Arrow    // ->
	Hash     // #
	Star     // *
	Dot      // . (long-identifier separator: strid.strid.id; also appears inside "...")
)

var names = map[Kind]string{
	Invalid: "invalid", EOF: "EOF",
	Ident: "identifier", SymbolID: "symbolic identifier", TyVar: "type variable",
	IntLit: "integer literal", WordLit: "word literal", RealLit: "real literal",
	CharLit: "character literal", StringLit: "string literal",
	KwAbstype: "abstype", KwAnd: "and", KwAndalso: "andalso", KwAs: "as", KwCase: "case",
	KwDatatype: "datatype", KwDo: "do", KwElse: "else", KwEnd: "end", KwEqtype: "eqtype",
	KwException: "exception", KwFn: "fn", KwFun: "fun", KwFunctor: "functor", KwHandle: "handle",
	KwIf: "if", KwIn: "in", KwInclude: "include", KwInfix: "infix", KwInfixr: "infixr",
	KwLet: "let", KwLocal: "local", KwNonfix: "nonfix", KwOf: "of", KwOp: "op", KwOpen: "open",
	KwOrelse: "orelse", KwRaise: "raise", KwRec: "rec", KwSharing: "sharing", KwSig: "sig",
	KwSignature: "signature", KwStruct: "struct", KwStructure: "structure", KwThen: "then",
	KwType: "type", KwVal: "val", KwWith: "with", KwWithtype: "withtype", KwWhile: "while",
	LParen: "(", RParen: ")", LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
	Comma: ",", Colon: ":", ColonGt: ":>", Semicolon: ";", Ellipsis: "...", Underscore: "_",
	Bar: "|", Eq: "=", DArrow: "=>", Arrow: "->", Hash: "#", Star: "*", Dot: ".",
}

// String returns a human-readable token kind name, suitable for diagnostics.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// IsReservedWord reports whether k is one of the SML reserved words (not
// counting reserved punctuation).
func (k Kind) IsReservedWord() bool {
	return k >= KwAbstype && k <= KwWhile
}

// IsLiteral reports whether k is a special-constant token kind.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, WordLit, RealLit, CharLit, StringLit:
		return true
	default:
		return false
	}
}
