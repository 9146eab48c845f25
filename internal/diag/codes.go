package diag

import "fmt"

// Code is a compact numeric diagnostic identifier, grouped by pipeline phase:
// lex (1000s), parse (2000s), lower/HIR (4000s), statics (5000s). The 3000s
// range is reserved for a future name-resolution pass should one be split out
// of statics.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical analysis.
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumericLiteral        Code = 1004
	LexTokenTooLong             Code = 1005
	LexBadCharLiteral           Code = 1006

	// Parsing / CST construction. The grammar-level parser reports only a
	// small, collaborator-level set; most SML-specific structure errors are
	// raised during lowering instead, where the HIR shape is known.
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002

	// HIR lowering and desugaring.
	LowFunClauseNameMismatch  Code = 4001
	LowFunClauseArityMismatch Code = 4002
	LowInvalidLiteral         Code = 4003
	LowInvalidNumericLabel    Code = 4004
	LowUnsupportedRowPunning  Code = 4005
	LowUnsupportedVectorExp   Code = 4006
	LowOneTupleForbidden      Code = 4007
	LowLabelZeroForbidden     Code = 4008
	LowUnsupportedConstruct   Code = 4009
	LowPrecedingBar           Code = 4010

	// Statics (type checking / elaboration).
	SemUndefinedValue           Code = 5001
	SemUndefinedStructure       Code = 5002
	SemUndefinedType            Code = 5003
	SemTypeMismatch              Code = 5004
	SemOccursCheck               Code = 5005
	SemNonFunctionApplication    Code = 5006
	SemTypeNameEscape            Code = 5007
	SemDuplicateBinding          Code = 5008
	SemInvalidRebind             Code = 5009
	SemNonExhaustiveMatch        Code = 5010
	SemRedundantMatchArm         Code = 5011
	SemUnsupportedModuleFeature  Code = 5012
	SemArityMismatch             Code = 5013
	SemWrongRecordLabels         Code = 5014
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	LexUnknownChar:              "unrecognized character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	LexBadNumericLiteral:        "malformed numeric literal",
	LexTokenTooLong:             "token exceeds maximum length",
	LexBadCharLiteral:           "character literal must contain exactly one character",

	SynUnexpectedToken:   "unexpected token",
	SynUnclosedDelimiter: "unclosed delimiter",

	LowFunClauseNameMismatch:  "fun clauses do not all name the same function",
	LowFunClauseArityMismatch: "fun clauses do not all have the same number of arguments",
	LowInvalidLiteral:         "invalid literal",
	LowInvalidNumericLabel:    "invalid numeric record label",
	LowUnsupportedRowPunning:  "record row punning is not supported",
	LowUnsupportedVectorExp:   "vector expressions are not supported",
	LowOneTupleForbidden:      "a 1-tuple is not permitted",
	LowLabelZeroForbidden:     "record/tuple labels start at 1, not 0",
	LowUnsupportedConstruct:   "unsupported construct",
	LowPrecedingBar:           "a leading '|' before the first match rule is not permitted",

	SemUndefinedValue:           "undefined value identifier",
	SemUndefinedStructure:       "undefined structure identifier",
	SemUndefinedType:            "undefined type identifier",
	SemTypeMismatch:             "type mismatch",
	SemOccursCheck:              "circular type (occurs check failed)",
	SemNonFunctionApplication:   "applied a non-function value",
	SemTypeNameEscape:           "a type name would escape its scope",
	SemDuplicateBinding:         "duplicate binding in the same pattern",
	SemInvalidRebind:            "cannot rebind this identifier",
	SemNonExhaustiveMatch:       "match is not exhaustive",
	SemRedundantMatchArm:        "match rule is redundant",
	SemUnsupportedModuleFeature: "unsupported module-level feature",
	SemArityMismatch:            "wrong number of type or value arguments",
	SemWrongRecordLabels:        "record labels do not match",
}

// ID renders the stable, phase-prefixed string form of a code, e.g. "SEM5004".
func (c Code) ID() string {
	switch ic := uint16(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

// Title returns the short human-readable description of a code.
func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
