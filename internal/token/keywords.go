package token

// reservedWords is the SML '97 reserved-word set (Definition, Appendix C).
// Reserved words are never valid identifiers, even with `op`.
var reservedWords = map[string]Kind{
	"abstype": KwAbstype, "and": KwAnd, "andalso": KwAndalso, "as": KwAs,
	"case": KwCase, "datatype": KwDatatype, "do": KwDo, "else": KwElse,
	"end": KwEnd, "eqtype": KwEqtype, "exception": KwException, "fn": KwFn,
	"fun": KwFun, "functor": KwFunctor, "handle": KwHandle, "if": KwIf,
	"in": KwIn, "include": KwInclude, "infix": KwInfix, "infixr": KwInfixr,
	"let": KwLet, "local": KwLocal, "nonfix": KwNonfix, "of": KwOf, "op": KwOp,
	"open": KwOpen, "orelse": KwOrelse, "raise": KwRaise, "rec": KwRec,
	"sharing": KwSharing, "sig": KwSig, "signature": KwSignature,
	"struct": KwStruct, "structure": KwStructure, "then": KwThen, "type": KwType,
	"val": KwVal, "with": KwWith, "withtype": KwWithtype, "while": KwWhile,
	"_": Underscore,
}

// LookupReserved reports whether ident names a reserved word, and its Kind.
func LookupReserved(ident string) (Kind, bool) {
	k, ok := reservedWords[ident]
	return k, ok
}

// reservedSymbols are symbolic-identifier spellings reserved by the
// Definition; they cannot be rebound as infix/prefix value identifiers.
var reservedSymbols = map[string]Kind{
	":": Colon, ":>": ColonGt, "|": Bar, "=": Eq, "=>": DArrow, "->": Arrow,
	"#": Hash, "*": Star,
}

// LookupReservedSymbol reports whether a maximal-munch symbolic run is
// actually a reserved symbol rather than an ordinary SymbolID.
func LookupReservedSymbol(s string) (Kind, bool) {
	k, ok := reservedSymbols[s]
	return k, ok
}
