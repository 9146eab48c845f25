// Package cst builds a lossless concrete syntax tree over an SML token
// stream. The tree keeps every token, including trivia, so spans recovered
// from it always cover the exact source text; internal/hir walks this tree
// to build the desugared HIR and nothing downstream re-reads source text.
package cst

// Kind tags a single Node in the tree. Unlike the token vocabulary, Kind
// distinguishes syntactic shape: ExpIf and ExpCase are both "expressions"
// but need different child layouts.
type Kind uint16

const (
	KUnknown Kind = iota
	KFile

	// Expressions.
	KExpScon
	KExpPath
	KExpRecord
	KExpRecordRow
	KExpSelector
	KExpParen
	KExpTuple
	KExpList
	KExpSeq
	KExpLet
	KExpApp
	KExpInfixApp
	KExpAndalso
	KExpOrelse
	KExpHandle
	KExpRaise
	KExpIf
	KExpWhile
	KExpCase
	KExpFn
	KExpTyped
	KExpOp

	KMatch
	KMatchRule

	// Patterns.
	KPatWild
	KPatScon
	KPatCon
	KPatRecord
	KPatRecordRow
	KPatRecordRest
	KPatParen
	KPatTuple
	KPatList
	KPatTyped
	KPatAs
	KPatOrInfix

	// Types.
	KTyVar
	KTyCon
	KTyRecord
	KTyRecordRow
	KTyFn
	KTyParen
	KTyTuple

	// Declarations.
	KDecVal
	KValBind
	KDecFun
	KFunBind
	KFunClause
	KDecType
	KTypBind
	KDecDatatype
	KDatBind
	KConBind
	KDecDatatypeRepl
	KDecAbstype
	KDecException
	KExBind
	KExBindRepl
	KDecLocal
	KDecOpen
	KDecSeq
	KDecInfix
	KDecInfixr
	KDecNonfix
	KDecEmpty

	// Module-level.
	KStrDecDec
	KStrDecStructure
	KStrBind
	KStrDecLocal
	KStrDecSeq
	KStrDecEmpty
	KStrExpStruct
	KStrExpPath
	KStrExpAscription
	KStrExpApp
	KStrExpLet

	KSigExpSpec
	KSigExpName
	KSigExpWhereType

	KSpecVal
	KValDesc
	KSpecType
	KSpecEqtype
	KSpecDatatype
	KSpecException
	KSpecStructure
	KStrDesc
	KSpecInclude
	KSpecSharing
	KSpecSeq
	KSpecEmpty

	KSigBind
	KDecSignature
	KFunctorBind
	KDecFunctor

	// Shared pieces.
	KPath
	KLabel
	KTyVarSeq
	KError
)

var kindNames = map[Kind]string{
	KUnknown: "unknown", KFile: "file",
	KExpScon: "ExpScon", KExpPath: "ExpPath", KExpRecord: "ExpRecord",
	KExpRecordRow: "ExpRecordRow", KExpSelector: "ExpSelector", KExpParen: "ExpParen",
	KExpTuple: "ExpTuple", KExpList: "ExpList", KExpSeq: "ExpSeq", KExpLet: "ExpLet",
	KExpApp: "ExpApp", KExpInfixApp: "ExpInfixApp", KExpAndalso: "ExpAndalso",
	KExpOrelse: "ExpOrelse", KExpHandle: "ExpHandle", KExpRaise: "ExpRaise",
	KExpIf: "ExpIf", KExpWhile: "ExpWhile", KExpCase: "ExpCase", KExpFn: "ExpFn",
	KExpTyped: "ExpTyped", KExpOp: "ExpOp",
	KMatch: "Match", KMatchRule: "MatchRule",
	KPatWild: "PatWild", KPatScon: "PatScon", KPatCon: "PatCon",
	KPatRecord: "PatRecord", KPatRecordRow: "PatRecordRow", KPatRecordRest: "PatRecordRest",
	KPatParen: "PatParen", KPatTuple: "PatTuple", KPatList: "PatList",
	KPatTyped: "PatTyped", KPatAs: "PatAs", KPatOrInfix: "PatInfix",
	KTyVar: "TyVar", KTyCon: "TyCon", KTyRecord: "TyRecord", KTyRecordRow: "TyRecordRow",
	KTyFn: "TyFn", KTyParen: "TyParen", KTyTuple: "TyTuple",
	KDecVal: "DecVal", KValBind: "ValBind", KDecFun: "DecFun", KFunBind: "FunBind",
	KFunClause: "FunClause", KDecType: "DecType", KTypBind: "TypBind",
	KDecDatatype: "DecDatatype", KDatBind: "DatBind", KConBind: "ConBind",
	KDecDatatypeRepl: "DecDatatypeRepl", KDecAbstype: "DecAbstype",
	KDecException: "DecException", KExBind: "ExBind", KExBindRepl: "ExBindRepl",
	KDecLocal: "DecLocal", KDecOpen: "DecOpen", KDecSeq: "DecSeq",
	KDecInfix: "DecInfix", KDecInfixr: "DecInfixr", KDecNonfix: "DecNonfix",
	KDecEmpty: "DecEmpty",
	KStrDecDec: "StrDecDec", KStrDecStructure: "StrDecStructure", KStrBind: "StrBind",
	KStrDecLocal: "StrDecLocal", KStrDecSeq: "StrDecSeq", KStrDecEmpty: "StrDecEmpty",
	KStrExpStruct: "StrExpStruct", KStrExpPath: "StrExpPath",
	KStrExpAscription: "StrExpAscription", KStrExpApp: "StrExpApp", KStrExpLet: "StrExpLet",
	KSigExpSpec: "SigExpSpec", KSigExpName: "SigExpName", KSigExpWhereType: "SigExpWhereType",
	KSpecVal: "SpecVal", KValDesc: "ValDesc", KSpecType: "SpecType", KSpecEqtype: "SpecEqtype",
	KSpecDatatype: "SpecDatatype", KSpecException: "SpecException", KSpecStructure: "SpecStructure",
	KStrDesc: "StrDesc", KSpecInclude: "SpecInclude", KSpecSharing: "SpecSharing",
	KSpecSeq: "SpecSeq", KSpecEmpty: "SpecEmpty",
	KSigBind: "SigBind", KDecSignature: "DecSignature", KFunctorBind: "FunctorBind",
	KDecFunctor: "DecFunctor",
	KPath: "Path", KLabel: "Label", KTyVarSeq: "TyVarSeq", KError: "Error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

// IsExp reports whether k tags an expression node.
func (k Kind) IsExp() bool {
	return k >= KExpScon && k <= KExpOp
}

// IsDec reports whether k tags a core-level declaration node.
func (k Kind) IsDec() bool {
	return k >= KDecVal && k <= KDecEmpty
}

// IsPat reports whether k tags a pattern node.
func (k Kind) IsPat() bool {
	return k >= KPatWild && k <= KPatOrInfix
}

// IsTy reports whether k tags a type expression node.
func (k Kind) IsTy() bool {
	return k >= KTyVar && k <= KTyTuple
}
