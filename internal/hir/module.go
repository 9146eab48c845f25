package hir

// Module-level HIR mirrors the CST's structure/signature/functor shapes
// directly: nothing in Standard ML's module language needs desugaring the
// way core expressions do, so StrDec/StrExp/SigExp/Spec exist mainly to
// give statics a typed tree to walk instead of re-deriving it from source.

type StrDec interface{ strDecNode() }

type StrBind struct {
	Name Name
	Sig  SigExpIdx // NoSigExpIdx if unascribed
	Rhs  StrExpIdx
}

type StrDecDec struct{ Dec DecIdx }
type StrDecStructure struct{ Binds []StrBind }
type StrDecLocal struct{ First, Body StrDecIdx }
type StrDecSeq struct{ Decs []StrDecIdx }
type StrDecEmpty struct{}

// SigBind is one "sigid = sigexp" signature binding.
type SigBind struct {
	Name Name
	Sig  SigExpIdx
}

// StrDecSignature is a top-level "signature ... = ... [and ...]" group.
// Statics always reports this "unsupported" once elaborated - signature
// matching is out of scope - and does not record the signature's name.
type StrDecSignature struct{ Binds []SigBind }

// FunctorBind is "funid ( strid : sigexp ) [: sigexp] = strexp", the one
// functor form the parser accepts (see cst.parseFunctorBind).
type FunctorBind struct {
	Name      Name
	ParamName Name
	ParamSig  SigExpIdx
	ResultSig SigExpIdx // NoSigExpIdx if unascribed
	Body      StrExpIdx
}

// StrDecFunctor is a top-level "functor ... = ... [and ...]" group;
// statics reports "unsupported" for it the same way it does for
// StrDecSignature, since functor application is out of scope.
type StrDecFunctor struct{ Binds []FunctorBind }

func (StrDecDec) strDecNode()       {}
func (StrDecStructure) strDecNode() {}
func (StrDecLocal) strDecNode()     {}
func (StrDecSeq) strDecNode()       {}
func (StrDecEmpty) strDecNode()     {}
func (StrDecSignature) strDecNode() {}
func (StrDecFunctor) strDecNode()   {}

type StrExp interface{ strExpNode() }

type StrExpStruct struct{ Body StrDecIdx }
type StrExpPath struct{ Path Path }

// StrExpAscription is "strexp : sigexp" (transparent) or "strexp :> sigexp"
// (opaque, per the Opaque flag).
type StrExpAscription struct {
	Exp    StrExpIdx
	Sig    SigExpIdx
	Opaque bool
}
type StrExpApp struct {
	Functor Path
	Arg     StrExpIdx
}
type StrExpLet struct {
	Dec  StrDecIdx
	Body StrExpIdx
}

func (StrExpStruct) strExpNode()     {}
func (StrExpPath) strExpNode()       {}
func (StrExpAscription) strExpNode() {}
func (StrExpApp) strExpNode()        {}
func (StrExpLet) strExpNode()        {}

type SigExp interface{ sigExpNode() }

type SigExpSpec struct{ Spec SpecIdx }
type SigExpName struct{ Name Name }
type SigExpWhereType struct {
	Sig    SigExpIdx
	TyVars []Name
	Path   Path
	Ty     TyIdx
}

func (SigExpSpec) sigExpNode()      {}
func (SigExpName) sigExpNode()      {}
func (SigExpWhereType) sigExpNode() {}

type Spec interface{ specNode() }

type ValDesc struct {
	Name Name
	Ty   TyIdx
}
type StrDesc struct {
	Name Name
	Sig  SigExpIdx
}

// SharingKind distinguishes plain structure sharing from "sharing type".
type SharingKind uint8

const (
	SharingStructure SharingKind = iota
	SharingType
)

// SpecVal mirrors DecVal's TyVars convention: empty at lowering time, filled
// in once by internal/tyvarscope from the free type variables appearing in
// Descs' types.
type SpecVal struct {
	Descs  []ValDesc
	TyVars []Name
}
type SpecType struct{ Binds []TypBind }
type SpecEqtype struct{ Binds []TypBind }
type SpecDatatype struct{ Binds []DatBind }
type SpecException struct{ Binds []ExBind }
type SpecStructure struct{ Descs []StrDesc }
type SpecInclude struct{ Sig SigExpIdx }
type SpecSharing struct {
	Kind  SharingKind
	Paths []Path
}
type SpecSeq struct{ Specs []SpecIdx }
type SpecEmpty struct{}

func (SpecVal) specNode()       {}
func (SpecType) specNode()      {}
func (SpecEqtype) specNode()    {}
func (SpecDatatype) specNode()  {}
func (SpecException) specNode() {}
func (SpecStructure) specNode() {}
func (SpecInclude) specNode()   {}
func (SpecSharing) specNode()   {}
func (SpecSeq) specNode()       {}
func (SpecEmpty) specNode()     {}
