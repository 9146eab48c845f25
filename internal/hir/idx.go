package hir

// IdxKind tags which of the eight arenas an Idx refers into.
type IdxKind uint8

const (
	IdxNone IdxKind = iota
	IdxExp
	IdxPat
	IdxTy
	IdxDec
	IdxStrDec
	IdxStrExp
	IdxSigExp
	IdxSpec
)

// Idx is a tagged union over every arena's index type. It exists so a
// single map can relate CST syntax pointers to HIR elements regardless of
// which arena they live in - the syntax-pointer map (see tree.go) is keyed
// and valued by Idx, not by eight separate maps.
type Idx struct {
	Kind IdxKind
	Raw  uint32
}

func IdxOfExp(id ExpIdx) Idx       { return Idx{Kind: IdxExp, Raw: uint32(id)} }
func IdxOfPat(id PatIdx) Idx       { return Idx{Kind: IdxPat, Raw: uint32(id)} }
func IdxOfTy(id TyIdx) Idx         { return Idx{Kind: IdxTy, Raw: uint32(id)} }
func IdxOfDec(id DecIdx) Idx       { return Idx{Kind: IdxDec, Raw: uint32(id)} }
func IdxOfStrDec(id StrDecIdx) Idx { return Idx{Kind: IdxStrDec, Raw: uint32(id)} }
func IdxOfStrExp(id StrExpIdx) Idx { return Idx{Kind: IdxStrExp, Raw: uint32(id)} }
func IdxOfSigExp(id SigExpIdx) Idx { return Idx{Kind: IdxSigExp, Raw: uint32(id)} }
func IdxOfSpec(id SpecIdx) Idx     { return Idx{Kind: IdxSpec, Raw: uint32(id)} }

func (i Idx) AsExp() (ExpIdx, bool)       { return ExpIdx(i.Raw), i.Kind == IdxExp }
func (i Idx) AsPat() (PatIdx, bool)       { return PatIdx(i.Raw), i.Kind == IdxPat }
func (i Idx) AsTy() (TyIdx, bool)         { return TyIdx(i.Raw), i.Kind == IdxTy }
func (i Idx) AsDec() (DecIdx, bool)       { return DecIdx(i.Raw), i.Kind == IdxDec }
func (i Idx) AsStrDec() (StrDecIdx, bool) { return StrDecIdx(i.Raw), i.Kind == IdxStrDec }
func (i Idx) AsStrExp() (StrExpIdx, bool) { return StrExpIdx(i.Raw), i.Kind == IdxStrExp }
func (i Idx) AsSigExp() (SigExpIdx, bool) { return SigExpIdx(i.Raw), i.Kind == IdxSigExp }
func (i Idx) AsSpec() (SpecIdx, bool)     { return SpecIdx(i.Raw), i.Kind == IdxSpec }
