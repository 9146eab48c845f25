package statics

import "smlcheck/internal/hir"

// TyIdx indexes into a Store's type arena, mirroring the hir.TyIdx/arena
// idiom: types are allocated once and referred to by index rather than by
// pointer, so a Ty can be copied, compared, and handed around by value.
type TyIdx uint32

// NoTyIdx marks the absence of a type.
const NoTyIdx TyIdx = 0

// TyKind tags which of the Definition's seven semantic type shapes a Ty is:
// none(already reported, error-recovery only), a scheme-bound variable
// referenced by its rank-local position, an as-yet-unresolved meta
// variable created during elaboration, a rigid "fixed" variable coming
// from an explicit type variable binder, a record, a type constructor
// applied to arguments, or a function type.
type TyKind uint8

const (
	TyNone TyKind = iota
	TyBoundVar
	TyMetaVar
	TyFixedVar
	TyRecord
	TyCon
	TyFn
)

// TyField is one label/type row of a record type.
type TyField struct {
	Label hir.Label
	Ty    TyIdx
}

// MetaID names one meta (unification) variable. It is distinct from TyIdx:
// a meta variable's resolution changes as unification proceeds, so it is
// looked up through a Subst rather than read directly off the Ty node that
// mentions it.
type MetaID uint32

// Ty is one node of a semantic type. Composite shapes (record/con/fn) refer
// to their components by TyIdx into the owning Store, the same
// index-of-index convention hir's arenas use for nested syntax.
type Ty struct {
	Kind TyKind

	// TyBoundVar: position within the enclosing TyScheme's bound list.
	BoundIdx uint32

	// TyMetaVar: identity of the meta variable; resolve through Subst.
	Meta MetaID

	// TyFixedVar: the source-level type variable name this rigid variable
	// came from (e.g. "'a"), kept for diagnostics.
	Fixed hir.Name

	// TyRecord.
	Fields []TyField

	// TyCon: applied constructor symbol and argument types.
	Sym  Sym
	Args []TyIdx

	// TyFn.
	Arg, Res TyIdx
}

// TyScheme is a (possibly) polymorphic type: Body mentions bound-vars
// 0..NumBound-1, each universally quantified, per the Definition's type
// scheme "∀α1...αn.τ".
type TyScheme struct {
	NumBound uint32
	Body     TyIdx
}

// Monotype wraps ty as a scheme with no bound variables, the common case
// for a λ-bound pattern variable or any expression's inferred type before
// generalization.
func Monotype(ty TyIdx) TyScheme { return TyScheme{NumBound: 0, Body: ty} }

// Store owns every Ty node allocated while elaborating one compilation
// unit. Like hir's arenas, it is append-only: elaboration never mutates an
// already-built Ty, it only builds new ones (unification resolves meta
// variables through a separate Subst instead).
type Store struct {
	tys []Ty
}

// NewStore creates a Store with the zero TyIdx reserved as TyNone.
func NewStore() *Store {
	return &Store{tys: []Ty{{Kind: TyNone}}}
}

func (s *Store) alloc(t Ty) TyIdx {
	s.tys = append(s.tys, t)
	return TyIdx(len(s.tys) - 1)
}

// Get returns the Ty node at idx. Index 0 (NoTyIdx) always returns the
// TyNone sentinel.
func (s *Store) Get(idx TyIdx) Ty {
	if int(idx) >= len(s.tys) {
		return Ty{Kind: TyNone}
	}
	return s.tys[idx]
}

func (s *Store) NewBoundVar(i uint32) TyIdx   { return s.alloc(Ty{Kind: TyBoundVar, BoundIdx: i}) }
func (s *Store) NewFixedVar(n hir.Name) TyIdx { return s.alloc(Ty{Kind: TyFixedVar, Fixed: n}) }
func (s *Store) NewRecord(fields []TyField) TyIdx {
	return s.alloc(Ty{Kind: TyRecord, Fields: fields})
}
func (s *Store) NewCon(sym Sym, args []TyIdx) TyIdx {
	return s.alloc(Ty{Kind: TyCon, Sym: sym, Args: args})
}
func (s *Store) NewFn(arg, res TyIdx) TyIdx { return s.alloc(Ty{Kind: TyFn, Arg: arg, Res: res}) }

// NewMeta allocates a Ty node referring to a fresh meta variable from gen.
func (s *Store) NewMeta(gen *MetaGen, rank uint32) TyIdx {
	return s.alloc(Ty{Kind: TyMetaVar, Meta: gen.fresh(rank)})
}
