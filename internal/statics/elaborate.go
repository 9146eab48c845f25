// Package statics implements the Definition's static semantics: Algorithm
// W style Hindley-Milner inference extended with SML's record polymorphism
// and value restriction, run directly over hir.Module trees once
// internal/tyvarscope has resolved their implicit type variable scoping.
package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// elaborator carries all per-file elaboration state. A fresh one is
// created per call to Elaborate, seeded from the project's running Basis,
// so elaborating file N+1 sees every binding file N introduced.
type elaborator struct {
	mod   *hir.Module
	store *Store
	gen   *MetaGen
	sub   *Subst
	syms  *Syms
	dts   map[Sym]DatatypeInfo
	b     Builtins
	rep   diag.Reporter
	rank  uint32
}

// Elaborate statics-checks mod against basis, reporting diagnostics
// through rep, and returns the Basis extended with mod's top-level
// bindings - ready to be passed back in as the starting point for the
// next file in the project (see internal/driver).
func Elaborate(mod *hir.Module, basis *Basis, rep diag.Reporter) *Basis {
	el := &elaborator{
		mod:   mod,
		store: basis.Store,
		gen:   NewMetaGen(),
		sub:   NewSubst(),
		syms:  basis.Syms,
		dts:   cloneDatatypes(basis.Datatypes),
		b:     basis.Builtins,
		rep:   rep,
	}
	env := el.elabStrDec(basis.Env, mod.Root)
	return &Basis{
		Store:     el.store,
		Syms:      el.syms,
		Env:       env,
		Datatypes: el.dts,
		Builtins:  el.b,
	}
}

func cloneDatatypes(in map[Sym]DatatypeInfo) map[Sym]DatatypeInfo {
	out := make(map[Sym]DatatypeInfo, len(in)+8)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (el *elaborator) uctx() *unifyCtx {
	return &unifyCtx{mod: el.mod, store: el.store, gen: el.gen, sub: el.sub, rep: el.rep}
}

func (el *elaborator) unify(a, b TyIdx, pointer hir.Idx) bool {
	return el.uctx().Unify(a, b, el.rank, pointer)
}

func (el *elaborator) freshMeta() TyIdx { return el.store.NewMeta(el.gen, el.rank) }

// enterLet raises the let-nesting rank for the duration of elaborating one
// binding group's right-hand sides, and returns a function that restores
// it; every meta variable allocated in between is attributed to the
// deeper rank, which is what makes rank-based generalization work.
func (el *elaborator) enterLet() func() {
	el.rank++
	saved := el.rank
	return func() { el.rank = saved - 1 }
}

func (el *elaborator) report(code diag.Code, pointer hir.Idx, msg string) {
	if el.rep == nil {
		return
	}
	el.rep.Report(code, diag.SevError, spanOf(el.mod, pointer), msg, nil)
}
