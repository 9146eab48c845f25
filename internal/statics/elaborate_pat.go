package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// elabPat infers pat's type and the value bindings it introduces. bound
// accumulates bindings directly into the caller's map so a multi-pattern
// context (match rules, "and"-joined val binds) can detect the Definition's
// rule that no variable may be bound twice by one pattern.
func (el *elaborator) elabPat(env *Env, tv tyVarEnv, idx hir.PatIdx, bound map[hir.Name]ValInfo) TyIdx {
	if !idx.IsValid() {
		return el.freshMeta()
	}
	switch v := (*el.mod.Pats.Get(uint32(idx))).(type) {
	case hir.PatHole:
		return el.freshMeta()
	case hir.PatWild:
		return el.freshMeta()
	case hir.PatScon:
		return el.sconTy(v.Value)
	case hir.PatCon:
		return el.elabPatCon(env, tv, idx, v, bound)
	case hir.PatRecord:
		fields := make([]TyField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = TyField{Label: f.Label, Ty: el.elabPat(env, tv, f.Value, bound)}
		}
		if v.Rest {
			// A "..." row-polymorphic pattern has no closed record type;
			// statics degrades it to a fresh meta rather than refusing to
			// check the rest of the pattern.
			return el.freshMeta()
		}
		return el.store.NewRecord(fields)
	case hir.PatAs:
		inner := el.elabPat(env, tv, v.Pat, bound)
		if v.Ty.IsValid() {
			ann := el.elabTy(env, tv, v.Ty)
			el.unify(inner, ann, hir.IdxOfPat(idx))
		}
		if v.Name != "" {
			el.bindPatVar(bound, v.Name, inner, idx)
		}
		return inner
	case hir.PatTyped:
		inner := el.elabPat(env, tv, v.Pat, bound)
		ann := el.elabTy(env, tv, v.Ty)
		el.unify(inner, ann, hir.IdxOfPat(idx))
		return ann
	case hir.PatOr:
		var ty TyIdx = NoTyIdx
		for _, alt := range v.Alts {
			altBound := map[hir.Name]ValInfo{}
			altTy := el.elabPat(env, tv, alt, altBound)
			if ty == NoTyIdx {
				ty = altTy
			} else {
				el.unify(ty, altTy, hir.IdxOfPat(idx))
			}
			for n, info := range altBound {
				el.bindPatVarInfo(bound, n, info, idx)
			}
		}
		return ty
	default:
		return el.freshMeta()
	}
}

func (el *elaborator) bindPatVar(bound map[hir.Name]ValInfo, n hir.Name, ty TyIdx, idx hir.PatIdx) {
	el.bindPatVarInfo(bound, n, ValInfo{Scheme: Monotype(ty)}, idx)
}

func (el *elaborator) bindPatVarInfo(bound map[hir.Name]ValInfo, n hir.Name, info ValInfo, idx hir.PatIdx) {
	if _, dup := bound[n]; dup {
		el.report(diag.SemDuplicateBinding, hir.IdxOfPat(idx), "variable "+string(n)+" bound twice in the same pattern")
		return
	}
	bound[n] = info
}

// elabPatCon handles both plain variable patterns and constructor
// applications; which one "Path" names cannot be decided syntactically,
// so the value environment is consulted first, matching the Definition's
// "constructors vs. variables" disambiguation rule.
func (el *elaborator) elabPatCon(env *Env, tv tyVarEnv, idx hir.PatIdx, v hir.PatCon, bound map[hir.Name]ValInfo) TyIdx {
	info, isKnown := env.LookupPath(v.Path)
	if !v.Arg.IsValid() && (!isKnown || !info.IsCon) {
		// An unqualified name not bound as a constructor is a fresh
		// variable binding.
		if len(v.Path.Qualifiers) == 0 {
			ty := el.freshMeta()
			el.bindPatVar(bound, v.Path.Last, ty, idx)
			return ty
		}
		el.report(diag.SemUndefinedValue, hir.IdxOfPat(idx), "undefined constructor "+v.Path.String())
		return el.freshMeta()
	}
	if !isKnown {
		el.report(diag.SemUndefinedValue, hir.IdxOfPat(idx), "undefined constructor "+v.Path.String())
		conTy := el.freshMeta()
		if v.Arg.IsValid() {
			el.elabPat(env, tv, v.Arg, bound)
		}
		return conTy
	}
	conTy := instantiate(el.store, el.gen, info.Scheme, el.rank)
	if !info.HasArg {
		if v.Arg.IsValid() {
			el.report(diag.SemArityMismatch, hir.IdxOfPat(idx), "constructor "+v.Path.String()+" takes no argument")
		}
		return conTy
	}
	t := el.store.Get(conTy)
	if t.Kind != TyFn {
		return conTy
	}
	if !v.Arg.IsValid() {
		el.report(diag.SemArityMismatch, hir.IdxOfPat(idx), "constructor "+v.Path.String()+" requires an argument")
		return t.Res
	}
	argTy := el.elabPat(env, tv, v.Arg, bound)
	el.unify(argTy, t.Arg, hir.IdxOfPat(idx))
	return t.Res
}

func (el *elaborator) sconTy(s hir.SCon) TyIdx {
	switch s.Kind {
	case hir.SConInt:
		return el.store.NewCon(el.b.Int, nil)
	case hir.SConWord:
		return el.store.NewCon(el.b.Word, nil)
	case hir.SConReal:
		return el.store.NewCon(el.b.Real, nil)
	case hir.SConChar:
		return el.store.NewCon(el.b.Char, nil)
	case hir.SConString:
		return el.store.NewCon(el.b.String, nil)
	default:
		return el.freshMeta()
	}
}
