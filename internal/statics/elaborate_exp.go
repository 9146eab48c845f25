package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// elabExp infers exp's type under env, threading tv (the enclosing val's
// fixed type variables) through any nested type annotations.
func (el *elaborator) elabExp(env *Env, tv tyVarEnv, idx hir.ExpIdx) TyIdx {
	if !idx.IsValid() {
		return el.freshMeta()
	}
	switch v := (*el.mod.Exps.Get(uint32(idx))).(type) {
	case hir.ExpHole:
		return el.freshMeta()
	case hir.ExpScon:
		return el.sconTy(v.Value)
	case hir.ExpPath:
		return el.elabExpPath(env, idx, v.Path)
	case hir.ExpRecord:
		fields := make([]TyField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = TyField{Label: f.Label, Ty: el.elabExp(env, tv, f.Value)}
		}
		return el.store.NewRecord(fields)
	case hir.ExpLet:
		inner := el.elabDec(env, v.Dec)
		return el.elabExp(inner, tv, v.Body)
	case hir.ExpApp:
		return el.elabExpApp(env, tv, idx, v)
	case hir.ExpHandle:
		bodyTy := el.elabExp(env, tv, v.Body)
		matchTy := el.elabMatch(env, tv, v.Match, el.store.NewCon(el.b.Exn, nil))
		el.unify(bodyTy, matchTy, hir.IdxOfExp(idx))
		return bodyTy
	case hir.ExpRaise:
		exnTy := el.elabExp(env, tv, v.Exp)
		el.unify(exnTy, el.store.NewCon(el.b.Exn, nil), hir.IdxOfExp(idx))
		return el.freshMeta()
	case hir.ExpFn:
		argTy := el.freshMeta()
		resTy := el.elabMatch(env, tv, v.Match, argTy)
		return el.store.NewFn(argTy, resTy)
	case hir.ExpTyped:
		inner := el.elabExp(env, tv, v.Exp)
		ann := el.elabTy(env, tv, v.Ty)
		el.unify(inner, ann, hir.IdxOfExp(idx))
		return ann
	default:
		return el.freshMeta()
	}
}

func (el *elaborator) elabExpPath(env *Env, idx hir.ExpIdx, p hir.Path) TyIdx {
	info, ok := env.LookupPath(p)
	if !ok {
		if len(p.Qualifiers) == 0 {
			el.report(diag.SemUndefinedValue, hir.IdxOfExp(idx), "undefined value "+p.String())
		} else {
			el.report(diag.SemUndefinedStructure, hir.IdxOfExp(idx), "undefined structure in path "+p.String())
		}
		return el.freshMeta()
	}
	return instantiate(el.store, el.gen, info.Scheme, el.rank)
}

func (el *elaborator) elabExpApp(env *Env, tv tyVarEnv, idx hir.ExpIdx, v hir.ExpApp) TyIdx {
	funcTy := el.elabExp(env, tv, v.Func)
	argTy := el.elabExp(env, tv, v.Arg)
	resTy := el.freshMeta()
	funcTy = Resolve(el.store, el.sub, funcTy)
	if t := el.store.Get(funcTy); t.Kind != TyMetaVar && t.Kind != TyFn {
		el.report(diag.SemNonFunctionApplication, hir.IdxOfExp(idx), "applying a non-function value")
		return resTy
	}
	el.unify(funcTy, el.store.NewFn(argTy, resTy), hir.IdxOfExp(idx))
	return resTy
}

// elabMatch infers the common result type of every rule in m, unifying
// each rule's pattern type against scrutTy, and runs the exhaustiveness/
// redundancy check over the whole rule set exactly once.
func (el *elaborator) elabMatch(env *Env, tv tyVarEnv, m hir.Match, scrutTy TyIdx) TyIdx {
	resTy := el.freshMeta()
	pats := make([]hir.PatIdx, len(m.Rules))
	for i, rule := range m.Rules {
		bound := map[hir.Name]ValInfo{}
		patTy := el.elabPat(env, tv, rule.Pat, bound)
		el.unify(patTy, scrutTy, hir.IdxOfPat(rule.Pat))
		inner := env
		for n, info := range bound {
			inner = inner.BindVal(n, info)
		}
		bodyTy := el.elabExp(inner, tv, rule.Body)
		el.unify(bodyTy, resTy, hir.IdxOfExp(rule.Body))
		pats[i] = rule.Pat
	}
	el.checkMatch(env, pats, m)
	return resTy
}
