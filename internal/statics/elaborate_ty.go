package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// tyVarEnv maps the fixed type-variable names scoped to the current
// val/fun binding (collected by internal/tyvarscope) to the TyIdx standing
// for each one - every mention of "'a" within one val's patterns, body, and
// type annotations must elaborate to the very same fixed variable.
type tyVarEnv map[hir.Name]TyIdx

func (el *elaborator) newTyVarEnv(names []hir.Name) tyVarEnv {
	tv := make(tyVarEnv, len(names))
	for _, n := range names {
		tv[n] = el.store.NewFixedVar(n)
	}
	return tv
}

// elabTy converts a surface hir.Ty into a semantic TyIdx. tv resolves
// fixed type variables in scope; a variable not found there is still
// elaborated (rather than rejected) as its own fresh fixed variable, which
// happens for datatype/type binders whose own tyvar sequence is handled
// separately from the val-scoping pass.
func (el *elaborator) elabTy(env *Env, tv tyVarEnv, idx hir.TyIdx) TyIdx {
	if !idx.IsValid() {
		return el.freshMeta()
	}
	switch v := (*el.mod.Tys.Get(uint32(idx))).(type) {
	case hir.TyNone:
		return el.freshMeta()
	case hir.TyVar:
		if t, ok := tv[v.Name]; ok {
			return t
		}
		t := el.store.NewFixedVar(v.Name)
		tv[v.Name] = t
		return t
	case hir.TyRecord:
		fields := make([]TyField, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = TyField{Label: f.Label, Ty: el.elabTy(env, tv, f.Ty)}
		}
		return el.store.NewRecord(fields)
	case hir.TyFn:
		return el.store.NewFn(el.elabTy(env, tv, v.Arg), el.elabTy(env, tv, v.Res))
	case hir.TyCon:
		args := make([]TyIdx, len(v.Args))
		for i, a := range v.Args {
			args[i] = el.elabTy(env, tv, a)
		}
		info, ok := env.LookupTyPath(v.Path)
		if !ok {
			el.report(diag.SemUndefinedType, hir.IdxOfTy(idx), "undefined type "+v.Path.String())
			return el.freshMeta()
		}
		if info.Arity != len(args) {
			el.report(diag.SemArityMismatch, hir.IdxOfTy(idx), "type constructor "+v.Path.String()+" applied to the wrong number of arguments")
		}
		return el.store.NewCon(info.Sym, args)
	default:
		return el.freshMeta()
	}
}
