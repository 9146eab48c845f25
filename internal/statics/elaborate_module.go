package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// elabStrDec elaborates a structure-level declaration group and returns
// the environment extended with whatever it binds. Structures and "local"
// elaborate fully (they're just core declarations organized into named
// groups); signatures and functors are walked only far enough to surface
// diag.SemUnsupportedModuleFeature once each, per SPEC_FULL.md's module
// scope cut - full signature matching and functor application are out of
// scope.
func (el *elaborator) elabStrDec(env *Env, idx hir.StrDecIdx) *Env {
	if !idx.IsValid() {
		return env
	}
	switch v := (*el.mod.StrDecs.Get(uint32(idx))).(type) {
	case hir.StrDecDec:
		return el.elabDec(env, v.Dec)
	case hir.StrDecStructure:
		for _, b := range v.Binds {
			inner := el.elabStrExp(env, b.Rhs)
			if b.Sig.IsValid() {
				el.elabSigExp(env, b.Sig)
			}
			env = env.BindStr(b.Name, inner)
		}
		return env
	case hir.StrDecLocal:
		inner := el.elabStrDec(env, v.First)
		after := el.elabStrDec(inner, v.Body)
		return spliceOnto(env, inner, after)
	case hir.StrDecSeq:
		cur := env
		for _, d := range v.Decs {
			cur = el.elabStrDec(cur, d)
		}
		return cur
	case hir.StrDecEmpty:
		return env
	case hir.StrDecSignature:
		for _, b := range v.Binds {
			el.elabSigExp(env, b.Sig)
		}
		el.report(diag.SemUnsupportedModuleFeature, hir.IdxOfStrDec(idx), "signature bindings are not checked against their structures")
		return env
	case hir.StrDecFunctor:
		for _, b := range v.Binds {
			el.elabSigExp(env, b.ParamSig)
			if b.ResultSig.IsValid() {
				el.elabSigExp(env, b.ResultSig)
			}
			el.elabStrExp(env, b.Body)
		}
		el.report(diag.SemUnsupportedModuleFeature, hir.IdxOfStrDec(idx), "functors are not elaborated or applied")
		return env
	default:
		return env
	}
}

func (el *elaborator) elabStrExp(env *Env, idx hir.StrExpIdx) *Env {
	if !idx.IsValid() {
		return env
	}
	switch v := (*el.mod.StrExps.Get(uint32(idx))).(type) {
	case hir.StrExpStruct:
		return el.elabStrDec(env, v.Body)
	case hir.StrExpPath:
		str, ok := resolveStrPath(env, v.Path)
		if !ok {
			el.report(diag.SemUndefinedStructure, hir.IdxOfStrExp(idx), "undefined structure "+v.Path.String())
			return env.Child()
		}
		return str
	case hir.StrExpAscription:
		inner := el.elabStrExp(env, v.Exp)
		el.elabSigExp(env, v.Sig)
		el.report(diag.SemUnsupportedModuleFeature, hir.IdxOfStrExp(idx), "signature ascription is not enforced")
		return inner
	case hir.StrExpApp:
		el.report(diag.SemUnsupportedModuleFeature, hir.IdxOfStrExp(idx), "functor application is not elaborated")
		return el.elabStrExp(env, v.Arg)
	case hir.StrExpLet:
		inner := el.elabStrDec(env, v.Dec)
		return el.elabStrExp(inner, v.Body)
	default:
		return env.Child()
	}
}

// elabSigExp walks a signature expression only to validate the types and
// value descriptions it mentions resolve; the resulting shape is never
// matched against an actual structure (see elabStrDec's comment).
func (el *elaborator) elabSigExp(env *Env, idx hir.SigExpIdx) {
	if !idx.IsValid() {
		return
	}
	switch v := (*el.mod.SigExps.Get(uint32(idx))).(type) {
	case hir.SigExpSpec:
		el.elabSpec(env, v.Spec)
	case hir.SigExpName:
	case hir.SigExpWhereType:
		el.elabSigExp(env, v.Sig)
		tv := el.newTyVarEnv(v.TyVars)
		el.elabTy(env, tv, v.Ty)
	}
}

func (el *elaborator) elabSpec(env *Env, idx hir.SpecIdx) {
	if !idx.IsValid() {
		return
	}
	switch v := (*el.mod.Specs.Get(uint32(idx))).(type) {
	case hir.SpecVal:
		tv := el.newTyVarEnv(v.TyVars)
		for _, d := range v.Descs {
			el.elabTy(env, tv, d.Ty)
		}
	case hir.SpecType, hir.SpecEqtype:
	case hir.SpecDatatype:
	case hir.SpecException:
		for _, eb := range v.Binds {
			if eb.Arg.IsValid() {
				el.elabTy(env, tyVarEnv{}, eb.Arg)
			}
		}
	case hir.SpecStructure:
		for _, d := range v.Descs {
			el.elabSigExp(env, d.Sig)
		}
	case hir.SpecInclude:
		el.elabSigExp(env, v.Sig)
	case hir.SpecSharing:
	case hir.SpecSeq:
		for _, s := range v.Specs {
			el.elabSpec(env, s)
		}
	case hir.SpecEmpty:
	}
}
