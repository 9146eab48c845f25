package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// elabDec elaborates dec under env and returns the environment extended
// with whatever it binds.
func (el *elaborator) elabDec(env *Env, idx hir.DecIdx) *Env {
	if !idx.IsValid() {
		return env
	}
	switch v := (*el.mod.Decs.Get(uint32(idx))).(type) {
	case hir.DecVal:
		return el.elabDecVal(env, v)
	case hir.DecDatatype:
		return el.elabDecDatatype(env, v)
	case hir.DecDatatypeRepl:
		info, ok := env.LookupTyPath(v.Rhs)
		if !ok {
			el.report(diag.SemUndefinedType, hir.IdxOfDec(idx), "undefined datatype in replication "+v.Rhs.String())
			return env
		}
		return env.BindTy(v.Name, info)
	case hir.DecType:
		return el.elabDecType(env, v.Binds)
	case hir.DecException:
		return el.elabDecException(env, idx, v)
	case hir.DecOpen:
		return el.elabDecOpen(env, idx, v)
	case hir.DecAbstype:
		inner := el.elabDecDatatype(env, hir.DecDatatype{Binds: v.Binds, WithType: v.WithType})
		return el.elabDec(inner, v.Body)
	case hir.DecLocal:
		inner := el.elabDec(env, v.First)
		after := el.elabDec(inner, v.Body)
		// Only First's bindings, not Body's, are local to First: splice
		// Body's new frame directly onto the original env.
		return spliceOnto(env, inner, after)
	case hir.DecSeq:
		cur := env
		for _, d := range v.Decs {
			cur = el.elabDec(cur, d)
		}
		return cur
	case hir.DecEmpty:
		return env
	default:
		return env
	}
}

// spliceOnto re-parents whatever frames elaborating "after" added on top of
// "inner" so they instead sit on top of "base" - used by "local d1 in d2
// end" to drop d1's bindings from the result while keeping d2's.
func spliceOnto(base, inner, after *Env) *Env {
	if after == inner {
		return base
	}
	var frames []*Env
	for e := after; e != inner; e = e.parent {
		frames = append(frames, e)
	}
	cur := base
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		cur = &Env{parent: cur, vals: f.vals, tys: f.tys, strs: f.strs}
	}
	return cur
}

func (el *elaborator) elabDecVal(env *Env, v hir.DecVal) *Env {
	tv := el.newTyVarEnv(v.TyVars)
	exitLet := el.enterLet()
	letRank := el.rank

	if !v.Rec {
		group := map[hir.Name]ValInfo{}
		values := make([]bool, len(v.Binds))
		for i, bind := range v.Binds {
			rhsTy := el.elabExp(env, tv, bind.Rhs)
			bound := map[hir.Name]ValInfo{}
			patTy := el.elabPat(env, tv, bind.Pat, bound)
			el.unify(patTy, rhsTy, hir.IdxOfExp(bind.Rhs))
			values[i] = el.isSyntacticValue(env, bind.Rhs)
			for n, info := range bound {
				info.generalizeFrom = i
				group[n] = info
			}
		}
		exitLet()
		newGroup := make(map[hir.Name]ValInfo, len(group))
		for n, info := range group {
			genRank := letRank
			if !values[info.generalizeFrom] {
				genRank = notGeneralizableRank
			}
			info.Scheme = generalize(el.store, el.gen, el.sub, info.Scheme.Body, genRank)
			info.generalizeFrom = 0
			newGroup[n] = info
		}
		return env.BindValGroup(newGroup)
	}

	names := make([]hir.Name, len(v.Binds))
	placeholders := make([]TyIdx, len(v.Binds))
	recGroup := map[hir.Name]ValInfo{}
	for i, bind := range v.Binds {
		name, ok := el.recBindName(bind.Pat)
		if !ok {
			el.report(diag.SemUnsupportedModuleFeature, hir.IdxOfPat(bind.Pat), "recursive binding pattern must be a variable")
			name = hir.Name("_rec")
		}
		names[i] = name
		placeholders[i] = el.freshMeta()
		recGroup[name] = ValInfo{Scheme: Monotype(placeholders[i])}
	}
	recEnv := env.BindValGroup(recGroup)

	values := make([]bool, len(v.Binds))
	for i, bind := range v.Binds {
		rhsTy := el.elabExp(recEnv, tv, bind.Rhs)
		el.unify(rhsTy, placeholders[i], hir.IdxOfExp(bind.Rhs))
		values[i] = el.isSyntacticValue(recEnv, bind.Rhs)
	}
	exitLet()

	newGroup := make(map[hir.Name]ValInfo, len(names))
	for i, name := range names {
		genRank := letRank
		if !values[i] {
			genRank = notGeneralizableRank
		}
		newGroup[name] = ValInfo{Scheme: generalize(el.store, el.gen, el.sub, placeholders[i], genRank)}
	}
	return env.BindValGroup(newGroup)
}

// notGeneralizableRank is higher than any rank enterLet can reach in one
// file, so generalize's "rank >= letRank" test never succeeds - the
// pragmatic encoding of the value restriction for a right-hand side that
// is not a syntactic value.
const notGeneralizableRank = ^uint32(0)

// recBindName extracts the single variable name a recursive binding's
// pattern introduces; "val rec" (and therefore desugared "fun") patterns
// are always a bare variable in practice.
func (el *elaborator) recBindName(idx hir.PatIdx) (hir.Name, bool) {
	if !idx.IsValid() {
		return "", false
	}
	switch v := (*el.mod.Pats.Get(uint32(idx))).(type) {
	case hir.PatCon:
		if len(v.Path.Qualifiers) == 0 && !v.Arg.IsValid() {
			return v.Path.Last, true
		}
	case hir.PatTyped:
		return el.recBindName(v.Pat)
	case hir.PatAs:
		if v.Name != "" {
			return v.Name, true
		}
		return el.recBindName(v.Pat)
	}
	return "", false
}

// isSyntacticValue implements the Definition's value restriction test: fn
// expressions, literals, variables, records of values, and a
// non-exception, non-ref constructor applied to a value all generalize;
// everything else (in particular any function application, including a
// "ref" application) only gets a monomorphic type.
func (el *elaborator) isSyntacticValue(env *Env, idx hir.ExpIdx) bool {
	if !idx.IsValid() {
		return true
	}
	switch v := (*el.mod.Exps.Get(uint32(idx))).(type) {
	case hir.ExpFn, hir.ExpPath, hir.ExpScon, hir.ExpHole:
		return true
	case hir.ExpRecord:
		for _, f := range v.Fields {
			if !el.isSyntacticValue(env, f.Value) {
				return false
			}
		}
		return true
	case hir.ExpTyped:
		return el.isSyntacticValue(env, v.Exp)
	case hir.ExpApp:
		p, ok := (*el.mod.Exps.Get(uint32(v.Func))).(hir.ExpPath)
		if !ok {
			return false
		}
		info, ok := env.LookupPath(p.Path)
		if !ok || !info.IsCon || info.IsExcCon || info.ConOf == el.b.Ref {
			return false
		}
		return el.isSyntacticValue(env, v.Arg)
	default:
		return false
	}
}

func (el *elaborator) elabDecDatatype(env *Env, v hir.DecDatatype) *Env {
	for _, db := range v.Binds {
		sym := el.syms.Fresh(string(db.Name), len(db.TyVars))
		env = env.BindTy(db.Name, TyInfo{Sym: sym, Arity: len(db.TyVars)})
		var names []hir.Name
		for _, cb := range db.Cons {
			tv := make(tyVarEnv, len(db.TyVars))
			boundArgs := make([]TyIdx, len(db.TyVars))
			for i, n := range db.TyVars {
				bv := el.store.NewBoundVar(uint32(i))
				tv[n] = bv
				boundArgs[i] = bv
			}
			conResult := el.store.NewCon(sym, boundArgs)
			body := conResult
			hasArg := cb.Arg.IsValid()
			if hasArg {
				argTy := el.elabTy(env, tv, cb.Arg)
				body = el.store.NewFn(argTy, conResult)
			}
			scheme := TyScheme{NumBound: uint32(len(db.TyVars)), Body: body}
			env = env.BindVal(cb.Name, ValInfo{Scheme: scheme, IsCon: true, ConOf: sym, HasArg: hasArg})
			names = append(names, cb.Name)
		}
		el.dts[sym] = DatatypeInfo{Cons: names}
	}
	return el.elabDecType(env, v.WithType)
}

func (el *elaborator) elabDecType(env *Env, binds []hir.TypBind) *Env {
	for _, tb := range binds {
		sym := el.syms.Fresh(string(tb.Name), len(tb.TyVars))
		env = env.BindTy(tb.Name, TyInfo{Sym: sym, Arity: len(tb.TyVars)})
	}
	return env
}

func (el *elaborator) elabDecException(env *Env, idx hir.DecIdx, v hir.DecException) *Env {
	exnTy := el.store.NewCon(el.b.Exn, nil)
	for _, eb := range v.Binds {
		if eb.Rhs.Last != "" {
			info, ok := env.LookupPath(eb.Rhs)
			if !ok {
				el.report(diag.SemUndefinedValue, hir.IdxOfDec(idx), "undefined exception in replication "+eb.Rhs.String())
				continue
			}
			env = env.BindVal(eb.Name, info)
			continue
		}
		hasArg := eb.Arg.IsValid()
		body := exnTy
		if hasArg {
			tv := tyVarEnv{}
			argTy := el.elabTy(env, tv, eb.Arg)
			body = el.store.NewFn(argTy, exnTy)
		}
		env = env.BindVal(eb.Name, ValInfo{Scheme: Monotype(body), IsCon: true, ConOf: el.b.Exn, HasArg: hasArg, IsExcCon: true})
	}
	return env
}

func (el *elaborator) elabDecOpen(env *Env, idx hir.DecIdx, v hir.DecOpen) *Env {
	for _, p := range v.Paths {
		str, ok := resolveStrPath(env, p)
		if !ok {
			el.report(diag.SemUndefinedStructure, hir.IdxOfDec(idx), "undefined structure "+p.String())
			continue
		}
		vals, tys, strs := str.Flatten()
		env = &Env{parent: env, vals: vals, tys: tys, strs: strs}
	}
	return env
}

func resolveStrPath(env *Env, p hir.Path) (*Env, bool) {
	cur := env
	for _, q := range p.Qualifiers {
		next, ok := cur.LookupStr(q)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur.LookupStr(p.Last)
}
