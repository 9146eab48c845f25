package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// checkMatch runs a first-column exhaustiveness/redundancy check over one
// match's rule patterns: any rule preceded by an irrefutable rule is
// redundant (diag.SemRedundantMatchArm), and a rule set where no rule is
// irrefutable and the observed head constructors don't cover a known
// datatype's full constructor set is non-exhaustive
// (diag.SemNonExhaustiveMatch). This deliberately checks only the
// outermost pattern shape per rule, not the full decision-tree coverage
// the Definition's match compiler performs - good enough to catch the
// common cases (an un-matched NONE/SOME arm, a missing "false" or "true")
// without needing a full pattern-matrix algorithm.
func (el *elaborator) checkMatch(env *Env, pats []hir.PatIdx, m hir.Match) {
	if len(pats) == 0 {
		return
	}
	seenCatchAll := false
	headCons := map[hir.Name]bool{}
	var dt Sym
	for _, p := range pats {
		if seenCatchAll {
			el.report(diag.SemRedundantMatchArm, hir.IdxOfPat(p), "this rule is unreachable")
			continue
		}
		if el.isIrrefutable(env, p) {
			seenCatchAll = true
			continue
		}
		if name, conOf, ok := el.headConstructor(env, p); ok {
			headCons[name] = true
			dt = conOf
		}
	}
	if seenCatchAll {
		return
	}
	if dt != NoSym {
		if info, ok := el.dts[dt]; ok {
			for _, c := range info.Cons {
				if !headCons[c] {
					el.report(diag.SemNonExhaustiveMatch, hir.IdxOfPat(pats[len(pats)-1]), "match is missing a case for "+string(c))
					return
				}
			}
			return
		}
	}
	el.report(diag.SemNonExhaustiveMatch, hir.IdxOfPat(pats[len(pats)-1]), "match is not exhaustive")
}

// headConstructor strips As/Typed wrappers and reports the constructor
// name at the head of p, if any, along with the datatype it belongs to.
func (el *elaborator) headConstructor(env *Env, idx hir.PatIdx) (hir.Name, Sym, bool) {
	if !idx.IsValid() {
		return "", NoSym, false
	}
	switch v := (*el.mod.Pats.Get(uint32(idx))).(type) {
	case hir.PatAs:
		return el.headConstructor(env, v.Pat)
	case hir.PatTyped:
		return el.headConstructor(env, v.Pat)
	case hir.PatCon:
		info, ok := env.LookupPath(v.Path)
		if !ok || !info.IsCon {
			return "", NoSym, false
		}
		return v.Path.Last, info.ConOf, true
	default:
		return "", NoSym, false
	}
}

// isIrrefutable reports whether p matches every value of its type: a
// wildcard, a plain variable, an as/typed wrapper around an irrefutable
// pattern, a record whose fields are all irrefutable, an "or" pattern with
// an irrefutable alternative, or a constructor application to the sole
// member of a single-constructor datatype whose argument (if any) is
// itself irrefutable.
func (el *elaborator) isIrrefutable(env *Env, idx hir.PatIdx) bool {
	if !idx.IsValid() {
		return true
	}
	switch v := (*el.mod.Pats.Get(uint32(idx))).(type) {
	case hir.PatWild, hir.PatHole:
		return true
	case hir.PatScon:
		return false
	case hir.PatAs:
		return el.isIrrefutable(env, v.Pat)
	case hir.PatTyped:
		return el.isIrrefutable(env, v.Pat)
	case hir.PatOr:
		for _, a := range v.Alts {
			if el.isIrrefutable(env, a) {
				return true
			}
		}
		return false
	case hir.PatRecord:
		if v.Rest {
			return true
		}
		for _, f := range v.Fields {
			if !el.isIrrefutable(env, f.Value) {
				return false
			}
		}
		return true
	case hir.PatCon:
		info, known := env.LookupPath(v.Path)
		if !known || !info.IsCon {
			return true // plain variable binding
		}
		dtInfo, ok := el.dts[info.ConOf]
		if !ok || len(dtInfo.Cons) != 1 {
			return false
		}
		if !v.Arg.IsValid() {
			return true
		}
		return el.isIrrefutable(env, v.Arg)
	default:
		return false
	}
}
