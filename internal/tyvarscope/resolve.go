// Package tyvarscope implements the implicit type-variable scoping pass
// that runs between lowering and statics: it decides, for every val
// declaration and val specification, which free type variables mentioned in
// its patterns/expressions/types are scoped (and therefore generalized) at
// that particular binding rather than some enclosing one.
package tyvarscope

import (
	"sort"

	"smlcheck/internal/hir"
)

// Resolve walks mod's HIR tree and fills in DecVal.TyVars/SpecVal.TyVars in
// place. It is purely functional with respect to the arenas while walking:
// assignments are recorded in a side table during the traversal and only
// applied to the arena nodes once, at the end, so the "reader" walking the
// tree never aliases the "writer" mutating it.
func Resolve(mod *hir.Module) {
	r := &resolver{
		mod:      mod,
		decVars:  map[hir.DecIdx]map[hir.Name]bool{},
		specVars: map[hir.SpecIdx]map[hir.Name]bool{},
	}
	r.walkStrDec(mod.Root)
	r.apply()
}

// resolver carries the scope stack: one bound-set frame per enclosing val
// dec or val spec currently being walked, innermost last. A type variable
// not found in any frame is claimed by the innermost one - the "nearest
// enclosing val that does not already bind it" rule from the Definition.
type resolver struct {
	mod   *hir.Module
	stack []map[hir.Name]bool

	decVars  map[hir.DecIdx]map[hir.Name]bool
	specVars map[hir.SpecIdx]map[hir.Name]bool
}

func (r *resolver) pushFrame() map[hir.Name]bool {
	f := map[hir.Name]bool{}
	r.stack = append(r.stack, f)
	return f
}

func (r *resolver) popFrame() {
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *resolver) noteTyVar(n hir.Name) {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i][n] {
			return
		}
	}
	if len(r.stack) == 0 {
		// A type variable outside any val/spec scope (e.g. a datatype's own
		// constructor argument type) is bound by that declaration's own
		// explicit tyvar sequence, not by this pass.
		return
	}
	r.stack[len(r.stack)-1][n] = true
}

func (r *resolver) apply() {
	for idx, set := range r.decVars {
		d := r.mod.Decs.Get(uint32(idx))
		if d == nil {
			continue
		}
		dv, ok := (*d).(hir.DecVal)
		if !ok {
			continue
		}
		dv.TyVars = sortedNames(set)
		*d = dv
	}
	for idx, set := range r.specVars {
		s := r.mod.Specs.Get(uint32(idx))
		if s == nil {
			continue
		}
		sv, ok := (*s).(hir.SpecVal)
		if !ok {
			continue
		}
		sv.TyVars = sortedNames(set)
		*s = sv
	}
}

func sortedNames(set map[hir.Name]bool) []hir.Name {
	if len(set) == 0 {
		return nil
	}
	out := make([]hir.Name, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *resolver) walkStrDec(idx hir.StrDecIdx) {
	if !idx.IsValid() {
		return
	}
	d := r.mod.StrDecs.Get(uint32(idx))
	if d == nil {
		return
	}
	switch v := (*d).(type) {
	case hir.StrDecDec:
		r.walkDec(v.Dec)
	case hir.StrDecStructure:
		for _, b := range v.Binds {
			r.walkStrExp(b.Rhs)
		}
	case hir.StrDecLocal:
		r.walkStrDec(v.First)
		r.walkStrDec(v.Body)
	case hir.StrDecSeq:
		for _, d2 := range v.Decs {
			r.walkStrDec(d2)
		}
	case hir.StrDecSignature:
		for _, b := range v.Binds {
			r.walkSigExp(b.Sig)
		}
	case hir.StrDecFunctor:
		for _, b := range v.Binds {
			r.walkSigExp(b.ParamSig)
			r.walkSigExp(b.ResultSig)
			r.walkStrExp(b.Body)
		}
	}
}

func (r *resolver) walkStrExp(idx hir.StrExpIdx) {
	if !idx.IsValid() {
		return
	}
	e := r.mod.StrExps.Get(uint32(idx))
	if e == nil {
		return
	}
	switch v := (*e).(type) {
	case hir.StrExpStruct:
		r.walkStrDec(v.Body)
	case hir.StrExpAscription:
		r.walkStrExp(v.Exp)
		r.walkSigExp(v.Sig)
	case hir.StrExpLet:
		r.walkStrDec(v.Dec)
		r.walkStrExp(v.Body)
	}
}

func (r *resolver) walkSigExp(idx hir.SigExpIdx) {
	if !idx.IsValid() {
		return
	}
	s := r.mod.SigExps.Get(uint32(idx))
	if s == nil {
		return
	}
	switch v := (*s).(type) {
	case hir.SigExpSpec:
		r.walkSpec(v.Spec)
	case hir.SigExpWhereType:
		r.walkSigExp(v.Sig)
		r.walkTy(v.Ty)
	}
}

func (r *resolver) walkSpec(idx hir.SpecIdx) {
	if !idx.IsValid() {
		return
	}
	s := r.mod.Specs.Get(uint32(idx))
	if s == nil {
		return
	}
	switch v := (*s).(type) {
	case hir.SpecVal:
		frame := r.pushFrame()
		for _, d := range v.Descs {
			r.walkTy(d.Ty)
		}
		r.popFrame()
		r.specVars[idx] = frame
	case hir.SpecStructure:
		for _, d := range v.Descs {
			r.walkSigExp(d.Sig)
		}
	case hir.SpecInclude:
		r.walkSigExp(v.Sig)
	case hir.SpecSeq:
		for _, sp := range v.Specs {
			r.walkSpec(sp)
		}
	}
}

func (r *resolver) walkDec(idx hir.DecIdx) {
	if !idx.IsValid() {
		return
	}
	d := r.mod.Decs.Get(uint32(idx))
	if d == nil {
		return
	}
	switch v := (*d).(type) {
	case hir.DecVal:
		frame := r.pushFrame()
		for _, b := range v.Binds {
			r.walkPat(b.Pat)
			r.walkExp(b.Rhs)
		}
		r.popFrame()
		r.decVars[idx] = frame
	case hir.DecLocal:
		r.walkDec(v.First)
		r.walkDec(v.Body)
	case hir.DecSeq:
		for _, d2 := range v.Decs {
			r.walkDec(d2)
		}
	case hir.DecAbstype:
		r.walkDec(v.Body)
	// DecDatatype, DecDatatypeRepl, DecType, DecException, DecOpen, DecEmpty:
	// their own type variables come from an explicit binder sequence on the
	// declaration itself, not the implicit val-scoping rule, and none of
	// them can contain a nested val dec.
	default:
	}
}

func (r *resolver) walkExp(idx hir.ExpIdx) {
	if !idx.IsValid() {
		return
	}
	e := r.mod.Exps.Get(uint32(idx))
	if e == nil {
		return
	}
	switch v := (*e).(type) {
	case hir.ExpRecord:
		for _, f := range v.Fields {
			r.walkExp(f.Value)
		}
	case hir.ExpLet:
		r.walkDec(v.Dec)
		r.walkExp(v.Body)
	case hir.ExpApp:
		r.walkExp(v.Func)
		r.walkExp(v.Arg)
	case hir.ExpHandle:
		r.walkExp(v.Body)
		r.walkMatch(v.Match)
	case hir.ExpRaise:
		r.walkExp(v.Exp)
	case hir.ExpFn:
		r.walkMatch(v.Match)
	case hir.ExpTyped:
		r.walkExp(v.Exp)
		r.walkTy(v.Ty)
	}
}

func (r *resolver) walkMatch(m hir.Match) {
	for _, rule := range m.Rules {
		r.walkPat(rule.Pat)
		r.walkExp(rule.Body)
	}
}

func (r *resolver) walkPat(idx hir.PatIdx) {
	if !idx.IsValid() {
		return
	}
	p := r.mod.Pats.Get(uint32(idx))
	if p == nil {
		return
	}
	switch v := (*p).(type) {
	case hir.PatCon:
		if v.Arg.IsValid() {
			r.walkPat(v.Arg)
		}
	case hir.PatRecord:
		for _, f := range v.Fields {
			r.walkPat(f.Value)
		}
	case hir.PatAs:
		if v.Ty.IsValid() {
			r.walkTy(v.Ty)
		}
		r.walkPat(v.Pat)
	case hir.PatTyped:
		r.walkPat(v.Pat)
		r.walkTy(v.Ty)
	case hir.PatOr:
		for _, a := range v.Alts {
			r.walkPat(a)
		}
	}
}

func (r *resolver) walkTy(idx hir.TyIdx) {
	if !idx.IsValid() {
		return
	}
	t := r.mod.Tys.Get(uint32(idx))
	if t == nil {
		return
	}
	switch v := (*t).(type) {
	case hir.TyVar:
		r.noteTyVar(v.Name)
	case hir.TyCon:
		for _, a := range v.Args {
			r.walkTy(a)
		}
	case hir.TyRecord:
		for _, f := range v.Fields {
			r.walkTy(f.Ty)
		}
	case hir.TyFn:
		r.walkTy(v.Arg)
		r.walkTy(v.Res)
	}
}
