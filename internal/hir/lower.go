package hir

import (
	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/token"
)

// lowerer walks a cst.Tree and builds a Module, desugaring every surface
// form listed in the Definition's derived-forms section (Appendix A) down
// to the primitives in exp.go/pat.go/dec.go as it goes.
type lowerer struct {
	mod   *Module
	rep   diag.Reporter
	fresh freshCounter
}

// Lower builds the HIR Module for tree. It never fails outright: malformed
// or unrecognized constructs become Hole nodes (or, for declarations,
// DecEmpty) paired with a diagnostic, so the rest of the file still
// elaborates.
func Lower(tree *cst.Tree, rep diag.Reporter) *Module {
	lw := &lowerer{mod: newModule(tree)}
	lw.rep = rep
	root := lw.lowerFileRoot(tree.Root())
	lw.mod.Root = root
	return lw.mod
}

func (lw *lowerer) report(code diag.Code, n cst.Node, msg string) {
	if lw.rep == nil {
		return
	}
	lw.rep.Report(code, diag.SevError, n.Span(), msg, nil)
}

func (lw *lowerer) newExp(n cst.Node, e Exp) ExpIdx {
	id := ExpIdx(lw.mod.Exps.Allocate(e))
	lw.mod.Pointers.Record(IdxOfExp(id), n.ID())
	return id
}

func (lw *lowerer) newPat(n cst.Node, p Pat) PatIdx {
	id := PatIdx(lw.mod.Pats.Allocate(p))
	lw.mod.Pointers.Record(IdxOfPat(id), n.ID())
	return id
}

func (lw *lowerer) newTy(n cst.Node, t Ty) TyIdx {
	id := TyIdx(lw.mod.Tys.Allocate(t))
	lw.mod.Pointers.Record(IdxOfTy(id), n.ID())
	return id
}

func (lw *lowerer) newDec(n cst.Node, d Dec) DecIdx {
	id := DecIdx(lw.mod.Decs.Allocate(d))
	lw.mod.Pointers.Record(IdxOfDec(id), n.ID())
	return id
}

func (lw *lowerer) newStrDec(n cst.Node, d StrDec) StrDecIdx {
	id := StrDecIdx(lw.mod.StrDecs.Allocate(d))
	lw.mod.Pointers.Record(IdxOfStrDec(id), n.ID())
	return id
}

func (lw *lowerer) newStrExp(n cst.Node, e StrExp) StrExpIdx {
	id := StrExpIdx(lw.mod.StrExps.Allocate(e))
	lw.mod.Pointers.Record(IdxOfStrExp(id), n.ID())
	return id
}

func (lw *lowerer) newSigExp(n cst.Node, s SigExp) SigExpIdx {
	id := SigExpIdx(lw.mod.SigExps.Allocate(s))
	lw.mod.Pointers.Record(IdxOfSigExp(id), n.ID())
	return id
}

func (lw *lowerer) newSpec(n cst.Node, s Spec) SpecIdx {
	id := SpecIdx(lw.mod.Specs.Allocate(s))
	lw.mod.Pointers.Record(IdxOfSpec(id), n.ID())
	return id
}

// holeExp allocates an ExpHole at n, for error recovery.
func (lw *lowerer) holeExp(n cst.Node) ExpIdx { return lw.newExp(n, ExpHole{}) }
func (lw *lowerer) holePat(n cst.Node) PatIdx { return lw.newPat(n, PatHole{}) }

// lowerPath reads a KPath node, whose direct token children alternate
// identifier segment and "." separator.
func lowerPath(n cst.Node) Path {
	var names []Name
	for _, tok := range n.Tokens() {
		if tok.Kind == token.Dot {
			continue
		}
		names = append(names, Name(tok.Text))
	}
	if len(names) == 0 {
		return Path{}
	}
	return Path{Qualifiers: append([]Name(nil), names[:len(names)-1]...), Last: names[len(names)-1]}
}

// lowerLabel reads a KLabel node: either an Ident token (a named field) or
// an IntLit token (a tuple position).
func lowerLabel(n cst.Node, lw *lowerer) Label {
	toks := n.Tokens()
	if len(toks) == 0 {
		return Label{}
	}
	t := toks[0]
	if t.Kind == token.IntLit {
		v := parseIntLit(t, lw.rep)
		if v <= 0 {
			lw.report(diag.LowInvalidNumericLabel, n, "record/tuple labels must be positive")
			return NumericLabel(1)
		}
		return NumericLabel(uint32(v))
	}
	return NamedLabel(Name(t.Text))
}
