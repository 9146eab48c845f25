package statics

import (
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
)

// unifyCtx carries everything unify needs that is not one of the two types
// being compared: the Store/MetaGen/Subst triple threaded through all of
// statics, plus where to report failure.
type unifyCtx struct {
	mod   *hir.Module
	store *Store
	gen   *MetaGen
	sub   *Subst
	rep   diag.Reporter
}

// Unify makes a and b equal under ctx.sub, reporting diag.SemTypeMismatch
// or diag.SemOccursCheck at pointer (if it is valid) on failure. It
// returns false on failure so callers can substitute a fresh meta variable
// and keep elaborating rather than aborting the whole file.
func (c *unifyCtx) Unify(a, b TyIdx, rank uint32, pointer hir.Idx) bool {
	a = Resolve(c.store, c.sub, a)
	b = Resolve(c.store, c.sub, b)
	if a == b {
		return true
	}
	ta, tb := c.store.Get(a), c.store.Get(b)

	if ta.Kind == TyNone || tb.Kind == TyNone {
		// One side already failed to elaborate; don't cascade a second
		// diagnostic out of the same root cause.
		return true
	}
	if ta.Kind == TyMetaVar {
		return c.bindMeta(ta.Meta, b, rank, pointer)
	}
	if tb.Kind == TyMetaVar {
		return c.bindMeta(tb.Meta, a, rank, pointer)
	}
	if ta.Kind != tb.Kind {
		c.mismatch(a, b, pointer)
		return false
	}

	switch ta.Kind {
	case TyBoundVar:
		if ta.BoundIdx != tb.BoundIdx {
			c.mismatch(a, b, pointer)
			return false
		}
		return true
	case TyFixedVar:
		if ta.Fixed != tb.Fixed {
			c.mismatch(a, b, pointer)
			return false
		}
		return true
	case TyCon:
		if ta.Sym != tb.Sym || len(ta.Args) != len(tb.Args) {
			c.mismatch(a, b, pointer)
			return false
		}
		ok := true
		for i := range ta.Args {
			if !c.Unify(ta.Args[i], tb.Args[i], rank, pointer) {
				ok = false
			}
		}
		return ok
	case TyFn:
		okArg := c.Unify(ta.Arg, tb.Arg, rank, pointer)
		okRes := c.Unify(ta.Res, tb.Res, rank, pointer)
		return okArg && okRes
	case TyRecord:
		return c.unifyRecords(ta, tb, rank, pointer)
	default:
		c.mismatch(a, b, pointer)
		return false
	}
}

func (c *unifyCtx) unifyRecords(ta, tb Ty, rank uint32, pointer hir.Idx) bool {
	if len(ta.Fields) != len(tb.Fields) {
		c.report(diag.SemWrongRecordLabels, pointer, "record field count mismatch")
		return false
	}
	byLabel := make(map[hir.Label]TyIdx, len(tb.Fields))
	for _, f := range tb.Fields {
		byLabel[f.Label] = f.Ty
	}
	ok := true
	for _, f := range ta.Fields {
		other, found := byLabel[f.Label]
		if !found {
			c.report(diag.SemWrongRecordLabels, pointer, "record is missing field "+f.Label.String())
			ok = false
			continue
		}
		if !c.Unify(f.Ty, other, rank, pointer) {
			ok = false
		}
	}
	return ok
}

// bindMeta binds meta to ty after an occurs check and a rank lowering over
// ty's free meta variables, the two soundness conditions plain first-order
// unification needs for let-polymorphic generalization to stay correct.
func (c *unifyCtx) bindMeta(meta MetaID, ty TyIdx, rank uint32, pointer hir.Idx) bool {
	if c.occurs(meta, ty) {
		c.report(diag.SemOccursCheck, pointer, "type would be infinite")
		return false
	}
	c.lowerFreeMetaRanks(ty, c.gen.Rank(meta))
	c.sub.Bind(meta, ty)
	return true
}

func (c *unifyCtx) occurs(meta MetaID, ty TyIdx) bool {
	ty = Resolve(c.store, c.sub, ty)
	t := c.store.Get(ty)
	switch t.Kind {
	case TyMetaVar:
		return t.Meta == meta
	case TyRecord:
		for _, f := range t.Fields {
			if c.occurs(meta, f.Ty) {
				return true
			}
		}
		return false
	case TyCon:
		for _, a := range t.Args {
			if c.occurs(meta, a) {
				return true
			}
		}
		return false
	case TyFn:
		return c.occurs(meta, t.Arg) || c.occurs(meta, t.Res)
	default:
		return false
	}
}

func (c *unifyCtx) lowerFreeMetaRanks(ty TyIdx, rank uint32) {
	ty = Resolve(c.store, c.sub, ty)
	t := c.store.Get(ty)
	switch t.Kind {
	case TyMetaVar:
		c.gen.Lower(t.Meta, rank)
	case TyRecord:
		for _, f := range t.Fields {
			c.lowerFreeMetaRanks(f.Ty, rank)
		}
	case TyCon:
		for _, a := range t.Args {
			c.lowerFreeMetaRanks(a, rank)
		}
	case TyFn:
		c.lowerFreeMetaRanks(t.Arg, rank)
		c.lowerFreeMetaRanks(t.Res, rank)
	}
}

func (c *unifyCtx) mismatch(a, b TyIdx, pointer hir.Idx) {
	c.report(diag.SemTypeMismatch, pointer, "type mismatch")
}

func (c *unifyCtx) report(code diag.Code, pointer hir.Idx, msg string) {
	if c.rep == nil {
		return
	}
	c.rep.Report(code, diag.SevError, spanOf(c.mod, pointer), msg, nil)
}
