package statics

// Subst is the unification state: a union-find map from meta variable to
// either nothing (still free) or the TyIdx it has been unified with.
// Keeping this separate from Store (rather than mutating Ty nodes in
// place) means Store stays append-only like hir's arenas, and Subst alone
// carries the part of elaboration state that actually changes over time.
type Subst struct {
	bound map[MetaID]TyIdx
}

// NewSubst creates an empty substitution.
func NewSubst() *Subst { return &Subst{bound: make(map[MetaID]TyIdx)} }

// Bind records that meta resolves to ty. Callers must not rebind an
// already-bound meta; unify always resolves through Resolve first.
func (s *Subst) Bind(meta MetaID, ty TyIdx) { s.bound[meta] = ty }

// lookup returns the type meta is bound to, if any.
func (s *Subst) lookup(meta MetaID) (TyIdx, bool) {
	ty, ok := s.bound[meta]
	return ty, ok
}

// Resolve follows ty's meta-variable chain (if any) to the deepest
// type still reachable through the substitution; it does not recurse into
// composite shapes (Resolve is shallow, "whnf"-style). Use Zonk to resolve
// an entire type tree at once.
func Resolve(store *Store, sub *Subst, ty TyIdx) TyIdx {
	for {
		t := store.Get(ty)
		if t.Kind != TyMetaVar {
			return ty
		}
		next, ok := sub.lookup(t.Meta)
		if !ok {
			return ty
		}
		ty = next
	}
}

// Zonk fully resolves ty, replacing every bound meta variable reachable
// from it (directly or through record/con/fn children) with what it
// resolves to, and rebuilding the composite shapes that contained one.
// Unbound meta variables are left as-is.
func Zonk(store *Store, sub *Subst, ty TyIdx) TyIdx {
	resolved := Resolve(store, sub, ty)
	t := store.Get(resolved)
	switch t.Kind {
	case TyRecord:
		changed := false
		fields := make([]TyField, len(t.Fields))
		for i, f := range t.Fields {
			z := Zonk(store, sub, f.Ty)
			fields[i] = TyField{Label: f.Label, Ty: z}
			if z != f.Ty {
				changed = true
			}
		}
		if !changed {
			return resolved
		}
		return store.NewRecord(fields)
	case TyCon:
		changed := false
		args := make([]TyIdx, len(t.Args))
		for i, a := range t.Args {
			z := Zonk(store, sub, a)
			args[i] = z
			if z != a {
				changed = true
			}
		}
		if !changed {
			return resolved
		}
		return store.NewCon(t.Sym, args)
	case TyFn:
		arg := Zonk(store, sub, t.Arg)
		res := Zonk(store, sub, t.Res)
		if arg == t.Arg && res == t.Res {
			return resolved
		}
		return store.NewFn(arg, res)
	default:
		return resolved
	}
}
