package statics

// generalize turns ty into a type scheme by quantifying over every meta
// variable free in ty whose rank is at least letRank - i.e. every meta
// variable created at or inside the let being generalized, and not
// escaping to an enclosing one. This is the standard rank-based
// generalization rule; it implicitly implements the value restriction when
// callers only call generalize for syntactic values (see
// elaborate_dec.go), since non-values are generalized with letRank set
// high enough that nothing qualifies.
func generalize(store *Store, gen *MetaGen, sub *Subst, ty TyIdx, letRank uint32) TyScheme {
	var metas []MetaID
	seen := map[MetaID]bool{}
	collectGeneralizable(store, sub, gen, ty, letRank, seen, &metas)
	if len(metas) == 0 {
		return Monotype(ty)
	}
	bound := map[MetaID]uint32{}
	for i, m := range metas {
		bound[m] = uint32(i)
	}
	body := quantify(store, sub, ty, bound)
	return TyScheme{NumBound: uint32(len(metas)), Body: body}
}

func collectGeneralizable(store *Store, sub *Subst, gen *MetaGen, ty TyIdx, letRank uint32, seen map[MetaID]bool, out *[]MetaID) {
	ty = Resolve(store, sub, ty)
	t := store.Get(ty)
	switch t.Kind {
	case TyMetaVar:
		if seen[t.Meta] {
			return
		}
		if gen.Rank(t.Meta) >= letRank {
			seen[t.Meta] = true
			*out = append(*out, t.Meta)
		}
	case TyRecord:
		for _, f := range t.Fields {
			collectGeneralizable(store, sub, gen, f.Ty, letRank, seen, out)
		}
	case TyCon:
		for _, a := range t.Args {
			collectGeneralizable(store, sub, gen, a, letRank, seen, out)
		}
	case TyFn:
		collectGeneralizable(store, sub, gen, t.Arg, letRank, seen, out)
		collectGeneralizable(store, sub, gen, t.Res, letRank, seen, out)
	}
}

// quantify rebuilds ty, replacing each meta variable in bound with the
// TyBoundVar at its assigned position, leaving everything else (including
// non-generalizable meta variables and fixed variables) untouched.
func quantify(store *Store, sub *Subst, ty TyIdx, bound map[MetaID]uint32) TyIdx {
	ty = Resolve(store, sub, ty)
	t := store.Get(ty)
	switch t.Kind {
	case TyMetaVar:
		if i, ok := bound[t.Meta]; ok {
			return store.NewBoundVar(i)
		}
		return ty
	case TyRecord:
		fields := make([]TyField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = TyField{Label: f.Label, Ty: quantify(store, sub, f.Ty, bound)}
		}
		return store.NewRecord(fields)
	case TyCon:
		args := make([]TyIdx, len(t.Args))
		for i, a := range t.Args {
			args[i] = quantify(store, sub, a, bound)
		}
		return store.NewCon(t.Sym, args)
	case TyFn:
		return store.NewFn(quantify(store, sub, t.Arg, bound), quantify(store, sub, t.Res, bound))
	default:
		return ty
	}
}

// instantiate replaces scheme's bound variables with fresh meta variables
// at rank, producing a fresh monotype each time the scheme's binding is
// referenced - the standard "let-polymorphism" step.
func instantiate(store *Store, gen *MetaGen, scheme TyScheme, rank uint32) TyIdx {
	if scheme.NumBound == 0 {
		return scheme.Body
	}
	fresh := make([]TyIdx, scheme.NumBound)
	for i := range fresh {
		fresh[i] = store.NewMeta(gen, rank)
	}
	return substBound(store, scheme.Body, fresh)
}

func substBound(store *Store, ty TyIdx, fresh []TyIdx) TyIdx {
	t := store.Get(ty)
	switch t.Kind {
	case TyBoundVar:
		if int(t.BoundIdx) < len(fresh) {
			return fresh[t.BoundIdx]
		}
		return ty
	case TyRecord:
		fields := make([]TyField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = TyField{Label: f.Label, Ty: substBound(store, f.Ty, fresh)}
		}
		return store.NewRecord(fields)
	case TyCon:
		args := make([]TyIdx, len(t.Args))
		for i, a := range t.Args {
			args[i] = substBound(store, a, fresh)
		}
		return store.NewCon(t.Sym, args)
	case TyFn:
		return store.NewFn(substBound(store, t.Arg, fresh), substBound(store, t.Res, fresh))
	default:
		return ty
	}
}
