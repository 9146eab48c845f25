package statics

import "smlcheck/internal/hir"

// NewBasis builds the initial Basis every project starts elaborating
// from: the built-in types (unit, bool, int, word, real, char, string,
// exn, ref, list, order, option) and the core values the Definition's
// initial basis provides for them. User "datatype"/"val" declarations
// extend this Basis; they never need to special-case it.
func NewBasis() *Basis {
	store := NewStore()
	syms := NewSyms()
	env := NewEnv()
	dts := map[Sym]DatatypeInfo{}

	var b Builtins
	b.Unit = syms.Fresh("unit", 0)
	b.Bool = syms.Fresh("bool", 0)
	b.Int = syms.Fresh("int", 0)
	b.Word = syms.Fresh("word", 0)
	b.Real = syms.Fresh("real", 0)
	b.Char = syms.Fresh("char", 0)
	b.String = syms.Fresh("string", 0)
	b.Exn = syms.Fresh("exn", 0)
	b.Ref = syms.Fresh("ref", 1)
	b.List = syms.Fresh("list", 1)
	b.Order = syms.Fresh("order", 0)
	b.Option = syms.Fresh("option", 1)

	unitTy := store.NewCon(b.Unit, nil)
	boolTy := store.NewCon(b.Bool, nil)
	intTy := store.NewCon(b.Int, nil)
	stringTy := store.NewCon(b.String, nil)
	orderTy := store.NewCon(b.Order, nil)

	env = env.BindTy("unit", TyInfo{Sym: b.Unit})
	env = env.BindTy("bool", TyInfo{Sym: b.Bool})
	env = env.BindTy("int", TyInfo{Sym: b.Int})
	env = env.BindTy("word", TyInfo{Sym: b.Word})
	env = env.BindTy("real", TyInfo{Sym: b.Real})
	env = env.BindTy("char", TyInfo{Sym: b.Char})
	env = env.BindTy("string", TyInfo{Sym: b.String})
	env = env.BindTy("exn", TyInfo{Sym: b.Exn})
	env = env.BindTy("ref", TyInfo{Sym: b.Ref, Arity: 1})
	env = env.BindTy("list", TyInfo{Sym: b.List, Arity: 1})
	env = env.BindTy("order", TyInfo{Sym: b.Order})
	env = env.BindTy("option", TyInfo{Sym: b.Option, Arity: 1})

	// bool = false | true
	env = env.BindVal("true", ValInfo{Scheme: Monotype(boolTy), IsCon: true, ConOf: b.Bool})
	env = env.BindVal("false", ValInfo{Scheme: Monotype(boolTy), IsCon: true, ConOf: b.Bool})
	dts[b.Bool] = DatatypeInfo{Cons: []hir.Name{"false", "true"}}

	// order = LESS | EQUAL | GREATER
	env = env.BindVal("LESS", ValInfo{Scheme: Monotype(orderTy), IsCon: true, ConOf: b.Order})
	env = env.BindVal("EQUAL", ValInfo{Scheme: Monotype(orderTy), IsCon: true, ConOf: b.Order})
	env = env.BindVal("GREATER", ValInfo{Scheme: Monotype(orderTy), IsCon: true, ConOf: b.Order})
	dts[b.Order] = DatatypeInfo{Cons: []hir.Name{"LESS", "EQUAL", "GREATER"}}

	// 'a option = NONE | SOME of 'a
	optA := store.NewBoundVar(0)
	optTy := store.NewCon(b.Option, []TyIdx{optA})
	env = env.BindVal("NONE", ValInfo{Scheme: TyScheme{NumBound: 1, Body: optTy}, IsCon: true, ConOf: b.Option})
	someTy := store.NewFn(optA, optTy)
	env = env.BindVal("SOME", ValInfo{Scheme: TyScheme{NumBound: 1, Body: someTy}, IsCon: true, ConOf: b.Option, HasArg: true})
	dts[b.Option] = DatatypeInfo{Cons: []hir.Name{"NONE", "SOME"}}

	// 'a list = nil | :: of 'a * 'a list
	listA := store.NewBoundVar(0)
	listTy := store.NewCon(b.List, []TyIdx{listA})
	env = env.BindVal("nil", ValInfo{Scheme: TyScheme{NumBound: 1, Body: listTy}, IsCon: true, ConOf: b.List})
	consArg := store.NewRecord([]TyField{
		{Label: hir.NumericLabel(1), Ty: listA},
		{Label: hir.NumericLabel(2), Ty: listTy},
	})
	consTy := store.NewFn(consArg, listTy)
	env = env.BindVal("::", ValInfo{Scheme: TyScheme{NumBound: 1, Body: consTy}, IsCon: true, ConOf: b.List, HasArg: true})
	dts[b.List] = DatatypeInfo{Cons: []hir.Name{"nil", "::"}}

	// 'a ref = ref of 'a
	refA := store.NewBoundVar(0)
	refTy := store.NewCon(b.Ref, []TyIdx{refA})
	refConTy := store.NewFn(refA, refTy)
	env = env.BindVal("ref", ValInfo{Scheme: TyScheme{NumBound: 1, Body: refConTy}, IsCon: true, ConOf: b.Ref, HasArg: true})
	dts[b.Ref] = DatatypeInfo{Cons: []hir.Name{"ref"}}

	// exn constructors the initial basis defines directly.
	env = env.BindVal("Match", ValInfo{Scheme: Monotype(store.NewCon(b.Exn, nil)), IsCon: true, ConOf: b.Exn, IsExcCon: true})
	env = env.BindVal("Bind", ValInfo{Scheme: Monotype(store.NewCon(b.Exn, nil)), IsCon: true, ConOf: b.Exn, IsExcCon: true})

	fn1 := func(arg, res TyIdx) TyIdx { return store.NewFn(arg, res) }
	fn2 := func(a1, a2, res TyIdx) TyIdx {
		pair := store.NewRecord([]TyField{{Label: hir.NumericLabel(1), Ty: a1}, {Label: hir.NumericLabel(2), Ty: a2}})
		return store.NewFn(pair, res)
	}

	env = env.BindVal("+", ValInfo{Scheme: Monotype(fn2(intTy, intTy, intTy))})
	env = env.BindVal("-", ValInfo{Scheme: Monotype(fn2(intTy, intTy, intTy))})
	env = env.BindVal("*", ValInfo{Scheme: Monotype(fn2(intTy, intTy, intTy))})
	env = env.BindVal("div", ValInfo{Scheme: Monotype(fn2(intTy, intTy, intTy))})
	env = env.BindVal("mod", ValInfo{Scheme: Monotype(fn2(intTy, intTy, intTy))})
	env = env.BindVal("~", ValInfo{Scheme: Monotype(fn1(intTy, intTy))})
	env = env.BindVal("abs", ValInfo{Scheme: Monotype(fn1(intTy, intTy))})

	cmpA := store.NewBoundVar(0)
	cmp := TyScheme{NumBound: 1, Body: fn2(cmpA, cmpA, boolTy)}
	env = env.BindVal("<", ValInfo{Scheme: cmp})
	env = env.BindVal(">", ValInfo{Scheme: cmp})
	env = env.BindVal("<=", ValInfo{Scheme: cmp})
	env = env.BindVal(">=", ValInfo{Scheme: cmp})

	eqA := store.NewBoundVar(0)
	eq := TyScheme{NumBound: 1, Body: fn2(eqA, eqA, boolTy)}
	env = env.BindVal("=", ValInfo{Scheme: eq})
	env = env.BindVal("<>", ValInfo{Scheme: eq})

	env = env.BindVal("not", ValInfo{Scheme: Monotype(fn1(boolTy, boolTy))})
	env = env.BindVal("^", ValInfo{Scheme: Monotype(fn2(stringTy, stringTy, stringTy))})
	env = env.BindVal("size", ValInfo{Scheme: Monotype(fn1(stringTy, intTy))})
	env = env.BindVal("print", ValInfo{Scheme: Monotype(fn1(stringTy, unitTy))})

	subA := store.NewBoundVar(0)
	deref := TyScheme{NumBound: 1, Body: fn1(store.NewCon(b.Ref, []TyIdx{subA}), subA)}
	env = env.BindVal("!", ValInfo{Scheme: deref})
	assignA := store.NewBoundVar(0)
	assign := TyScheme{NumBound: 1, Body: fn2(store.NewCon(b.Ref, []TyIdx{assignA}), assignA, unitTy)}
	env = env.BindVal(":=", ValInfo{Scheme: assign})

	return &Basis{Store: store, Syms: syms, Env: env, Datatypes: dts, Builtins: b}
}
