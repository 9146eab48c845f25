package tyvarscope_test

import (
	"testing"

	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
	"smlcheck/internal/source"
	"smlcheck/internal/tyvarscope"
)

func buildModule(t *testing.T, src string) (*hir.Module, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sml", []byte(src))
	file := fs.Get(fileID)
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	tree := cst.Parse(file, rep)
	mod := hir.Lower(tree, rep)
	return mod, bag
}

func rootDecVal(t *testing.T, mod *hir.Module) hir.DecVal {
	t.Helper()
	sd := mod.StrDecs.Get(uint32(mod.Root))
	top, ok := (*sd).(hir.StrDecDec)
	if !ok {
		t.Fatalf("expected StrDecDec root, got %#v", *sd)
	}
	dv, ok := (*mod.Decs.Get(uint32(top.Dec))).(hir.DecVal)
	if !ok {
		t.Fatalf("expected DecVal, got %#v", *mod.Decs.Get(uint32(top.Dec)))
	}
	return dv
}

// A single val binding whose type annotation mentions a fresh type variable
// must have that variable scoped to itself.
func TestResolveSimpleValGetsOwnTyVar(t *testing.T) {
	mod, bag := buildModule(t, "val f : 'a -> 'a = fn x => x")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	tyvarscope.Resolve(mod)
	dv := rootDecVal(t, mod)
	if len(dv.TyVars) != 1 || dv.TyVars[0] != "'a" {
		t.Fatalf("expected ['a], got %v", dv.TyVars)
	}
}

// A tyvar mentioned only inside a nested "let"'s val binding is scoped to
// the inner binding, not the outer one.
func TestResolveInnerLetBindsOwnTyVar(t *testing.T) {
	src := "val f = let val g : 'a -> 'a = fn x => x in g end"
	mod, bag := buildModule(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	tyvarscope.Resolve(mod)
	outer := rootDecVal(t, mod)
	if len(outer.TyVars) != 0 {
		t.Fatalf("outer val must not claim the inner let's tyvar, got %v", outer.TyVars)
	}

	letExp := mod.Exps.Get(uint32(outer.Binds[0].Rhs))
	let, ok := (*letExp).(hir.ExpLet)
	if !ok {
		t.Fatalf("expected ExpLet, got %#v", *letExp)
	}
	inner, ok := (*mod.Decs.Get(uint32(let.Dec))).(hir.DecVal)
	if !ok {
		t.Fatalf("expected inner DecVal, got %#v", *mod.Decs.Get(uint32(let.Dec)))
	}
	if len(inner.TyVars) != 1 || inner.TyVars[0] != "'a" {
		t.Fatalf("expected inner val to claim ['a], got %v", inner.TyVars)
	}
}

// A tyvar already claimed by an outer val must not be reclaimed by a nested
// one that also mentions it.
func TestResolveOuterValShadowsInner(t *testing.T) {
	src := "val f : 'a -> 'a = let val g : 'a -> 'a = fn x => x in g end"
	mod, bag := buildModule(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	tyvarscope.Resolve(mod)
	outer := rootDecVal(t, mod)
	if len(outer.TyVars) != 1 || outer.TyVars[0] != "'a" {
		t.Fatalf("expected outer val to claim ['a], got %v", outer.TyVars)
	}

	letExp := mod.Exps.Get(uint32(outer.Binds[0].Rhs))
	let, ok := (*letExp).(hir.ExpLet)
	if !ok {
		t.Fatalf("expected ExpLet, got %#v", *letExp)
	}
	inner, ok := (*mod.Decs.Get(uint32(let.Dec))).(hir.DecVal)
	if !ok {
		t.Fatalf("expected inner DecVal, got %#v", *mod.Decs.Get(uint32(let.Dec)))
	}
	if len(inner.TyVars) != 0 {
		t.Fatalf("inner val's 'a is already bound by the outer val, got %v", inner.TyVars)
	}
}

// Multiple distinct tyvars on one val are all collected and sorted.
func TestResolveMultipleTyVarsSorted(t *testing.T) {
	src := "val swap : ('a * 'b) -> ('b * 'a) = fn p => p"
	mod, bag := buildModule(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	tyvarscope.Resolve(mod)
	dv := rootDecVal(t, mod)
	if len(dv.TyVars) != 2 || dv.TyVars[0] != "'a" || dv.TyVars[1] != "'b" {
		t.Fatalf("expected ['a 'b] sorted, got %v", dv.TyVars)
	}
}

// A val spec inside a signature collects its own tyvars the same way a val
// dec does.
func TestResolveSigSpecValTyVars(t *testing.T) {
	src := "signature S = sig val id : 'a -> 'a end"
	mod, bag := buildModule(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	tyvarscope.Resolve(mod)

	sd := mod.StrDecs.Get(uint32(mod.Root))
	sigGroup, ok := (*sd).(hir.StrDecSignature)
	if !ok || len(sigGroup.Binds) != 1 {
		t.Fatalf("expected a signature binding, got %#v", *sd)
	}
	sigExp := mod.SigExps.Get(uint32(sigGroup.Binds[0].Sig))
	spec, ok := (*sigExp).(hir.SigExpSpec)
	if !ok {
		t.Fatalf("expected SigExpSpec, got %#v", *sigExp)
	}
	sv, ok := (*mod.Specs.Get(uint32(spec.Spec))).(hir.SpecVal)
	if !ok {
		t.Fatalf("expected SpecVal, got %#v", *mod.Specs.Get(uint32(spec.Spec)))
	}
	if len(sv.TyVars) != 1 || sv.TyVars[0] != "'a" {
		t.Fatalf("expected ['a], got %v", sv.TyVars)
	}
}

// A val binding with no type variables anywhere collects none.
func TestResolveNoTyVars(t *testing.T) {
	mod, bag := buildModule(t, "val x = 1")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	tyvarscope.Resolve(mod)
	dv := rootDecVal(t, mod)
	if len(dv.TyVars) != 0 {
		t.Fatalf("expected no tyvars, got %v", dv.TyVars)
	}
}
