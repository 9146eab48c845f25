package hir_test

import (
	"testing"

	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
	"smlcheck/internal/source"
)

func lowerSML(t *testing.T, src string) (*hir.Module, *diag.Bag) {
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

func rootDec(t *testing.T, mod *hir.Module) hir.Dec {
	t.Helper()
	sd := mod.StrDecs.Get(uint32(mod.Root))
	if sd == nil {
		t.Fatalf("nil root StrDec")
	}
	top, ok := (*sd).(hir.StrDecDec)
	if !ok {
		seq, ok := (*sd).(hir.StrDecSeq)
		if !ok || len(seq.Decs) == 0 {
			t.Fatalf("expected StrDecDec or non-empty StrDecSeq root, got %#v", *sd)
		}
		inner := mod.StrDecs.Get(uint32(seq.Decs[0]))
		top, ok = (*inner).(hir.StrDecDec)
		if !ok {
			t.Fatalf("expected StrDecDec, got %#v", *inner)
		}
	}
	d := mod.Decs.Get(uint32(top.Dec))
	if d == nil {
		t.Fatalf("nil top dec")
	}
	return *d
}

func singleValBind(t *testing.T, mod *hir.Module) hir.ValBind {
	t.Helper()
	dv, ok := rootDec(t, mod).(hir.DecVal)
	if !ok {
		t.Fatalf("expected DecVal, got %#v", rootDec(t, mod))
	}
	if len(dv.Binds) != 1 {
		t.Fatalf("expected 1 bind, got %d", len(dv.Binds))
	}
	return dv.Binds[0]
}

func TestLowerValBindingSimple(t *testing.T) {
	mod, bag := lowerSML(t, "val x = 1")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	pat := mod.Pats.Get(uint32(vb.Pat))
	pc, ok := (*pat).(hir.PatCon)
	if !ok || pc.Path.Last != "x" {
		t.Fatalf("expected variable pattern x, got %#v", *pat)
	}
	exp := mod.Exps.Get(uint32(vb.Rhs))
	sc, ok := (*exp).(hir.ExpScon)
	if !ok || sc.Value.Kind != hir.SConInt || sc.Value.Int != 1 {
		t.Fatalf("expected int literal 1, got %#v", *exp)
	}
}

// A tuple expression must desugar to a record with numeric labels 1..n.
func TestLowerTupleBecomesRecord(t *testing.T) {
	mod, bag := lowerSML(t, "val p = (1, 2, 3)")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	exp := mod.Exps.Get(uint32(vb.Rhs))
	rec, ok := (*exp).(hir.ExpRecord)
	if !ok {
		t.Fatalf("expected ExpRecord, got %#v", *exp)
	}
	if len(rec.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(rec.Fields))
	}
	for i, f := range rec.Fields {
		if !f.Label.Numeric || f.Label.Num != uint32(i+1) {
			t.Fatalf("field %d: expected numeric label %d, got %#v", i, i+1, f.Label)
		}
	}
}

// A list literal must desugar to a right-folded ::/nil chain.
func TestLowerListBecomesConsChain(t *testing.T) {
	mod, bag := lowerSML(t, "val xs = [1, 2]")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	outer := mod.Exps.Get(uint32(vb.Rhs))
	app, ok := (*outer).(hir.ExpApp)
	if !ok {
		t.Fatalf("expected ExpApp (:: applied), got %#v", *outer)
	}
	fn := mod.Exps.Get(uint32(app.Func))
	fp, ok := (*fn).(hir.ExpPath)
	if !ok || fp.Path.Last != "::" {
		t.Fatalf("expected :: path, got %#v", *fn)
	}
	arg := mod.Exps.Get(uint32(app.Arg))
	rec, ok := (*arg).(hir.ExpRecord)
	if !ok || len(rec.Fields) != 2 {
		t.Fatalf("expected 2-field tuple arg to ::, got %#v", *arg)
	}
	tail := mod.Exps.Get(uint32(rec.Fields[1].Value))
	tailApp, ok := (*tail).(hir.ExpApp)
	if !ok {
		t.Fatalf("expected nested :: application for tail, got %#v", *tail)
	}
	innerArg := mod.Exps.Get(uint32(tailApp.Arg))
	innerRec, ok := (*innerArg).(hir.ExpRecord)
	if !ok || len(innerRec.Fields) != 2 {
		t.Fatalf("expected inner 2-field tuple, got %#v", *innerArg)
	}
	finalTail := mod.Exps.Get(uint32(innerRec.Fields[1].Value))
	finalPath, ok := (*finalTail).(hir.ExpPath)
	if !ok || finalPath.Path.Last != "nil" {
		t.Fatalf("expected nil at the end of the chain, got %#v", *finalTail)
	}
}

// if/then/else must desugar to case-over-bool, i.e. a fn applied to the
// condition expression.
func TestLowerIfBecomesBoolCase(t *testing.T) {
	mod, bag := lowerSML(t, "val y = if true then 1 else 2")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	top := mod.Exps.Get(uint32(vb.Rhs))
	app, ok := (*top).(hir.ExpApp)
	if !ok {
		t.Fatalf("expected ExpApp, got %#v", *top)
	}
	fnExp := mod.Exps.Get(uint32(app.Func))
	fn, ok := (*fnExp).(hir.ExpFn)
	if !ok || len(fn.Match.Rules) != 2 {
		t.Fatalf("expected a 2-rule fn, got %#v", *fnExp)
	}
	for _, r := range fn.Match.Rules {
		p := mod.Pats.Get(uint32(r.Pat))
		pc, ok := (*p).(hir.PatCon)
		if !ok || (pc.Path.Last != "true" && pc.Path.Last != "false") {
			t.Fatalf("expected true/false pattern, got %#v", *p)
		}
	}
}

// a sequence e1;e2;e3 must right-fold into nested case-of-wildcard dispatch.
func TestLowerSequence(t *testing.T) {
	mod, bag := lowerSML(t, "val _ = (1; 2; 3)")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	top := mod.Exps.Get(uint32(vb.Rhs))
	app, ok := (*top).(hir.ExpApp)
	if !ok {
		t.Fatalf("expected ExpApp (fn applied to 1), got %#v", *top)
	}
	fnExp := mod.Exps.Get(uint32(app.Func))
	fn, ok := (*fnExp).(hir.ExpFn)
	if !ok || len(fn.Match.Rules) != 1 {
		t.Fatalf("expected a 1-rule fn wrapping the rest of the sequence, got %#v", *fnExp)
	}
	p := mod.Pats.Get(uint32(fn.Match.Rules[0].Pat))
	if _, ok := (*p).(hir.PatWild); !ok {
		t.Fatalf("expected wildcard pattern, got %#v", *p)
	}
}

// infix application (x + y) must desugar to prefix application of "+" to a
// 2-field numeric-labeled tuple, same as an ordinary constructor application.
func TestLowerInfixApplication(t *testing.T) {
	mod, bag := lowerSML(t, "val z = 1 + 2")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	top := mod.Exps.Get(uint32(vb.Rhs))
	app, ok := (*top).(hir.ExpApp)
	if !ok {
		t.Fatalf("expected ExpApp, got %#v", *top)
	}
	fnExp := mod.Exps.Get(uint32(app.Func))
	fp, ok := (*fnExp).(hir.ExpPath)
	if !ok || fp.Path.Last != "+" {
		t.Fatalf("expected + path, got %#v", *fnExp)
	}
	argExp := mod.Exps.Get(uint32(app.Arg))
	rec, ok := (*argExp).(hir.ExpRecord)
	if !ok || len(rec.Fields) != 2 {
		t.Fatalf("expected 2-field tuple operand, got %#v", *argExp)
	}
}

// #lab must desugar to "fn {lab = x, ...} => x" for a fresh x.
func TestLowerSelector(t *testing.T) {
	mod, bag := lowerSML(t, "val getX = #x")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	fnExp := mod.Exps.Get(uint32(vb.Rhs))
	fn, ok := (*fnExp).(hir.ExpFn)
	if !ok || len(fn.Match.Rules) != 1 {
		t.Fatalf("expected 1-rule fn, got %#v", *fnExp)
	}
	rule := fn.Match.Rules[0]
	p := mod.Pats.Get(uint32(rule.Pat))
	pr, ok := (*p).(hir.PatRecord)
	if !ok || !pr.Rest || len(pr.Fields) != 1 || pr.Fields[0].Label.Name != "x" {
		t.Fatalf("expected {x=binder, ...} pattern, got %#v", *p)
	}
	body := mod.Exps.Get(uint32(rule.Body))
	if _, ok := (*body).(hir.ExpPath); !ok {
		t.Fatalf("expected a path reference to the bound variable, got %#v", *body)
	}
}

// fun bindings with multiple clauses desugar into curried fn parameters
// wrapping one case-dispatch over a tuple of those parameters.
func TestLowerFunMultiClause(t *testing.T) {
	src := "fun fact 0 = 1\n  | fact n = n"
	mod, bag := lowerSML(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	dv, ok := rootDec(t, mod).(hir.DecVal)
	if !ok || !dv.Rec || len(dv.Binds) != 1 {
		t.Fatalf("expected one recursive val bind, got %#v", rootDec(t, mod))
	}
	pat := mod.Pats.Get(uint32(dv.Binds[0].Pat))
	pc, ok := (*pat).(hir.PatCon)
	if !ok || pc.Path.Last != "fact" {
		t.Fatalf("expected binder named fact, got %#v", *pat)
	}
	rhs := mod.Exps.Get(uint32(dv.Binds[0].Rhs))
	fn, ok := (*rhs).(hir.ExpFn)
	if !ok || len(fn.Match.Rules) != 1 {
		t.Fatalf("expected single-parameter fn wrapper, got %#v", *rhs)
	}
	inner := mod.Exps.Get(uint32(fn.Match.Rules[0].Body))
	app, ok := (*inner).(hir.ExpApp)
	if !ok {
		t.Fatalf("expected the dispatch fn applied to the parameter, got %#v", *inner)
	}
	dispatch := mod.Exps.Get(uint32(app.Func))
	dfn, ok := (*dispatch).(hir.ExpFn)
	if !ok || len(dfn.Match.Rules) != 2 {
		t.Fatalf("expected a 2-rule case dispatch, got %#v", *dispatch)
	}
}

// datatype/case: SOME y => y should elaborate to a PatCon with an arg
// binder, selected via the bool-case-style fn/apply desugaring of "case".
func TestLowerDatatypeAndCase(t *testing.T) {
	src := "datatype 'a option = NONE | SOME of 'a\n" +
		"val f = fn x => case x of NONE => 0 | SOME y => y"
	mod, bag := lowerSML(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	sd := mod.StrDecs.Get(uint32(mod.Root))
	seq, ok := (*sd).(hir.StrDecSeq)
	if !ok || len(seq.Decs) != 2 {
		t.Fatalf("expected a 2-item top-level sequence, got %#v", *sd)
	}
	second := mod.StrDecs.Get(uint32(seq.Decs[1]))
	top, ok := (*second).(hir.StrDecDec)
	if !ok {
		t.Fatalf("expected StrDecDec, got %#v", *second)
	}
	dv, ok := (*mod.Decs.Get(uint32(top.Dec))).(hir.DecVal)
	if !ok || len(dv.Binds) != 1 {
		t.Fatalf("expected one val bind, got %#v", *mod.Decs.Get(uint32(top.Dec)))
	}
	outerFn := mod.Exps.Get(uint32(dv.Binds[0].Rhs))
	ofn, ok := (*outerFn).(hir.ExpFn)
	if !ok || len(ofn.Match.Rules) != 1 {
		t.Fatalf("expected fn x => ..., got %#v", *outerFn)
	}
	caseExp := mod.Exps.Get(uint32(ofn.Match.Rules[0].Body))
	app, ok := (*caseExp).(hir.ExpApp)
	if !ok {
		t.Fatalf("expected case to desugar to ExpApp, got %#v", *caseExp)
	}
	caseFn := mod.Exps.Get(uint32(app.Func))
	cfn, ok := (*caseFn).(hir.ExpFn)
	if !ok || len(cfn.Match.Rules) != 2 {
		t.Fatalf("expected a 2-rule match, got %#v", *caseFn)
	}
	somePat := mod.Pats.Get(uint32(cfn.Match.Rules[1].Pat))
	pc, ok := (*somePat).(hir.PatCon)
	if !ok || pc.Path.Last != "SOME" || pc.Arg == hir.NoPatIdx {
		t.Fatalf("expected SOME y pattern with an argument binder, got %#v", *somePat)
	}
}

// record field punning in patterns is unsupported and must be flagged,
// while still recovering to a usable binder.
func TestLowerRecordPunningReportsDiagnostic(t *testing.T) {
	mod, bag := lowerSML(t, "val f = fn {x, y} => x")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LowUnsupportedRowPunning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LowUnsupportedRowPunning diagnostic, got %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	fnExp := mod.Exps.Get(uint32(vb.Rhs))
	fn, ok := (*fnExp).(hir.ExpFn)
	if !ok || len(fn.Match.Rules) != 1 {
		t.Fatalf("expected 1-rule fn, got %#v", *fnExp)
	}
	p := mod.Pats.Get(uint32(fn.Match.Rules[0].Pat))
	pr, ok := (*p).(hir.PatRecord)
	if !ok || len(pr.Fields) != 2 {
		t.Fatalf("expected a 2-field record pattern despite punning, got %#v", *p)
	}
}

// mismatched clause arity/name in a fun binding must be flagged but must not
// abort lowering.
func TestLowerFunClauseArityMismatchReportsDiagnostic(t *testing.T) {
	src := "fun f x = x\n  | f x y = x"
	mod, bag := lowerSML(t, src)
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.LowFunClauseArityMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LowFunClauseArityMismatch diagnostic, got %v", bag.Items())
	}
	if mod.Root == hir.NoStrDecIdx {
		t.Fatalf("lowering must still produce a root despite the mismatch")
	}
}

// structure bindings with opaque ascription must wrap the body in an
// ascription node carrying Opaque=true, with no StrBind.Sig set directly.
func TestLowerStructureOpaqueAscription(t *testing.T) {
	src := "signature S = sig val x : int end\n" +
		"structure M :> S = struct val x = 1 end"
	mod, bag := lowerSML(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	sd := mod.StrDecs.Get(uint32(mod.Root))
	seq, ok := (*sd).(hir.StrDecSeq)
	if !ok || len(seq.Decs) != 2 {
		t.Fatalf("expected a 2-item top-level sequence, got %#v", *sd)
	}
	sigDec := mod.StrDecs.Get(uint32(seq.Decs[0]))
	sigGroup, ok := (*sigDec).(hir.StrDecSignature)
	if !ok || len(sigGroup.Binds) != 1 || sigGroup.Binds[0].Name != "S" {
		t.Fatalf("expected a signature S binding, got %#v", *sigDec)
	}

	strDec := mod.StrDecs.Get(uint32(seq.Decs[1]))
	strGroup, ok := (*strDec).(hir.StrDecStructure)
	if !ok || len(strGroup.Binds) != 1 {
		t.Fatalf("expected a structure M binding, got %#v", *strDec)
	}
	bind := strGroup.Binds[0]
	if bind.Name != "M" {
		t.Fatalf("expected name M, got %q", bind.Name)
	}
	if bind.Sig != hir.NoSigExpIdx {
		t.Fatalf("StrBind.Sig must stay unused; ascription is folded into Rhs")
	}
	rhs := mod.StrExps.Get(uint32(bind.Rhs))
	asc, ok := (*rhs).(hir.StrExpAscription)
	if !ok || !asc.Opaque {
		t.Fatalf("expected an opaque StrExpAscription, got %#v", *rhs)
	}
}

// functor declarations still need a home in the HIR even though statics
// reports them unsupported; the binding must round-trip its param/body shape.
func TestLowerFunctorBind(t *testing.T) {
	src := "functor F (X : sig val x : int end) = struct val y = 1 end"
	mod, bag := lowerSML(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	sd := mod.StrDecs.Get(uint32(mod.Root))
	fg, ok := (*sd).(hir.StrDecFunctor)
	if !ok || len(fg.Binds) != 1 {
		t.Fatalf("expected a single functor binding, got %#v", *sd)
	}
	fb := fg.Binds[0]
	if fb.Name != "F" || fb.ParamName != "X" {
		t.Fatalf("expected F(X: ...), got name=%q param=%q", fb.Name, fb.ParamName)
	}
	if fb.Body == hir.NoStrExpIdx {
		t.Fatalf("expected a lowered functor body")
	}
}

// a bare top-level expression desugars to "val it = exp".
func TestLowerTopLevelExpressionBecomesValIt(t *testing.T) {
	mod, bag := lowerSML(t, "1 + 1")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	vb := singleValBind(t, mod)
	pat := mod.Pats.Get(uint32(vb.Pat))
	pc, ok := (*pat).(hir.PatCon)
	if !ok || pc.Path.Last != "it" {
		t.Fatalf("expected binder named it, got %#v", *pat)
	}
}
