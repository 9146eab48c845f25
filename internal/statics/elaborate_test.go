package statics_test

import (
	"testing"

	"smlcheck/internal/cst"
	"smlcheck/internal/diag"
	"smlcheck/internal/hir"
	"smlcheck/internal/source"
	"smlcheck/internal/statics"
	"smlcheck/internal/tyvarscope"
)

func elaborate(t *testing.T, src string) (*statics.Basis, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.sml", []byte(src))
	file := fs.Get(fileID)
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}
	tree := cst.Parse(file, rep)
	mod := hir.Lower(tree, rep)
	if bag.HasErrors() {
		t.Fatalf("unexpected parse/lower errors: %v", bag.Items())
	}
	tyvarscope.Resolve(mod)
	out := statics.Elaborate(mod, statics.NewBasis(), rep)
	return out, bag
}

func codes(bag *diag.Bag) []diag.Code {
	var cs []diag.Code
	for _, d := range bag.Items() {
		cs = append(cs, d.Code)
	}
	return cs
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// A function with no use of its argument's identity generalizes: calling it
// at two different instantiations should not report a type mismatch.
func TestLetPolymorphismGeneralizesFunction(t *testing.T) {
	src := `
		val id = fn x => x
		val a = id 1
		val b = id true
	`
	_, bag := elaborate(t, src)
	if bag.HasErrors() {
		t.Fatalf("expected id to generalize over both call sites, got: %v", bag.Items())
	}
}

// An explicit polymorphic type annotation on a fn value still generalizes,
// the same as an un-annotated one would.
func TestFixedTyVarAnnotationStillGeneralizes(t *testing.T) {
	src := `
		val f : 'a -> 'a = fn x => x
		val y = f 1
		val z = f true
	`
	_, bag := elaborate(t, src)
	if bag.HasErrors() {
		t.Fatalf("a polymorphic annotation should still generalize across call sites, got: %v", bag.Items())
	}
}

// A monomorphic type annotation must reject a use at an incompatible type.
func TestFixedTypeAnnotationRejectsIncompatibleUse(t *testing.T) {
	src := `
		val f : int -> int = fn x => x
		val z = f true
	`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemTypeMismatch) {
		t.Fatalf("expected SemTypeMismatch against the int -> int annotation, got: %v", codes(bag))
	}
}

// Applying a function to an argument of the wrong type must report a type
// mismatch, not be silently accepted.
func TestApplyingWrongArgumentTypeReportsMismatch(t *testing.T) {
	src := `val bad = (fn x => x + 1) true`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemTypeMismatch) {
		t.Fatalf("expected SemTypeMismatch, got: %v", codes(bag))
	}
}

// The value restriction: a ref built from a function application is not a
// syntactic value, so it must not generalize - using it at two different
// types must be a type error.
func TestValueRestrictionBlocksRefGeneralization(t *testing.T) {
	src := `
		val r = ref (fn x => x)
		val a = (!r) 1
		val b = (!r) true
	`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemTypeMismatch) {
		t.Fatalf("expected the monomorphic ref cell to reject the second use, got: %v", codes(bag))
	}
}

// By contrast, a bare fn value (a true syntactic value) still generalizes
// even though it is bound through the same "val" form as the ref above.
func TestValueRestrictionStillGeneralizesPlainFunctions(t *testing.T) {
	src := `
		val id = fn x => x
		val a = id 1
		val b = id true
	`
	_, bag := elaborate(t, src)
	if bag.HasErrors() {
		t.Fatalf("a bare fn is a syntactic value and must generalize, got: %v", bag.Items())
	}
}

// A record literal missing a field the pattern expects should report a
// wrong-record-labels diagnostic, not a generic mismatch.
func TestRecordFieldMismatchReportsWrongLabels(t *testing.T) {
	src := `val {x, y} = {x = 1}`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemWrongRecordLabels) {
		t.Fatalf("expected SemWrongRecordLabels, got: %v", codes(bag))
	}
}

// Referencing an identifier that was never bound is a static error.
func TestUndefinedValueIsReported(t *testing.T) {
	src := `val x = thisNameDoesNotExist`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemUndefinedValue) {
		t.Fatalf("expected SemUndefinedValue, got: %v", codes(bag))
	}
}

// A match over option missing the NONE arm is non-exhaustive.
func TestNonExhaustiveOptionMatchIsReported(t *testing.T) {
	src := `
		val f = fn x => case x of
			SOME y => y
	`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemNonExhaustiveMatch) {
		t.Fatalf("expected SemNonExhaustiveMatch, got: %v", codes(bag))
	}
}

// A wildcard rule after an earlier wildcard rule can never fire.
func TestRedundantMatchArmIsReported(t *testing.T) {
	src := `
		val f = fn x => case x of
			  _ => 1
			| _ => 2
	`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemRedundantMatchArm) {
		t.Fatalf("expected SemRedundantMatchArm, got: %v", codes(bag))
	}
}

// Exhaustive coverage of both option constructors must not be flagged.
func TestExhaustiveOptionMatchIsAccepted(t *testing.T) {
	src := `
		val f = fn x => case x of
			  NONE => 0
			| SOME y => y
	`
	_, bag := elaborate(t, src)
	if hasCode(bag, diag.SemNonExhaustiveMatch) {
		t.Fatalf("did not expect SemNonExhaustiveMatch for an exhaustive match, got: %v", bag.Items())
	}
}

// A datatype declaration introduces a nominal type whose constructors
// participate fully in unification and match checking.
func TestUserDatatypeConstructorsUnifyAndCheckExhaustiveness(t *testing.T) {
	src := `
		datatype color = Red | Green | Blue
		val f = fn x => case x of
			  Red => 0
			| Green => 1
	`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemNonExhaustiveMatch) {
		t.Fatalf("expected SemNonExhaustiveMatch for missing Blue arm, got: %v", codes(bag))
	}
}

// Signature and functor bindings are recognized but not elaborated or
// matched against their structures, per the module-language scope cut.
func TestSignatureBindingReportsUnsupported(t *testing.T) {
	src := `
		signature S = sig val x : int end
		structure M = struct val x = 1 end
	`
	_, bag := elaborate(t, src)
	if !hasCode(bag, diag.SemUnsupportedModuleFeature) {
		t.Fatalf("expected SemUnsupportedModuleFeature for the signature binding, got: %v", codes(bag))
	}
}

// A structure's bindings are reachable through its qualified path after
// elaboration.
func TestStructureMemberResolvesThroughPath(t *testing.T) {
	src := `
		structure M = struct val x = 1 end
		val y = M.x + 1
	`
	_, bag := elaborate(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors resolving a structure member: %v", bag.Items())
	}
}

// "open" brings a structure's bindings into scope unqualified.
func TestOpenBringsStructureBindingsIntoScope(t *testing.T) {
	src := `
		structure M = struct val x = 1 end
		open M
		val y = x + 1
	`
	_, bag := elaborate(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors after open: %v", bag.Items())
	}
}

// The Basis returned by Elaborate threads forward: a second Elaborate call
// seeded from the first's result sees its top-level bindings, modeling how
// internal/driver folds over a project's file list.
func TestBasisThreadsAcrossElaborateCalls(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}

	file1 := fs.Get(fs.AddVirtual("a.sml", []byte("val shared = 41")))
	tree1 := cst.Parse(file1, rep)
	mod1 := hir.Lower(tree1, rep)
	tyvarscope.Resolve(mod1)
	basis := statics.Elaborate(mod1, statics.NewBasis(), rep)

	file2 := fs.Get(fs.AddVirtual("b.sml", []byte("val next = shared + 1")))
	tree2 := cst.Parse(file2, rep)
	mod2 := hir.Lower(tree2, rep)
	tyvarscope.Resolve(mod2)
	statics.Elaborate(mod2, basis, rep)

	if bag.HasErrors() {
		t.Fatalf("expected second file to see first file's binding, got: %v", bag.Items())
	}
}
