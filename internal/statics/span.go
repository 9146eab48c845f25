package statics

import (
	"smlcheck/internal/hir"
	"smlcheck/internal/source"
)

// spanOf recovers the best-effort source span for a HIR element, by way of
// the syntax-pointer map hir.Lower built while desugaring. Desugared nodes
// that have no direct CST counterpart (e.g. the synthetic "fn" behind an
// "if") still resolve, since hir.Lower records a pointer for every
// intermediate node it allocates along the way.
func spanOf(mod *hir.Module, idx hir.Idx) source.Span {
	ptr, ok := mod.Pointers.Pointer(idx)
	if !ok {
		return source.Span{}
	}
	return mod.Tree.NodeAt(ptr).Span()
}
