package hir

import "smlcheck/internal/cst"

// PointerMap relates HIR elements to the CST nodes they were lowered from.
// The forward direction is injective - every Idx we ever record came from
// exactly one cst.Pointer - but the reverse direction is not: desugaring
// routinely produces several HIR elements from one surface node (an "if"
// produces both an ExpApp and the ExpFn/Match beneath it), and a lookup by
// Pointer only needs "the most specific HIR element built from this span",
// so later Record calls for the same Pointer simply win.
type PointerMap struct {
	forward map[Idx]cst.Pointer
	reverse map[cst.Pointer]Idx
}

func NewPointerMap() *PointerMap {
	return &PointerMap{forward: map[Idx]cst.Pointer{}, reverse: map[cst.Pointer]Idx{}}
}

// Record associates idx with ptr. Safe to call more than once for the same
// ptr (reverse last-wins) or the same idx (forward is overwritten too,
// though callers should never actually do that).
func (m *PointerMap) Record(idx Idx, ptr cst.Pointer) {
	m.forward[idx] = ptr
	m.reverse[ptr] = idx
}

// Pointer returns the syntax pointer idx was lowered from, if recorded.
func (m *PointerMap) Pointer(idx Idx) (cst.Pointer, bool) {
	p, ok := m.forward[idx]
	return p, ok
}

// Idx returns the most recently recorded HIR element built from ptr.
func (m *PointerMap) Idx(ptr cst.Pointer) (Idx, bool) {
	idx, ok := m.reverse[ptr]
	return idx, ok
}

// Module holds every arena for one lowered file: the eight node arenas,
// the syntax-pointer map back to the CST, and the top-level declaration
// sequence. Matches of ExpFn/ExpHandle are stored inline, not in an arena.
type Module struct {
	Tree *cst.Tree

	Exps    *Arena[Exp]
	Pats    *Arena[Pat]
	Tys     *Arena[Ty]
	Decs    *Arena[Dec]
	StrDecs *Arena[StrDec]
	StrExps *Arena[StrExp]
	SigExps *Arena[SigExp]
	Specs   *Arena[Spec]

	Pointers *PointerMap

	Root StrDecIdx
}

func newModule(tree *cst.Tree) *Module {
	return &Module{
		Tree:     tree,
		Exps:     NewArena[Exp](64),
		Pats:     NewArena[Pat](64),
		Tys:      NewArena[Ty](32),
		Decs:     NewArena[Dec](32),
		StrDecs:  NewArena[StrDec](16),
		StrExps:  NewArena[StrExp](8),
		SigExps:  NewArena[SigExp](8),
		Specs:    NewArena[Spec](8),
		Pointers: NewPointerMap(),
	}
}
