package cst

import (
	"smlcheck/internal/source"
	"smlcheck/internal/token"
)

// Builder assembles a Tree bottom-up: leaves (tokens) are pushed first,
// then wrapped into nodes, mirroring the teacher's Arena.Allocate pattern
// (internal/ast.Arena[T] in the retrieval pack) but specialized to a tree
// whose children reference either a token or another arena slot.
type Builder struct {
	t *Tree
}

// NewBuilder creates an empty Builder, ready to accept tokens and nodes.
func NewBuilder() *Builder {
	return &Builder{t: &Tree{nodes: make([]nodeData, 1)}} // slot 0 is the NoNodeID sentinel
}

// PushToken appends a token to the flat token stream and returns a Child
// referencing it.
func (b *Builder) PushToken(tok token.Token) Child {
	idx := uint32(len(b.t.tokens))
	b.t.tokens = append(b.t.tokens, tok)
	return TokenChild(idx)
}

// MakeNode allocates a new node with the given children, computing its span
// as the cover of every child's span (token children use their own Span;
// node children use their already-computed span).
func (b *Builder) MakeNode(kind Kind, children ...Child) NodeID {
	id := NodeID(len(b.t.nodes))
	var span source.Span
	first := true
	for _, c := range children {
		var cs source.Span
		if c.IsToken {
			cs = b.t.tokens[c.TokenIdx].Span
		} else {
			cs = b.t.nodes[c.Node].span
		}
		if first {
			span = cs
			first = false
		} else {
			span = span.Cover(cs)
		}
	}
	b.t.nodes = append(b.t.nodes, nodeData{kind: kind, span: span, children: children})
	for _, c := range children {
		if !c.IsToken {
			b.t.nodes[c.Node].parent = id
		}
	}
	return id
}

// MakeNodeAt is MakeNode but with an explicit span, for nodes that should
// cover a region broader than their children (e.g. an empty error node
// pinned to a specific offset).
func (b *Builder) MakeNodeAt(kind Kind, span source.Span, children ...Child) NodeID {
	id := b.MakeNode(kind, children...)
	b.t.nodes[id].span = span
	return id
}

// Finish seals the tree with the given root and returns it.
func (b *Builder) Finish(root NodeID) *Tree {
	b.t.root = root
	return b.t
}
