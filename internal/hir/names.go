package hir

import "strings"

// Name is an identifier as it appears (or is synthesized) in the HIR: a
// value, type, structure, signature, or functor identifier, all of which
// share the same lexical shape in Standard ML.
type Name string

// Path is a qualified identifier: zero or more structure qualifiers
// followed by a distinguished last segment (the thing actually being
// named - a value, a type constructor, a structure). Qualifiers alone
// never resolve to anything; only Last does, relative to the structures
// named by Qualifiers.
type Path struct {
	Qualifiers []Name
	Last       Name
}

// PathOf builds an unqualified Path from a single Name.
func PathOf(n Name) Path { return Path{Last: n} }

// String renders the path using "." the way SML source does, for
// diagnostics.
func (p Path) String() string {
	if len(p.Qualifiers) == 0 {
		return string(p.Last)
	}
	var b strings.Builder
	for _, q := range p.Qualifiers {
		b.WriteString(string(q))
		b.WriteByte('.')
	}
	b.WriteString(string(p.Last))
	return b.String()
}

// Label names one field of a record or tuple: either a genuine
// identifier-shaped label, or a positive integer position (tuples are
// records with labels 1..n).
type Label struct {
	Numeric bool
	Name    Name
	Num     uint32
}

// NumericLabel builds the label for tuple position n (1-based).
func NumericLabel(n uint32) Label { return Label{Numeric: true, Num: n} }

// NamedLabel builds an identifier-shaped label.
func NamedLabel(n Name) Label { return Label{Name: n} }

func (l Label) String() string {
	if l.Numeric {
		return uintToString(l.Num)
	}
	return string(l.Name)
}

func uintToString(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// freshCounter generates gensym suffixes for names synthesized during
// lowering (selector functions, the `while` loop-function variable, case
// scrutinee bindings). Distinct from any identifier a user could write,
// since SML identifiers cannot contain "%".
type freshCounter struct{ n int }

func (f *freshCounter) next(base string) Name {
	f.n++
	return Name(base + "%" + uintToString(uint32(f.n)))
}
