package statics

import "smlcheck/internal/hir"

// ValInfo is what the environment remembers about one value identifier:
// its (possibly polymorphic) type, and, if it names a datatype
// constructor, which datatype it belongs to and whether it carries an
// argument - match.go needs both facts to judge exhaustiveness.
type ValInfo struct {
	Scheme TyScheme

	IsCon    bool
	ConOf    Sym  // the datatype this constructor belongs to
	HasArg   bool // false for a nullary constructor ("nil", "NONE")
	IsExcCon bool // true for exception constructors, which never generalize

	// generalizeFrom is scratch state elabDecVal uses while building a
	// non-recursive binding group: the index, within that group's Binds,
	// of the right-hand side this name's type came from, so the group's
	// final pass can look up whether that particular bind was a
	// syntactic value. Always 0 once a ValInfo is stored in an Env.
	generalizeFrom int
}

// TyInfo is what the environment remembers about one type constructor
// identifier: its symbol and declared arity, so a type expression like
// "'a t" can be elaborated into a TyCon of the right shape.
type TyInfo struct {
	Sym   Sym
	Arity int
}

// DatatypeInfo records a datatype's full constructor set, keyed by its
// Sym, so match.go can tell whether a set of constructor patterns is
// exhaustive without re-walking declarations.
type DatatypeInfo struct {
	Cons []hir.Name
}

// Env is a persistent, parent-linked lexical scope: looking up a name
// walks from the innermost frame outward, exactly as the Definition's
// static environment is defined compositionally over nested declarations.
// Frames are never mutated once a child is taken from them (Bind returns a
// new Env), so an Env captured by a closure's call site stays valid even
// as elaboration continues past it.
type Env struct {
	parent *Env
	vals   map[hir.Name]ValInfo
	tys    map[hir.Name]TyInfo
	strs   map[hir.Name]*Env
}

// NewEnv creates an empty root environment.
func NewEnv() *Env { return &Env{} }

// Child returns a fresh scope nested under e.
func (e *Env) Child() *Env { return &Env{parent: e} }

func (e *Env) BindVal(n hir.Name, info ValInfo) *Env {
	child := e.Child()
	child.vals = map[hir.Name]ValInfo{n: info}
	return child
}

func (e *Env) BindTy(n hir.Name, info TyInfo) *Env {
	child := e.Child()
	child.tys = map[hir.Name]TyInfo{n: info}
	return child
}

func (e *Env) BindStr(n hir.Name, inner *Env) *Env {
	child := e.Child()
	child.strs = map[hir.Name]*Env{n: inner}
	return child
}

// BindValGroup binds every entry of group at once, as one frame - used for
// "and"-joined mutually recursive val bindings, where every name must be
// visible to every other binding's right-hand side.
func (e *Env) BindValGroup(group map[hir.Name]ValInfo) *Env {
	child := e.Child()
	child.vals = group
	return child
}

func (e *Env) LookupVal(n hir.Name) (ValInfo, bool) {
	for s := e; s != nil; s = s.parent {
		if s.vals != nil {
			if v, ok := s.vals[n]; ok {
				return v, true
			}
		}
	}
	return ValInfo{}, false
}

func (e *Env) LookupTy(n hir.Name) (TyInfo, bool) {
	for s := e; s != nil; s = s.parent {
		if s.tys != nil {
			if v, ok := s.tys[n]; ok {
				return v, true
			}
		}
	}
	return TyInfo{}, false
}

func (e *Env) LookupStr(n hir.Name) (*Env, bool) {
	for s := e; s != nil; s = s.parent {
		if s.strs != nil {
			if v, ok := s.strs[n]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// LookupPath resolves a (possibly qualified) path by walking through
// nested structure environments for each qualifier before looking the
// final segment up as a value.
func (e *Env) LookupPath(p hir.Path) (ValInfo, bool) {
	cur := e
	for _, q := range p.Qualifiers {
		next, ok := cur.LookupStr(q)
		if !ok {
			return ValInfo{}, false
		}
		cur = next
	}
	return cur.LookupVal(p.Last)
}

func (e *Env) LookupTyPath(p hir.Path) (TyInfo, bool) {
	cur := e
	for _, q := range p.Qualifiers {
		next, ok := cur.LookupStr(q)
		if !ok {
			return TyInfo{}, false
		}
		cur = next
	}
	return cur.LookupTy(p.Last)
}

// Flatten collects every binding reachable from e (merging outward-to-
// inward so inner frames win) into three plain maps. "open" uses this to
// re-export a structure's accumulated bindings into the opening scope; it
// is a deliberately coarse approximation of the Definition's "open",
// which re-exports only the structure's own signature, not everything
// that was already visible when the structure was elaborated - see
// DESIGN.md.
func (e *Env) Flatten() (vals map[hir.Name]ValInfo, tys map[hir.Name]TyInfo, strs map[hir.Name]*Env) {
	var chain []*Env
	for s := e; s != nil; s = s.parent {
		chain = append(chain, s)
	}
	vals = map[hir.Name]ValInfo{}
	tys = map[hir.Name]TyInfo{}
	strs = map[hir.Name]*Env{}
	for i := len(chain) - 1; i >= 0; i-- {
		s := chain[i]
		for k, v := range s.vals {
			vals[k] = v
		}
		for k, v := range s.tys {
			tys[k] = v
		}
		for k, v := range s.strs {
			strs[k] = v
		}
	}
	return vals, tys, strs
}

// Basis is the project-wide root environment plus the shared Store/Syms
// state every file's elaboration reads and extends; it is what
// Elaborate returns and what a later file's elaboration starts from; see
// driver.go's per-project fold over a file list.
type Basis struct {
	Store *Store
	Syms  *Syms
	Env   *Env

	// Datatypes maps a datatype Sym to its constructor set, used by the
	// match checker; Builtins holds well-known Syms (bool/list/option/...)
	// so elaborate_exp.go doesn't have to re-resolve them by name.
	Datatypes map[Sym]DatatypeInfo
	Builtins  Builtins
}

// Builtins names the prelude's well-known symbols, populated once by
// NewBasis and read throughout elaborate_exp.go/match.go.
type Builtins struct {
	Bool, Int, Word, Real, Char, String, Unit, Exn, List, Ref, Order, Option Sym
}
