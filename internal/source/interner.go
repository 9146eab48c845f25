package source

import (
	"slices"
	"sync"
)

// StringID names an interned string (file path, identifier, etc.).
type StringID uint32

// NoStringID is the sentinel for "no string" (maps to "").
const NoStringID StringID = 0

// Interner deduplicates strings behind small dense IDs. Safe for concurrent use.
type Interner struct {
	mu    sync.RWMutex
	byID  []string
	index map[string]StringID
}

// NewInterner creates an Interner with NoStringID already bound to "".
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns s's ID, assigning a fresh one on first sight.
func (in *Interner) Intern(s string) StringID {
	in.mu.RLock()
	if id, ok := in.index[s]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	owned := string([]byte(s)) // detach from caller's buffer
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[owned]; ok {
		return id
	}
	id := StringID(len(in.byID))
	in.byID = append(in.byID, owned)
	in.index[owned] = id
	return id
}

// InternBytes is Intern without an intermediate string allocation at the call site.
func (in *Interner) InternBytes(b []byte) StringID {
	return in.Intern(string(b))
}

// Lookup returns the string for id, or "", false if id is unknown.
func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// MustLookup is Lookup but panics on an unknown ID.
func (in *Interner) MustLookup(id StringID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid StringID")
	}
	return s
}

// Has reports whether id was ever issued by this Interner.
func (in *Interner) Has(id StringID) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return int(id) < len(in.byID)
}

// Len returns the number of distinct strings, including the empty sentinel.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// Snapshot copies the id -> string table.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return slices.Clone(in.byID)
}
