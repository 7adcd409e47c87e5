package symbol

import (
	"sort"
	"strings"
)

// Set is an unordered collection of symbols with deterministic iteration via
// Slice. FIRST sets, lookahead sets, and "expected token" sets all use this
// type rather than a bare map so that two independently-built sets compare
// equal and print identically regardless of insertion order.
type Set map[Symbol]struct{}

// NewSet builds a Set from the given symbols.
func NewSet(syms ...Symbol) Set {
	s := make(Set, len(syms))
	for _, sym := range syms {
		s[sym] = struct{}{}
	}
	return s
}

// Add inserts sym into the set and reports whether the set was modified.
func (s Set) Add(sym Symbol) bool {
	if _, ok := s[sym]; ok {
		return false
	}
	s[sym] = struct{}{}
	return true
}

// AddAll inserts every symbol of other into s and reports whether s was
// modified. This is the primitive that FIRST/FOLLOW and lookahead
// propagation worklists are built on.
func (s Set) AddAll(other Set) bool {
	changed := false
	for sym := range other {
		if s.Add(sym) {
			changed = true
		}
	}
	return changed
}

// Remove deletes sym from the set.
func (s Set) Remove(sym Symbol) {
	delete(s, sym)
}

// Has reports whether sym is a member of the set.
func (s Set) Has(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

// Len is the number of members in the set.
func (s Set) Len() int {
	return len(s)
}

// Copy returns an independent shallow copy of s.
func (s Set) Copy() Set {
	cp := make(Set, len(s))
	for sym := range s {
		cp[sym] = struct{}{}
	}
	return cp
}

// Union returns a new set containing every member of s and other.
func (s Set) Union(other Set) Set {
	u := s.Copy()
	u.AddAll(other)
	return u
}

// Equal reports whether s and other contain exactly the same symbols.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for sym := range s {
		if !other.Has(sym) {
			return false
		}
	}
	return true
}

// Slice returns the set's members in a stable, lexically sorted order.
func (s Set) Slice() []Symbol {
	out := make([]Symbol, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the set as a comma-separated, sorted list for use in error
// messages and table dumps.
func (s Set) String() string {
	syms := s.Slice()
	strs := make([]string, len(syms))
	for i, sym := range syms {
		strs[i] = string(sym)
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
