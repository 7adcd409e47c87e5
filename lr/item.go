// Package lr implements canonical LR(1) and LALR(1) automaton construction,
// parse table assembly with precedence-based conflict resolution, and the
// shift/reduce driver that executes semantic actions over a built table.
package lr

import (
	"fmt"
	"strings"

	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/symbol"
)

// LR0Item is a production with a dot marking how much of its body has
// already been recognized on the parser's stack.
type LR0Item struct {
	Head symbol.Symbol
	Body grammar.Production
	Dot  int
}

// AtEnd reports whether the dot has reached the end of the body, i.e. this
// item calls for a reduction.
func (i LR0Item) AtEnd() bool {
	return i.Dot >= len(i.Body)
}

// NextSymbol returns the symbol immediately after the dot, or ok=false if
// the item is at its end.
func (i LR0Item) NextSymbol() (symbol.Symbol, bool) {
	if i.AtEnd() {
		return "", false
	}
	return i.Body[i.Dot], true
}

// Advance returns the item with its dot moved one position to the right.
func (i LR0Item) Advance() LR0Item {
	return LR0Item{Head: i.Head, Body: i.Body, Dot: i.Dot + 1}
}

func (i LR0Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ->", i.Head)
	for pos := 0; pos <= len(i.Body); pos++ {
		if pos == i.Dot {
			b.WriteString(" .")
		}
		if pos < len(i.Body) {
			fmt.Fprintf(&b, " %s", i.Body[pos])
		}
	}
	return b.String()
}

// core is the part of an item that identifies "the same item" across LR(1)
// items with differing lookaheads, and across states being compared for
// LALR merging.
func (i LR0Item) core() string {
	return i.String()
}

// LR1Item is an LR0Item carrying a set of lookahead terminals, rather than
// the one-item-per-lookahead representation some LR implementations use;
// this keeps a state's item count bounded by its LR(0) core size regardless
// of alphabet size.
type LR1Item struct {
	LR0Item
	Lookaheads symbol.Set
}

func (i LR1Item) String() string {
	return fmt.Sprintf("%s, %s", i.LR0Item.String(), i.Lookaheads.String())
}

// itemSet is a deterministic, dot-addressable collection of LR1Items keyed
// by their LR0 core so that closure/goto can merge lookaheads into an
// existing item instead of creating a duplicate.
type itemSet struct {
	order []string
	byKey map[string]*LR1Item
}

func newItemSet() *itemSet {
	return &itemSet{byKey: map[string]*LR1Item{}}
}

// add merges item into the set, unioning lookaheads with any existing item
// sharing the same LR0 core. Returns true if the set changed.
func (s *itemSet) add(item LR1Item) bool {
	key := item.core()
	existing, ok := s.byKey[key]
	if !ok {
		cp := item
		cp.Lookaheads = item.Lookaheads.Copy()
		s.byKey[key] = &cp
		s.order = append(s.order, key)
		return true
	}
	return existing.Lookaheads.AddAll(item.Lookaheads)
}

// items returns the set's members in stable, deterministic order.
func (s *itemSet) items() []LR1Item {
	out := make([]LR1Item, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.byKey[key])
	}
	return out
}

// coreSignature identifies a set of items by their LR0 cores alone,
// ignoring lookaheads; two canonical LR(1) states with the same signature
// are merge candidates under LALR(1).
func coreSignature(items []LR1Item) string {
	cores := make([]string, len(items))
	for i, it := range items {
		cores[i] = it.core()
	}
	// items() is already produced in stable insertion order derived from a
	// deterministic closure/goto traversal, so cores are already stable;
	// sort defensively so two equal sets never disagree due to traversal
	// order alone.
	sortStrings(cores)
	return strings.Join(cores, "\x00")
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// fullSignature identifies a set of LR(1) items by core AND lookaheads,
// distinguishing two item sets that canonical LR(1) construction must keep
// as separate states even though their cores agree; LALR(1) merging keys
// on coreSignature instead, which deliberately discards that distinction.
func fullSignature(items []LR1Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.core() + "|" + it.Lookaheads.String()
	}
	sortStrings(parts)
	return strings.Join(parts, "\x00")
}
