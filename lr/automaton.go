package lr

import (
	"fmt"
	"strings"

	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/symbol"
)

// Variant names which automaton construction produced a Table, carried
// through for diagnostics and table printing.
type Variant int

const (
	CLR1 Variant = iota
	LALR1
)

func (v Variant) String() string {
	if v == LALR1 {
		return "LALR(1)"
	}
	return "CLR(1)"
}

// Automaton is the viable-prefix automaton built from a grammar: a set of
// States reached from Start by shifting symbols, referenced everywhere by
// integer id rather than by pointer or by a string-rendered item set, so
// that states can be merged (as LALR(1) construction does) without
// rewriting every reference by hand.
type Automaton struct {
	Grammar *grammar.Grammar // the augmented grammar this automaton was built from
	States  []*State
	Start   int
	Variant Variant
}

// String renders one line per state listing its kernel items and
// transitions, for inspecting an automaton's shape without the noise of
// every state's full closure.
func (a *Automaton) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s automaton, %d states, start=%d\n", a.Variant, len(a.States), a.Start)
	for _, s := range a.States {
		fmt.Fprintf(&b, "state %d:\n", s.ID)
		for _, it := range s.Kernel() {
			fmt.Fprintf(&b, "  %s\n", it)
		}
		for _, sym := range outgoingSymbols(s.Items) {
			fmt.Fprintf(&b, "  on %s -> %d\n", sym, s.Transitions[sym])
		}
	}
	return b.String()
}

// BuildCLR1 constructs the canonical LR(1) automaton for g (Algorithm 4.56
// from the classic LR construction literature): g is augmented internally,
// closures and gotos are computed to a fixed point, and every distinct
// item set becomes its own state.
func BuildCLR1(g *grammar.Grammar) (*Automaton, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return build(g, CLR1)
}

// BuildLALR1 constructs the LALR(1) automaton for g by building the
// canonical LR(1) automaton and then merging every pair of states whose
// LR(0) item cores are identical, unioning their lookahead sets. This
// produces the same automaton an LALR-specific kernel/propagation
// construction would, at the cost of building the (larger) canonical
// automaton first; it trades construction-time efficiency for a
// substantially simpler and more obviously correct implementation, which
// is the tradeoff this package makes deliberately.
func BuildLALR1(g *grammar.Grammar) (*Automaton, error) {
	canonical, err := BuildCLR1(g)
	if err != nil {
		return nil, err
	}
	return mergeByCore(canonical), nil
}

func build(g *grammar.Grammar, variant Variant) (*Automaton, error) {
	ag := g.Augmented()

	startItem := LR1Item{
		LR0Item:    LR0Item{Head: symbol.Augmented, Body: grammar.Production{ag.Start()}, Dot: 0},
		Lookaheads: symbol.NewSet(symbol.EndOfInput),
	}
	// ag.Start() is symbol.Augmented itself after Augmented(); recover the
	// original start symbol from its sole production.
	rule, _ := ag.Rule(symbol.Augmented)
	startItem.Body = rule.Productions[0]

	startClosure := closure(ag, []LR1Item{startItem})

	a := &Automaton{Grammar: ag, Variant: variant}
	signatures := map[string]int{}

	addState := func(items []LR1Item) int {
		// canonical LR(1) states are identified by their full item set,
		// lookaheads included: two closures that agree on core but differ
		// on lookaheads are genuinely different states, which is exactly
		// what distinguishes CLR(1) from LALR(1). LALR(1) merging is a
		// separate, later pass (mergeByCore) rather than folded in here.
		sig := fullSignature(items)
		if id, ok := signatures[sig]; ok {
			return id
		}
		id := len(a.States)
		s := &State{ID: id, Items: items, Transitions: map[symbol.Symbol]int{}}
		a.States = append(a.States, s)
		signatures[sig] = id
		return id
	}

	a.Start = addState(startClosure)

	worklist := []int{a.Start}
	queued := map[int]bool{a.Start: true}
	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]

		state := a.States[id]
		for _, sym := range outgoingSymbols(state.Items) {
			target := gotoSet(ag, state.Items, sym)
			if len(target) == 0 {
				continue
			}
			targetID := addState(target)
			state.Transitions[sym] = targetID

			if !queued[targetID] {
				queued[targetID] = true
				worklist = append(worklist, targetID)
			}
		}
	}

	return a, nil
}

// closure computes the closure of a set of LR(1) items under the standard
// expansion rule: for every item A -> α.Bβ, c and every production B -> γ,
// add B -> .γ with lookahead set FIRST(βc) for every c in the item's
// lookahead set.
func closure(g *grammar.Grammar, items []LR1Item) []LR1Item {
	set := newItemSet()
	for _, it := range items {
		set.add(it)
	}

	changed := true
	for changed {
		changed = false
		for _, it := range set.items() {
			sym, ok := it.NextSymbol()
			if !ok || !g.IsVariable(sym) {
				continue
			}
			rest := append(grammar.Production{}, it.Body[it.Dot+1:]...)
			rule, _ := g.Rule(sym)
			for _, body := range rule.Productions {
				la := firstOfSequenceWithLookaheads(g, rest, it.Lookaheads)
				newItem := LR1Item{
					LR0Item:    LR0Item{Head: sym, Body: body, Dot: 0},
					Lookaheads: la,
				}
				if set.add(newItem) {
					changed = true
				}
			}
		}
	}

	return set.items()
}

// firstOfSequenceWithLookaheads computes FIRST(rest) unioned with the
// propagated lookaheads whenever rest can derive epsilon (or is empty),
// which is the per-item lookahead rule the closure operation needs.
func firstOfSequenceWithLookaheads(g *grammar.Grammar, rest grammar.Production, propagated symbol.Set) symbol.Set {
	restFirst := g.FirstSequence([]symbol.Symbol(rest))
	result := symbol.NewSet()
	for s := range restFirst {
		if s != symbol.Epsilon {
			result.Add(s)
		}
	}
	if len(rest) == 0 || restFirst.Has(symbol.Epsilon) {
		result.AddAll(propagated)
	}
	return result
}

// gotoSet computes GOTO(items, sym): the closure of every item's advance
// for items whose next symbol is sym.
func gotoSet(g *grammar.Grammar, items []LR1Item, sym symbol.Symbol) []LR1Item {
	var moved []LR1Item
	for _, it := range items {
		next, ok := it.NextSymbol()
		if ok && next == sym {
			moved = append(moved, LR1Item{LR0Item: it.Advance(), Lookaheads: it.Lookaheads.Copy()})
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closure(g, moved)
}

// outgoingSymbols returns, in deterministic order, every symbol that
// appears immediately after some item's dot.
func outgoingSymbols(items []LR1Item) []symbol.Symbol {
	seen := symbol.NewSet()
	var out []symbol.Symbol
	for _, it := range items {
		sym, ok := it.NextSymbol()
		if !ok {
			continue
		}
		if seen.Add(sym) {
			out = append(out, sym)
		}
	}
	return out
}

// mergeByCore collapses every group of canonical states sharing an LR(0)
// core into a single state, unioning lookaheads and rewriting transitions
// to the merged ids. A single pass suffices: merging never changes any
// state's own core, only the union of lookaheads attached to it, so the
// partition of states into core-groups is already stable before any
// rewriting happens.
func mergeByCore(canonical *Automaton) *Automaton {
	coreToMerged := map[string]int{}
	oldToMerged := make([]int, len(canonical.States))
	var mergedItems [][]LR1Item

	for _, s := range canonical.States {
		sig := coreSignature(s.Items)
		mergedID, ok := coreToMerged[sig]
		if !ok {
			mergedID = len(mergedItems)
			coreToMerged[sig] = mergedID
			mergedItems = append(mergedItems, nil)
		}
		set := newItemSet()
		for _, it := range mergedItems[mergedID] {
			set.add(it)
		}
		for _, it := range s.Items {
			set.add(it)
		}
		mergedItems[mergedID] = set.items()
		oldToMerged[s.ID] = mergedID
	}

	merged := &Automaton{
		Grammar: canonical.Grammar,
		Variant: LALR1,
		Start:   oldToMerged[canonical.Start],
	}
	for id, items := range mergedItems {
		merged.States = append(merged.States, &State{ID: id, Items: items, Transitions: map[symbol.Symbol]int{}})
	}
	for _, s := range canonical.States {
		newID := oldToMerged[s.ID]
		for sym, target := range s.Transitions {
			merged.States[newID].Transitions[sym] = oldToMerged[target]
		}
	}
	return merged
}
