package lr

import "github.com/haldane-oss/parsely/symbol"

// State is one node of a built Automaton: a set of LR(1) items reachable by
// some viable prefix, identified by an integer id (never a string key, and
// never compared by pointer identity, per the automaton's design) and a
// table of transitions to other states by integer id.
type State struct {
	ID          int
	Items       []LR1Item
	Transitions map[symbol.Symbol]int
}

// Kernel returns the items of the state with Dot > 0, or the augmented
// start item; these are the items that distinguish this state from any
// other with the same closure, used when printing or debugging a state
// without the noise of its full closure.
func (s *State) Kernel() []LR1Item {
	var out []LR1Item
	for _, it := range s.Items {
		if it.Dot > 0 || it.Head == symbol.Augmented {
			out = append(out, it)
		}
	}
	return out
}

// Reductions returns every item in the state whose dot has reached the end
// of its body, i.e. every production a Reduce action in this state could
// apply.
func (s *State) Reductions() []LR1Item {
	var out []LR1Item
	for _, it := range s.Items {
		if it.AtEnd() {
			out = append(out, it)
		}
	}
	return out
}
