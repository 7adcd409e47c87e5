package lr

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/haldane-oss/parsely/errs"
	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/symbol"
)

// ActionType distinguishes the four things a table cell can tell the
// driver to do.
type ActionType int

const (
	Error ActionType = iota
	Shift
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one parse table cell: what the driver should do when it sees a
// particular terminal in a particular state.
type Action struct {
	Type ActionType

	// NextState is used when Type is Shift: the state to push.
	NextState int

	// Head and Body are used when Type is Reduce: the production to reduce
	// by.
	Head symbol.Symbol
	Body grammar.Production
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return fmt.Sprintf("shift %d", a.NextState)
	case Reduce:
		return fmt.Sprintf("reduce %s -> %s", a.Head, a.Body)
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Favor breaks a shift/reduce conflict between two actions of equal
// precedence, since precedence and associativity alone cannot always
// decide one.
type Favor int

const (
	// FavorNone reports a shift/reduce tie that precedence and
	// associativity cannot break as an *errs.GrammarNotLR1Error instead of
	// guessing. This is the zero value deliberately: a caller who never
	// sets Favor gets strict conflict reporting rather than a silently
	// resolved ambiguity.
	FavorNone Favor = iota
	FavorShift
	FavorReduce
)

// Table is a built parse table: one Action per (state, terminal) cell and
// one goto state per (state, variable) cell.
type Table struct {
	Automaton *Automaton
	actions   map[int]map[symbol.Symbol]Action
	gotos     map[int]map[symbol.Symbol]int
	favor     Favor
}

// BuildTable assembles a Table from an already-built Automaton, resolving
// shift/reduce and reduce/reduce conflicts using each grammar rule's
// precedence and associativity (§4.7): the higher-precedence action wins;
// on a tie between a shift and a reduce, the shifted terminal's
// associativity decides (left associates by reducing, right by shifting);
// on a tie between two reduces, the earlier-declared rule wins. A
// conflict neither can resolve is returned as an
// *errs.GrammarNotLR1Error.
func BuildTable(a *Automaton, favor Favor) (*Table, error) {
	t := &Table{
		Automaton: a,
		actions:   map[int]map[symbol.Symbol]Action{},
		gotos:     map[int]map[symbol.Symbol]int{},
		favor:     favor,
	}

	g := a.Grammar

	for _, state := range a.States {
		cellActions := map[symbol.Symbol]Action{}
		cellGotos := map[symbol.Symbol]int{}

		for sym, target := range state.Transitions {
			if g.IsTerminal(sym) {
				cellActions[sym] = Action{Type: Shift, NextState: target}
			} else {
				cellGotos[sym] = target
			}
		}

		for _, item := range state.Reductions() {
			if item.Head == symbol.Augmented {
				for la := range item.Lookaheads {
					if err := t.setAction(cellActions, state.ID, la, Action{Type: Accept}); err != nil {
						return nil, err
					}
				}
				continue
			}
			for la := range item.Lookaheads {
				reduceAction := Action{Type: Reduce, Head: item.Head, Body: item.Body}
				if err := t.setAction(cellActions, state.ID, la, reduceAction); err != nil {
					return nil, err
				}
			}
		}

		t.actions[state.ID] = cellActions
		t.gotos[state.ID] = cellGotos
	}

	return t, nil
}

// setAction installs action into cell[la], resolving a conflict with
// whatever is already there via precedence/associativity, and falling back
// to a structured error if neither settles it.
func (t *Table) setAction(cell map[symbol.Symbol]Action, state int, la symbol.Symbol, action Action) error {
	existing, ok := cell[la]
	if !ok {
		cell[la] = action
		return nil
	}
	if existing.Type == action.Type && actionsEqual(existing, action) {
		return nil
	}

	resolved, ok := t.resolve(existing, action, la)
	if !ok {
		return &errs.GrammarNotLR1Error{
			State:  state,
			Symbol: la,
			Conflicts: []string{
				existing.String(),
				action.String(),
			},
		}
	}
	cell[la] = resolved
	return nil
}

func actionsEqual(a, b Action) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Shift:
		return a.NextState == b.NextState
	case Reduce:
		return a.Head == b.Head && productionsEqual(a.Body, b.Body)
	default:
		return true
	}
}

func productionsEqual(a, b grammar.Production) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// resolve applies precedence and associativity to decide between two
// conflicting actions on lookahead la. It never resolves a conflict
// between two Accept actions, or between an Accept and anything else;
// those always indicate a genuinely ambiguous grammar.
func (t *Table) resolve(a, b Action, la symbol.Symbol) (Action, bool) {
	g := t.Automaton.Grammar

	if a.Type == Accept || b.Type == Accept {
		return Action{}, false
	}

	if a.Type == Shift && b.Type == Reduce {
		return t.resolveShiftReduce(a, b, la)
	}
	if a.Type == Reduce && b.Type == Shift {
		return t.resolveShiftReduce(b, a, la)
	}

	// reduce/reduce: prefer the production with higher rule precedence;
	// if still tied, prefer the one declared first in the grammar (lower
	// index among g.Rules()'s flattened productions).
	if a.Type == Reduce && b.Type == Reduce {
		pa, pb := g.RulePrecedence(a.Body), g.RulePrecedence(b.Body)
		if pa != pb {
			if pa > pb {
				return a, true
			}
			return b, true
		}
		if firstDeclared(g, a.Head, a.Body, b.Head, b.Body) {
			return a, true
		}
		return b, true
	}

	return Action{}, false
}

func (t *Table) resolveShiftReduce(shift, reduce Action, la symbol.Symbol) (Action, bool) {
	g := t.Automaton.Grammar

	shiftPrec, shiftAssoc := g.Precedence(la)
	reducePrec := g.RulePrecedence(reduce.Body)

	switch {
	case shiftPrec > reducePrec:
		return shift, true
	case reducePrec > shiftPrec:
		return reduce, true
	default:
		switch shiftAssoc {
		case symbol.AssocLeft:
			return reduce, true
		case symbol.AssocRight:
			return shift, true
		default:
			if t.favor == FavorShift {
				return shift, true
			}
			if t.favor == FavorReduce {
				return reduce, true
			}
			return Action{}, false
		}
	}
}

// firstDeclared reports whether (headA, bodyA) was declared before
// (headB, bodyB) in g's rule order.
func firstDeclared(g *grammar.Grammar, headA symbol.Symbol, bodyA grammar.Production, headB symbol.Symbol, bodyB grammar.Production) bool {
	for _, rule := range g.Rules() {
		for _, body := range rule.Productions {
			matchesA := rule.Head == headA && productionsEqual(body, bodyA)
			matchesB := rule.Head == headB && productionsEqual(body, bodyB)
			if matchesA {
				return true
			}
			if matchesB {
				return false
			}
		}
	}
	return true
}

// Action returns the action for (state, terminal), or a zero-value
// Action{Type: Error} if the cell has none.
func (t *Table) Action(state int, terminal symbol.Symbol) Action {
	if cell, ok := t.actions[state]; ok {
		if act, ok := cell[terminal]; ok {
			return act
		}
	}
	return Action{Type: Error}
}

// Goto returns the state to transition to on (state, variable), and
// ok=false if there is none.
func (t *Table) Goto(state int, variable symbol.Symbol) (int, bool) {
	if cell, ok := t.gotos[state]; ok {
		if s, ok := cell[variable]; ok {
			return s, true
		}
	}
	return 0, false
}

// Expected returns every terminal with a non-Error action in state, sorted,
// for use in diagnostic messages.
func (t *Table) Expected(state int) []symbol.Symbol {
	cell := t.actions[state]
	syms := make([]symbol.Symbol, 0, len(cell))
	for sym, act := range cell {
		if act.Type != Error {
			syms = append(syms, sym)
		}
	}
	set := symbol.NewSet(syms...)
	return set.Slice()
}

// String renders the table as a bordered grid using rosed, matching the
// layout the package's own table-dump tooling has always used: one row per
// state, one column per terminal followed by one column per variable.
func (t *Table) String() string {
	g := t.Automaton.Grammar
	terms := g.Terminals()
	terms = append(terms, symbol.EndOfInput)

	var variables []symbol.Symbol
	for _, r := range g.Rules() {
		if r.Head == symbol.Augmented {
			continue
		}
		variables = append(variables, r.Head)
	}

	var data [][]string
	headers := []string{"state", "|"}
	for _, term := range terms {
		headers = append(headers, "A:"+string(term))
	}
	headers = append(headers, "|")
	for _, v := range variables {
		headers = append(headers, "G:"+string(v))
	}
	data = append(data, headers)

	for _, state := range t.Automaton.States {
		row := []string{fmt.Sprintf("%d", state.ID), "|"}
		for _, term := range terms {
			act := t.Action(state.ID, term)
			cell := ""
			switch act.Type {
			case Accept:
				cell = "acc"
			case Reduce:
				cell = fmt.Sprintf("r:%s -> %s", act.Head, act.Body)
			case Shift:
				cell = fmt.Sprintf("s%d", act.NextState)
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, v := range variables {
			cell := ""
			if target, ok := t.Goto(state.ID, v); ok {
				cell = fmt.Sprintf("%d", target)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
