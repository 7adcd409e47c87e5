// Package grammar models a context-free grammar: an ordered collection of
// production rules over a terminal/variable alphabet, together with the
// FIRST-set and precedence machinery the lr package needs to build parse
// tables. It has no dependency on lex or lr; it is consumed by both.
package grammar

import (
	"fmt"
	"sort"

	"github.com/haldane-oss/parsely/errs"
	"github.com/haldane-oss/parsely/symbol"
)

// Production is the right-hand side of a rule: a sequence of symbols, empty
// for an epsilon production.
type Production []symbol.Symbol

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	s := ""
	for i, sym := range p {
		if i > 0 {
			s += " "
		}
		s += string(sym)
	}
	return s
}

// Rule collects every alternative production for one variable.
type Rule struct {
	Head        symbol.Symbol
	Productions []Production
}

// terminalInfo records the precedence and associativity attached to a
// terminal, used by the parse table builder's conflict resolution (the
// lexer attaches the same information to patterns independently; a
// grammar built without a lexer must set it directly via AddTerminal).
type terminalInfo struct {
	Precedence int
	Assoc      symbol.Associativity
}

// Grammar is the mutable builder and read-only query surface for a
// context-free grammar. The zero value is an empty grammar.
type Grammar struct {
	order     []symbol.Symbol // declaration order of variable heads
	rules     map[symbol.Symbol]*Rule
	terminals map[symbol.Symbol]terminalInfo
	start     symbol.Symbol

	firstCache map[symbol.Symbol]symbol.Set
}

// AddTerminal declares sym as a terminal with the given precedence (higher
// binds tighter) and associativity. Terminals used in a production without
// being declared default to precedence 0, AssocNone.
func (g *Grammar) AddTerminal(sym symbol.Symbol, precedence int, assoc symbol.Associativity) {
	if g.terminals == nil {
		g.terminals = map[symbol.Symbol]terminalInfo{}
	}
	g.terminals[sym] = terminalInfo{Precedence: precedence, Assoc: assoc}
	g.invalidateCache()
}

// AddRule appends one production alternative to the rule headed by
// head, creating the rule if this is its first alternative. The
// first rule ever added (by AddRule order) becomes the grammar's start
// symbol unless SetStart is called explicitly.
func (g *Grammar) AddRule(head symbol.Symbol, body Production) {
	if g.rules == nil {
		g.rules = map[symbol.Symbol]*Rule{}
	}
	r, ok := g.rules[head]
	if !ok {
		r = &Rule{Head: head}
		g.rules[head] = r
		g.order = append(g.order, head)
		if g.start == "" {
			g.start = head
		}
	}
	r.Productions = append(r.Productions, body)
	g.invalidateCache()
}

// SetStart overrides the grammar's start symbol.
func (g *Grammar) SetStart(sym symbol.Symbol) {
	g.start = sym
}

// Start returns the grammar's start symbol.
func (g *Grammar) Start() symbol.Symbol {
	return g.start
}

// IsTerminal reports whether sym was declared via AddTerminal.
func (g *Grammar) IsTerminal(sym symbol.Symbol) bool {
	_, ok := g.terminals[sym]
	return ok
}

// IsVariable reports whether sym is the head of at least one rule.
func (g *Grammar) IsVariable(sym symbol.Symbol) bool {
	_, ok := g.rules[sym]
	return ok
}

// Rule returns the rule headed by sym, or ok=false if sym is not a variable.
func (g *Grammar) Rule(sym symbol.Symbol) (Rule, bool) {
	r, ok := g.rules[sym]
	if !ok {
		return Rule{}, false
	}
	return *r, true
}

// Rules returns every rule in declaration order.
func (g *Grammar) Rules() []Rule {
	out := make([]Rule, 0, len(g.order))
	for _, head := range g.order {
		out = append(out, *g.rules[head])
	}
	return out
}

// Terminals returns every declared terminal in lexical order, for
// deterministic table construction and printing.
func (g *Grammar) Terminals() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(g.terminals))
	for t := range g.terminals {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Precedence returns the precedence and associativity declared for a
// terminal, defaulting to (0, AssocNone) if it was never declared.
func (g *Grammar) Precedence(sym symbol.Symbol) (int, symbol.Associativity) {
	info := g.terminals[sym]
	return info.Precedence, info.Assoc
}

// RulePrecedence is the precedence of a production: the highest precedence
// of any terminal appearing in its body, or 0 if it contains none. This is
// the rule used by conflict resolution (§4.7): a production that needs a
// different precedence must declare a synthetic terminal to carry it.
func (g *Grammar) RulePrecedence(body Production) int {
	max := 0
	for _, sym := range body {
		if !g.IsTerminal(sym) {
			continue
		}
		if p, _ := g.Precedence(sym); p > max {
			max = p
		}
	}
	return max
}

func (g *Grammar) invalidateCache() {
	g.firstCache = nil
}

// Augmented returns a copy of g with a synthetic rule symbol.Augmented ->
// g.Start() prepended, and that rule's head set as the new start symbol.
// This is the standard first step of canonical and LALR automaton
// construction; lr.BuildCLR1/BuildLALR1 call it so callers never need to.
func (g *Grammar) Augmented() *Grammar {
	ag := &Grammar{
		rules:     map[symbol.Symbol]*Rule{},
		terminals: g.terminals,
		start:     symbol.Augmented,
	}
	ag.order = append(ag.order, symbol.Augmented)
	ag.rules[symbol.Augmented] = &Rule{Head: symbol.Augmented, Productions: []Production{{g.start}}}
	for _, head := range g.order {
		r := *g.rules[head]
		cp := &Rule{Head: r.Head, Productions: append([]Production(nil), r.Productions...)}
		ag.rules[head] = cp
		ag.order = append(ag.order, head)
	}
	return ag
}

// First computes FIRST(sym): the set of terminals (and, if sym can derive
// epsilon, symbol.Epsilon) that can begin a string derived from sym. Results
// are memoized per grammar; any mutation invalidates the cache.
func (g *Grammar) First(sym symbol.Symbol) symbol.Set {
	if g.firstCache == nil {
		g.firstCache = map[symbol.Symbol]symbol.Set{}
		g.computeAllFirsts()
	}
	if s, ok := g.firstCache[sym]; ok {
		return s
	}
	return symbol.NewSet()
}

// FirstSequence computes FIRST(X1 X2 ... Xn): the standard concatenated
// FIRST set, including symbol.Epsilon only if every Xi can derive epsilon.
func (g *Grammar) FirstSequence(seq []symbol.Symbol) symbol.Set {
	result := symbol.NewSet()
	epsilonSoFar := true
	for _, sym := range seq {
		if !epsilonSoFar {
			break
		}
		f := g.First(sym)
		for s := range f {
			if s != symbol.Epsilon {
				result.Add(s)
			}
		}
		if !f.Has(symbol.Epsilon) {
			epsilonSoFar = false
		}
	}
	if epsilonSoFar {
		result.Add(symbol.Epsilon)
	}
	return result
}

// computeAllFirsts runs the standard worklist fixed-point over every
// terminal and variable in the grammar once, then populates firstCache.
func (g *Grammar) computeAllFirsts() {
	for t := range g.terminals {
		g.firstCache[t] = symbol.NewSet(t)
	}
	for _, head := range g.order {
		g.firstCache[head] = symbol.NewSet()
	}

	changed := true
	for changed {
		changed = false
		for _, head := range g.order {
			rule := g.rules[head]
			set := g.firstCache[head]
			for _, body := range rule.Productions {
				if len(body) == 0 {
					if set.Add(symbol.Epsilon) {
						changed = true
					}
					continue
				}
				epsilonSoFar := true
				for _, sym := range body {
					if !epsilonSoFar {
						break
					}
					symFirst, ok := g.firstCache[sym]
					if !ok {
						// undeclared symbol; treated as deriving nothing,
						// surfaced separately by Validate.
						epsilonSoFar = false
						continue
					}
					for s := range symFirst {
						if s != symbol.Epsilon {
							if set.Add(s) {
								changed = true
							}
						}
					}
					if !symFirst.Has(symbol.Epsilon) {
						epsilonSoFar = false
					}
				}
				if epsilonSoFar {
					if set.Add(symbol.Epsilon) {
						changed = true
					}
				}
			}
		}
	}
}

// Validate checks the grammar for structural problems the automaton
// builder cannot recover from (no rules, no declared terminals) and returns
// every errs.UndefinedSymbolError / errs.UnreachableVariableError finding
// it can detect, joined into one error. It returns nil if the grammar is
// well formed.
func (g *Grammar) Validate() error {
	var problems []error

	if len(g.order) == 0 {
		return fmt.Errorf("grammar has no rules")
	}
	if len(g.terminals) == 0 {
		return fmt.Errorf("grammar declares no terminals")
	}

	for _, head := range g.order {
		rule := g.rules[head]
		for _, body := range rule.Productions {
			for _, sym := range body {
				if sym == symbol.Epsilon {
					continue
				}
				if !g.IsTerminal(sym) && !g.IsVariable(sym) {
					problems = append(problems, &errs.UndefinedSymbolError{
						Symbol: sym,
						Rule:   fmt.Sprintf("%s -> %s", head, body),
					})
				}
			}
		}
	}

	reachable := g.reachableVariables()
	for _, head := range g.order {
		if !reachable.Has(head) {
			problems = append(problems, &errs.UnreachableVariableError{Symbol: head})
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return joinErrors(problems)
}

func (g *Grammar) reachableVariables() symbol.Set {
	reached := symbol.NewSet()
	if g.start == "" {
		return reached
	}
	worklist := []symbol.Symbol{g.start}
	reached.Add(g.start)
	for len(worklist) > 0 {
		head := worklist[0]
		worklist = worklist[1:]
		rule, ok := g.rules[head]
		if !ok {
			continue
		}
		for _, body := range rule.Productions {
			for _, sym := range body {
				if g.IsVariable(sym) && reached.Add(sym) {
					worklist = append(worklist, sym)
				}
			}
		}
	}
	return reached
}

func joinErrors(errors []error) error {
	msg := ""
	for i, e := range errors {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return fmt.Errorf("%s", msg)
}
