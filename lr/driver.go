package lr

import (
	"fmt"

	"github.com/haldane-oss/parsely/errs"
	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/lex"
	"github.com/haldane-oss/parsely/symbol"
	"github.com/haldane-oss/parsely/util"
)

// Payload is the tagged union a semantic action receives one of per symbol
// on a production's right-hand side: a terminal's token, or a variable's
// already-reduced value.
type Payload struct {
	IsTerminal bool
	Token      lex.Token
	Value      any
}

// SemanticAction computes the value a reduction produces from the payloads
// of its production's right-hand side, supplied left to right regardless of
// the stack's LIFO popping order.
type SemanticAction func(payload []Payload) (any, error)

// Tree is an optional parse-tree node built alongside the semantic value by
// Driver.ParseWithTree, useful for debugging a grammar or a set of
// semantic actions independent of what they compute.
type Tree struct {
	Terminal bool
	Symbol   symbol.Symbol
	Token    lex.Token
	Value    any
	Children []*Tree
}

func (t *Tree) String() string {
	var b []byte
	t.write(&b, "")
	return string(b)
}

func (t *Tree) write(b *[]byte, prefix string) {
	if t.Terminal {
		*b = append(*b, []byte(fmt.Sprintf("%s%s %q\n", prefix, t.Symbol, t.Token.Lexeme))...)
		return
	}
	*b = append(*b, []byte(fmt.Sprintf("%s%s\n", prefix, t.Symbol))...)
	for _, c := range t.Children {
		c.write(b, prefix+"  ")
	}
}

// DefaultMaxIterations bounds a Driver's shift/reduce loop when no explicit
// limit is set via SetMaxIterations: a parse that hasn't reached Accept
// within this many steps is treated as non-terminating rather than left to
// run forever on a malformed table.
const DefaultMaxIterations = 5000

// Driver executes a built Table's shift/reduce decisions against a token
// stream, invoking one SemanticAction per reduction. A Driver is immutable
// once constructed and safe to call Parse/ParseWithTree on concurrently:
// each call allocates its own stacks rather than mutating shared state.
type Driver struct {
	Table         *Table
	actions       map[string]SemanticAction
	trace         func(string)
	maxIterations int
}

// NewDriver builds a Driver over table with no semantic actions registered
// and the shift/reduce loop bounded by DefaultMaxIterations; call SetAction
// for every production the grammar defines before calling Parse, or accept
// the default identity action (see SetAction), and call SetMaxIterations to
// override the default bound.
func NewDriver(table *Table) *Driver {
	return &Driver{Table: table, actions: map[string]SemanticAction{}, maxIterations: DefaultMaxIterations}
}

// SetMaxIterations overrides the number of shift/reduce steps Parse and
// ParseWithTree will take before giving up and returning
// *errs.IterationLimitError. n must be positive; a grammar's canonical
// parse of non-trivial input takes roughly one step per input token plus
// one per reduction, and every parse takes at least one reduction and the
// accept, so n=1 runs a single step and then aborts any parse.
func (d *Driver) SetMaxIterations(n int) {
	d.maxIterations = n
}

// RegisterTraceListener installs fn to receive one line of human-readable
// trace output per shift, reduce, and accept, matching the shape of the
// teacher's own parser trace hook.
func (d *Driver) RegisterTraceListener(fn func(string)) {
	d.trace = fn
}

func productionKey(head symbol.Symbol, body grammar.Production) string {
	return string(head) + " -> " + body.String()
}

// SetAction registers fn as the semantic action for the production head ->
// body. If no action is ever registered for a production, reducing it
// produces the identity action: a single-payload production returns that
// payload's value verbatim (a terminal's Literal, falling back to its
// Lexeme if no Literal was set, or a variable's already-reduced Value), and
// a production of any other length returns its payload list unchanged.
func (d *Driver) SetAction(head symbol.Symbol, body grammar.Production, fn SemanticAction) {
	d.actions[productionKey(head, body)] = fn
}

func (d *Driver) actionFor(head symbol.Symbol, body grammar.Production) SemanticAction {
	if fn, ok := d.actions[productionKey(head, body)]; ok {
		return fn
	}
	return func(payload []Payload) (any, error) {
		if len(payload) != 1 {
			return payload, nil
		}
		if payload[0].IsTerminal {
			if payload[0].Token.Literal != nil {
				return payload[0].Token.Literal, nil
			}
			return payload[0].Token.Lexeme, nil
		}
		return payload[0].Value, nil
	}
}

// Parse runs the shift/reduce driver over ts and returns the semantic value
// computed for the grammar's start symbol.
func (d *Driver) Parse(ts lex.TokenStream) (any, error) {
	v, _, err := d.run(ts, false)
	return v, err
}

// ParseWithTree behaves like Parse but additionally returns the parse tree
// built alongside the semantic value, for diagnostic use.
func (d *Driver) ParseWithTree(ts lex.TokenStream) (any, *Tree, error) {
	return d.run(ts, true)
}

func (d *Driver) run(ts lex.TokenStream, buildTree bool) (any, *Tree, error) {
	stateStack := util.NewStack(d.Table.Automaton.Start)
	payloadStack := util.Stack[Payload]{}
	treeStack := util.Stack[*Tree]{}

	for iterations := 0; ; iterations++ {
		if iterations >= d.maxIterations {
			return nil, nil, &errs.IterationLimitError{Phase: "shift/reduce", Limit: d.maxIterations}
		}

		tok, err := ts.Peek()
		if err != nil {
			return nil, nil, err
		}

		state := stateStack.Peek()
		act := d.Table.Action(state, tok.Class)

		switch act.Type {
		case Shift:
			if _, err := ts.Next(); err != nil {
				return nil, nil, err
			}
			d.log("shift %s %q, goto %d", tok.Class, tok.Lexeme, act.NextState)
			payloadStack.Push(Payload{IsTerminal: true, Token: tok})
			stateStack.Push(act.NextState)
			if buildTree {
				treeStack.Push(&Tree{Terminal: true, Symbol: tok.Class, Token: tok})
			}

		case Reduce:
			n := len(act.Body)
			d.log("reduce %s -> %s", act.Head, act.Body)

			payloads := payloadStack.PopN(n)
			stateStack.PopN(n)

			var children []*Tree
			if buildTree {
				children = treeStack.PopN(n)
			}

			value, err := d.actionFor(act.Head, act.Body)(payloads)
			if err != nil {
				return nil, nil, fmt.Errorf("semantic action for %s -> %s: %w", act.Head, act.Body, err)
			}

			topState := stateStack.Peek()
			nextState, ok := d.Table.Goto(topState, act.Head)
			if !ok {
				return nil, nil, fmt.Errorf("internal error: no goto from state %d on %s", topState, act.Head)
			}

			payloadStack.Push(Payload{IsTerminal: false, Value: value})
			stateStack.Push(nextState)
			if buildTree {
				treeStack.Push(&Tree{Symbol: act.Head, Value: value, Children: children})
			}

		case Accept:
			d.log("accept")
			if payloadStack.Empty() {
				return nil, nil, fmt.Errorf("internal error: accept with empty payload stack")
			}
			result := payloadStack.Peek().Value
			var tree *Tree
			if buildTree && !treeStack.Empty() {
				tree = treeStack.Peek()
			}
			return result, tree, nil

		default:
			return nil, nil, &errs.UnexpectedTokenError{
				Got:      tok.Class,
				Lexeme:   tok.Lexeme,
				Pos:      tok.Pos,
				Expected: d.Table.Expected(state),
			}
		}
	}
}

// PopN on Stack already returns its result in push order (bottom to top),
// which for the payload and tree stacks is exactly left-to-right
// production order, so no separate reversal step is needed here: the only
// thing that would require one is an implementation that interleaves
// states and symbols on a single stack, which this driver deliberately
// does not do (see util.Stack and the two-stack layout above).

func (d *Driver) log(format string, args ...any) {
	if d.trace == nil {
		return
	}
	d.trace(fmt.Sprintf(format, args...))
}
