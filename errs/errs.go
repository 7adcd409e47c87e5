// Package errs defines the structured error types parsely returns. Each one
// is an exported struct satisfying the error interface directly, rather than
// an opaque message behind a constructor function, so that callers can use
// errors.As to recover positions, suggestions, and conflict details instead
// of parsing an error string.
package errs

import (
	"fmt"
	"strings"

	"github.com/haldane-oss/parsely/symbol"
	"github.com/haldane-oss/parsely/util"
)

// GrammarNotLR1Error is returned by table construction when a grammar
// produces a conflict that precedence and associativity cannot resolve.
type GrammarNotLR1Error struct {
	State     int
	Symbol    symbol.Symbol
	Conflicts []string
}

func (e *GrammarNotLR1Error) Error() string {
	return fmt.Sprintf("grammar is not LR(1): state %d has unresolved conflict on %q: %s",
		e.State, e.Symbol, strings.Join(e.Conflicts, " vs "))
}

// UnexpectedTokenError is returned by the driver when the input contains a
// token the current parser state has no action for. Expected is advisory: it
// lists the terminals the table has a non-error action for in that state,
// but is not guaranteed to be the complete set a human would consider valid.
type UnexpectedTokenError struct {
	Got      symbol.Symbol
	Lexeme   string
	Pos      symbol.Position
	Expected []symbol.Symbol
}

func (e *UnexpectedTokenError) Error() string {
	expect := ""
	if len(e.Expected) > 0 {
		expect = fmt.Sprintf("; expected %s", articleList(e.Expected))
	}
	return fmt.Sprintf("%s: unexpected token %s %q%s", e.Pos, e.Got, e.Lexeme, expect)
}

// IterationLimitError is returned when the driver's shift/reduce loop
// exceeds its configured iteration budget (lr.Driver.SetMaxIterations,
// defaulting to lr.DefaultMaxIterations) without reaching Accept, almost
// always the symptom of a table built from a misbehaving grammar rather
// than a genuinely slow-converging parse.
type IterationLimitError struct {
	Phase string
	Limit int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("%s did not converge within %d iterations", e.Phase, e.Limit)
}

// LexerError wraps a lexing failure with source position context.
type LexerError struct {
	Pos     symbol.Position
	Context string
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s: no lexical pattern matches input starting with %q", e.Pos, e.Context)
}

// NewLexerError adapts any error exposing Position()/Context() methods
// (the concrete error the lex package returns) into a *LexerError. It
// returns nil for errors that don't expose that shape.
func NewLexerError(err error) *LexerError {
	type positioned interface {
		Position() symbol.Position
		Context() string
	}
	p, ok := err.(positioned)
	if !ok {
		return nil
	}
	return &LexerError{Pos: p.Position(), Context: p.Context()}
}

// UndefinedSymbolError is a grammar validation finding: a symbol appears on
// a rule's right-hand side but is neither a declared terminal nor the head
// of any rule.
type UndefinedSymbolError struct {
	Symbol symbol.Symbol
	Rule   string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol %q referenced in rule %s", e.Symbol, e.Rule)
}

// UnreachableVariableError is a grammar validation finding: a variable is
// never reachable from the start symbol.
type UnreachableVariableError struct {
	Symbol symbol.Symbol
}

func (e *UnreachableVariableError) Error() string {
	return fmt.Sprintf("variable %q is unreachable from the start symbol", e.Symbol)
}

func articleList(syms []symbol.Symbol) string {
	if len(syms) == 0 {
		return ""
	}
	strs := make([]string, len(syms))
	for i, s := range syms {
		strs[i] = string(s)
	}
	return util.MakeTextList(strs, true)
}
