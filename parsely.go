// Package parsely is a parser-generator toolkit: build a grammar, compile it
// into an LR(1) or LALR(1) parser, and drive it over a token stream with
// semantic actions attached to each production. It fronts the grammar, lex,
// and lr subpackages with a small facade, the way ictiobus fronts its own
// grammar/lex/parse subpackages.
package parsely

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/lex"
	"github.com/haldane-oss/parsely/lr"
	"github.com/haldane-oss/parsely/symbol"
)

// Parser is a compiled grammar ready to drive a token stream. It wraps an
// lr.Driver; Parse and ParseWithTree delegate directly to it.
type Parser struct {
	BuildID uuid.UUID
	Table   *lr.Table
	driver  *lr.Driver
	trace   []string
}

// DebugTrace returns every trace line recorded since the parser was built,
// populated only when it was built with Config.Debug set.
func (p *Parser) DebugTrace() []string {
	return p.trace
}

// Parse runs the parser over ts and returns the semantic value computed for
// the grammar's start symbol.
func (p *Parser) Parse(ts lex.TokenStream) (any, error) {
	return p.driver.Parse(ts)
}

// ParseWithTree behaves like Parse but also returns the parse tree built
// alongside the semantic value.
func (p *Parser) ParseWithTree(ts lex.TokenStream) (any, *lr.Tree, error) {
	return p.driver.ParseWithTree(ts)
}

// SetAction registers the semantic action for one production, delegating to
// the underlying driver. Call this for every production before parsing;
// productions left unregistered fall back to the identity action.
func (p *Parser) SetAction(head string, body []string, fn lr.SemanticAction) {
	p.driver.SetAction(toSymbol(head), toProduction(body), fn)
}

// RegisterTraceListener installs fn to receive one line per shift, reduce,
// and accept while parsing.
func (p *Parser) RegisterTraceListener(fn func(string)) {
	p.driver.RegisterTraceListener(fn)
}

// Config tunes how a grammar is compiled into a Parser.
type Config struct {
	// Favor decides how an unresolvable shift/reduce tie is broken. The
	// zero Config reports such ties as errors (lr.FavorNone); set this to
	// lr.FavorShift or lr.FavorReduce for the conventional yacc-style
	// default instead.
	Favor lr.Favor

	// Debug, if true, makes the returned Parser record every shift/reduce/
	// accept trace line internally, retrievable with DebugTrace.
	Debug bool

	// MaxIterations bounds the driver's shift/reduce loop; a non-positive
	// value (including the zero Config) uses lr.DefaultMaxIterations.
	MaxIterations int
}

// DefaultConfig returns the zero Config: unresolved shift/reduce ties are
// reported as errors rather than guessed, debug tracing is off, and the
// shift/reduce loop uses lr.DefaultMaxIterations. It exists only so callers
// can write NewLALR1Parser(g, parsely.DefaultConfig()) instead of a literal
// Config{}; the two are equivalent.
func DefaultConfig() Config {
	return Config{}
}

// NewCLR1Parser compiles g into a canonical LR(1) parser.
func NewCLR1Parser(g *grammar.Grammar, cfg Config) (*Parser, error) {
	return build(g, cfg, lr.BuildCLR1)
}

// NewLALR1Parser compiles g into an LALR(1) parser. LALR(1) merges
// canonical LR(1) states sharing an LR(0) core, trading some conflict
// resolution headroom for a substantially smaller table; most
// hand-written grammars that are LR(1) are also LALR(1).
func NewLALR1Parser(g *grammar.Grammar, cfg Config) (*Parser, error) {
	return build(g, cfg, lr.BuildLALR1)
}

func build(g *grammar.Grammar, cfg Config, buildAutomaton func(*grammar.Grammar) (*lr.Automaton, error)) (*Parser, error) {
	automaton, err := buildAutomaton(g)
	if err != nil {
		return nil, fmt.Errorf("building automaton: %w", err)
	}

	table, err := lr.BuildTable(automaton, cfg.Favor)
	if err != nil {
		return nil, fmt.Errorf("building parse table: %w", err)
	}

	p := &Parser{
		BuildID: uuid.New(),
		Table:   table,
		driver:  lr.NewDriver(table),
	}
	if cfg.MaxIterations > 0 {
		p.driver.SetMaxIterations(cfg.MaxIterations)
	}
	if cfg.Debug {
		p.driver.RegisterTraceListener(func(line string) {
			p.trace = append(p.trace, line)
		})
	}
	return p, nil
}

func toSymbol(s string) symbol.Symbol {
	return symbol.Symbol(s)
}

func toProduction(body []string) grammar.Production {
	p := make(grammar.Production, len(body))
	for i, s := range body {
		p[i] = symbol.Symbol(s)
	}
	return p
}
