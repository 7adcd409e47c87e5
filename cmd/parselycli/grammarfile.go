package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/symbol"
)

// grammarFile is the on-disk TOML shape a grammar definition is loaded
// from: one [[terminal]] table per declared terminal, one [[rule]] table
// per production, and a top-level start symbol.
type grammarFile struct {
	Start     string          `toml:"start"`
	Terminals []terminalEntry `toml:"terminal"`
	Rules     []ruleEntry     `toml:"rule"`
}

type terminalEntry struct {
	Name       string `toml:"name"`
	Precedence int    `toml:"precedence"`
	Assoc      string `toml:"assoc"`
}

type ruleEntry struct {
	Head string   `toml:"head"`
	Body []string `toml:"body"`
}

func loadGrammarFile(path string) (*grammar.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar file: %w", err)
	}

	var gf grammarFile
	if err := toml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("parsing grammar file: %w", err)
	}

	g := &grammar.Grammar{}
	for _, t := range gf.Terminals {
		g.AddTerminal(symbol.Symbol(t.Name), t.Precedence, parseAssoc(t.Assoc))
	}
	for _, r := range gf.Rules {
		body := make(grammar.Production, len(r.Body))
		for i, s := range r.Body {
			body[i] = symbol.Symbol(s)
		}
		g.AddRule(symbol.Symbol(r.Head), body)
	}
	if gf.Start != "" {
		g.SetStart(symbol.Symbol(gf.Start))
	}

	return g, nil
}

func parseAssoc(s string) symbol.Associativity {
	switch s {
	case "left":
		return symbol.AssocLeft
	case "right":
		return symbol.AssocRight
	default:
		return symbol.AssocNone
	}
}
