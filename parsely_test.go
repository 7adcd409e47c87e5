package parsely

import (
	"strconv"
	"testing"

	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/lex"
	"github.com/haldane-oss/parsely/lr"
	"github.com/haldane-oss/parsely/symbol"
	"github.com/stretchr/testify/assert"
)

func buildArithmeticGrammar() *grammar.Grammar {
	g := &grammar.Grammar{}
	g.AddTerminal("+", 1, symbol.AssocLeft)
	g.AddTerminal("*", 2, symbol.AssocLeft)
	g.AddTerminal("(", 0, symbol.AssocNone)
	g.AddTerminal(")", 0, symbol.AssocNone)
	g.AddTerminal("id", 0, symbol.AssocNone)

	g.AddRule("E", grammar.Production{"E", "+", "E"})
	g.AddRule("E", grammar.Production{"E", "*", "E"})
	g.AddRule("E", grammar.Production{"(", "E", ")"})
	g.AddRule("E", grammar.Production{"id"})
	return g
}

func Test_NewLALR1Parser_endToEnd(t *testing.T) {
	assert := assert.New(t)

	g := buildArithmeticGrammar()
	p, err := NewLALR1Parser(g, DefaultConfig())
	assert.NoError(err)
	assert.NotEqual(p.BuildID.String(), "")

	p.SetAction("E", []string{"E", "+", "E"}, func(payload []lr.Payload) (any, error) {
		return payload[0].Value.(int) + payload[2].Value.(int), nil
	})
	p.SetAction("E", []string{"E", "*", "E"}, func(payload []lr.Payload) (any, error) {
		return payload[0].Value.(int) * payload[2].Value.(int), nil
	})
	p.SetAction("E", []string{"(", "E", ")"}, func(payload []lr.Payload) (any, error) {
		return payload[1].Value, nil
	})
	p.SetAction("E", []string{"id"}, func(payload []lr.Payload) (any, error) {
		return strconv.Atoi(payload[0].Token.Lexeme)
	})

	toks := []lex.Token{
		{Class: "id", Lexeme: "2"},
		{Class: "+", Lexeme: "+"},
		{Class: "id", Lexeme: "3"},
		{Class: "*", Lexeme: "*"},
		{Class: "id", Lexeme: "4"},
	}
	ts := lex.NewTokenStream(toks, lex.Token{Class: symbol.EndOfInput})

	result, err := p.Parse(ts)
	assert.NoError(err)
	assert.Equal(14, result)
}

func Test_NewCLR1Parser_reportsAmbiguousGrammar(t *testing.T) {
	assert := assert.New(t)

	g := &grammar.Grammar{}
	g.AddTerminal("if", 0, symbol.AssocNone)
	g.AddTerminal("then", 0, symbol.AssocNone)
	g.AddTerminal("else", 0, symbol.AssocNone)
	g.AddTerminal("other", 0, symbol.AssocNone)
	g.AddRule("Stmt", grammar.Production{"if", "Stmt", "then", "Stmt"})
	g.AddRule("Stmt", grammar.Production{"if", "Stmt", "then", "Stmt", "else", "Stmt"})
	g.AddRule("Stmt", grammar.Production{"other"})

	_, err := NewCLR1Parser(g, Config{Favor: lr.FavorNone})
	assert.Error(err)
}

func Test_NewLALR1Parser_debugTrace(t *testing.T) {
	assert := assert.New(t)

	g := buildArithmeticGrammar()
	p, err := NewLALR1Parser(g, Config{Favor: lr.FavorShift, Debug: true})
	assert.NoError(err)

	p.SetAction("E", []string{"id"}, func(payload []lr.Payload) (any, error) {
		return strconv.Atoi(payload[0].Token.Lexeme)
	})

	ts := lex.NewTokenStream([]lex.Token{{Class: "id", Lexeme: "7"}}, lex.Token{Class: symbol.EndOfInput})
	_, err = p.Parse(ts)
	assert.NoError(err)
	assert.NotEmpty(p.DebugTrace())
}
