package grammar

import (
	"testing"

	"github.com/haldane-oss/parsely/symbol"
	"github.com/stretchr/testify/assert"
)

func arithmeticGrammar() *Grammar {
	g := &Grammar{}
	g.AddTerminal("+", 1, symbol.AssocLeft)
	g.AddTerminal("*", 2, symbol.AssocLeft)
	g.AddTerminal("(", 0, symbol.AssocNone)
	g.AddTerminal(")", 0, symbol.AssocNone)
	g.AddTerminal("id", 0, symbol.AssocNone)

	g.AddRule("E", Production{"E", "+", "E"})
	g.AddRule("E", Production{"E", "*", "E"})
	g.AddRule("E", Production{"(", "E", ")"})
	g.AddRule("E", Production{"id"})
	return g
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		build     func() *Grammar
		expectErr bool
	}{
		{
			name:      "empty grammar",
			build:     func() *Grammar { return &Grammar{} },
			expectErr: true,
		},
		{
			name: "no terminals declared",
			build: func() *Grammar {
				g := &Grammar{}
				g.AddRule("S", Production{"S"})
				return g
			},
			expectErr: true,
		},
		{
			name: "well-formed single-rule grammar",
			build: func() *Grammar {
				g := &Grammar{}
				g.AddTerminal("int", 0, symbol.AssocNone)
				g.AddRule("S", Production{"int"})
				return g
			},
			expectErr: false,
		},
		{
			name: "undefined symbol",
			build: func() *Grammar {
				g := &Grammar{}
				g.AddTerminal("int", 0, symbol.AssocNone)
				g.AddRule("S", Production{"int", "X"})
				return g
			},
			expectErr: true,
		},
		{
			name: "unreachable variable",
			build: func() *Grammar {
				g := &Grammar{}
				g.AddTerminal("int", 0, symbol.AssocNone)
				g.AddRule("S", Production{"int"})
				g.AddRule("Unused", Production{"int"})
				return g
			},
			expectErr: true,
		},
		{
			name:      "arithmetic grammar",
			build:     arithmeticGrammar,
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			err := tc.build().Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_First(t *testing.T) {
	assert := assert.New(t)
	g := arithmeticGrammar()

	first := g.First("E")
	assert.True(first.Has("("))
	assert.True(first.Has("id"))
	assert.False(first.Has(symbol.Epsilon))
	assert.Equal(2, first.Len())
}

func Test_Grammar_First_withEpsilon(t *testing.T) {
	assert := assert.New(t)

	g := &Grammar{}
	g.AddTerminal("a", 0, symbol.AssocNone)
	g.AddRule("S", Production{"A", "a"})
	g.AddRule("A", Production{})
	g.AddRule("A", Production{"a"})

	first := g.First("A")
	assert.True(first.Has("a"))
	assert.True(first.Has(symbol.Epsilon))

	seq := g.FirstSequence([]symbol.Symbol{"A", "a"})
	assert.True(seq.Has("a"))
	assert.False(seq.Has(symbol.Epsilon))
}

func Test_Grammar_RulePrecedence(t *testing.T) {
	assert := assert.New(t)
	g := arithmeticGrammar()

	assert.Equal(1, g.RulePrecedence(Production{"E", "+", "E"}))
	assert.Equal(2, g.RulePrecedence(Production{"E", "*", "E"}))
	assert.Equal(0, g.RulePrecedence(Production{"id"}))
}

func Test_Grammar_Augmented(t *testing.T) {
	assert := assert.New(t)
	g := arithmeticGrammar()

	ag := g.Augmented()
	assert.Equal(symbol.Augmented, ag.Start())

	rule, ok := ag.Rule(symbol.Augmented)
	assert.True(ok)
	assert.Len(rule.Productions, 1)
	assert.Equal(Production{"E"}, rule.Productions[0])

	// original grammar is untouched
	assert.Equal(symbol.Symbol("E"), g.Start())
}

func Test_ExpandGroups(t *testing.T) {
	assert := assert.New(t)

	rules := []Rule{
		{Head: "Stmt", Productions: []Production{{":keyword:", "id"}}},
	}
	groups := map[string][]symbol.Symbol{
		"keyword": {"if", "while"},
	}

	expanded := ExpandGroups(rules, groups)
	assert.Len(expanded, 1)
	assert.Len(expanded[0].Productions, 2)
	assert.Contains(expanded[0].Productions, Production{"if", "id"})
	assert.Contains(expanded[0].Productions, Production{"while", "id"})
}
