package lr

import (
	"testing"

	"github.com/haldane-oss/parsely/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_BuildTable_arithmeticPrecedence(t *testing.T) {
	assert := assert.New(t)

	g := arithmeticGrammar()
	a, err := BuildCLR1(g)
	assert.NoError(err)

	table, err := BuildTable(a, FavorShift)
	assert.NoError(err)
	assert.NotNil(table)

	driver := NewDriver(table)
	registerArithmeticActions(driver)

	result, err := evalArithmetic(driver, "2 + 3 * 4")
	assert.NoError(err)
	assert.Equal(14, result)

	result, err = evalArithmetic(driver, "(2 + 3) * 4")
	assert.NoError(err)
	assert.Equal(20, result)
}

func Test_BuildTable_reduceReduceConflict(t *testing.T) {
	assert := assert.New(t)

	g := &grammar.Grammar{}
	g.AddTerminal("a", 0, 0)
	g.AddRule("S", grammar.Production{"A"})
	g.AddRule("S", grammar.Production{"B"})
	g.AddRule("A", grammar.Production{"a"})
	g.AddRule("B", grammar.Production{"a"})

	a, err := BuildCLR1(g)
	assert.NoError(err)

	// A -> a is declared before B -> a, so it wins deterministically; no
	// conflict is reported because reduce/reduce ties always resolve by
	// declaration order rather than requiring Favor.
	table, err := BuildTable(a, FavorNone)
	assert.NoError(err)
	assert.NotNil(table)
}

func Test_BuildTable_identityActionForSingleSymbolProduction(t *testing.T) {
	assert := assert.New(t)

	g := &grammar.Grammar{}
	g.AddTerminal("id", 0, 0)
	g.AddRule("S", grammar.Production{"Expr"})
	g.AddRule("Expr", grammar.Production{"id"})

	a, err := BuildCLR1(g)
	assert.NoError(err)
	table, err := BuildTable(a, FavorNone)
	assert.NoError(err)

	driver := NewDriver(table)
	// no actions registered at all: every production falls back to the
	// identity action.
	ts := tokenStream(t, []tok{{"id", "x"}})

	result, err := driver.Parse(ts)
	assert.NoError(err)
	assert.Equal("x", result)
}
