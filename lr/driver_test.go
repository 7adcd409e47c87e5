package lr

import (
	"errors"
	"strconv"
	"testing"

	"github.com/haldane-oss/parsely/errs"
	"github.com/haldane-oss/parsely/grammar"
	"github.com/haldane-oss/parsely/lex"
	"github.com/haldane-oss/parsely/symbol"
	"github.com/stretchr/testify/assert"
)

type tok struct {
	class  symbol.Symbol
	lexeme string
}

// tokenStream builds a lex.TokenStream directly from a list of (class,
// lexeme) pairs, bypassing the lex package entirely; the driver only
// depends on lex.TokenStream/lex.Token, not on how they were produced.
func tokenStream(t *testing.T, toks []tok) lex.TokenStream {
	t.Helper()
	out := make([]lex.Token, len(toks))
	for i, tk := range toks {
		out[i] = lex.Token{Class: tk.class, Lexeme: tk.lexeme}
	}
	return lex.NewTokenStream(out, lex.Token{Class: symbol.EndOfInput})
}

func registerArithmeticActions(d *Driver) {
	d.SetAction("E", grammar.Production{"E", "+", "E"}, func(p []Payload) (any, error) {
		return p[0].Value.(int) + p[2].Value.(int), nil
	})
	d.SetAction("E", grammar.Production{"E", "*", "E"}, func(p []Payload) (any, error) {
		return p[0].Value.(int) * p[2].Value.(int), nil
	})
	d.SetAction("E", grammar.Production{"(", "E", ")"}, func(p []Payload) (any, error) {
		return p[1].Value, nil
	})
	d.SetAction("E", grammar.Production{"id"}, func(p []Payload) (any, error) {
		n, err := strconv.Atoi(p[0].Token.Lexeme)
		if err != nil {
			return nil, err
		}
		return n, nil
	})
}

// evalArithmetic tokenizes a tiny arithmetic expression directly (splitting
// on spaces, every non-operator token treated as an "id" numeric literal)
// and drives d over it, returning the computed int result.
func evalArithmetic(d *Driver, expr string) (int, error) {
	var toks []tok
	i := 0
	for i < len(expr) {
		switch c := expr[i]; {
		case c == ' ':
			i++
		case c == '+' || c == '*' || c == '(' || c == ')':
			toks = append(toks, tok{symbol.Symbol(string(c)), string(c)})
			i++
		default:
			start := i
			for i < len(expr) && expr[i] >= '0' && expr[i] <= '9' {
				i++
			}
			toks = append(toks, tok{"id", expr[start:i]})
		}
	}

	out := make([]lex.Token, len(toks))
	for j, tk := range toks {
		out[j] = lex.Token{Class: tk.class, Lexeme: tk.lexeme}
	}
	ts := lex.NewTokenStream(out, lex.Token{Class: symbol.EndOfInput})

	result, err := d.Parse(ts)
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func Test_Driver_arithmeticWithTree(t *testing.T) {
	assert := assert.New(t)

	g := arithmeticGrammar()
	a, err := BuildCLR1(g)
	assert.NoError(err)
	table, err := BuildTable(a, FavorShift)
	assert.NoError(err)

	driver := NewDriver(table)
	registerArithmeticActions(driver)

	ts := tokenStream(t, []tok{{"id", "2"}, {"+", "+"}, {"id", "3"}})
	value, tree, err := driver.ParseWithTree(ts)
	assert.NoError(err)
	assert.Equal(5, value)
	assert.NotNil(tree)
	assert.Equal(symbol.Symbol("E"), tree.Symbol)
	assert.Len(tree.Children, 3)
}

func Test_Driver_unexpectedToken(t *testing.T) {
	assert := assert.New(t)

	g := arithmeticGrammar()
	a, err := BuildCLR1(g)
	assert.NoError(err)
	table, err := BuildTable(a, FavorShift)
	assert.NoError(err)

	driver := NewDriver(table)
	registerArithmeticActions(driver)

	ts := tokenStream(t, []tok{{"id", "2"}, {"id", "3"}})
	_, err = driver.Parse(ts)
	assert.Error(err)
}

func Test_Driver_maxIterationsAborted(t *testing.T) {
	assert := assert.New(t)

	g := arithmeticGrammar()
	a, err := BuildCLR1(g)
	assert.NoError(err)
	table, err := BuildTable(a, FavorShift)
	assert.NoError(err)

	driver := NewDriver(table)
	registerArithmeticActions(driver)
	driver.SetMaxIterations(1)

	ts := tokenStream(t, []tok{{"id", "2"}, {"+", "+"}, {"id", "3"}})
	_, err = driver.Parse(ts)
	assert.Error(err)

	var limitErr *errs.IterationLimitError
	assert.True(errors.As(err, &limitErr))
	assert.Equal(1, limitErr.Limit)
}

func Test_Driver_traceListener(t *testing.T) {
	assert := assert.New(t)

	g := arithmeticGrammar()
	a, err := BuildCLR1(g)
	assert.NoError(err)
	table, err := BuildTable(a, FavorShift)
	assert.NoError(err)

	driver := NewDriver(table)
	registerArithmeticActions(driver)

	var lines []string
	driver.RegisterTraceListener(func(s string) { lines = append(lines, s) })

	ts := tokenStream(t, []tok{{"id", "2"}})
	_, err = driver.Parse(ts)
	assert.NoError(err)
	assert.NotEmpty(lines)
}
