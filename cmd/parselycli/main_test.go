package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_readTokenStream(t *testing.T) {
	assert := assert.New(t)

	toks, err := readTokenStream(strings.NewReader("id:2 + id:3 *:4"))
	assert.NoError(err)
	assert.Len(toks, 4)
	assert.Equal("id", string(toks[0].Class))
	assert.Equal("2", toks[0].Lexeme)
	assert.Equal("+", string(toks[1].Class))
	assert.Equal("+", toks[1].Lexeme)
}

func Test_loadGrammarFile(t *testing.T) {
	assert := assert.New(t)

	path := writeTempGrammar(t, `
start = "E"

[[terminal]]
name = "+"
precedence = 1
assoc = "left"

[[terminal]]
name = "id"

[[rule]]
head = "E"
body = ["E", "+", "E"]

[[rule]]
head = "E"
body = ["id"]
`)

	g, err := loadGrammarFile(path)
	assert.NoError(err)
	assert.True(g.IsTerminal("+"))
	assert.True(g.IsVariable("E"))
	assert.Equal("E", string(g.Start()))
}

func writeTempGrammar(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "grammar-*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}
