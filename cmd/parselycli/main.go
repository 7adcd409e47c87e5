/*
Parselycli builds a parse table from a grammar definition file and either
prints it or drives it over a line of input read from stdin, for testing a
grammar before wiring it into a real program.

Usage:

	parselycli [flags] GRAMMAR_FILE

The grammar file is TOML; see the doc comment on the grammarFile type for
its shape.

The flags are:

	-l, --lalr
		Build an LALR(1) table instead of the default canonical LR(1).

	-f, --favor SHIFT|REDUCE
		Break an otherwise-unresolvable shift/reduce conflict by always
		shifting or always reducing, the conventional yacc-style default. If
		not given, such a conflict is reported as an error instead.

	-p, --parse
		Instead of printing the table, read a whitespace-separated token
		stream from stdin (CLASS:LEXEME pairs) and drive it through the
		built table, printing the resulting parse tree.

	-k, --kernels
		Alongside the table, print each state's kernel items and
		transitions, for inspecting the automaton a grammar produces.

	-v, --version
		Print the build id of the table that would be constructed and exit.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/haldane-oss/parsely/lex"
	"github.com/haldane-oss/parsely/lr"
	"github.com/haldane-oss/parsely/symbol"
)

var (
	flagLALR    = pflag.BoolP("lalr", "l", false, "Build an LALR(1) table instead of canonical LR(1).")
	flagFavor   = pflag.StringP("favor", "f", "", "Break unresolved shift/reduce ties by always SHIFT or REDUCE.")
	flagParse   = pflag.BoolP("parse", "p", false, "Read a token stream from stdin and parse it instead of printing the table.")
	flagKernels = pflag.BoolP("kernels", "k", false, "Print each state's kernel items and transitions alongside the table.")
	flagVersion = pflag.BoolP("version", "v", false, "Print the build id that would be assigned and exit.")
)

func main() {
	pflag.Parse()

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: parselycli [flags] GRAMMAR_FILE\nDo -h for help.\n")
		os.Exit(1)
	}

	g, err := loadGrammarFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load grammar: %s\n", err)
		os.Exit(1)
	}

	favor := lr.FavorNone
	switch strings.ToUpper(*flagFavor) {
	case "SHIFT":
		favor = lr.FavorShift
	case "REDUCE":
		favor = lr.FavorReduce
	case "":
		// leave as FavorNone
	default:
		fmt.Fprintf(os.Stderr, "unrecognized --favor value %q, must be SHIFT or REDUCE\n", *flagFavor)
		os.Exit(1)
	}

	buildID := uuid.New()

	if *flagVersion {
		fmt.Printf("parselycli build %s\n", buildID)
		return
	}

	var automaton *lr.Automaton
	if *flagLALR {
		automaton, err = lr.BuildLALR1(g)
	} else {
		automaton, err = lr.BuildCLR1(g)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "build %s: could not build automaton: %s\n", buildID, err)
		os.Exit(1)
	}

	table, err := lr.BuildTable(automaton, favor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build %s: could not build table: %s\n", buildID, err)
		os.Exit(1)
	}

	if !*flagParse {
		fmt.Printf("build %s (%s, %d states)\n", buildID, automaton.Variant, len(automaton.States))
		if *flagKernels {
			fmt.Println(automaton.String())
		}
		fmt.Println(table.String())
		return
	}

	toks, err := readTokenStream(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build %s: could not read token stream: %s\n", buildID, err)
		os.Exit(1)
	}

	driver := lr.NewDriver(table)
	driver.RegisterTraceListener(func(line string) {
		fmt.Fprintf(os.Stderr, "build %s: %s\n", buildID, line)
	})

	_, tree, err := driver.ParseWithTree(lex.NewTokenStream(toks, lex.Token{Class: symbol.EndOfInput}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "build %s: parse failed: %s\n", buildID, err)
		os.Exit(1)
	}

	fmt.Println(tree.String())
}

// readTokenStream reads whitespace-separated CLASS:LEXEME pairs, one per
// line or space-delimited, treating a bare CLASS with no colon as a token
// whose lexeme equals its class (the common case for punctuation and
// keyword terminals).
func readTokenStream(r io.Reader) ([]lex.Token, error) {
	var toks []lex.Token
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		field := scanner.Text()
		class, lexeme := field, field
		if i := strings.IndexByte(field, ':'); i >= 0 {
			class, lexeme = field[:i], field[i+1:]
		}
		toks = append(toks, lex.Token{Class: symbol.Symbol(class), Lexeme: lexeme})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return toks, nil
}
