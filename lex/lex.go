// Package lex implements the maximal-munch lexer that turns source text into
// the token stream an lr.Driver consumes. It is a standalone collaborator:
// nothing in grammar or lr imports it, they only consume the TokenStream and
// Token types it produces.
package lex

import (
	"fmt"
	"strings"

	"github.com/haldane-oss/parsely/errs"
	"github.com/haldane-oss/parsely/symbol"
)

// Lexer holds an ordered set of Patterns and scans input against them.
type Lexer struct {
	patterns []*Pattern
	listener func(Token)
}

// NewLexer returns an empty Lexer; call AddPattern to populate it before
// calling Lex.
func NewLexer() *Lexer {
	return &Lexer{}
}

// AddPattern compiles and appends pat to the lexer's pattern list. Patterns
// are tried in the order added when breaking maximal-munch ties.
func (lx *Lexer) AddPattern(pat Pattern) error {
	p := pat
	if err := p.compile(); err != nil {
		return err
	}
	lx.patterns = append(lx.patterns, &p)
	return nil
}

// RegisterTokenListener installs a callback invoked for every non-ignored
// token as it is produced, mirroring the teacher's own token-listener hook;
// useful for tracing a lex run independent of the parser's trace output.
func (lx *Lexer) RegisterTokenListener(fn func(Token)) {
	lx.listener = fn
}

// Lex scans input in full and returns the resulting token stream, or an
// *errs.LexerError at the first position no pattern can match.
func (lx *Lexer) Lex(input string) (TokenStream, error) {
	var toks []Token
	line, col := 1, 1
	pos := 0

	for pos < len(input) {
		rest := input[pos:]
		lexeme, pat, ok := lx.longestMatch(rest)
		if !ok {
			unmatched := &unmatchedInputError{Pos: symbol.Position{Line: line, Col: col}, Rest: firstLine(rest)}
			return nil, errs.NewLexerError(unmatched)
		}
		if lexeme == "" {
			// a zero-width match would loop forever; it comes from an empty
			// Literal, or a List/Regex pattern that accepts the empty
			// string, and indicates a malformed pattern rather than valid
			// input.
			return nil, fmt.Errorf("pattern for class %q matched a zero-length lexeme at %s", pat.Class, symbol.Position{Line: line, Col: col})
		}

		start := symbol.Position{Line: line, Col: col}
		for _, r := range lexeme {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		end := symbol.Position{Line: line, Col: col}

		if !pat.Ignored {
			var literal any = lexeme
			if pat.Transform != nil {
				literal = pat.Transform(lexeme)
			}
			tok := Token{
				Class:      pat.Class,
				Lexeme:     lexeme,
				Literal:    literal,
				Groups:     pat.Groups,
				Precedence: pat.Precedence,
				Assoc:      pat.Assoc,
				Pos:        start,
				End:        end,
				Line:       currentLine(input, pos),
			}
			toks = append(toks, tok)
			if lx.listener != nil {
				lx.listener(tok)
			}
		}

		pos += len(lexeme)
	}

	return NewTokenStream(toks, Token{Class: symbol.EndOfInput, Pos: symbol.Position{Line: line, Col: col}, End: symbol.Position{Line: line, Col: col}}), nil
}

// longestMatch finds the pattern producing the longest lexeme at the start
// of rest, breaking ties by declared Precedence (higher wins) and then by
// declaration order (earlier wins), matching the way the teacher's
// patterns list is a simple ordered slice scanned in full each time.
func (lx *Lexer) longestMatch(rest string) (string, *Pattern, bool) {
	var best string
	var bestPat *Pattern
	found := false

	for _, pat := range lx.patterns {
		lexeme, ok := pat.match(rest)
		if !ok {
			continue
		}
		switch {
		case !found:
			best, bestPat, found = lexeme, pat, true
		case len(lexeme) > len(best):
			best, bestPat = lexeme, pat
		case len(lexeme) == len(best) && pat.Precedence > bestPat.Precedence:
			best, bestPat = lexeme, pat
		}
	}

	return best, bestPat, found
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	if len(s) > 40 {
		return s[:40]
	}
	return s
}

func currentLine(input string, pos int) string {
	start := strings.LastIndexByte(input[:pos], '\n') + 1
	end := strings.IndexByte(input[pos:], '\n')
	if end < 0 {
		return input[start:]
	}
	return input[start : pos+end]
}

// unmatchedInputError is the positioned error Lex constructs when no pattern
// matches; Lex always wraps it via errs.NewLexerError before returning it, so
// no caller outside this file ever sees the unexported type directly.
type unmatchedInputError struct {
	Pos  symbol.Position
	Rest string
}

func (e *unmatchedInputError) Error() string {
	return fmt.Sprintf("%s: no lexical pattern matches input starting with %q", e.Pos, e.Rest)
}

func (e *unmatchedInputError) Position() symbol.Position { return e.Pos }
func (e *unmatchedInputError) Context() string           { return e.Rest }
