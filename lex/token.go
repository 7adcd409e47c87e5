package lex

import "github.com/haldane-oss/parsely/symbol"

// Token is a single lexeme classified as a grammar terminal, together with
// the source position it was scanned from. This mirrors the teacher's own
// lexerToken/Token split, collapsed into one concrete struct since parsely
// has no need for a separate interface: every token in this module comes
// from the one lexer implementation.
type Token struct {
	Class symbol.Symbol

	// Lexeme is the raw, untransformed text the pattern matched.
	Lexeme string

	// Literal is the token's value after Pattern.Transform runs (or Lexeme
	// itself, as an any, if the pattern declared no transform). A semantic
	// action that wants a parsed int/float/etc rather than raw text reads
	// this field instead of re-parsing Lexeme.
	Literal any

	// Groups carries the pattern's declared XBNF group membership, copied
	// through so a caller building a grammar from lexer output doesn't need
	// to consult the pattern list separately.
	Groups []string

	// Precedence and Assoc carry the pattern's declared operator precedence
	// and associativity, copied through for the same reason as Groups.
	Precedence int
	Assoc      symbol.Associativity

	Pos  symbol.Position
	End  symbol.Position
	Line string
}

func (t Token) String() string {
	return string(t.Class) + " " + quote(t.Lexeme)
}

func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	out = append(out, '"')
	return string(out)
}

// TokenStream is the minimal interface the LR driver needs from a lexer:
// look at the next token without consuming it, or consume it. Implementing
// this directly against a lexer, a canned slice of tokens, or a network
// connection all work identically for the driver.
type TokenStream interface {
	Peek() (Token, error)
	Next() (Token, error)
	HasNext() bool
}

// sliceStream adapts a pre-lexed []Token into a TokenStream, used by Lexer.Lex
// and handy for tests that want to drive the parser without a real lexer.
type sliceStream struct {
	toks []Token
	pos  int
	eof  Token
}

// NewTokenStream wraps toks (in order) as a TokenStream that yields eof once
// exhausted instead of erroring, matching the convention that the driver
// always sees a trailing end-of-input symbol.
func NewTokenStream(toks []Token, eof Token) TokenStream {
	return &sliceStream{toks: toks, eof: eof}
}

func (s *sliceStream) HasNext() bool {
	return s.pos < len(s.toks)
}

func (s *sliceStream) Peek() (Token, error) {
	if s.pos >= len(s.toks) {
		return s.eof, nil
	}
	return s.toks[s.pos], nil
}

func (s *sliceStream) Next() (Token, error) {
	t, err := s.Peek()
	if err != nil {
		return t, err
	}
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t, nil
}
