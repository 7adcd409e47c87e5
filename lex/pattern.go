package lex

import (
	"fmt"
	"regexp"

	"github.com/haldane-oss/parsely/symbol"
)

// Kind distinguishes the three ways a Pattern can match source text,
// following the shapes a grammar's lexical section is allowed to use.
type Kind int

const (
	// Literal matches the pattern's Expr verbatim.
	Literal Kind = iota
	// Regex compiles Expr as a Go regular expression.
	Regex
	// List matches any one of Alternatives verbatim, the longest first.
	List
)

// Pattern describes one lexeme-recognition rule. A Lexer holds an ordered
// collection of these and, at every input position, chooses the pattern
// whose match is longest (maximal munch); ties are broken by Precedence and
// then by declaration order, matching the way the teacher's AddPattern
// list is scanned in order.
type Pattern struct {
	// Class is the terminal symbol produced when this pattern matches.
	// Ignored for patterns with Ignored set to true.
	Class symbol.Symbol

	Kind         Kind
	Expr         string
	Alternatives []string

	// Precedence and Assoc are attached to the produced terminal for use by
	// the parse table builder's conflict resolution; they have no effect on
	// lexing itself.
	Precedence int
	Assoc      symbol.Associativity

	// Ignored patterns are matched and discarded (whitespace, comments)
	// rather than emitted as tokens.
	Ignored bool

	// Groups names the XBNF group(s) this pattern's class belongs to, for
	// consumption by grammar.ExpandGroups. A pattern with no groups is not
	// eligible for use in a :GroupName: placeholder.
	Groups []string

	// Transform, if set, computes the matched lexeme's Literal value (e.g.
	// stripping quote characters from a string literal, or parsing digits
	// into an int). The matched text itself is always preserved verbatim
	// in Token.Lexeme regardless of Transform.
	Transform func(string) any

	compiled *regexp.Regexp
}

func (p *Pattern) compile() error {
	switch p.Kind {
	case Literal:
		p.compiled = regexp.MustCompile(regexp.QuoteMeta(p.Expr))
	case Regex:
		c, err := regexp.Compile(`\A(?:` + p.Expr + `)`)
		if err != nil {
			return fmt.Errorf("pattern %q: cannot compile regex: %w", p.Class, err)
		}
		p.compiled = c
	case List:
		if len(p.Alternatives) == 0 {
			return fmt.Errorf("pattern %q: list pattern has no alternatives", p.Class)
		}
		alt := ""
		for i, a := range p.Alternatives {
			if i > 0 {
				alt += "|"
			}
			alt += regexp.QuoteMeta(a)
		}
		p.compiled = regexp.MustCompile(`\A(?:` + alt + `)`)
		p.compiled.Longest()
	default:
		return fmt.Errorf("pattern %q: unknown pattern kind %d", p.Class, p.Kind)
	}
	return nil
}

// match returns the longest prefix of input that this pattern accepts, or
// ok=false if it does not match at all.
func (p *Pattern) match(input string) (lexeme string, ok bool) {
	if p.Kind == Literal {
		if len(input) >= len(p.Expr) && input[:len(p.Expr)] == p.Expr {
			return p.Expr, true
		}
		return "", false
	}
	loc := p.compiled.FindStringIndex(input)
	if loc == nil || loc[0] != 0 {
		return "", false
	}
	return input[:loc[1]], true
}
