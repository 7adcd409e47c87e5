package grammar

import (
	"github.com/haldane-oss/parsely/symbol"
)

// GroupPlaceholder reports whether sym is an XBNF group reference of the
// form ":GroupName:" and, if so, returns the group's name.
func GroupPlaceholder(sym symbol.Symbol) (name string, ok bool) {
	s := string(sym)
	if len(s) < 3 || s[0] != ':' || s[len(s)-1] != ':' {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// ExpandGroups desugars every rule in rules that references a ":GroupName:"
// placeholder on its right-hand side into one production per symbol that
// groups[name] lists, duplicating the rest of the production unchanged.
// This is the "grammar group expansion" step of the lexical/grammar
// pipeline (a pattern's Groups field on the lex side feeds the groups map
// here); a rule with no placeholder passes through untouched.
func ExpandGroups(rules []Rule, groups map[string][]symbol.Symbol) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		expanded := Rule{Head: r.Head}
		for _, body := range r.Productions {
			expanded.Productions = append(expanded.Productions, expandProduction(body, groups)...)
		}
		out = append(out, expanded)
	}
	return out
}

// expandProduction expands the first group placeholder it finds in body,
// then recurses on each result so that a production with multiple
// placeholders is fully expanded (the cross product of every group's
// members).
func expandProduction(body Production, groups map[string][]symbol.Symbol) []Production {
	for i, sym := range body {
		name, ok := GroupPlaceholder(sym)
		if !ok {
			continue
		}
		members := groups[name]
		var results []Production
		for _, m := range members {
			replaced := make(Production, len(body))
			copy(replaced, body)
			replaced[i] = m
			results = append(results, expandProduction(replaced, groups)...)
		}
		return results
	}
	return []Production{body}
}

// GroupsFromClasses builds the groups map ExpandGroups expects from a flat
// list of (symbol, group names) pairs, the shape a lexer's pattern list
// naturally provides without grammar needing to import lex.
func GroupsFromClasses(classes map[symbol.Symbol][]string) map[string][]symbol.Symbol {
	groups := map[string][]symbol.Symbol{}
	for sym, names := range classes {
		for _, name := range names {
			groups[name] = append(groups[name], sym)
		}
	}
	for name := range groups {
		sortSymbols(groups[name])
	}
	return groups
}

func sortSymbols(syms []symbol.Symbol) {
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && syms[j-1] > syms[j]; j-- {
			syms[j-1], syms[j] = syms[j], syms[j-1]
		}
	}
}
