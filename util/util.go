// Package util collects small, grammar-independent helpers shared across
// parsely's packages: human-readable list formatting for diagnostics, and
// the generic Stack the driver's construction code is built around.
package util

import (
	"strings"
	"unicode"
)

// MakeTextList joins items into an oxford-comma list ("a, b, and c"),
// optionally prefixing each with "a"/"an" as ArticleFor decides.
func MakeTextList(items []string, articles bool) string {
	if len(items) < 1 {
		return ""
	}

	withArts := make([]string, len(items))
	for i := range items {
		item := items[i]
		prefix := ""
		if articles {
			prefix = ArticleFor(item, false) + " "
		}
		withArts[i] = prefix + item
	}

	switch len(withArts) {
	case 1:
		return withArts[0]
	case 2:
		return withArts[0] + " and " + withArts[1]
	default:
		withArts[len(withArts)-1] = "and " + withArts[len(withArts)-1]
		return strings.Join(withArts, ", ")
	}
}

// ArticleFor returns "a" or "an" for s, capitalized to match s's own
// capitalization, or "the"/"The"/"THE" if definite is true.
func ArticleFor(s string, definite bool) string {
	sRunes := []rune(s)
	if len(sRunes) < 1 {
		return ""
	}

	leadingUpper := unicode.IsUpper(sRunes[0])
	allCaps := leadingUpper
	if leadingUpper && len(sRunes) > 1 {
		allCaps = unicode.IsUpper(sRunes[1])
	}

	if definite {
		switch {
		case allCaps:
			return "THE"
		case leadingUpper:
			return "The"
		default:
			return "the"
		}
	}

	art := "a"
	if allCaps || leadingUpper {
		art = "A"
	}

	switch unicode.ToUpper(sRunes[0]) {
	case 'A', 'E', 'I', 'O', 'U':
		if allCaps {
			art += "N"
		} else {
			art += "n"
		}
	}

	return art
}
