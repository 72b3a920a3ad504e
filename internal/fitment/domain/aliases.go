// Package domain holds the pure matching logic of the fitment engine:
// make-alias normalization and approximate string scoring. No I/O.
package domain

import (
	"sort"
	"strings"
	"unicode"
)

// AliasTable maps lowercase manufacturer nicknames and misspellings to
// canonical make names as stored in the catalog.
type AliasTable map[string]string

// DefaultAliases returns the built-in alias table. New aliases are added
// here as edge cases show up in real conversations.
func DefaultAliases() AliasTable {
	return AliasTable{
		// Mercedes-Benz
		"benz":          "Mercedes-Benz",
		"mercedes":      "Mercedes-Benz",
		"mercedes benz": "Mercedes-Benz",
		"mercedez":      "Mercedes-Benz",
		"merc":          "Mercedes-Benz",
		"mb":            "Mercedes-Benz",

		// Volkswagen
		"vw":         "Volkswagen",
		"volks":      "Volkswagen",
		"volkswagon": "Volkswagen",
		"volkswagen": "Volkswagen",

		// Chevrolet
		"chevy":     "Chevrolet",
		"chev":      "Chevrolet",
		"chevro":    "Chevrolet",
		"chevrolet": "Chevrolet",

		// ALFA
		"alfa":       "ALFA",
		"alfa romeo": "ALFA",

		// BMW
		"bmw":    "BMW",
		"beemer": "BMW",
		"bimmer": "BMW",
	}
}

// Canonical returns the canonical make for a single manufacturer token.
// Matching is exact and case-insensitive; unknown input comes back
// unchanged, which makes normalization idempotent for canonical names.
func (t AliasTable) Canonical(make string) string {
	normalized := strings.ToLower(strings.TrimSpace(make))
	if canonical, ok := t[normalized]; ok {
		return canonical
	}
	return make
}

// ScanQuery looks for any known alias inside a full free-text query.
// Aliases are tried longest-first so "alfa romeo" wins over "alfa", and
// every match must sit on word boundaries to avoid partial-word hits.
// Returns the canonical make, the alias text that matched, and whether
// anything matched at all.
func (t AliasTable) ScanQuery(query string) (canonical, matched string, ok bool) {
	lowered := strings.ToLower(query)

	aliases := make([]string, 0, len(t))
	for alias := range t {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})

	for _, alias := range aliases {
		if containsWord(lowered, alias) {
			return t[alias], alias, true
		}
	}

	return "", "", false
}

// containsWord reports whether needle occurs in haystack delimited by
// non-alphanumeric runes (or string edges) on both sides.
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}

	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)

		beforeOK := start == 0 || !isWordRune(rune(haystack[start-1]))
		afterOK := end == len(haystack) || !isWordRune(rune(haystack[end]))
		if beforeOK && afterOK {
			return true
		}

		from = start + 1
		if from >= len(haystack) {
			return false
		}
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// StripTokens removes every occurrence of the given tokens from the query
// (word-boundary, case-insensitive) and collapses leftover whitespace.
// Used after a fallback make recovery so the residual text can be
// re-parsed for model and year.
func StripTokens(query string, tokens ...string) string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return !isWordRune(r)
	})

	remove := make(map[string]struct{})
	for _, token := range tokens {
		for _, part := range strings.Fields(strings.ToLower(token)) {
			remove[part] = struct{}{}
		}
	}

	kept := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, drop := remove[strings.ToLower(field)]; !drop {
			kept = append(kept, field)
		}
	}

	return strings.Join(kept, " ")
}
