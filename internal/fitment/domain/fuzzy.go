package domain

import (
	"sort"
	"strings"
)

// TokenSetRatio scores the similarity of two strings on a 0-100 scale.
// Both inputs are tokenized into unique sorted word sets; the score is
// the best plain ratio among the intersection and the two
// intersection-plus-remainder combinations. Shared tokens therefore
// dominate, which makes the score robust against extra chatter in a
// query ("necesito una bateria para mi chevrolet aveo" vs "chevrolet").
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 100
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			shared = append(shared, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range tokensB {
		if _, ok := tokensA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := plainRatio(base, combinedA)
	if score := plainRatio(base, combinedB); score > best {
		best = score
	}
	if score := plainRatio(combinedA, combinedB); score > best {
		best = score
	}
	return best
}

// BestMake returns the candidate with the highest TokenSetRatio against
// the query, provided it reaches the threshold. A score exactly at the
// threshold is accepted. Ties keep the first-encountered candidate so
// results are deterministic for a fixed candidate order.
func BestMake(query string, candidates []string, threshold int) (string, int, bool) {
	bestScore := -1
	bestMake := ""
	for _, candidate := range candidates {
		score := TokenSetRatio(query, candidate)
		if score > bestScore {
			bestScore = score
			bestMake = candidate
		}
	}

	if bestScore < threshold || bestMake == "" {
		return "", bestScore, false
	}
	return bestMake, bestScore, true
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, field := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isWordRune(r)
	}) {
		set[field] = struct{}{}
	}
	return set
}

// plainRatio is the classic edit-distance similarity:
// (lenA + lenB - distance) / (lenA + lenB), scaled to 0-100.
func plainRatio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	dist := levenshtein(a, b)
	return (100*(total-dist) + total/2) / total
}

func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
