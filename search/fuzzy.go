// Package search implements the fuzzy scorer and suggestion ranker behind the
// catalog autocomplete.
package search

import (
	"strings"
	"unicode/utf8"
)

// MatchResult is the outcome of scoring a candidate against a query.
type MatchResult struct {
	Score   float64 `json:"score"`
	Matches bool    `json:"matches"`
}

// Match scores candidate against query. Scoring is case-insensitive.
//
// A whole-query substring hit dominates: the earlier the hit, the higher the
// score, in (50,100]. Otherwise the query is broken into words and each word
// takes its best per-word score against the candidate's words (prefix 80,
// substring 60, or edit-distance similarity above 0.6 scaled to 40). The final
// score is the per-word sum averaged over all query words.
func Match(query, candidate string) MatchResult {
	q := strings.ToLower(query)
	c := strings.ToLower(candidate)

	if idx := strings.Index(c, q); idx >= 0 && len(c) > 0 {
		pos := utf8.RuneCountInString(c[:idx])
		score := 100 - (float64(pos)/float64(utf8.RuneCountInString(c)))*50
		return MatchResult{Score: score, Matches: true}
	}

	queryWords := strings.Fields(q)
	candidateWords := strings.Fields(c)
	if len(queryWords) == 0 {
		return MatchResult{}
	}

	var total float64
	matchedWords := 0
	for _, qw := range queryWords {
		best := 0.0
		for _, cw := range candidateWords {
			var s float64
			switch {
			case strings.HasPrefix(cw, qw):
				s = 80
			case strings.Contains(cw, qw):
				s = 60
			case len([]rune(qw)) > 2:
				if sim := similarity(qw, cw); sim > 0.6 {
					s = sim * 40
				}
			}
			if s > best {
				best = s
			}
		}
		if best > 0 {
			matchedWords++
			total += best
		}
	}

	if matchedWords == 0 {
		return MatchResult{}
	}
	return MatchResult{Score: total / float64(len(queryWords)), Matches: true}
}

// similarity is the normalized edit-distance similarity of two words,
// (maxLen − distance) / maxLen.
func similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return float64(maxLen-EditDistance(a, b)) / float64(maxLen)
}

// EditDistance computes the classic Levenshtein distance between a and b with
// unit costs for substitution, insertion and deletion. It is symmetric and
// defined for empty strings (distance equals the other string's length).
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
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
