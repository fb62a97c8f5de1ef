package search

import (
	"sort"
	"strings"

	"catalog-import-service/models"
)

const (
	// MaxSuggestions caps the ranked list shown in the dropdown.
	MaxSuggestions = 8
	// MaxRecent caps the recency fallback for empty queries.
	MaxRecent = 5
)

// Rank produces the capped suggestion list for a query. An empty or
// whitespace-only query falls back to the most recent searches in recency
// order, untouched by scoring. Otherwise every candidate is scored with Match,
// non-matches are dropped, and the rest are sorted by descending score with
// input order preserved on ties. Ranking is synchronous; any debounce belongs
// to the caller's search callback, not here.
func Rank(query string, candidates []models.SearchSuggestion, recent []string) []models.SearchSuggestion {
	if strings.TrimSpace(query) == "" {
		out := make([]models.SearchSuggestion, 0, MaxRecent)
		for i, term := range recent {
			if i >= MaxRecent {
				break
			}
			out = append(out, models.SearchSuggestion{
				ID:   "recent-" + term,
				Text: term,
				Type: models.SuggestionRecent,
			})
		}
		return out
	}

	type scored struct {
		suggestion models.SearchSuggestion
		score      float64
	}
	matched := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		res := Match(query, cand.Text)
		if res.Matches {
			matched = append(matched, scored{suggestion: cand, score: res.Score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if len(matched) > MaxSuggestions {
		matched = matched[:MaxSuggestions]
	}
	out := make([]models.SearchSuggestion, len(matched))
	for i, m := range matched {
		out[i] = m.suggestion
	}
	return out
}
