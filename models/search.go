package models

// SuggestionType classifies where a search suggestion came from.
type SuggestionType string

const (
	SuggestionProduct  SuggestionType = "product"
	SuggestionCategory SuggestionType = "category"
	SuggestionTag      SuggestionType = "tag"
	SuggestionRecent   SuggestionType = "recent"
)

// SearchSuggestion is one entry in the autocomplete dropdown. Count is the
// number of catalog entities behind the suggestion, when known.
type SearchSuggestion struct {
	ID    string         `json:"id"`
	Text  string         `json:"text"`
	Type  SuggestionType `json:"type"`
	Count int            `json:"count,omitempty"`
}
