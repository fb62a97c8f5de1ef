package controllers

import (
	"net/http"
	"strings"

	"catalog-import-service/search"

	"github.com/gin-gonic/gin"
)

// SearchController handles suggestion ranking and recent searches.
type SearchController struct {
	recent    *search.RecentStore
	validator *RequestValidator
}

func NewSearchController(recent *search.RecentStore, validator *RequestValidator) *SearchController {
	return &SearchController{recent: recent, validator: validator}
}

// Suggest ranks the submitted candidate pool against the query, merged with
// the store's recent searches. Ranking is synchronous so the dropdown feels
// immediate; the client applies its own debounce before firing the downstream
// catalog search.
func (h *SearchController) Suggest(c *gin.Context) {
	req, err := h.validator.ParseSuggestRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := h.validator.ParseActor(c)
	recent := h.recent.Fetch(c.Request.Context(), actor.StoreID, search.MaxRecent)

	suggestions := search.Rank(req.Query, req.Candidates, recent)

	if strings.TrimSpace(req.Query) != "" {
		h.recent.Record(c.Request.Context(), actor.StoreID, req.Query)
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// RecentSearches returns the store's recent search terms, most recent first.
func (h *SearchController) RecentSearches(c *gin.Context) {
	actor := h.validator.ParseActor(c)
	terms := h.recent.Fetch(c.Request.Context(), actor.StoreID, 0)
	if terms == nil {
		terms = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"recent": terms})
}
