package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"catalog-import-service/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Validation constants.
const (
	MaxUploadSize = 50 * 1024 * 1024 // 50MB
	MaxCandidates = 500
)

var allowedSpreadsheetExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".xlsx": true,
}

// SuggestRequest is the payload of the suggestion-ranking endpoint.
type SuggestRequest struct {
	Query      string                    `json:"query"`
	Candidates []models.SearchSuggestion `json:"candidates" validate:"max=500,dive"`
}

// RequestValidator handles all input validation.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// IsValidSpreadsheetFile checks that the upload looks like CSV or XLSX.
func (rv *RequestValidator) IsValidSpreadsheetFile(file *multipart.FileHeader) bool {
	contentType := file.Header.Get("Content-Type")
	switch contentType {
	case "text/csv", "application/csv", "text/plain",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return true
	}
	return allowedSpreadsheetExtensions[strings.ToLower(filepath.Ext(file.Filename))]
}

// ValidateFileSize checks if file size is within limits.
func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file too large (max %dMB)", MaxUploadSize/(1024*1024))
	}
	return nil
}

// ParseMapping decodes the confirmed column→field mapping from its JSON form
// value, e.g. {"0":"name","2":"price"}.
func (rv *RequestValidator) ParseMapping(raw string) (map[int]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("mapping is required")
	}
	var byColumn map[string]string
	if err := json.Unmarshal([]byte(raw), &byColumn); err != nil {
		return nil, errors.New("invalid mapping format, must be a JSON object of column index to field key")
	}
	mapping := make(map[int]string, len(byColumn))
	for colStr, fieldKey := range byColumn {
		col, err := strconv.Atoi(colStr)
		if err != nil || col < 0 {
			return nil, fmt.Errorf("invalid column index %q in mapping", colStr)
		}
		mapping[col] = fieldKey
	}
	return mapping, nil
}

// ParseActor reads the acting store/user from request headers, falling back to
// the sentinel values so ownership fields are never left blank.
func (rv *RequestValidator) ParseActor(c *gin.Context) models.Actor {
	actor := models.Actor{
		StoreID: strings.TrimSpace(c.GetHeader("X-Store-ID")),
		UserID:  strings.TrimSpace(c.GetHeader("X-User-ID")),
	}
	if actor.StoreID == "" {
		actor.StoreID = models.DefaultStoreID
	}
	if actor.UserID == "" {
		actor.UserID = models.DefaultUserID
	}
	return actor
}

// ParseSuggestRequest binds and validates the suggestion payload.
func (rv *RequestValidator) ParseSuggestRequest(c *gin.Context) (*SuggestRequest, error) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if len(req.Candidates) > MaxCandidates {
		return nil, fmt.Errorf("too many candidates (max %d)", MaxCandidates)
	}
	if err := rv.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &req, nil
}

// ParsePreviewLimit reads the optional preview row limit.
func (rv *RequestValidator) ParsePreviewLimit(c *gin.Context) (int, error) {
	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultPreviewRows))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return 0, errors.New("invalid limit value")
	}
	return limit, nil
}
