package controllers

import (
	"context"
	"time"

	"catalog-import-service/importer"
	"catalog-import-service/models"
)

// Default configuration values.
const (
	DefaultContextTimeout = 30 * time.Second
	DefaultPreviewRows    = 5
)

// ImportServiceAPI defines the interface for import pipeline operations.
type ImportServiceAPI interface {
	Catalog() []models.TargetFieldSpec
	SeededMapper(suggestions []models.SuggestedMapping) *importer.Mapper
	ValidateMapping(mapping map[int]string) error
	Preview(table *models.ParsedTable, mapping map[int]string, actor models.Actor, limit int) []models.Record
	ProcessImport(ctx context.Context, table *models.ParsedTable, mapping map[int]string, actor models.Actor, onProgress importer.ProgressFunc) (*models.ImportSummary, error)
}
