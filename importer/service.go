package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog-import-service/models"
	"catalog-import-service/repository"

	"go.uber.org/zap"
)

// MaxSummaryErrors caps the error list in the HTTP-facing summary; the
// remainder is reported as a count.
const MaxSummaryErrors = 10

// MappingError is the blocking validation failure raised when required fields
// are unmapped. It carries the field labels so the user can correct them.
type MappingError struct {
	Missing []string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("required fields not mapped: %s", strings.Join(e.Missing, ", "))
}

// Service orchestrates the import pipeline: mapping validation, row
// transformation and batched submission to the product-create endpoint.
type Service struct {
	creator  repository.ProductCreator
	catalog  []models.TargetFieldSpec
	executor *Executor
}

func NewService(creator repository.ProductCreator, chunkSize int) *Service {
	return &Service{
		creator:  creator,
		catalog:  models.ProductFields,
		executor: NewExecutor(chunkSize),
	}
}

// Catalog returns the target field catalog this service imports into.
func (s *Service) Catalog() []models.TargetFieldSpec {
	return s.catalog
}

// SeededMapper builds a mapper pre-populated from high-confidence suggestions.
func (s *Service) SeededMapper(suggestions []models.SuggestedMapping) *Mapper {
	m := NewMapper(s.catalog)
	m.Seed(suggestions)
	return m
}

// ValidateMapping checks a confirmed mapping against the catalog's required
// fields. A non-nil error is a *MappingError naming the missing field labels.
func (s *Service) ValidateMapping(mapping map[int]string) error {
	m := NewMapper(s.catalog)
	for col, key := range mapping {
		m.Set(col, key)
	}
	if missing, ok := m.Validate(); !ok {
		return &MappingError{Missing: missing}
	}
	return nil
}

// Preview transforms the first limit rows without submitting anything.
func (s *Service) Preview(table *models.ParsedTable, mapping map[int]string, actor models.Actor, limit int) []models.Record {
	if limit <= 0 || limit > len(table.Rows) {
		limit = len(table.Rows)
	}
	records := make([]models.Record, 0, limit)
	for i := 0; i < limit; i++ {
		records = append(records, Transform(table.Rows[i], mapping, s.catalog, i, actor))
	}
	return records
}

// ProcessImport runs the full pipeline over a parsed table: validates the
// mapping (blocking), transforms every data row, and submits the records in
// chunks. Submission failures are accumulated, never propagated; the returned
// error is non-nil only for the blocking conditions (incomplete mapping, zero
// data rows) that send the host back to mapping or preview.
func (s *Service) ProcessImport(ctx context.Context, table *models.ParsedTable, mapping map[int]string, actor models.Actor, onProgress ProgressFunc) (*models.ImportSummary, error) {
	if err := s.ValidateMapping(mapping); err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, ErrNoDataRows
	}

	records := make([]models.Record, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = Transform(row, mapping, s.catalog, i, actor)
	}

	start := time.Now()
	result, err := s.executor.Run(ctx, records, s.creator.Create, onProgress)
	if err != nil {
		return nil, err
	}

	zap.L().Info("import run finished",
		zap.Int("total", result.TotalRows),
		zap.Int("succeeded", result.SuccessCount),
		zap.Int("failed", result.ErrorCount),
		zap.Duration("took", time.Since(start)),
	)

	return Summarize(result), nil
}

// Summarize converts a full result into the HTTP-facing summary with a capped
// error list.
func Summarize(result *models.ImportResult) *models.ImportSummary {
	summary := &models.ImportSummary{
		SuccessCount: result.SuccessCount,
		ErrorCount:   result.ErrorCount,
		TotalRows:    result.TotalRows,
		Success:      result.Success,
		Errors:       result.Errors,
	}
	if len(summary.Errors) > MaxSummaryErrors {
		summary.MoreErrors = len(summary.Errors) - MaxSummaryErrors
		summary.Errors = summary.Errors[:MaxSummaryErrors]
	}
	if summary.Success {
		summary.Message = fmt.Sprintf("Imported %d of %d products", summary.SuccessCount, summary.TotalRows)
	} else {
		summary.Message = "Import failed: no products were created"
	}
	return summary
}
