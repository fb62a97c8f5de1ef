package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"catalog-import-service/apperrors"
	"catalog-import-service/importer"
	"catalog-import-service/models"
	"catalog-import-service/parser"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportController handles spreadsheet import operations.
type ImportController struct {
	svc        ImportServiceAPI
	jobs       *importer.JobStore
	validator  *RequestValidator
	storageDir string
	timeout    time.Duration
}

func NewImportController(svc ImportServiceAPI, jobs *importer.JobStore, validator *RequestValidator, storageDir string) *ImportController {
	if storageDir == "" {
		storageDir = "./data/imports"
	}
	return &ImportController{
		svc:        svc,
		jobs:       jobs,
		validator:  validator,
		storageDir: storageDir,
		timeout:    DefaultContextTimeout,
	}
}

// ValidateImport parses an uploaded spreadsheet and returns the table,
// suggested mappings, the seeded mapping, and any required fields still
// missing — the mapping step of the import flow.
func (h *ImportController) ValidateImport(c *gin.Context) {
	file, err := h.getAndValidateFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "step": models.SessionUpload})
		return
	}

	table, suggestions, err := h.parseUpload(file)
	if err != nil {
		// Parse failures abort the whole import: back to upload, no partial state.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "step": models.SessionUpload})
		return
	}

	mapper := h.svc.SeededMapper(suggestions)
	missing, _ := mapper.Validate()

	c.JSON(http.StatusOK, gin.H{
		"table":              table,
		"suggested_mappings": suggestions,
		"mapping":            mapper.Mapping(),
		"missing_fields":     missing,
		"duplicate_targets":  mapper.DuplicateTargets(),
		"fields":             h.svc.Catalog(),
		"total_rows":         table.TotalRows,
		"step":               models.SessionMapping,
	})
}

// PreviewImport transforms the first rows under the confirmed mapping without
// submitting anything.
func (h *ImportController) PreviewImport(c *gin.Context) {
	file, mapping, err := h.getFileAndMapping(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, err := h.validator.ParsePreviewLimit(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ValidateMapping(mapping); err != nil {
		respondMappingError(c, err)
		return
	}

	table, _, err := h.parseUpload(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "step": models.SessionUpload})
		return
	}

	records := h.svc.Preview(table, mapping, h.validator.ParseActor(c), limit)
	c.JSON(http.StatusOK, gin.H{
		"records":    records,
		"total_rows": table.TotalRows,
		"step":       models.SessionPreview,
	})
}

// ImportProducts runs the confirmed import, synchronously by default or queued
// for background processing with ?async=true.
func (h *ImportController) ImportProducts(c *gin.Context) {
	file, mapping, err := h.getFileAndMapping(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.ValidateMapping(mapping); err != nil {
		respondMappingError(c, err)
		return
	}

	if strings.ToLower(strings.TrimSpace(c.Query("async"))) == "true" {
		h.handleAsyncImport(c, file, mapping)
		return
	}
	h.handleSyncImport(c, file, mapping)
}

// GetJobStatus returns the status/result of an async import job.
func (h *ImportController) GetJobStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job ID required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	job, err := h.jobs.Get(ctx, id)
	if err != nil {
		zap.L().Error("Failed to get job status", zap.Error(err))
		apperrors.Respond(c, apperrors.New(http.StatusInternalServerError, "Failed to retrieve job status", err))
		return
	}
	if job == nil {
		apperrors.Respond(c, apperrors.ErrJobNotFound)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Private helper methods

func (h *ImportController) getAndValidateFile(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required")
	}
	if !h.validator.IsValidSpreadsheetFile(file) {
		return nil, fmt.Errorf("invalid file type. Only CSV and XLSX files are allowed")
	}
	if err := h.validator.ValidateFileSize(file); err != nil {
		return nil, err
	}
	return file, nil
}

func (h *ImportController) getFileAndMapping(c *gin.Context) (*multipart.FileHeader, map[int]string, error) {
	file, err := h.getAndValidateFile(c)
	if err != nil {
		return nil, nil, err
	}
	mapping, err := h.validator.ParseMapping(c.PostForm("mapping"))
	if err != nil {
		return nil, nil, err
	}
	return file, mapping, nil
}

func (h *ImportController) parseUpload(file *multipart.FileHeader) (*models.ParsedTable, []models.SuggestedMapping, error) {
	fileHandle, err := file.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file")
	}
	defer fileHandle.Close()
	return parser.Parse(fileHandle, file.Filename, h.svc.Catalog())
}

func (h *ImportController) handleSyncImport(c *gin.Context, file *multipart.FileHeader, mapping map[int]string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	table, _, err := h.parseUpload(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "step": models.SessionUpload})
		return
	}

	summary, err := h.svc.ProcessImport(ctx, table, mapping, h.validator.ParseActor(c), nil)
	if err != nil {
		if errors.Is(err, importer.ErrNoDataRows) {
			// Distinct from "all rows failed": the client returns to preview.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
				"code":  "no_data_rows",
				"step":  models.SessionPreview,
			})
			return
		}
		respondMappingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result": summary,
		"step":   models.SessionDone,
	})
}

func (h *ImportController) handleAsyncImport(c *gin.Context, file *multipart.FileHeader, mapping map[int]string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	jobID, err := h.enqueueJob(ctx, file, mapping, h.validator.ParseActor(c))
	if err != nil {
		zap.L().Error("Failed to enqueue async import", zap.Error(err))
		apperrors.Respond(c, apperrors.New(http.StatusInternalServerError, "Failed to queue import job", err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  jobID,
		"message": "Import queued for processing",
		"step":    models.SessionImporting,
	})
}

func (h *ImportController) enqueueJob(ctx context.Context, file *multipart.FileHeader, mapping map[int]string, actor models.Actor) (string, error) {
	fileHandle, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer fileHandle.Close()

	data, err := io.ReadAll(fileHandle)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	if err := os.MkdirAll(h.storageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	jobID := uuid.New().String()
	filePath := filepath.Join(h.storageDir, jobID+filepath.Ext(file.Filename))
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to persist file: %w", err)
	}

	job := &models.ImportJob{
		ID:        jobID,
		Status:    models.JobStatusPending,
		FilePath:  filePath,
		Filename:  file.Filename,
		Mapping:   mapping,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.jobs.Enqueue(ctx, job); err != nil {
		os.Remove(filePath)
		return "", err
	}

	zap.L().Info("Import job queued", zap.String("job_id", jobID))
	return jobID, nil
}

// respondMappingError maps pipeline errors to HTTP responses: an incomplete
// mapping is a blocking 400 that names the missing field labels, anything else
// is unexpected.
func respondMappingError(c *gin.Context, err error) {
	var mappingErr *importer.MappingError
	if errors.As(err, &mappingErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          mappingErr.Error(),
			"missing_fields": mappingErr.Missing,
			"step":           models.SessionMapping,
		})
		return
	}
	zap.L().Error("Import processing failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
