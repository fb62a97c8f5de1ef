package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-import-service/importer"
	"catalog-import-service/models"

	"github.com/gin-gonic/gin"
)

type fakeImportService struct {
	processCalled  int
	lastMapping    map[int]string
	lastActor      models.Actor
	processFn      func(ctx context.Context, table *models.ParsedTable, mapping map[int]string, actor models.Actor) (*models.ImportSummary, error)
	validateErr    error
	previewRecords []models.Record
}

func (f *fakeImportService) Catalog() []models.TargetFieldSpec {
	return models.ProductFields
}

func (f *fakeImportService) SeededMapper(suggestions []models.SuggestedMapping) *importer.Mapper {
	m := importer.NewMapper(models.ProductFields)
	m.Seed(suggestions)
	return m
}

func (f *fakeImportService) ValidateMapping(mapping map[int]string) error {
	return f.validateErr
}

func (f *fakeImportService) Preview(table *models.ParsedTable, mapping map[int]string, actor models.Actor, limit int) []models.Record {
	return f.previewRecords
}

func (f *fakeImportService) ProcessImport(ctx context.Context, table *models.ParsedTable, mapping map[int]string, actor models.Actor, onProgress importer.ProgressFunc) (*models.ImportSummary, error) {
	f.processCalled++
	f.lastMapping = mapping
	f.lastActor = actor
	if f.processFn != nil {
		return f.processFn(ctx, table, mapping, actor)
	}
	return &models.ImportSummary{Success: true}, nil
}

func multipartUpload(t *testing.T, csvBody string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(csvBody)); err != nil {
		t.Fatal(err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestValidateImportReturnsTableAndSeededMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	controller := NewImportController(&fakeImportService{}, nil, NewRequestValidator(), t.TempDir())
	router := gin.New()
	router.POST("/import/validate", controller.ValidateImport)

	body, contentType := multipartUpload(t, "Product Name,Price\nCoca Cola,1.50\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/import/validate", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	var resp struct {
		TotalRows         int                       `json:"total_rows"`
		SuggestedMappings []models.SuggestedMapping `json:"suggested_mappings"`
		Mapping           map[string]string         `json:"mapping"`
		MissingFields     []string                  `json:"missing_fields"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalRows != 1 {
		t.Fatalf("expected 1 data row, got %d", resp.TotalRows)
	}
	if len(resp.SuggestedMappings) == 0 {
		t.Fatal("expected suggested mappings for exact headers")
	}
	// Exact headers seed the mapping, so no required field is missing.
	if resp.Mapping["0"] != "name" || resp.Mapping["1"] != "price" {
		t.Fatalf("unexpected seeded mapping: %v", resp.Mapping)
	}
	if len(resp.MissingFields) != 0 {
		t.Fatalf("expected no missing fields, got %v", resp.MissingFields)
	}
}

func TestValidateImportRejectsNonSpreadsheet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	controller := NewImportController(&fakeImportService{}, nil, NewRequestValidator(), t.TempDir())
	router := gin.New()
	router.POST("/import/validate", controller.ValidateImport)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("file", "image.png")
	fw.Write([]byte("not a spreadsheet"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/import/validate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	var resp struct {
		Step string `json:"step"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Step != models.SessionUpload {
		t.Fatalf("expected step %q, got %q", models.SessionUpload, resp.Step)
	}
}

func TestImportProductsSync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeImportService{
		processFn: func(ctx context.Context, table *models.ParsedTable, mapping map[int]string, actor models.Actor) (*models.ImportSummary, error) {
			return &models.ImportSummary{Success: true, SuccessCount: 1, TotalRows: 1, Message: "Imported 1 of 1 products"}, nil
		},
	}
	controller := NewImportController(fake, nil, NewRequestValidator(), t.TempDir())
	router := gin.New()
	router.POST("/import/products", controller.ImportProducts)

	body, contentType := multipartUpload(t, "Name,Price\nTea,2.50\n", map[string]string{
		"mapping": `{"0":"name","1":"price"}`,
	})
	req := httptest.NewRequest(http.MethodPost, "/import/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Store-ID", "S1")
	req.Header.Set("X-User-ID", "U1")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	if fake.processCalled != 1 {
		t.Fatalf("expected process to be called once, got %d", fake.processCalled)
	}
	if fake.lastMapping[0] != "name" || fake.lastMapping[1] != "price" {
		t.Fatalf("unexpected mapping: %v", fake.lastMapping)
	}
	if fake.lastActor.StoreID != "S1" || fake.lastActor.UserID != "U1" {
		t.Fatalf("unexpected actor: %+v", fake.lastActor)
	}

	var resp struct {
		Result models.ImportSummary `json:"result"`
		Step   string               `json:"step"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Step != models.SessionDone {
		t.Fatalf("expected step %q, got %q", models.SessionDone, resp.Step)
	}
	if !resp.Result.Success || resp.Result.SuccessCount != 1 {
		t.Fatalf("unexpected result: %+v", resp.Result)
	}
}

func TestImportProductsMissingMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	controller := NewImportController(&fakeImportService{}, nil, NewRequestValidator(), t.TempDir())
	router := gin.New()
	router.POST("/import/products", controller.ImportProducts)

	body, contentType := multipartUpload(t, "Name\nTea\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/import/products", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestImportProductsBlockedByMappingError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeImportService{
		validateErr: &importer.MappingError{Missing: []string{"Selling Price"}},
	}
	controller := NewImportController(fake, nil, NewRequestValidator(), t.TempDir())
	router := gin.New()
	router.POST("/import/products", controller.ImportProducts)

	body, contentType := multipartUpload(t, "Name\nTea\n", map[string]string{
		"mapping": `{"0":"name"}`,
	})
	req := httptest.NewRequest(http.MethodPost, "/import/products", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	var resp struct {
		MissingFields []string `json:"missing_fields"`
		Step          string   `json:"step"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.MissingFields) != 1 || resp.MissingFields[0] != "Selling Price" {
		t.Fatalf("unexpected missing fields: %v", resp.MissingFields)
	}
	if resp.Step != models.SessionMapping {
		t.Fatalf("expected step %q, got %q", models.SessionMapping, resp.Step)
	}
	if fake.processCalled != 0 {
		t.Fatal("process must not run when the mapping is incomplete")
	}
}

func TestImportProductsZeroRows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeImportService{
		processFn: func(ctx context.Context, table *models.ParsedTable, mapping map[int]string, actor models.Actor) (*models.ImportSummary, error) {
			return nil, importer.ErrNoDataRows
		},
	}
	controller := NewImportController(fake, nil, NewRequestValidator(), t.TempDir())
	router := gin.New()
	router.POST("/import/products", controller.ImportProducts)

	body, contentType := multipartUpload(t, "Name,Price\n", map[string]string{
		"mapping": `{"0":"name","1":"price"}`,
	})
	req := httptest.NewRequest(http.MethodPost, "/import/products", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, recorder.Code)
	}
}

func TestPreviewImport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeImportService{
		previewRecords: []models.Record{{"name": "Tea", "price": float64(2.5)}},
	}
	controller := NewImportController(fake, nil, NewRequestValidator(), t.TempDir())
	router := gin.New()
	router.POST("/import/preview", controller.PreviewImport)

	body, contentType := multipartUpload(t, "Name,Price\nTea,2.50\n", map[string]string{
		"mapping": `{"0":"name","1":"price"}`,
	})
	req := httptest.NewRequest(http.MethodPost, "/import/preview?limit=1", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}
	var resp struct {
		Records []models.Record `json:"records"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Records) != 1 || resp.Records[0]["name"] != "Tea" {
		t.Fatalf("unexpected preview records: %v", resp.Records)
	}
}
