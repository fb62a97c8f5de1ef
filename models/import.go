package models

import "time"

// Record is a fully-populated product record produced by the row transformer.
// Every record leaving the transformer has all required fields present and
// non-nil; the rest of the pipeline depends on that.
type Record map[string]interface{}

// Actor identifies who is running an import; its values are stamped onto every
// transformed record and never taken from spreadsheet data.
type Actor struct {
	StoreID string `json:"store_id"`
	UserID  string `json:"user_id"`
}

// Sentinels used when no actor context is supplied.
const (
	DefaultStoreID = "default-store"
	DefaultUserID  = "default-user"
)

// ImportResult accumulates the outcome of a whole import run.
type ImportResult struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	TotalRows    int      `json:"total_rows"`
	Progress     int      `json:"progress"`
	Errors       []string `json:"errors"`
	// Success is the user-visible verdict: true iff at least one record made it.
	Success bool `json:"success"`
}

// ImportSummary is the HTTP-facing view of an ImportResult with the error list
// capped for display.
type ImportSummary struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	TotalRows    int      `json:"total_rows"`
	Success      bool     `json:"success"`
	Errors       []string `json:"errors"`
	MoreErrors   int      `json:"more_errors,omitempty"`
	Message      string   `json:"message"`
}

// Import session states. The pipeline drives upload → mapping → preview →
// importing; zero data rows and orchestration failures both return to preview.
const (
	SessionUpload    = "upload"
	SessionMapping   = "mapping"
	SessionPreview   = "preview"
	SessionImporting = "importing"
	SessionDone      = "done"
)

// Job status constants for async imports.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
	JobStatusFailed     = "failed"
)

// ImportJob tracks an async import queued for background processing.
// Processed/Total/Progress mirror the run while it is underway so polling the
// job shows live progress, not just the status transitions.
type ImportJob struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	FilePath  string         `json:"file_path"`
	Filename  string         `json:"filename"`
	Mapping   map[int]string `json:"mapping"`
	Actor     Actor          `json:"actor"`
	Processed int            `json:"processed"`
	Total     int            `json:"total"`
	Progress  int            `json:"progress"`
	Error     string         `json:"error,omitempty"`
	Result    *ImportSummary `json:"result,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
