package importer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"catalog-import-service/models"
)

// DefaultChunkSize is the number of records submitted concurrently per chunk.
const DefaultChunkSize = 10

// ErrNoDataRows reports an import attempted with zero records. Distinct from
// "every row failed": the caller returns to preview instead of importing.
var ErrNoDataRows = errors.New("no data rows to import")

// SubmitFunc submits one transformed record to the create endpoint.
type SubmitFunc func(ctx context.Context, record models.Record) (*models.Product, error)

// ProgressFunc is invoked after every individual record settles.
type ProgressFunc func(processed, total, progress int)

// Executor drives chunked, concurrent submission of transformed records.
// Chunks run strictly in order; records within a chunk are submitted
// concurrently and a chunk completes only when all its submissions settle, so
// one record's failure never aborts its siblings or later chunks.
type Executor struct {
	ChunkSize int
}

func NewExecutor(chunkSize int) *Executor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Executor{ChunkSize: chunkSize}
}

// Run submits all records and returns the aggregate result. Per-record
// failures are captured as "Row {n}: {message}" with 1-based row attribution
// preserved regardless of completion order; an unexpected chunk-level panic is
// captured as "Batch {k}: Import failed" and the run continues. The returned
// result is always a summary — submission errors are never propagated — and
// Success is true iff at least one record made it. Cancelling ctx stops the
// run between chunks; in-flight submissions still settle.
func (e *Executor) Run(ctx context.Context, records []models.Record, submit SubmitFunc, onProgress ProgressFunc) (*models.ImportResult, error) {
	total := len(records)
	if total == 0 {
		return nil, ErrNoDataRows
	}

	result := &models.ImportResult{TotalRows: total, Errors: []string{}}
	var mu sync.Mutex
	processed := 0

	// settle records one outcome and reports progress. The callback fires
	// under the lock so deliveries are serialized and arrive in settle order;
	// the last one the host sees is always 100.
	settle := func(errMsg string) {
		mu.Lock()
		defer mu.Unlock()
		if errMsg == "" {
			result.SuccessCount++
		} else {
			result.Errors = append(result.Errors, errMsg)
		}
		processed++
		progress := int(math.Round(float64(processed) / float64(total) * 100))
		result.Progress = progress
		if onProgress != nil {
			onProgress(processed, total, progress)
		}
	}

	chunkNumber := 0
	for start := 0; start < total; start += e.ChunkSize {
		chunkNumber++

		select {
		case <-ctx.Done():
			result.ErrorCount = len(result.Errors)
			result.Success = result.SuccessCount > 0
			return result, nil
		default:
		}

		end := start + e.ChunkSize
		if end > total {
			end = total
		}

		if err := e.runChunk(ctx, records[start:end], start, submit, settle); err != nil {
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Sprintf("Batch %d: Import failed", chunkNumber))
			mu.Unlock()
		}
	}

	result.ErrorCount = len(result.Errors)
	result.Success = result.SuccessCount > 0
	return result, nil
}

// runChunk fans a chunk out concurrently and joins on all submissions
// settling. A panic escaping the fan-out is recovered and surfaced as a
// chunk-level error so the run can continue with the next chunk.
func (e *Executor) runChunk(ctx context.Context, chunk []models.Record, chunkStart int, submit SubmitFunc, settle func(errMsg string)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chunk panic: %v", r)
		}
	}()

	var wg sync.WaitGroup
	for i, record := range chunk {
		wg.Add(1)
		go func(globalIndex int, record models.Record) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					settle(fmt.Sprintf("Row %d: unexpected error: %v", globalIndex+1, r))
				}
			}()
			if _, err := submit(ctx, record); err != nil {
				settle(fmt.Sprintf("Row %d: %s", globalIndex+1, err.Error()))
				return
			}
			settle("")
		}(chunkStart+i, record)
	}
	wg.Wait()
	return nil
}
