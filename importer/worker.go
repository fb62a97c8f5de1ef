package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"catalog-import-service/models"
	"catalog-import-service/parser"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	jobKeyPrefix = "import:job:"
	jobQueueKey  = "import:queue"
	jobTTL       = 24 * time.Hour
)

// JobStore persists async import jobs in Redis: metadata under a per-job key
// and pending job IDs on a list consumed by the worker.
type JobStore struct {
	redis *redis.Client
}

func NewJobStore(rdb *redis.Client) *JobStore {
	return &JobStore{redis: rdb}
}

func jobKey(id string) string {
	return jobKeyPrefix + id
}

// Enqueue stores the job metadata and pushes its ID onto the queue.
func (js *JobStore) Enqueue(ctx context.Context, job *models.ImportJob) error {
	if err := js.Save(ctx, job); err != nil {
		return err
	}
	if err := js.redis.RPush(ctx, jobQueueKey, job.ID).Err(); err != nil {
		js.redis.Del(ctx, jobKey(job.ID))
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// Save writes the job metadata with the standard TTL.
func (js *JobStore) Save(ctx context.Context, job *models.ImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := js.redis.Set(ctx, jobKey(job.ID), data, jobTTL).Err(); err != nil {
		return fmt.Errorf("failed to store job metadata: %w", err)
	}
	return nil
}

// Get returns the job metadata, or (nil, nil) when the job is unknown.
func (js *JobStore) Get(ctx context.Context, id string) (*models.ImportJob, error) {
	val, err := js.redis.Get(ctx, jobKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var job models.ImportJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return nil, fmt.Errorf("failed to parse job metadata: %w", err)
	}
	return &job, nil
}

// StartWorker starts a background goroutine that consumes queued import jobs
// and runs the full pipeline over their persisted files. Each job moves
// pending → processing → done/failed; the uploaded file is removed once the
// job settles.
func StartWorker(ctx context.Context, store *JobStore, svc *Service) {
	if store == nil || store.redis == nil || svc == nil {
		zap.L().Warn("import worker not started: missing dependencies")
		return
	}

	go func() {
		zap.L().Info("import worker started", zap.String("queue", jobQueueKey))
		for {
			select {
			case <-ctx.Done():
				zap.L().Info("import worker stopping")
				return
			default:
			}

			res, err := store.redis.BLPop(ctx, 0, jobQueueKey).Result()
			if err != nil {
				if err == context.Canceled || err == context.DeadlineExceeded || ctx.Err() != nil {
					return
				}
				zap.L().Error("redis BLPop failed", zap.Error(err))
				time.Sleep(500 * time.Millisecond)
				continue
			}
			if len(res) < 2 {
				continue
			}
			processJob(ctx, store, svc, res[1])
		}
	}()
}

func processJob(ctx context.Context, store *JobStore, svc *Service, jobID string) {
	job, err := store.Get(ctx, jobID)
	if err != nil || job == nil {
		zap.L().Error("failed to load queued job", zap.String("job", jobID), zap.Error(err))
		return
	}

	job.Status = models.JobStatusProcessing
	if err := store.Save(ctx, job); err != nil {
		zap.L().Error("failed to mark job processing", zap.String("job", jobID), zap.Error(err))
	}

	summary, err := runJob(ctx, store, svc, job)
	if err != nil {
		job.Status = models.JobStatusFailed
		job.Error = err.Error()
		zap.L().Error("import job failed", zap.String("job", jobID), zap.Error(err))
	} else {
		job.Status = models.JobStatusDone
		job.Result = summary
		zap.L().Info("import job finished",
			zap.String("job", jobID),
			zap.Int("succeeded", summary.SuccessCount),
			zap.Int("failed", summary.ErrorCount),
		)
	}
	if err := store.Save(ctx, job); err != nil {
		zap.L().Error("failed to store job result", zap.String("job", jobID), zap.Error(err))
	}
	_ = os.Remove(job.FilePath)
}

func runJob(ctx context.Context, store *JobStore, svc *Service, job *models.ImportJob) (*models.ImportSummary, error) {
	f, err := os.Open(filepath.Clean(job.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open job file: %w", err)
	}
	defer f.Close()

	table, _, err := parser.Parse(f, job.Filename, svc.Catalog())
	if err != nil {
		return nil, err
	}

	onProgress := progressRecorder(job, func() error {
		return store.Save(ctx, job)
	})
	return svc.ProcessImport(ctx, table, job.Mapping, job.Actor, onProgress)
}

// progressRecorder mirrors run progress onto the job record so polling the job
// shows live counts. Saves only fire when the integer percentage moves; the
// settle that completes a percentage point carries the counts with it.
func progressRecorder(job *models.ImportJob, save func() error) ProgressFunc {
	return func(processed, total, progress int) {
		job.Processed = processed
		job.Total = total
		if progress == job.Progress {
			return
		}
		job.Progress = progress
		if err := save(); err != nil {
			zap.L().Warn("failed to persist job progress",
				zap.String("job", job.ID), zap.Error(err))
		}
	}
}
