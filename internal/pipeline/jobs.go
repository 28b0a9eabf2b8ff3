package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/firewatch/burn-data-service/internal/observability"
)

// JobStatus is the lifecycle state of a background ingestion job.
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is a point-in-time snapshot of one background ingestion. The raw-body
// upload path returns success before ingestion runs; the job record is the
// observable trail, so a failed batch is not silently lost.
type Job struct {
	ID          string     `json:"id"`
	Dataset     string     `json:"dataset"`
	Status      JobStatus  `json:"status"`
	SubmittedAt time.Time  `json:"submittedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Result      Result     `json:"result"`
	Error       string     `json:"error,omitempty"`
}

// Runner schedules fire-and-forget ingestion batches and tracks their
// outcomes. Submitted jobs run to completion; there is no cancellation.
type Runner struct {
	logger  *slog.Logger
	metrics *observability.Metrics

	mu   sync.RWMutex
	jobs map[string]*Job
	wg   sync.WaitGroup
}

// NewRunner creates an empty job runner.
func NewRunner(logger *slog.Logger, metrics *observability.Metrics) *Runner {
	return &Runner{
		logger:  logger,
		metrics: metrics,
		jobs:    make(map[string]*Job),
	}
}

// Submit schedules fn on a background goroutine and returns the job snapshot
// immediately. The job runs detached from the caller's request context.
func (r *Runner) Submit(dataset string, fn func(ctx context.Context) (Result, error)) Job {
	job := &Job{
		ID:          uuid.NewString(),
		Dataset:     dataset,
		Status:      JobRunning,
		SubmittedAt: clock.Now(),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	submitted := *job

	r.metrics.JobsRunning.Inc()
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer r.metrics.JobsRunning.Dec()

		result, err := fn(context.Background())
		done := clock.Now()

		r.mu.Lock()
		job.CompletedAt = &done
		job.Result = result
		if err != nil {
			job.Status = JobFailed
			job.Error = err.Error()
		} else {
			job.Status = JobSucceeded
		}
		snapshot := *job
		r.mu.Unlock()

		if err != nil {
			r.logger.Error("background ingestion failed", "job_id", snapshot.ID, "dataset", dataset, "error", err)
			return
		}
		r.logger.Info("background ingestion complete",
			"job_id", snapshot.ID,
			"dataset", dataset,
			"persisted", result.Persisted,
			"skipped", result.Skipped,
		)
	}()

	return submitted
}

// Job returns a snapshot of one job by ID.
func (r *Runner) Job(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Jobs returns snapshots of all known jobs, newest first.
func (r *Runner) Jobs() []Job {
	r.mu.RLock()
	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

// Wait blocks until every submitted job has finished. Used during shutdown
// so in-flight batches run to completion.
func (r *Runner) Wait() {
	r.wg.Wait()
}
