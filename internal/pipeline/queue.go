package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/metrics"
)

// JobKind identifies the downstream continuation a queue job performs.
type JobKind string

const (
	JobReportAssembly JobKind = "report_assembly"
	JobKPIIngestion   JobKind = "kpi_ingestion"
)

// Job is one durable downstream work item. Jobs survive a process crash
// because they live on a redis list, not in a goroutine.
type Job struct {
	Kind         JobKind `json:"kind"`
	SubmissionID string  `json:"submissionId"`
	Attempts     int     `json:"attempts"`
}

// JobHandler executes one job kind. Handlers must be idempotent: a job
// can be delivered again after a crash or a failed attempt.
type JobHandler func(ctx context.Context, job Job) error

// Queue is the redis-list backed downstream work queue.
type Queue struct {
	client     *redis.Client
	name       string
	maxRetries int
	handlers   map[JobKind]JobHandler
	logger     logger.Logger
}

func NewQueue(client *redis.Client, name string, maxRetries int, log logger.Logger) *Queue {
	return &Queue{
		client:     client,
		name:       name,
		maxRetries: maxRetries,
		handlers:   make(map[JobKind]JobHandler),
		logger:     log.WithFields(map[string]interface{}{"component": "queue", "queue": name}),
	}
}

// Register binds a handler to a job kind. Not safe to call after Work
// has started.
func (q *Queue) Register(kind JobKind, handler JobHandler) {
	q.handlers[kind] = handler
}

// Enqueue appends a job to the queue.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.name, encoded).Err(); err != nil {
		return fmt.Errorf("enqueue %s job for %s: %w", job.Kind, job.SubmissionID, err)
	}
	q.logger.Info("job enqueued", map[string]interface{}{
		"kind":         job.Kind,
		"submissionId": job.SubmissionID,
	})
	return nil
}

// Work consumes jobs until the context is cancelled. Each failed job is
// re-enqueued with its attempt count bumped until the retry budget runs
// out; a job over budget is dropped with an error log.
func (q *Queue) Work(ctx context.Context) {
	q.logger.Info("queue worker started", nil)
	for {
		if ctx.Err() != nil {
			q.logger.Info("queue worker stopped", nil)
			return
		}
		if err := q.processOne(ctx); err != nil && ctx.Err() == nil {
			q.logger.Error("queue poll failed", map[string]interface{}{"error": err.Error()})
			time.Sleep(time.Second)
		}
	}
}

// processOne blocks for one job and runs it. A timeout with no job is
// not an error.
func (q *Queue) processOne(ctx context.Context) error {
	result, err := q.client.BRPop(ctx, 2*time.Second, q.name).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		metrics.QueueJobsProcessed.WithLabelValues("unknown", "malformed").Inc()
		q.logger.Error("dropping malformed job", map[string]interface{}{"payload": result[1]})
		return nil
	}

	q.dispatch(ctx, job)
	return nil
}

func (q *Queue) dispatch(ctx context.Context, job Job) {
	handler, ok := q.handlers[job.Kind]
	if !ok {
		metrics.QueueJobsProcessed.WithLabelValues(string(job.Kind), "unhandled").Inc()
		q.logger.Error("no handler for job kind", map[string]interface{}{"kind": job.Kind})
		return
	}

	if err := handler(ctx, job); err != nil {
		q.retryOrDrop(ctx, job, err)
		return
	}

	metrics.QueueJobsProcessed.WithLabelValues(string(job.Kind), "completed").Inc()
	q.logger.Info("job completed", map[string]interface{}{
		"kind":         job.Kind,
		"submissionId": job.SubmissionID,
		"attempts":     job.Attempts,
	})
}

func (q *Queue) retryOrDrop(ctx context.Context, job Job, cause error) {
	job.Attempts++

	// Re-delivering a job that failed on a non-retryable code would burn
	// the whole budget on the same outcome. Plain errors stay retryable.
	var pe *errors.PipelineError
	if stderrors.As(cause, &pe) && !errors.IsRetryableErrorCode(pe.Code) {
		metrics.QueueJobsProcessed.WithLabelValues(string(job.Kind), "rejected").Inc()
		q.logger.Error("job failed on a non-retryable error, dropping", map[string]interface{}{
			"kind":         job.Kind,
			"submissionId": job.SubmissionID,
			"code":         pe.Code,
			"error":        cause.Error(),
		})
		return
	}

	if job.Attempts > q.maxRetries {
		metrics.QueueJobsProcessed.WithLabelValues(string(job.Kind), "exhausted").Inc()
		q.logger.Error("job retry budget exhausted", map[string]interface{}{
			"kind":         job.Kind,
			"submissionId": job.SubmissionID,
			"attempts":     job.Attempts,
			"error":        cause.Error(),
		})
		return
	}

	metrics.QueueJobsProcessed.WithLabelValues(string(job.Kind), "retried").Inc()
	q.logger.Warn("job failed, re-enqueueing", map[string]interface{}{
		"kind":         job.Kind,
		"submissionId": job.SubmissionID,
		"attempts":     job.Attempts,
		"error":        cause.Error(),
	})
	if err := q.Enqueue(ctx, job); err != nil {
		q.logger.Error("re-enqueue failed, job lost", map[string]interface{}{
			"kind":         job.Kind,
			"submissionId": job.SubmissionID,
			"error":        err.Error(),
		})
	}
}
