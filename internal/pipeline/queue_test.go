package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
)

func newTestQueue(t *testing.T, maxRetries int) (*Queue, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewQueue(client, "test:downstream", maxRetries, logger.NewNoOpLogger()), client
}

func TestQueueDispatchesJob(t *testing.T) {
	q, _ := newTestQueue(t, 3)

	var mu sync.Mutex
	var handled []Job
	q.Register(JobReportAssembly, func(ctx context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, job)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Kind: JobReportAssembly, SubmissionID: "sub-1"}))
	require.NoError(t, q.processOne(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, handled, 1)
	assert.Equal(t, "sub-1", handled[0].SubmissionID)
}

func TestQueueRetriesFailedJob(t *testing.T) {
	q, _ := newTestQueue(t, 3)

	attempts := 0
	q.Register(JobKPIIngestion, func(ctx context.Context, job Job) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Kind: JobKPIIngestion, SubmissionID: "sub-1"}))
	for i := 0; i < 3; i++ {
		require.NoError(t, q.processOne(ctx))
	}

	assert.Equal(t, 3, attempts)
}

func TestQueueDropsJobOverBudget(t *testing.T) {
	q, client := newTestQueue(t, 1)

	attempts := 0
	q.Register(JobKPIIngestion, func(ctx context.Context, job Job) error {
		attempts++
		return errors.New("always fails")
	})

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Kind: JobKPIIngestion, SubmissionID: "sub-1"}))
	// initial attempt plus one retry, then the job is dropped
	require.NoError(t, q.processOne(ctx))
	require.NoError(t, q.processOne(ctx))

	assert.Equal(t, 2, attempts)
	length, err := client.LLen(ctx, "test:downstream").Result()
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestQueueDropsNonRetryableFailureImmediately(t *testing.T) {
	q, client := newTestQueue(t, 3)

	attempts := 0
	q.Register(JobReportAssembly, func(ctx context.Context, job Job) error {
		attempts++
		return pipeerrors.NewAnalysisParseError(errors.New("document rejected"))
	})

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Kind: JobReportAssembly, SubmissionID: "sub-1"}))
	require.NoError(t, q.processOne(ctx))

	// dropped on the first failure, nothing re-enqueued
	assert.Equal(t, 1, attempts)
	length, err := client.LLen(ctx, "test:downstream").Result()
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestQueueDropsMalformedPayload(t *testing.T) {
	q, client := newTestQueue(t, 3)

	ctx := context.Background()
	require.NoError(t, client.LPush(ctx, "test:downstream", "not json").Err())
	require.NoError(t, q.processOne(ctx))

	length, err := client.LLen(ctx, "test:downstream").Result()
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestQueueWorkStopsOnCancel(t *testing.T) {
	q, _ := newTestQueue(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		q.Work(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
