package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-file-share-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitAsyncRuns(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		require.NoError(t, p.SubmitAsync(context.Background(), "count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}))
	}

	// Shutdown 会等待队列中的任务执行完
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(3), ran.Load())
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.BackgroundJobs.WithLabelValues("count", "ok")))
}

func TestPool_FailureAndPanicAreContained(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 4}, nil)

	require.NoError(t, p.SubmitAsync(context.Background(), "panics", func(ctx context.Context) error {
		panic("bad job")
	}))
	require.NoError(t, p.SubmitAsync(context.Background(), "fails", func(ctx context.Context) error {
		return errors.New("boom")
	}))

	// 唯一的 worker 仍然可用
	var ran atomic.Bool
	require.NoError(t, p.SubmitAsync(context.Background(), "after", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}))

	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, ran.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BackgroundJobs.WithLabelValues("panics", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BackgroundJobs.WithLabelValues("fails", "failed")))
}

func TestPool_Closed(t *testing.T) {
	p := New(nil, nil)
	require.NoError(t, p.Shutdown(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))

	err := p.SubmitAsync(context.Background(), "late", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
}

func TestPool_QueueFull(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.SubmitAsync(context.Background(), "block", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started

	// worker 被占用，队列容量为 1
	require.NoError(t, p.SubmitAsync(context.Background(), "queued", func(ctx context.Context) error { return nil }))
	err := p.SubmitAsync(context.Background(), "overflow", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, p.Shutdown(ctx))
}

func TestPool_ShutdownTimeoutCancelsRunningJobs(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	started := make(chan struct{})
	cancelled := make(chan struct{})

	require.NoError(t, p.SubmitAsync(context.Background(), "slow", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running job was not cancelled")
	}
}
