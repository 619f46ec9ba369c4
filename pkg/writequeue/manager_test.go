package writequeue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SerializesPerUser(t *testing.T) {
	m := New(&Config{QueueCapacity: 32}, nil)
	defer m.Shutdown(context.Background())

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Execute(context.Background(), 7, func(ctx context.Context) error {
				n := inFlight.Add(1)
				for {
					cur := maxInFlight.Load()
					if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Equal(t, 1, m.QueueCount())
}

func TestManager_PassesContextAndError(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	err := m.Execute(ctx, 1, func(ctx context.Context) error {
		if ctx.Value(key{}) != "v" {
			t.Error("context value not propagated")
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestManager_PanicRecovered(t *testing.T) {
	m := New(nil, nil)
	defer m.Shutdown(context.Background())

	err := m.Execute(context.Background(), 2, func(ctx context.Context) error {
		panic("oops")
	})
	require.Error(t, err)

	// 同一用户的队列仍可继续使用
	err = m.Execute(context.Background(), 2, func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestManager_Closed(t *testing.T) {
	m := New(nil, nil)
	require.NoError(t, m.Shutdown(context.Background()))

	err := m.Execute(context.Background(), 3, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueClosed)
}

// holdLane 占住 uid 的执行权，返回释放函数
func holdLane(t *testing.T, m *Manager, uid int64) func() {
	t.Helper()
	hold := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = m.Execute(context.Background(), uid, func(ctx context.Context) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started
	return func() { close(hold) }
}

func TestManager_Full(t *testing.T) {
	m := New(&Config{QueueCapacity: 1}, nil)
	defer m.Shutdown(context.Background())

	release := holdLane(t, m, 9)
	defer release()

	err := m.Execute(context.Background(), 9, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueFull)

	// 其他用户不受影响
	assert.NoError(t, m.Execute(context.Background(), 10, func(ctx context.Context) error { return nil }))
}

func TestManager_Timeout(t *testing.T) {
	m := New(&Config{QueueCapacity: 2, WriteTimeout: 30 * time.Millisecond}, nil)
	defer m.Shutdown(context.Background())

	release := holdLane(t, m, 9)
	defer release()

	err := m.Execute(context.Background(), 9, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWriteTimeout)
}

func TestManager_ReapIdle(t *testing.T) {
	m := New(&Config{IdleTimeout: time.Hour}, nil)
	defer m.Shutdown(context.Background())

	require.NoError(t, m.Execute(context.Background(), 1, func(ctx context.Context) error { return nil }))
	assert.Equal(t, 1, m.QueueCount())

	m.reap(time.Now())
	assert.Equal(t, 1, m.QueueCount())

	m.reap(time.Now().Add(2 * time.Hour))
	assert.Zero(t, m.QueueCount())
}
