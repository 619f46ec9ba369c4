// Package writequeue serializes uploads per user.
// Package writequeue 按用户串行化上传
//
// Uploads of one user run one at a time, so the quota check and the catalog
// insert of an upload never interleave with another upload of the same user.
// Different users proceed in parallel.
// 同一用户的上传串行执行，配额检查与文件记录写入不会与该用户的其他上传交错；不同用户互不阻塞
package writequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/fast-file-share-service/pkg/metrics"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 该用户排队的上传数已达上限
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 等待该用户的执行权超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 每用户允许同时排队（含正在执行）的上传数
	QueueCapacity int
	// WriteTimeout 等待执行权的最长时间
	WriteTimeout time.Duration
	// IdleTimeout 用户通道空闲多久后被回收
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueCapacity: 16,
		WriteTimeout:  5 * time.Minute,
		IdleTimeout:   10 * time.Minute,
	}
}

// lane 单个用户的执行通道，slot 容量为 1，持有者独占执行
type lane struct {
	slot     chan struct{}
	waiting  atomic.Int32
	lastUsed atomic.Int64
}

// Manager 管理所有用户的执行通道
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	lanes  map[int64]*lane
	closed bool

	inflight sync.WaitGroup
	done     chan struct{}
	janitor  sync.WaitGroup
}

// New 创建写队列管理器，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config: c,
		logger: logger,
		lanes:  make(map[int64]*lane),
		done:   make(chan struct{}),
	}

	m.janitor.Add(1)
	go m.reapIdle()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))

	return m
}

// Execute runs fn on the caller's goroutine once uid's lane is free.
// Calls for the same uid run in arrival order as far as the Go scheduler
// allows; fn sees ctx unchanged.
// Execute 获得 uid 的执行权后在调用方 goroutine 中执行 fn
func (m *Manager) Execute(ctx context.Context, uid int64, fn func(ctx context.Context) error) error {
	l, err := m.enter(uid)
	if err != nil {
		return err
	}
	defer m.leave(l)

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	case <-m.done:
		return ErrWriteQueueClosed
	}
	defer func() { <-l.slot }()

	return m.runSafe(ctx, uid, fn)
}

// enter 登记一次排队；超过容量时拒绝
func (m *Manager) enter(uid int64) (*lane, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrWriteQueueClosed
	}

	l, ok := m.lanes[uid]
	if !ok {
		l = &lane{slot: make(chan struct{}, 1)}
		m.lanes[uid] = l
		m.logger.Debug("created write lane for user", zap.Int64("uid", uid))
	}

	if int(l.waiting.Add(1)) > m.config.QueueCapacity {
		l.waiting.Add(-1)
		return nil, ErrWriteQueueFull
	}
	l.lastUsed.Store(time.Now().UnixNano())
	m.inflight.Add(1)
	metrics.UploadsWaiting.Inc()
	return l, nil
}

func (m *Manager) leave(l *lane) {
	l.lastUsed.Store(time.Now().UnixNano())
	l.waiting.Add(-1)
	metrics.UploadsWaiting.Dec()
	m.inflight.Done()
}

// runSafe 将 panic 转换为错误，释放执行权的 defer 照常运行
func (m *Manager) runSafe(ctx context.Context, uid int64, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("write operation panic recovered",
				zap.Int64("uid", uid),
				zap.Any("panic", r))
			err = fmt.Errorf("write operation panic: %v", r)
		}
	}()
	return fn(ctx)
}

// reapIdle 定期回收空闲通道
func (m *Manager) reapIdle() {
	defer m.janitor.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.reap(time.Now())
		}
	}
}

func (m *Manager) reap(now time.Time) {
	threshold := now.Add(-m.config.IdleTimeout).UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, l := range m.lanes {
		if l.waiting.Load() == 0 && l.lastUsed.Load() < threshold {
			delete(m.lanes, uid)
		}
	}
}

// Shutdown stops accepting work, fails callers still waiting for a lane and
// waits for running operations until ctx is done.
// Shutdown 停止接收新任务，仍在等待的调用返回 ErrWriteQueueClosed，等待执行中的任务完成
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	finished := make(chan struct{})
	go func() {
		m.inflight.Wait()
		m.janitor.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// QueueCount 当前持有的用户通道数
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}
