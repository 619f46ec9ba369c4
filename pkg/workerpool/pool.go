// Package workerpool runs fire-and-forget background jobs, such as share
// notification mail, on a fixed set of workers with a bounded backlog.
// Package workerpool 以固定数量的 worker 执行后台任务（例如分享通知邮件），积压队列有上限
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/haierkeys/fast-file-share-service/pkg/metrics"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 积压队列已满
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 已关闭，不再接收任务
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
)

// Config Worker Pool 配置
type Config struct {
	// MaxWorkers 并发 worker 数量
	MaxWorkers int
	// QueueSize 积压队列大小
	QueueSize int
}

func DefaultConfig() Config {
	return Config{MaxWorkers: 16, QueueSize: 256}
}

type job struct {
	name string
	ctx  context.Context
	fn   func(context.Context) error
}

// Pool 后台任务池
type Pool struct {
	logger *zap.Logger

	jobs    chan job
	workers sync.WaitGroup

	// abort 在关闭超时后取消仍在执行的任务
	abort  context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// New 创建 Worker Pool，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	abort, cancel := context.WithCancel(context.Background())
	p := &Pool{
		logger: logger,
		jobs:   make(chan job, c.QueueSize),
		abort:  abort,
		cancel: cancel,
	}

	for i := 0; i < c.MaxWorkers; i++ {
		p.workers.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))

	return p
}

// worker 消费任务直到通道关闭
func (p *Pool) worker() {
	defer p.workers.Done()
	for j := range p.jobs {
		metrics.BackgroundQueued.Dec()
		p.run(j)
	}
}

func (p *Pool) run(j job) {
	ctx, stop := context.WithCancel(j.ctx)
	defer stop()
	go func() {
		select {
		case <-p.abort.Done():
			stop()
		case <-ctx.Done():
		}
	}()

	if err := p.runSafe(ctx, j); err != nil {
		metrics.BackgroundJobs.WithLabelValues(j.name, "failed").Inc()
		p.logger.Warn("background job failed",
			zap.String("job", j.name),
			zap.Error(err))
		return
	}
	metrics.BackgroundJobs.WithLabelValues(j.name, "ok").Inc()
}

// runSafe 将 panic 转换为错误，worker 继续运行
func (p *Pool) runSafe(ctx context.Context, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("background job panic recovered",
				zap.String("job", j.name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("job %q panic: %v", j.name, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return j.fn(ctx)
}

// SubmitAsync queues fn without waiting for it. It fails only when the
// backlog is full or the pool is closed; fn's own error is logged and counted.
// SubmitAsync 投递任务后立即返回，仅在队列满或已关闭时报错；任务本身的错误只记录日志与指标
func (p *Pool) SubmitAsync(ctx context.Context, name string, fn func(context.Context) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}

	select {
	case p.jobs <- job{name: name, ctx: ctx, fn: fn}:
		metrics.BackgroundQueued.Inc()
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Shutdown stops intake and lets queued jobs finish. When ctx ends first,
// running jobs see their context cancelled.
// Shutdown 停止接收任务并等待积压执行完；ctx 先结束时取消执行中的任务
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.logger.Info("worker pool shutting down", zap.Int("queued", len(p.jobs)))

	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn("worker pool shutdown timeout, cancelling running jobs")
		return ctx.Err()
	}
}
