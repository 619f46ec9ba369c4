// Package safe_close coordinates graceful shutdown of long-running goroutines
// safe_close 协调长时间运行的 goroutine 的优雅关闭
package safe_close

import (
	"sync"
)

// SafeClose 关闭信号广播器
// Attach 注册的处理函数在收到关闭信号后自行清理，并调用 done 表示完成
type SafeClose struct {
	mu        sync.Mutex
	wg        sync.WaitGroup
	signal    chan struct{}
	closed    bool
	closeErr  error
	closeOnce sync.Once
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		signal: make(chan struct{}),
	}
}

// Attach 在新的 goroutine 中运行 fn
// fn 必须在退出前调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() { once.Do(s.wg.Done) }
	go fn(done, s.signal)
}

// SendCloseSignal 广播关闭信号，只有第一次调用生效
// err 为触发关闭的原因，可为 nil
func (s *SafeClose) SendCloseSignal(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.closeErr = err
		s.mu.Unlock()
		close(s.signal)
	})
}

// IsClosed 是否已经发送关闭信号
func (s *SafeClose) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// WaitClosed 等待所有已注册的处理函数完成，返回触发关闭的错误
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}
