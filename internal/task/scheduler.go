package task

import (
	"context"

	"github.com/haierkeys/fast-file-share-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Schedule() string              // cron 表达式，为空表示只在启动时执行
	IsStartupRun() bool            // 是否立即执行一次
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	cron   *cron.Cron
}

// cronLogger 把 cron 的日志接到 zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

// NewScheduler 创建任务调度器
// 同一任务上一次未结束时跳过本次，panic 由 cron 恢复并记录
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	cl := cronLogger{l: logger.Sugar()}
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) error {
	if spec := task.Schedule(); spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.run(task, false) }); err != nil {
			return err
		}
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// Start 启动调度器，收到关闭信号后等待正在执行的任务结束
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}
	s.logger.Info("tasks starting", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		if task.IsStartupRun() {
			go s.run(task, true)
		}
	}

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		s.cron.Start()
		<-closeSignal
		<-s.cron.Stop().Done()
		s.logger.Info("task scheduler stopped")
	})
}

func (s *Scheduler) run(task Task, startup bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String("name", task.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	s.logger.Debug("task running", zap.String("name", task.Name()), zap.Bool("startupRun", startup))
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.Bool("startupRun", startup),
			zap.Error(err))
	}
}
