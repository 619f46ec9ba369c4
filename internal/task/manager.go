package task

import (
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Options 任务依赖
type Options struct {
	TempDir       string
	TempRetention time.Duration
	StatsSchedule string
	BlobRepo      domain.BlobRepository
	FileRepo      domain.FileRepository
}

// Manager 任务管理器，负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	opts      Options
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, opts Options) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc),
		logger:    logger,
		opts:      opts,
	}
}

// RegisterTasks 注册所有任务
func (m *Manager) RegisterTasks() error {
	tasks := []Task{
		NewTempCleanupTask(m.opts.TempDir, m.opts.TempRetention, m.logger),
	}
	if m.opts.BlobRepo != nil && m.opts.FileRepo != nil {
		tasks = append(tasks, NewStorageStatsTask(m.opts.BlobRepo, m.opts.FileRepo, m.opts.StatsSchedule))
	}

	for _, t := range tasks {
		if err := m.scheduler.AddTask(t); err != nil {
			m.logger.Warn("failed to register task", zap.String("name", t.Name()), zap.Error(err))
			return err
		}
	}
	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
