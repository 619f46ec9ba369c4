// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/dao"
	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/service"
	pkgapp "github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/mailer"
	"github.com/haierkeys/fast-file-share-service/pkg/storage"
	"github.com/haierkeys/fast-file-share-service/pkg/workerpool"
	"github.com/haierkeys/fast-file-share-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao
	Store  storage.Storager
	Mailer mailer.Sender

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	UserRepo  domain.UserRepository
	BlobRepo  domain.BlobRepository
	FileRepo  domain.FileRepository
	ShareRepo domain.ShareRepository

	// Service 层
	Dedup        *service.DedupIndex
	Quota        *service.QuotaLedger
	UserService  service.UserService
	FileService  service.FileService
	ShareService service.ShareService

	TokenManager pkgapp.TokenManager

	StartTime time.Time

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// Option 覆盖容器中的依赖，测试中用来替换邮件发送器与存储
type Option func(*App)

// WithStore 使用给定的存储
func WithStore(s storage.Storager) Option {
	return func(a *App) { a.Store = s }
}

// WithMailer 使用给定的邮件发送器
func WithMailer(m mailer.Sender) Option {
	return func(a *App) { a.Mailer = m }
}

// NewApp 创建应用容器实例
// cfg、logger、db 均为必须
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Store == nil {
		store, err := storage.NewClient(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		a.Store = store
	}
	if a.Mailer == nil {
		a.Mailer = mailer.New(cfg.Mail, logger)
	}

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	dbConfig := cfg.GetDatabaseConfig()
	a.Dao = dao.New(db, dao.WithConfig(&dbConfig), dao.WithLogger(logger))

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey:     cfg.Security.AuthTokenKey,
		Expiry:        cfg.GetTokenExpiry(),
		RefreshExpiry: cfg.GetRefreshTokenExpiry(),
	})

	a.UserRepo = dao.NewUserRepository(a.Dao)
	a.BlobRepo = dao.NewBlobRepository(a.Dao)
	a.FileRepo = dao.NewFileRepository(a.Dao)
	a.ShareRepo = dao.NewShareRepository(a.Dao)

	svcConfig := cfg.GetServiceConfig()

	a.Dedup = service.NewDedupIndex(a.BlobRepo, a.Store, logger)
	a.Quota = service.NewQuotaLedger(a.FileRepo, svcConfig.Quota.QuotaBytes)
	notifier := service.NewMailNotifier(a.Mailer, a.workerPool, logger, svcConfig.Share.MailTimeout)

	a.UserService = service.NewUserService(a.UserRepo, a.TokenManager, logger, svcConfig)
	a.FileService = service.NewFileService(a.FileRepo, a.Dao, a.Dedup, a.Quota, a.writeQueueMgr, logger, svcConfig)
	a.ShareService = service.NewShareService(a.ShareRepo, a.FileRepo, a.Dedup, notifier, logger, svcConfig)

	logger.Info("App container initialized successfully",
		zap.String("storage", cfg.Storage.Type),
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Name:      Name,
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// Ping 检查数据库连接
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// storageHealthKey 健康检查查询的键，不要求存在
const storageHealthKey = ".health-check"

// PingStorage reports whether the blob store answers a metadata lookup.
// PingStorage 检查存储是否可访问
func (a *App) PingStorage(ctx context.Context) error {
	_, err := a.Store.Exists(ctx, storageHealthKey)
	return err
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Write Queue Manager -> Worker Pool -> Database
// 写队列先关，排空的上传可能还会投递通知邮件
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	a.shutdownOnce.Do(func() {
		close(a.shutdownCh)
		a.logger.Info("App container shutting down...")

		if ctx == nil {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
			defer cancel()
		}

		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		}

		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}

		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close database: %w", err))
			} else {
				a.logger.Info("Database connection closed")
			}
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}
	a.logger.Info("App container shutdown completed")
	return nil
}

// ShutdownCh 返回关闭信号通道
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}
