// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/model"
	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string   // sqlite / mysql / postgres
	Path            string   // sqlite 文件路径
	UserName        string
	Password        string
	Host            string // host:port
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	Replicas        []string // 只读副本 DSN，sqlite 为文件路径
	RunMode         string
}

type Dao struct {
	Db     *gorm.DB
	config *DatabaseConfig
	logger *zap.Logger
}

// Option 配置 Dao
type Option func(*Dao)

func WithConfig(cfg *DatabaseConfig) Option {
	return func(d *Dao) { d.config = cfg }
}

func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) { d.logger = lg }
}

func New(db *gorm.DB, opts ...Option) *Dao {
	d := &Dao{Db: db, config: &DatabaseConfig{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AutoMigrate 迁移全部数据表
func (d *Dao) AutoMigrate() error {
	if err := model.AutoMigrateAll(d.Db); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	d.logger.Info("database migrated", zap.Strings("tables", model.Tables))
	return nil
}

type txKey struct{}

// Transaction runs fn in a transaction carried by ctx; a nested call opens a savepoint
// Transaction 在 ctx 携带的事务中执行 fn，嵌套调用使用保存点
func (d *Dao) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.db(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// db 返回绑定 ctx 的连接，ctx 中有事务时使用事务
func (d *Dao) db(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return d.Db.WithContext(ctx)
}

func inTx(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	return ok && tx != nil
}

// translate 将 gorm 错误映射为领域错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.WithStack(domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.Wrap(domain.ErrConflict, err.Error())
	}
	return errors.WithStack(err)
}

// 驱动未实现错误翻译时按消息识别唯一约束冲突
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// NewDBEngineWithConfig 创建数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(c, "")
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if c.RunMode == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`User` 的表名应该是 `t_user`
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(parseDurationOr(c.ConnMaxLifetime, 10*time.Minute))
	sqlDB.SetConnMaxIdleTime(parseDurationOr(c.ConnMaxIdleTime, 5*time.Minute))

	if len(c.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, dsn := range c.Replicas {
			r, err := dialectorFor(c, dsn)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, r)
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, errors.Wrap(err, "register replicas")
		}
		lg.Info("database replicas registered", zap.Int("count", len(replicas)))
	}

	_ = db.Use(&gormTracing.OpentracingPlugin{})

	return db, nil
}

// dialectorFor 根据配置生成方言，dsn 非空时直接使用（只读副本）
func dialectorFor(c DatabaseConfig, dsn string) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		if dsn == "" {
			charset := c.Charset
			if charset == "" {
				charset = "utf8mb4"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
				c.UserName, c.Password, c.Host, c.Name, charset, c.ParseTime)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		if dsn == "" {
			host, port, err := net.SplitHostPort(c.Host)
			if err != nil {
				host, port = c.Host, "5432"
			}
			sslMode := c.SSLMode
			if sslMode == "" {
				sslMode = "disable"
			}
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
				host, port, c.UserName, c.Password, c.Name, sslMode)
		}
		return postgres.Open(dsn), nil
	case "sqlite", "":
		path := c.Path
		if dsn != "" {
			path = dsn
		}
		if path == "" {
			return nil, errors.New("database: sqlite path is empty")
		}
		if path != ":memory:" && !fileurl.IsExist(filepath.Dir(path)) {
			if err := fileurl.CreatePath(path); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(sqliteDSN(path)), nil
	}
	return nil, errors.Errorf("database: unsupported type %q", c.Type)
}

// sqliteDSN 写事务立即加锁，配合 busy_timeout 让并发写排队而不是死锁
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate"
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
