// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/dao"
	"github.com/haierkeys/fast-file-share-service/internal/service"
	"github.com/haierkeys/fast-file-share-service/pkg/mailer"
	"github.com/haierkeys/fast-file-share-service/pkg/storage"
	"github.com/haierkeys/fast-file-share-service/pkg/util"
	"github.com/haierkeys/fast-file-share-service/pkg/workerpool"
	"github.com/haierkeys/fast-file-share-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	App      AppSettings    `yaml:"app"`
	Storage  storage.Config `yaml:"storage"`
	Quota    QuotaConfig    `yaml:"quota"`
	Share    ShareConfig    `yaml:"share"`
	Mail     mailer.Config  `yaml:"mail"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"300"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"300"`
	// PrivateHttpListen 私有 HTTP 监听地址，为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
	// CorsOrigins 允许的跨域来源，为空时允许任意来源
	CorsOrigins []string `yaml:"cors-origins"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"fast-file-share-Auth-Token"`
	// TokenExpiry access 令牌有效期，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"60m"`
	// RefreshTokenExpiry refresh 令牌有效期
	RefreshTokenExpiry string `yaml:"refresh-token-expiry" default:"7d"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// AutoMigrate 是否启用自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，默认 30m
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期，默认 10m
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
	// Replicas 只读副本 DSN
	Replicas []string `yaml:"replicas"`
}

// UserConfig 用户配置
type UserConfig struct {
	// RegisterIsEnable 注册是否启用
	RegisterIsEnable bool `yaml:"register-is-enable" default:"true"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"300"`
	// TempPath 上传临时路径，multipart 超出内存部分写到这里
	TempPath string `yaml:"temp-path" default:"storage/temp"`
	// TempRetention 临时文件保留时间
	TempRetention string `yaml:"temp-retention" default:"1d"`
	// MultipartMemory multipart 解析使用的内存上限
	MultipartMemory string `yaml:"multipart-memory" default:"32MB"`
	// StatsInterval 存储用量指标刷新间隔（cron 表达式）
	StatsInterval string `yaml:"stats-interval" default:"@every 5m"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers int `yaml:"worker-pool-max-workers" default:"16"`
	WorkerPoolQueueSize  int `yaml:"worker-pool-queue-size" default:"256"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"16"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"5m"`
	WriteQueueIdleTime string `yaml:"write-queue-idle-time" default:"10m"`
}

// QuotaConfig 配额与上传限制
type QuotaConfig struct {
	// UserQuota 每用户配额
	UserQuota string `yaml:"user-quota" default:"1GB"`
	// MaxFileSize 单文件上限
	MaxFileSize string `yaml:"max-file-size" default:"100MB"`
	// MaxFilesPerRequest 单次上传最多文件数
	MaxFilesPerRequest int `yaml:"max-files-per-request" default:"20"`
}

// ShareConfig 分享链接配置
type ShareConfig struct {
	// PublicURL 分享链接使用的外部地址，为空时使用请求的 Host
	PublicURL string `yaml:"public-url"`
	// MinHours 最短有效期，只能在 1..168 内收窄
	MinHours int `yaml:"min-hours" default:"1"`
	// MaxHours 最长有效期，不超过 168
	MaxHours int `yaml:"max-hours" default:"168"`
	// TokenBytes token 随机字节数，32..48
	TokenBytes int `yaml:"token-bytes" default:"32"`
	// TokenAttempts token 冲突时最多尝试次数，不超过 5
	TokenAttempts int `yaml:"token-attempts" default:"5"`
	// MailTimeout 单封通知邮件的发送超时
	MailTimeout string `yaml:"mail-timeout" default:"30s"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent Jaeger agent 地址（host:port），为空时不上报
	JaegerAgent string `yaml:"jaeger-agent"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	if err := yaml.Unmarshal(file, c); err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()
	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}
	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()
	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil && timeout > 0 {
		cfg.WriteTimeout = timeout
	}
	if idle, err := util.ParseDuration(c.App.WriteQueueIdleTime); err == nil && idle > 0 {
		cfg.IdleTimeout = idle
	}
	return cfg
}

// GetDatabaseConfig 转换为 DAO 使用的数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		SSLMode:         c.Database.SSLMode,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		Replicas:        c.Database.Replicas,
		RunMode:         c.Server.RunMode,
	}
}

// GetServiceConfig 提取 Service 层需要的配置
func (c *AppConfig) GetServiceConfig() *service.ServiceConfig {
	mailTimeout, _ := util.ParseDuration(c.Share.MailTimeout)
	return &service.ServiceConfig{
		User: service.UserServiceConfig{
			RegisterIsEnable: c.User.RegisterIsEnable,
		},
		Quota: service.QuotaServiceConfig{
			QuotaBytes:     util.ParseSize(c.Quota.UserQuota, service.DefaultQuotaBytes),
			MaxFileSize:    util.ParseSize(c.Quota.MaxFileSize, service.DefaultMaxFileSize),
			MaxFilesPerReq: c.Quota.MaxFilesPerRequest,
		},
		Share: service.ShareServiceConfig{
			PublicURL:     c.Share.PublicURL,
			MinHours:      c.Share.MinHours,
			MaxHours:      c.Share.MaxHours,
			TokenBytes:    c.Share.TokenBytes,
			TokenAttempts: c.Share.TokenAttempts,
			MailTimeout:   mailTimeout,
		},
	}
}

// GetTokenExpiry 获取 access 令牌有效期
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil && expiry > 0 {
		return expiry
	}
	return time.Hour
}

// GetRefreshTokenExpiry 获取 refresh 令牌有效期
func (c *AppConfig) GetRefreshTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.RefreshTokenExpiry); err == nil && expiry > 0 {
		return expiry
	}
	return 7 * 24 * time.Hour
}

// GetTempRetention 临时文件保留时间
func (c *AppConfig) GetTempRetention() time.Duration {
	if d, err := util.ParseDuration(c.App.TempRetention); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

// GetMultipartMemory multipart 内存上限
func (c *AppConfig) GetMultipartMemory() int64 {
	return util.ParseSize(c.App.MultipartMemory, 32<<20)
}
