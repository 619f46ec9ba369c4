// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User  UserServiceConfig  // User related config // 用户相关配置
	Quota QuotaServiceConfig // Quota and upload limits // 配额与上传限制
	Share ShareServiceConfig // Share link config // 分享链接配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // Whether registration is enabled // 注册是否启用
}

// QuotaServiceConfig 配额配置
type QuotaServiceConfig struct {
	QuotaBytes     int64 // 每用户配额，默认 1 GiB
	MaxFileSize    int64 // 单文件上限，默认 100 MB
	MaxFilesPerReq int   // 单次请求最多文件数
}

// ShareServiceConfig 分享配置
type ShareServiceConfig struct {
	PublicURL     string        // 生成分享链接使用的外部地址，为空时使用请求的 Host
	MinHours      int           // 最短有效期（小时）
	MaxHours      int           // 最长有效期（小时）
	TokenBytes    int           // token 随机字节数
	TokenAttempts int           // token 冲突时最多尝试次数
	MailTimeout   time.Duration // 单封通知邮件的发送超时
}

const (
	DefaultQuotaBytes     int64 = 1 << 30
	DefaultMaxFileSize    int64 = 100 << 20
	DefaultMaxFilesPerReq       = 20
	DefaultShareMinHours        = 1
	DefaultShareMaxHours        = 168
	DefaultTokenBytes           = 32
	DefaultTokenAttempts        = 5
	// MaxTokenBytes 48 字节编码后为 64 个字符，等于 share_links.token 列宽
	MaxTokenBytes = 48
)

// withDefaults 填充未设置的配置项
func (c *ServiceConfig) withDefaults() *ServiceConfig {
	out := ServiceConfig{}
	if c != nil {
		out = *c
	}
	if out.Quota.QuotaBytes <= 0 {
		out.Quota.QuotaBytes = DefaultQuotaBytes
	}
	if out.Quota.MaxFileSize <= 0 {
		out.Quota.MaxFileSize = DefaultMaxFileSize
	}
	if out.Quota.MaxFilesPerReq <= 0 {
		out.Quota.MaxFilesPerReq = DefaultMaxFilesPerReq
	}
	// 有效期只能在 1..168 小时内收窄，不能放宽
	if out.Share.MinHours < DefaultShareMinHours || out.Share.MinHours > DefaultShareMaxHours {
		out.Share.MinHours = DefaultShareMinHours
	}
	if out.Share.MaxHours <= 0 || out.Share.MaxHours > DefaultShareMaxHours {
		out.Share.MaxHours = DefaultShareMaxHours
	}
	if out.Share.MinHours > out.Share.MaxHours {
		out.Share.MinHours, out.Share.MaxHours = DefaultShareMinHours, DefaultShareMaxHours
	}
	// 少于 32 字节达不到 256 位熵
	if out.Share.TokenBytes < DefaultTokenBytes {
		out.Share.TokenBytes = DefaultTokenBytes
	}
	if out.Share.TokenBytes > MaxTokenBytes {
		out.Share.TokenBytes = MaxTokenBytes
	}
	if out.Share.TokenAttempts <= 0 || out.Share.TokenAttempts > DefaultTokenAttempts {
		out.Share.TokenAttempts = DefaultTokenAttempts
	}
	if out.Share.MailTimeout <= 0 {
		out.Share.MailTimeout = 30 * time.Second
	}
	return &out
}
