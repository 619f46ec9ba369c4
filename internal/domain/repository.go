package domain

import (
	"context"
	"time"
)

// Transactor 在一个数据库事务中执行 fn
// fn 收到的 ctx 携带事务，仓储方法使用该 ctx 即加入同一事务；嵌套调用使用保存点
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create 创建用户，邮箱重复返回 ErrConflict
	Create(ctx context.Context, user *User) (*User, error)
}

// BlobRepository 去重索引仓储接口
type BlobRepository interface {
	// GetByDigest 根据摘要获取，无副作用
	GetByDigest(ctx context.Context, digest string) (*StoredBlob, error)

	// Create 写入新摘要，摘要已存在时返回 ErrConflict
	Create(ctx context.Context, blob *StoredBlob) (*StoredBlob, error)

	// Stats 统计对象数量与物理字节数
	Stats(ctx context.Context) (*BlobStats, error)
}

// FileRepository 文件目录仓储接口
// 按 (id, uid) 查询，他人的文件与不存在的文件一样返回 ErrNotFound
type FileRepository interface {
	// Create 创建文件记录
	Create(ctx context.Context, file *File) (*File, error)

	// GetByID 获取用户未删除的文件
	GetByID(ctx context.Context, id string, uid int64) (*File, error)

	// GetByIDUnscoped 不限用户获取文件（包含已删除）
	GetByIDUnscoped(ctx context.Context, id string) (*File, error)

	// List 用户未删除的文件，按创建时间倒序
	List(ctx context.Context, uid int64) ([]*File, error)

	// SoftDelete 标记删除，已删除或不存在时返回 ErrNotFound
	SoftDelete(ctx context.Context, id string, uid int64, at time.Time) error

	// UpdateDescription 修改描述
	UpdateDescription(ctx context.Context, id string, uid int64, description string) (*File, error)

	// SumSize 用户未删除文件的大小总和
	SumSize(ctx context.Context, uid int64) (int64, error)

	// SumSizeAll 所有未删除文件的大小总和
	SumSizeAll(ctx context.Context) (int64, error)
}

// ShareRepository 分享链接仓储接口
type ShareRepository interface {
	// Create 创建分享链接，token 重复返回 ErrConflict
	Create(ctx context.Context, link *ShareLink) (*ShareLink, error)

	// GetByToken 根据 token 精确查找
	GetByToken(ctx context.Context, token string) (*ShareLink, error)

	// GetByID 获取所有者的分享链接
	GetByID(ctx context.Context, id string, ownerUID int64) (*ShareLink, error)

	// ListByFile 文件的全部分享链接，按创建时间倒序
	ListByFile(ctx context.Context, fileID string, ownerUID int64) ([]*ShareLink, error)

	// Deactivate 撤销分享链接
	Deactivate(ctx context.Context, id string, ownerUID int64) error

	// MarkAccessed 首次兑换时记录访问时间，返回本次是否为首次
	MarkAccessed(ctx context.Context, id string, at time.Time) (bool, error)
}
