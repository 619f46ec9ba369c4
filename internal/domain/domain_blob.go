package domain

import "time"

// StoredBlob is the physical content unit; at most one exists per digest
// StoredBlob 物理内容单元，每个摘要至多一条
type StoredBlob struct {
	ID          int64
	Digest      string // 32 位十六进制 MD5
	FileKey     string // 对象存储中的键
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

// BlobStats 去重后的存储统计
type BlobStats struct {
	Count int64
	Bytes int64
}
