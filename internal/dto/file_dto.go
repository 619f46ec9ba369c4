package dto

import "github.com/haierkeys/fast-file-share-service/pkg/timex"

// FileUploadRequest 上传表单中的非文件字段，文件从 multipart 的 files 字段读取
type FileUploadRequest struct {
	Description string `form:"description" binding:"omitempty,max=2000"`
}

// FileUpdateRequest 修改文件描述
type FileUpdateRequest struct {
	Description string `json:"description" form:"description" binding:"max=2000"`
}

// FileIDRequest 路径参数中的文件 ID
type FileIDRequest struct {
	FileID string `uri:"file_id" binding:"required,uuid"`
}

// UploadedFileDTO 上传结果
type UploadedFileDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Size        int64      `json:"size"`
	ContentType string     `json:"content_type"`
	Checksum    string     `json:"checksum"`
	CreatedAt   timex.Time `json:"created_at"`
	IsDuplicate bool       `json:"is_duplicate"`
}

// FileDTO 文件列表项
type FileDTO struct {
	ID           string     `json:"id"`
	OriginalName string     `json:"original_name"`
	FileSize     int64      `json:"file_size"`
	ContentType  string     `json:"content_type"`
	Description  string     `json:"description"`
	CreatedAt    timex.Time `json:"created_at"`
}

// UsageDTO 存储用量
type UsageDTO struct {
	UsedBytes      int64 `json:"used_bytes"`
	QuotaBytes     int64 `json:"quota_bytes"`
	AvailableBytes int64 `json:"available_bytes"`
}

// QuotaExceededDTO 配额不足时返回的数据
type QuotaExceededDTO struct {
	AvailableBytes int64 `json:"available_bytes"`
}
