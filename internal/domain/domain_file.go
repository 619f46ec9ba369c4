package domain

import "time"

// File 用户的逻辑文件，多个 File 可指向同一个 StoredBlob
type File struct {
	ID           string // UUID
	UID          int64
	BlobID       int64
	Digest       string
	FileKey      string
	OriginalName string
	Size         int64
	ContentType  string
	Description  string
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
