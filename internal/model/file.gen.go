package model

import "github.com/haierkeys/fast-file-share-service/pkg/timex"

const TableNameFile = "file"

// File mapped from table <file>
type File struct {
	ID           string     `gorm:"column:id;primaryKey;size:36" json:"id" form:"id"`
	UID          int64      `gorm:"column:uid;not null;index:idx_file_uid_deleted,priority:1" json:"uid" form:"uid"`
	BlobID       int64      `gorm:"column:blob_id;not null;index:idx_file_blob" json:"blobId" form:"blobId"`
	Digest       string     `gorm:"column:digest;size:32;not null" json:"digest" form:"digest"`
	FileKey      string     `gorm:"column:file_key;size:512;not null" json:"fileKey" form:"fileKey"`
	OriginalName string     `gorm:"column:original_name;size:255;not null" json:"originalName" form:"originalName"`
	Size         int64      `gorm:"column:size;not null" json:"size" form:"size"`
	ContentType  string     `gorm:"column:content_type;size:255" json:"contentType" form:"contentType"`
	Description  string     `gorm:"column:description;type:text" json:"description" form:"description"`
	IsDeleted    bool       `gorm:"column:is_deleted;not null;index:idx_file_uid_deleted,priority:2" json:"isDeleted" form:"isDeleted"`
	CreatedAt    timex.Time `gorm:"column:created_at;autoCreateTime:false;index:idx_file_uid_deleted,priority:3" json:"createdAt" form:"createdAt"`
	UpdatedAt    timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
	DeletedAt    timex.Time `gorm:"column:deleted_at" json:"deletedAt" form:"deletedAt"`
}

// TableName File's table name
func (*File) TableName() string {
	return TableNameFile
}
