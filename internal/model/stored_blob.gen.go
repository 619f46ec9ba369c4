package model

import "github.com/haierkeys/fast-file-share-service/pkg/timex"

const TableNameStoredBlob = "stored_blob"

// StoredBlob mapped from table <stored_blob>
type StoredBlob struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Digest      string     `gorm:"column:digest;size:32;not null;uniqueIndex:idx_stored_blob_digest" json:"digest" form:"digest"`
	FileKey     string     `gorm:"column:file_key;size:512;not null" json:"fileKey" form:"fileKey"`
	Size        int64      `gorm:"column:size;not null" json:"size" form:"size"`
	ContentType string     `gorm:"column:content_type;size:255" json:"contentType" form:"contentType"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName StoredBlob's table name
func (*StoredBlob) TableName() string {
	return TableNameStoredBlob
}
