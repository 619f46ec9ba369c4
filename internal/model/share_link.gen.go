package model

import "github.com/haierkeys/fast-file-share-service/pkg/timex"

const TableNameShareLink = "share_link"

// ShareLink mapped from table <share_link>
type ShareLink struct {
	ID             string     `gorm:"column:id;primaryKey;size:36" json:"id" form:"id"`
	FileID         string     `gorm:"column:file_id;size:36;not null;index:idx_share_link_file" json:"fileId" form:"fileId"`
	OwnerUID       int64      `gorm:"column:owner_uid;not null;index:idx_share_link_owner" json:"ownerUid" form:"ownerUid"`
	RecipientEmail string     `gorm:"column:recipient_email;size:255;not null" json:"recipientEmail" form:"recipientEmail"`
	Token          string     `gorm:"column:token;size:64;not null;uniqueIndex:idx_share_link_token" json:"token" form:"token"`
	Message        string     `gorm:"column:message;type:text" json:"message" form:"message"`
	ExpiresAt      timex.Time `gorm:"column:expires_at;not null" json:"expiresAt" form:"expiresAt"`
	CreatedAt      timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	Accessed       bool       `gorm:"column:accessed;not null" json:"accessed" form:"accessed"`
	AccessedAt     timex.Time `gorm:"column:accessed_at" json:"accessedAt" form:"accessedAt"`
	IsActive       bool       `gorm:"column:is_active;not null" json:"isActive" form:"isActive"`
}

// TableName ShareLink's table name
func (*ShareLink) TableName() string {
	return TableNameShareLink
}
