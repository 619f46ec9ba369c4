package dto

import "github.com/haierkeys/fast-file-share-service/pkg/timex"

// ShareCreateRequest 创建分享请求
type ShareCreateRequest struct {
	RecipientEmail  string `json:"recipient_email" form:"recipient_email" binding:"required,email,max=255"` // 收件人邮箱
	ExpirationHours int    `json:"expiration_hours" form:"expiration_hours"`                                 // 有效小时数 1..168
	Message         string `json:"message" form:"message" binding:"omitempty,max=2000"`                     // 附言
}

// ShareIDRequest 路径参数中的分享 ID
type ShareIDRequest struct {
	ShareID string `uri:"share_id" binding:"required,uuid"`
}

// ShareDTO 分享链接
type ShareDTO struct {
	ID             string      `json:"id"`
	FileID         string      `json:"file_id"`
	RecipientEmail string      `json:"recipient_email"`
	Message        string      `json:"message,omitempty"`
	Token          string      `json:"token,omitempty"`
	ShareURL       string      `json:"share_url,omitempty"`
	ExpiresAt      timex.Time  `json:"expiration_datetime"`
	CreatedAt      timex.Time  `json:"created_at"`
	Accessed       bool        `json:"accessed"`
	AccessedAt     *timex.Time `json:"accessed_at"`
	IsActive       bool        `json:"is_active"`
}
