package domain

import "time"

// ShareLink grants time-boxed access to one file for one recipient
// ShareLink 在限定时间内向一个收件人开放一个文件
type ShareLink struct {
	ID             string // UUID
	FileID         string
	OwnerUID       int64
	RecipientEmail string
	Token          string
	Message        string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	Accessed       bool
	AccessedAt     *time.Time
	IsActive       bool
}

// IsExpired 过期判断：now >= ExpiresAt
func (s *ShareLink) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsRedeemable 可兑换：处于激活状态且未过期
func (s *ShareLink) IsRedeemable(now time.Time) bool {
	return s.IsActive && !s.IsExpired(now)
}
