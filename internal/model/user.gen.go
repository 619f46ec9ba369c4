package model

import "github.com/haierkeys/fast-file-share-service/pkg/timex"

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	UID         int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Email       string     `gorm:"column:email;size:255;not null;uniqueIndex:idx_user_email" json:"email" form:"email"`
	FirstName   string     `gorm:"column:first_name;size:150;not null" json:"firstName" form:"firstName"`
	LastName    string     `gorm:"column:last_name;size:150" json:"lastName" form:"lastName"`
	DateOfBirth timex.Time `gorm:"column:date_of_birth" json:"dateOfBirth" form:"dateOfBirth"`
	Password    string     `gorm:"column:password;size:255;not null" json:"password" form:"password"`
	IsActive    bool       `gorm:"column:is_active;not null" json:"isActive" form:"isActive"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
