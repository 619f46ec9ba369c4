// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/fast-file-share-service/pkg/app"

// UserCreateRequest User registration request parameters
// 用户注册请求参数
type UserCreateRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email,max=255"`                         // User email // 用户邮件
	FirstName       string `json:"first_name" form:"first_name" binding:"required,notblank_trim,max=150"`       // First name // 名
	LastName        string `json:"last_name" form:"last_name" binding:"omitempty,max=150"`                      // Last name // 姓
	DateOfBirth     string `json:"date_of_birth" form:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`  // YYYY-MM-DD // 出生日期
	Password        string `json:"password" form:"password" binding:"required,min=8,max=128"`                   // User password // 用户密码
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required,eqfield=Password"` // Confirm password // 校验密码
}

// UserLoginRequest User login request parameters
// 用户登录请求参数
type UserLoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"` // Email // 邮件
	Password string `json:"password" form:"password" binding:"required"` // Password // 密码
}

// TokenRefreshRequest 刷新令牌请求参数
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh" binding:"required"`
}

// ---------------- DTO / Response ----------------

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

// LoginDTO 登录响应
type LoginDTO struct {
	User   UserDTO        `json:"user"`
	Tokens *app.TokenPair `json:"tokens"`
}

// TokenRefreshDTO 刷新令牌响应
type TokenRefreshDTO struct {
	Access string `json:"access"`
}
