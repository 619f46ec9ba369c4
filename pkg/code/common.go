package code

import "net/http"

var (
	Success = NewSuss(1, http.StatusOK, lang{
		en:    "Success",
		zh_cn: "成功",
	})
	SuccessCreate = NewSuss(2, http.StatusCreated, lang{
		en:    "Created successfully",
		zh_cn: "创建成功",
	})
	SuccessDelete = NewSuss(3, http.StatusNoContent, lang{
		en:    "Deleted successfully",
		zh_cn: "删除成功",
	})
	SuccessUpdate = NewSuss(4, http.StatusOK, lang{
		en:    "Updated successfully",
		zh_cn: "更新成功",
	})
	SuccessRegister = NewSuss(5, http.StatusCreated, lang{
		en:    "User registered successfully",
		zh_cn: "用户注册成功",
	})
	SuccessLogin = NewSuss(6, http.StatusOK, lang{
		en:    "Login successful",
		zh_cn: "登录成功",
	})
	SuccessUpload = NewSuss(7, http.StatusCreated, lang{
		en:    "Files uploaded successfully",
		zh_cn: "文件上传成功",
	})
	SuccessShare = NewSuss(8, http.StatusCreated, lang{
		en:    "File shared successfully",
		zh_cn: "文件分享成功",
	})
	SuccessRevoke = NewSuss(9, http.StatusOK, lang{
		en:    "Share revoked",
		zh_cn: "分享已撤销",
	})
)

// 通用错误 400-499 / 500-599
var (
	ErrorServerInternal = NewError(500, http.StatusInternalServerError, lang{
		en:    "Internal server error",
		zh_cn: "服务器内部错误",
	})
	ErrorDBQuery = NewError(501, http.StatusInternalServerError, lang{
		en:    "Database query failed",
		zh_cn: "数据库查询失败",
	})
	ErrorStorage = NewError(502, http.StatusInternalServerError, lang{
		en:    "Storage operation failed",
		zh_cn: "存储操作失败",
	})
	ErrorTokenGenerate = NewError(503, http.StatusInternalServerError, lang{
		en:    "Failed to generate token",
		zh_cn: "生成 Token 失败",
	})
	ErrorInvalidStorageType = NewError(504, http.StatusInternalServerError, lang{
		en:    "Invalid storage type",
		zh_cn: "无效的存储类型",
	})
	ErrorInvalidParams = NewError(400, http.StatusBadRequest, lang{
		en:    "Invalid parameters",
		zh_cn: "参数错误",
	})
	ErrorNotUserAuthToken = NewError(401, http.StatusUnauthorized, lang{
		en:    "Authentication credentials were not provided",
		zh_cn: "未提供认证 Token",
	})
	ErrorInvalidUserAuthToken = NewError(402, http.StatusUnauthorized, lang{
		en:    "Token is invalid or expired",
		zh_cn: "Token 无效或已过期",
	})
	ErrorNotFoundAPI = NewError(404, http.StatusNotFound, lang{
		en:    "API not found",
		zh_cn: "接口不存在",
	})
	ErrorTooManyRequests = NewError(429, http.StatusTooManyRequests, lang{
		en:    "Too many requests",
		zh_cn: "请求过于频繁",
	})
)

// 用户 1000+
var (
	ErrorUserRegisterIsDisable = NewError(1001, http.StatusBadRequest, lang{
		en:    "User registration is disabled",
		zh_cn: "用户注册已关闭",
	})
	ErrorUserEmailAlreadyExists = NewError(1002, http.StatusBadRequest, lang{
		en:    "Email already exists",
		zh_cn: "邮箱已存在",
	})
	ErrorUserPasswordNotMatch = NewError(1003, http.StatusBadRequest, lang{
		en:    "Passwords do not match",
		zh_cn: "两次输入的密码不一致",
	})
	ErrorUserLoginPasswordFailed = NewError(1004, http.StatusBadRequest, lang{
		en:    "Invalid credentials",
		zh_cn: "邮箱或密码错误",
	})
	ErrorUserDisabled = NewError(1005, http.StatusBadRequest, lang{
		en:    "Account is disabled",
		zh_cn: "账号已被禁用",
	})
	ErrorUserRegister = NewError(1006, http.StatusBadRequest, lang{
		en:    "Unable to create user. Please try again",
		zh_cn: "用户创建失败，请重试",
	})
	ErrorPasswordNotValid = NewError(1007, http.StatusBadRequest, lang{
		en:    "Password is not valid",
		zh_cn: "密码不合法",
	})
	ErrorInvalidRefreshToken = NewError(1008, http.StatusUnauthorized, lang{
		en:    "Refresh token is invalid or expired",
		zh_cn: "刷新 Token 无效或已过期",
	})
	ErrorDateOfBirthNotValid = NewError(1009, http.StatusBadRequest, lang{
		en:    "Date of birth must use YYYY-MM-DD",
		zh_cn: "出生日期格式必须为 YYYY-MM-DD",
	})
)

// 文件 2000+
var (
	ErrorFileNotFound = NewError(2001, http.StatusNotFound, lang{
		en:    "File not found",
		zh_cn: "文件不存在",
	})
	ErrorFileTooLarge = NewError(2002, http.StatusBadRequest, lang{
		en:    "File exceeds maximum size",
		zh_cn: "文件超过最大限制",
	})
	ErrorFileEmpty = NewError(2003, http.StatusBadRequest, lang{
		en:    "Empty files are not allowed",
		zh_cn: "不允许上传空文件",
	})
	ErrorFileRequired = NewError(2004, http.StatusBadRequest, lang{
		en:    "At least one file is required",
		zh_cn: "至少需要上传一个文件",
	})
	ErrorQuotaExceeded = NewError(2005, http.StatusBadRequest, lang{
		en:    "Insufficient storage space. Try deleting some files!",
		zh_cn: "存储空间不足，请删除部分文件后重试",
	})
	ErrorFileTooMany = NewError(2006, http.StatusBadRequest, lang{
		en:    "Too many files in one request",
		zh_cn: "单次上传文件数量过多",
	})
)

// 分享 3000+
var (
	ErrorShareInvalidDuration = NewError(3001, http.StatusBadRequest, lang{
		en:    "Expiration must be between 1 and 168 hours",
		zh_cn: "有效期必须在 1 到 168 小时之间",
	})
	ErrorShareNotFound = NewError(3002, http.StatusNotFound, lang{
		en:    "Share link not found",
		zh_cn: "分享链接不存在",
	})
	ErrorShareRevoked = NewError(3003, http.StatusNotFound, lang{
		en:    "Share link is no longer active",
		zh_cn: "分享链接已失效",
	})
	ErrorShareExpired = NewError(3004, http.StatusGone, lang{
		en:    "Share link has expired",
		zh_cn: "分享链接已过期",
	})
	ErrorShareTokenGenerate = NewError(3005, http.StatusInternalServerError, lang{
		en:    "Failed to generate share token",
		zh_cn: "生成分享 Token 失败",
	})
)
