// Package errors turns service errors into the JSON response envelope
package errors

import (
	"errors"

	"github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 携带响应码与原始错误
// 响应只暴露 Code，Cause 仅用于日志
type AppError struct {
	// Code 响应码
	Code *code.Code
	// Cause 原始错误（不输出给客户端）
	Cause error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Code.Error()
	}
	return e.Code.Error() + ": " + e.Cause.Error()
}

// Unwrap 支持 errors.Is / errors.As 沿错误链查找
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Cause}
}

// Wrap 将底层错误包装为指定的响应码
func Wrap(c *code.Code, cause error) error {
	if cause == nil {
		return c
	}
	return &AppError{Code: c, Cause: cause}
}

// CodeOf 从错误链中取出响应码，不是 Code 的错误统一映射为服务器内部错误
func CodeOf(err error) *code.Code {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}
	return code.ErrorServerInternal
}

// ErrorResponse 统一错误响应处理
func ErrorResponse(c *gin.Context, err error) {
	app.NewResponse(c).ToResponse(CodeOf(err))
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
