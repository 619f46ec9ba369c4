// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"
	"mime"

	"github.com/haierkeys/fast-file-share-service/internal/app"
	"github.com/haierkeys/fast-file-share-service/internal/middleware"
	pkgapp "github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"
	"github.com/haierkeys/fast-file-share-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录错误日志，包含 Trace ID；客户端错误只记 Info
func (h *Handler) logError(ctx context.Context, method string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)),
	}
	if apperrors.CodeOf(err).StatusCode() >= 500 {
		h.App.Logger().Error(method, fields...)
		return
	}
	h.App.Logger().Info(method, fields...)
}

// invalidParams 参数校验失败的统一响应
func (h *Handler) invalidParams(c *gin.Context, method string, errs pkgapp.ValidErrors) {
	h.App.Logger().Info(method+".BindAndValid errs", zap.Error(errs))
	pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
}

// attachment Content-Disposition 头，非 ASCII 文件名使用 RFC 2231 编码
func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
