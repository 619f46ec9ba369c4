package api_router

import (
	"context"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/app"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// healthCheckTimeout bounds each dependency check
const healthCheckTimeout = 3 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check reports database and blob store reachability.
// A failing dependency turns the answer into a 500 that still carries the report.
// @Summary 健康检查
// @Description 检查数据库与文件存储是否可用
// @Tags System
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.HealthDTO}
// @Failure 500 {object} pkgapp.Res{data=dto.HealthDTO}
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	out := dto.HealthDTO{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
		Storage:  h.App.Config().Storage.Type,
	}
	var failed *code.Code

	if err := h.App.Ping(ctx); err != nil {
		h.logError(ctx, "HealthHandler.Check.db", err)
		out.Database = "error"
		failed = code.ErrorDBQuery
	}
	if err := h.App.PingStorage(ctx); err != nil {
		h.logError(ctx, "HealthHandler.Check.storage", err)
		out.Storage = "error"
		if failed == nil {
			failed = code.ErrorStorage
		}
	}

	if failed != nil {
		out.Status = "unhealthy"
		pkgapp.NewResponse(c).ToResponse(failed.WithData(out))
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(out))
}
