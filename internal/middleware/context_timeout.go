package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// ContextTimeout bounds the request context by timeout. Routes listed in
// streaming (by gin route template) keep the parent context so long
// downloads are not cut off mid-body.
// ContextTimeout 为请求上下文设置超时；streaming 中的路由模板不受限制，避免大文件下载被中途截断
func ContextTimeout(timeout time.Duration, streaming ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(streaming))
	for _, route := range streaming {
		skip[route] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok || timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
