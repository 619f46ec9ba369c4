package middleware

import (
	"github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 未匹配任何路由时返回 404，details 中带上请求的方法与路径
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
		c.Abort()
	}
}
