package middleware

import (
	"strings"

	"github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// bearerToken 从 Authorization 头读取令牌，兼容不带 Bearer 前缀的写法
func bearerToken(c *gin.Context) string {
	s := strings.TrimSpace(c.GetHeader("Authorization"))
	if s == "" {
		return ""
	}
	if len(s) > 7 && strings.EqualFold(s[:7], "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}

// UserAuthTokenWithConfig 用户 Token 认证中间件（使用注入的密钥）
// 只接受 access 令牌，refresh 令牌在这里视为无效
func UserAuthTokenWithConfig(secretKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := bearerToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := app.ParseTokenWithKey(token, secretKey)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set("user_token", user)

		c.Next()
	}
}
