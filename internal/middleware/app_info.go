package middleware

import (
	"github.com/haierkeys/fast-file-share-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfo 写入应用名、版本与访问地址，分享链接使用 access_host 拼接
func AppInfo(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
