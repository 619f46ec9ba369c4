package limiter

import (
	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// MethodLimiter 按路由模板限流，所有客户端共享一个令牌桶
type MethodLimiter struct {
	*Limiter
}

func NewMethodLimiter() Face {
	return MethodLimiter{
		Limiter: &Limiter{buckets: make(map[string]*ratelimit.Bucket)},
	}
}

// Key 使用路由模板作为键，/share/:token 的所有 token 共用同一个桶
func (l MethodLimiter) Key(c *gin.Context) string {
	if full := c.FullPath(); full != "" {
		return full
	}
	return c.Request.URL.Path
}

func (l MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.addBuckets(rules...)
	return l
}
