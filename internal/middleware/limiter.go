package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	"github.com/haierkeys/fast-file-share-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter 按 limiter 的键取令牌桶，桶为空时返回 429 并给出 Retry-After
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		bucket, ok := l.GetBucket(l.Key(c))
		if !ok || bucket.TakeAvailable(1) > 0 {
			c.Next()
			return
		}

		// 补充一个令牌所需时间，至少 1 秒
		wait := 1
		if r := bucket.Rate(); r > 0 && r < 1 {
			wait = int(math.Ceil(1 / r))
		}
		c.Header("Retry-After", strconv.Itoa(wait))
		app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
		c.Abort()
	}
}
