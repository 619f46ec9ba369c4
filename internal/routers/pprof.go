package routers

import (
	"expvar"
	"net/http/pprof"

	"github.com/haierkeys/fast-file-share-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// pprofProfiles 通过 pprof.Handler 按名称提供的 profile
var pprofProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// NewPrivateRouterWithLogger 创建私有路由：prometheus 指标与 expvar，debug 模式下开放 pprof
func NewPrivateRouterWithLogger(runMode string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryWithLogger(logger))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))

	if runMode == gin.DebugMode {
		p := r.Group("/debug/pprof")
		p.GET("/", gin.WrapF(pprof.Index))
		p.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		p.GET("/profile", gin.WrapF(pprof.Profile))
		p.Any("/symbol", gin.WrapF(pprof.Symbol))
		p.GET("/trace", gin.WrapF(pprof.Trace))
		for _, name := range pprofProfiles {
			p.GET("/"+name, gin.WrapH(pprof.Handler(name)))
		}
	}

	return r
}
