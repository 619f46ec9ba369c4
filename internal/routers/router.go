package routers

import (
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/app"
	"github.com/haierkeys/fast-file-share-service/internal/middleware"
	"github.com/haierkeys/fast-file-share-service/internal/routers/api_router"
	"github.com/haierkeys/fast-file-share-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// newMethodLimiters 按路由模板限流：登录注册防爆破，/share/:token 防枚举
func newMethodLimiters() limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{Key: "/login", FillInterval: time.Second, Capacity: 10, Quantum: 10},
		limiter.BucketRule{Key: "/register", FillInterval: time.Second, Capacity: 5, Quantum: 5},
		limiter.BucketRule{Key: "/token/refresh", FillInterval: time.Second, Capacity: 20, Quantum: 20},
		limiter.BucketRule{Key: "/share/:token", FillInterval: time.Second, Capacity: 50, Quantum: 50},
	)
}

// NewRouter 创建公开路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	r := gin.New()
	r.MaxMultipartMemory = cfg.GetMultipartMemory()

	r.Use(middleware.RecoveryWithLogger(lg))
	r.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header))
	r.Use(middleware.AccessLogWithLogger(lg))
	r.Use(middleware.Cors(cfg.Server.CorsOrigins, cfg.Tracer.Header))
	r.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
	r.Use(middleware.RateLimiter(newMethodLimiters()))
	r.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout)*time.Second,
		"/:file_id/file-download", "/share/:token"))
	r.Use(middleware.LangWithTranslator(uni))

	userHandler := api_router.NewUserHandler(appContainer)
	fileHandler := api_router.NewFileHandler(appContainer)
	shareHandler := api_router.NewShareHandler(appContainer)
	healthHandler := api_router.NewHealthHandler(appContainer)
	versionHandler := api_router.NewVersionHandler(appContainer)

	// 无需认证
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.POST("/token/refresh", userHandler.Refresh)
	r.GET("/share/:token", shareHandler.Redeem)
	r.GET("/health", healthHandler.Check)
	r.GET("/version", versionHandler.ServerVersion)

	auth := r.Group("/", middleware.UserAuthTokenWithConfig(cfg.Security.AuthTokenKey))
	{
		auth.POST("/file-upload", fileHandler.Upload)
		auth.GET("/file-list", fileHandler.List)
		auth.GET("/file-usage", fileHandler.Usage)
		auth.GET("/:file_id/file-download", fileHandler.Download)
		auth.DELETE("/:file_id/file-delete", fileHandler.Delete)
		auth.PATCH("/:file_id/file-update", fileHandler.Update)

		auth.POST("/files/:file_id/share", shareHandler.Create)
		auth.GET("/files/:file_id/shares", shareHandler.List)
		auth.DELETE("/shares/:share_id", shareHandler.Revoke)
	}

	r.NoRoute(middleware.NoFound())

	return r
}
