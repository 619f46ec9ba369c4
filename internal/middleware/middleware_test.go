package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserAuthToken(t *testing.T) {
	tm := app.NewTokenManager(app.TokenConfig{SecretKey: "mw-secret"})
	pair, err := tm.GeneratePair(9, "u@example.com", "127.0.0.1")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", UserAuthTokenWithConfig("mw-secret"), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", app.GetUID(c))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Access)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9", w.Body.String())

	// refresh 令牌不能访问受保护接口
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.Refresh)
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecoveryWithLogger(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(RecoveryWithLogger(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Equal(t, 1, logs.Len())
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddlewareWithConfig(true, ""))
	r.GET("/t", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c.Request.Context()))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
	id := w.Header().Get(DefaultTraceIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(DefaultTraceIDHeader, "given-id")
	w = serve(r, req)
	assert.Equal(t, "given-id", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	l := limiter.NewMethodLimiter().AddBuckets(limiter.BucketRule{Key: "/login", FillInterval: time.Hour, Capacity: 1})
	r := gin.New()
	r.Use(RateLimiter(l))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/other", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/other", nil)).Code)
}

func TestContextTimeout_SkipsStreamingRoutes(t *testing.T) {
	r := gin.New()
	r.Use(ContextTimeout(time.Minute, "/:id/file-download"))
	hasDeadline := func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.String(http.StatusOK, "%v", ok)
	}
	r.GET("/file-list", hasDeadline)
	r.GET("/:id/file-download", hasDeadline)

	assert.Equal(t, "true", serve(r, httptest.NewRequest(http.MethodGet, "/file-list", nil)).Body.String())
	assert.Equal(t, "false", serve(r, httptest.NewRequest(http.MethodGet, "/abc/file-download", nil)).Body.String())
}

func TestNoFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(NoFound())
	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil)).Code)
}

func TestAccessLogWithLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(AccessLogWithLogger(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, http.StatusNoContent, logs.All()[0].ContextMap()["status"])
}

func TestLangWithTranslator(t *testing.T) {
	uni := ut.New(en.New(), en.New(), zh.New())

	r := gin.New()
	r.Use(LangWithTranslator(uni))
	r.NoRoute(NoFound())

	cases := []struct {
		name   string
		setup  func(*http.Request)
		expect string
	}{
		{"query", func(req *http.Request) { req.URL.RawQuery = "lang=zh-CN" }, "zh_cn"},
		{"header", func(req *http.Request) { req.Header.Set("lang", "zh_cn") }, "zh_cn"},
		{"accept-language", func(req *http.Request) { req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,en;q=0.8") }, "zh_cn"},
		{"english", func(req *http.Request) { req.Header.Set("Accept-Language", "en-GB") }, "en"},
		{"unknown", func(req *http.Request) { req.URL.RawQuery = "lang=fr" }, "en"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/missing", nil)
			tc.setup(req)
			w := serve(r, req)
			assert.Equal(t, http.StatusNotFound, w.Code)

			var body app.Res
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tc.expect == "zh_cn" {
				assert.Equal(t, "接口不存在", body.Message)
			} else {
				assert.Equal(t, "API not found", body.Message)
			}
		})
	}
}
