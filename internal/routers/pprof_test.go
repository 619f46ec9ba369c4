package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPrivateRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	release := NewPrivateRouterWithLogger(gin.ReleaseMode, zap.NewNop())
	for path, want := range map[string]int{
		"/metrics":          http.StatusOK,
		"/debug/vars":       http.StatusOK,
		"/debug/pprof/heap": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		release.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}

	debug := NewPrivateRouterWithLogger(gin.DebugMode, zap.NewNop())
	w := httptest.NewRecorder()
	debug.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/heap", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
