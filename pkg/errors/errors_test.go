package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	cause := errors.New("disk gone")
	wrapped := Wrap(code.ErrorStorage, cause)

	assert.Same(t, code.ErrorStorage, CodeOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, code.ErrorStorage)
	assert.True(t, IsAppError(wrapped))

	assert.Same(t, code.ErrorServerInternal, CodeOf(errors.New("boom")))
	assert.Nil(t, CodeOf(nil))
	assert.Equal(t, code.ErrorFileNotFound, Wrap(code.ErrorFileNotFound, nil))
}

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{code.ErrorFileNotFound, http.StatusNotFound},
		{code.ErrorShareExpired, http.StatusGone},
		{code.ErrorQuotaExceeded.WithData(map[string]int64{"available_bytes": 5}), http.StatusBadRequest},
		{errors.New("internal detail"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		ErrorResponse(c, tc.err)
		assert.Equal(t, tc.status, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["status"])
		assert.NotContains(t, w.Body.String(), "internal detail")
	}
}
