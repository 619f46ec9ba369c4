package code

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDataDoesNotMutateRegistered(t *testing.T) {
	c := ErrorQuotaExceeded.WithData(map[string]int64{"available_bytes": 10})

	assert.True(t, c.HaveData())
	assert.False(t, ErrorQuotaExceeded.HaveData())
	assert.Nil(t, ErrorQuotaExceeded.Data())
	assert.True(t, errors.Is(c, ErrorQuotaExceeded))
	assert.False(t, errors.Is(c, ErrorFileNotFound))

	d := ErrorInvalidParams.WithDetails("email")
	assert.Equal(t, []string{"email"}, d.Details())
	assert.False(t, ErrorInvalidParams.HaveDetails())
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusGone, ErrorShareExpired.StatusCode())
	assert.Equal(t, http.StatusNotFound, ErrorShareRevoked.StatusCode())
	assert.Equal(t, http.StatusNotFound, ErrorShareNotFound.StatusCode())
	assert.Equal(t, http.StatusBadRequest, ErrorQuotaExceeded.StatusCode())
	assert.Equal(t, http.StatusCreated, SuccessUpload.StatusCode())
	assert.Equal(t, http.StatusNoContent, SuccessDelete.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, ErrorServerInternal.StatusCode())
}

func TestLanguage(t *testing.T) {
	defer SetGlobalDefaultLang("en")

	assert.NoError(t, SetGlobalDefaultLang("zh_cn"))
	assert.Equal(t, "zh_cn", GetGlobalDefaultLang())
	assert.NotEqual(t, ErrorFileNotFound.Lang.en, ErrorFileNotFound.Msg())

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, FALLBACK_LNG, GetGlobalDefaultLang())
	assert.Equal(t, ErrorFileNotFound.Lang.en, ErrorFileNotFound.Msg())
}

func TestDuplicateCodePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewError(ErrorFileNotFound.Code(), http.StatusNotFound, lang{en: "dup"})
	})
}

// Codes are built during package variable initialisation, before any
// language has been stored.
func TestUnsetLanguageFallsBack(t *testing.T) {
	var unset atomic.Value
	assert.Equal(t, FALLBACK_LNG, loadLang(&unset))

	assert.Equal(t, "Success", sussCodes[Success.Code()])
	assert.Equal(t, ErrorFileNotFound.Lang.en, codes[ErrorFileNotFound.Code()])
}
