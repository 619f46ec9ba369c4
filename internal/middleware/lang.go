package middleware

import (
	"strings"

	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// requestLang picks the language from ?lang=, the lang header, then
// Accept-Language. Anything Chinese maps to zh_cn; without a hint the
// process default applies.
// requestLang 依次从 ?lang=、lang 请求头、Accept-Language 取语言，中文统一为 zh_cn，都没有时使用进程默认语言
func requestLang(c *gin.Context) string {
	raw, ok := c.GetQuery("lang")
	if !ok || raw == "" {
		raw = c.GetHeader("lang")
	}
	if raw == "" {
		raw = c.GetHeader("Accept-Language")
		// 只取首选语言，例如 "zh-CN,zh;q=0.9,en;q=0.8"
		if i := strings.IndexAny(raw, ",;"); i >= 0 {
			raw = raw[:i]
		}
	}

	raw = strings.ToLower(strings.TrimSpace(raw))
	switch {
	case raw == "":
		return code.GetGlobalDefaultLang()
	case strings.HasPrefix(raw, "zh"):
		return "zh_cn"
	default:
		return code.FALLBACK_LNG
	}
}

// LangWithTranslator 设置本次请求的校验翻译器与响应消息语言
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := requestLang(c)

		locale := "en"
		if lang == "zh_cn" {
			locale = "zh"
		}
		if trans, found := uni.GetTranslator(locale); found {
			c.Set("trans", trans)
		}
		c.Set("lang", lang)

		c.Next()
	}
}
