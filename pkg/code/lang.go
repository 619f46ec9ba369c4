package code

import (
	"errors"
	"sync/atomic"
)

// lang holds the English and Chinese text of a code
// lang 存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

// lng 为空时按 FALLBACK_LNG 处理，包级变量初始化期间也可安全读取
var lng atomic.Value

// GetMessage 返回进程默认语言的消息
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// In returns the message in language, falling back to English
// In 返回指定语言的消息，缺失时回退到英文
func (l lang) In(language string) string {
	if language == "zh_cn" && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetSupportedLanguages 返回支持的语言
func GetSupportedLanguages() []string {
	return append([]string(nil), supportedLanguages...)
}

// SetGlobalDefaultLang sets the default language; unknown values reset it to English
// SetGlobalDefaultLang 设置默认语言，不支持的语言重置为英文
func SetGlobalDefaultLang(language string) error {
	for _, l := range supportedLanguages {
		if language == l {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang 获取默认语言
func GetGlobalDefaultLang() string {
	return loadLang(&lng)
}

func loadLang(v *atomic.Value) string {
	if s, ok := v.Load().(string); ok {
		return s
	}
	return FALLBACK_LNG
}
