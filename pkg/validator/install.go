package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Install replaces gin's default validator and registers en/zh messages.
// Install 替换 gin 的默认校验器，并注册中英文错误翻译
func Install() (*ut.UniversalTranslator, error) {
	cv := NewCustomValidator()
	binding.Validator = cv

	uni := ut.New(en.New(), en.New(), zh.New())

	validate, ok := cv.Engine().(*validator.Validate)
	if !ok {
		return uni, nil
	}

	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")

	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	return uni, nil
}
