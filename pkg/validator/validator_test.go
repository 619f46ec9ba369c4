package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `binding:"required,email"`
	Name  string `binding:"notblank_trim"`
	Hours int    `binding:"min=1,max=168"`
}

func TestCustomValidator(t *testing.T) {
	v := NewCustomValidator()

	assert.NoError(t, v.ValidateStruct(&sample{Email: "a@b.com", Name: "x", Hours: 24}))
	assert.Error(t, v.ValidateStruct(sample{Email: "nope", Name: "x", Hours: 24}))
	assert.Error(t, v.ValidateStruct(&sample{Email: "a@b.com", Name: "   ", Hours: 24}))
	assert.Error(t, v.ValidateStruct(&sample{Email: "a@b.com", Name: "x", Hours: 169}))

	// 切片逐个校验
	assert.Error(t, v.ValidateStruct([]sample{{Email: "a@b.com", Name: "x", Hours: 1}, {}}))

	var nilPtr *sample
	assert.NoError(t, v.ValidateStruct(nilPtr))
	assert.NotNil(t, v.Engine())
}

func TestInstall(t *testing.T) {
	uni, err := Install()
	assert.NoError(t, err)

	trans, found := uni.GetTranslator("zh")
	assert.True(t, found)
	assert.Equal(t, "zh", trans.Locale())
}
