package code

import (
	"fmt"
	"net/http"
)

// Code is both the response code and the error value returned by services
// Code 既是响应码，也是服务层返回的错误值
type Code struct {
	// 业务码
	code int
	// 状态
	status bool
	// HTTP 状态码
	httpStatus int
	// 错误消息
	Lang lang
	// 数据
	data interface{}
	// 是否含有Data
	haveData bool
	// 错误详细信息
	details []string
	// 是否含有详情
	haveDetails bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError registers an error code
// NewError 注册错误码
func NewError(code int, httpStatus int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.en

	return &Code{code: code, status: false, httpStatus: httpStatus, Lang: l}
}

// NewSuss registers a success code
// NewSuss 注册成功码
func NewSuss(code int, httpStatus int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.en

	return &Code{code: code, status: true, httpStatus: httpStatus, Lang: l}
}

// Clone 创建一个新的 Code 副本
func (e *Code) Clone() *Code {
	c := *e
	if e.details != nil {
		c.details = append([]string(nil), e.details...)
	}
	return &c
}

func (e *Code) Error() string {
	if e.haveDetails && len(e.details) > 0 {
		return fmt.Sprintf("%s: %v", e.Msg(), e.details)
	}
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

// Is lets errors.Is match a copy produced by WithData/WithDetails against
// the registered code it was derived from.
func (e *Code) Is(target error) bool {
	t, ok := target.(*Code)
	if !ok {
		return false
	}
	return t.code == e.code && t.status == e.status
}

// WithData returns a copy carrying data; registered codes stay untouched
// WithData 返回携带数据的副本，不修改全局注册的 Code
func (e *Code) WithData(data interface{}) *Code {
	c := e.Clone()
	c.haveData = true
	c.data = data
	return c
}

// WithDetails returns a copy carrying details
// WithDetails 返回携带详情的副本
func (e *Code) WithDetails(details ...string) *Code {
	c := e.Clone()
	c.haveDetails = true
	c.details = append([]string{}, details...)
	return c
}

// StatusCode returns the HTTP status the code is answered with
// StatusCode 返回该 Code 对应的 HTTP 状态码
func (e *Code) StatusCode() int {
	if e.httpStatus == 0 {
		if e.status {
			return http.StatusOK
		}
		return http.StatusInternalServerError
	}
	return e.httpStatus
}
