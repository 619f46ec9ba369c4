package app

import (
	"strings"

	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionInfo version information // 版本信息
type VersionInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

type Response struct {
	Ctx *gin.Context
}

// ListRes list payload // 列表数据
type ListRes struct {
	List  interface{} `json:"list"`  // Data list // 数据清单
	Total int         `json:"total"` // Total rows // 总行数
}

// Res is the unified response structure: Code/Status/Message/Data
// Res 是统一的响应结构：Code/Status/Message/Data
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"traceId,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{
		Ctx: ctx,
	}
}

// GetRequestIP gets the request IP
// GetRequestIP 获取ip
func GetRequestIP(c *gin.Context) string {
	reqIP := c.ClientIP()
	if reqIP == "::1" {
		reqIP = "127.0.0.1"
	}
	return reqIP
}

func GetAccessHost(c *gin.Context) string {
	AccessProto := ""
	if proto := c.Request.Header.Get("X-Forwarded-Proto"); proto == "" {
		AccessProto = "http" + "://"
	} else {
		AccessProto = proto + "://"
	}
	return AccessProto + c.Request.Host
}

// ToResponse writes the envelope with the status carried by the code
// ToResponse 输出到浏览器，HTTP 状态码取自 Code
func (r *Response) ToResponse(codeObj *code.Code) {
	status := codeObj.StatusCode()
	r.Ctx.Set("status_code", status)

	// 204 不允许携带响应体
	if status == 204 {
		r.Ctx.Status(status)
		return
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: r.message(codeObj),
		Data:    codeObj.Data(),
		TraceID: r.traceID(),
	}

	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	r.send(status, content)
}

// ToResponseList outputs list response using ListRes as Data
// ToResponseList 输出列表响应，使用 ListRes 作为 Data
func (r *Response) ToResponseList(codeObj *code.Code, list interface{}, totalRows int) {
	r.ToResponse(codeObj.WithData(ListRes{List: list, Total: totalRows}))
}

// message 优先使用语言中间件为本次请求选择的语言
func (r *Response) message(codeObj *code.Code) string {
	if l := r.Ctx.GetString("lang"); l != "" {
		return codeObj.Lang.In(l)
	}
	return codeObj.Lang.GetMessage()
}

func (r *Response) traceID() string {
	if v, ok := r.Ctx.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (r *Response) send(statusCode int, content interface{}) {
	r.Ctx.JSON(statusCode, content)
}
