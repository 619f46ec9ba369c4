package api_router

import (
	"net/http"

	"github.com/haierkeys/fast-file-share-service/internal/app"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/internal/service"
	pkgapp "github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ShareHandler 分享链接 API 路由处理器
type ShareHandler struct {
	*Handler
}

// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{Handler: NewHandler(a)}
}

// Create issues a share link for an owned file and emails the recipient
// @Summary Share file
// @Tags Share
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param file_id path string true "File ID"
// @Param params body dto.ShareCreateRequest true "Share Parameters"
// @Success 201 {object} pkgapp.Res{data=dto.ShareDTO} "Created"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /files/{file_id}/share [post]
func (h *ShareHandler) Create(c *gin.Context) {
	fileParams := &dto.FileIDRequest{}
	if err := c.ShouldBindUri(fileParams); err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorFileNotFound)
		return
	}

	params := &dto.ShareCreateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "ShareHandler.Create", errs)
		return
	}

	ctx := c.Request.Context()
	out, err := h.App.ShareService.Issue(ctx, service.ShareIssueInput{
		OwnerUID:       pkgapp.GetUID(c),
		OwnerEmail:     pkgapp.GetEmail(c),
		FileID:         fileParams.FileID,
		RecipientEmail: params.RecipientEmail,
		DurationHours:  params.ExpirationHours,
		Message:        params.Message,
		BaseURL:        pkgapp.GetAccessHost(c),
	})
	if err != nil {
		h.logError(ctx, "ShareHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessShare.WithData(out))
}

// List lists the share links of an owned file
// @Summary List shares of a file
// @Tags Share
// @Security UserAuthToken
// @Produce json
// @Param file_id path string true "File ID"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.ShareDTO}} "Success"
// @Router /files/{file_id}/shares [get]
func (h *ShareHandler) List(c *gin.Context) {
	fileParams := &dto.FileIDRequest{}
	if err := c.ShouldBindUri(fileParams); err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorFileNotFound)
		return
	}

	ctx := c.Request.Context()
	out, err := h.App.ShareService.List(ctx, pkgapp.GetUID(c), fileParams.FileID)
	if err != nil {
		h.logError(ctx, "ShareHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponseList(code.Success, out, len(out))
}

// Revoke deactivates a share link
// @Summary Revoke share
// @Tags Share
// @Security UserAuthToken
// @Param share_id path string true "Share ID"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /shares/{share_id} [delete]
func (h *ShareHandler) Revoke(c *gin.Context) {
	params := &dto.ShareIDRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorShareNotFound)
		return
	}

	ctx := c.Request.Context()
	if err := h.App.ShareService.Revoke(ctx, pkgapp.GetUID(c), params.ShareID); err != nil {
		h.logError(ctx, "ShareHandler.Revoke", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessRevoke)
}

// Redeem streams the shared file to anyone holding the token
// @Summary Redeem share link
// @Description 404 for unknown or revoked tokens, 410 once the link has expired.
// @Description 未知或已撤销的 token 返回 404，过期后返回 410。
// @Tags Share
// @Produce octet-stream
// @Param token path string true "Share Token"
// @Success 200 {file} binary
// @Failure 404 {object} pkgapp.Res "Not Found / Revoked"
// @Failure 410 {object} pkgapp.Res "Expired"
// @Router /share/{token} [get]
func (h *ShareHandler) Redeem(c *gin.Context) {
	ctx := c.Request.Context()

	red, err := h.App.ShareService.Redeem(ctx, c.Param("token"))
	if err != nil {
		h.logError(ctx, "ShareHandler.Redeem", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	defer red.Reader.Close()

	c.DataFromReader(http.StatusOK, red.Size, red.ContentType, red.Reader, map[string]string{
		"Content-Disposition": attachment(red.FileName),
	})
}
