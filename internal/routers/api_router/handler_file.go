package api_router

import (
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/haierkeys/fast-file-share-service/internal/app"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/internal/service"
	pkgapp "github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadFieldName multipart 中文件字段的名称
const UploadFieldName = "files"

// FileHandler file API router handler
// FileHandler 文件 API 路由处理器
type FileHandler struct {
	*Handler
}

// NewFileHandler creates FileHandler instance
// NewFileHandler 创建 FileHandler 实例
func NewFileHandler(a *app.App) *FileHandler {
	return &FileHandler{
		Handler: NewHandler(a),
	}
}

// fileID 读取路径中的 file_id，格式不对的 ID 与不存在的文件一样返回 404
func (h *FileHandler) fileID(c *gin.Context) (string, bool) {
	params := &dto.FileIDRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorFileNotFound)
		return "", false
	}
	return params.FileID, true
}

func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(fh.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Upload uploads one or more files
// @Summary Upload files
// @Description Files in one request are stored atomically; identical content is stored once across all users.
// @Description 同一请求中的文件原子入库；相同内容在所有用户之间只存储一份。
// @Tags File
// @Security UserAuthToken
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Param description formData string false "Description"
// @Success 201 {object} pkgapp.Res{data=[]dto.UploadedFileDTO} "Created"
// @Failure 400 {object} pkgapp.Res{data=dto.QuotaExceededDTO} "Invalid Parameters / Quota Exceeded"
// @Router /file-upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.FileUploadRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "FileHandler.Upload", errs)
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		response.ToResponse(code.ErrorFileRequired)
		return
	}
	defer func() {
		if err := form.RemoveAll(); err != nil {
			h.App.Logger().Warn("FileHandler.Upload remove multipart temp files", zap.Error(err))
		}
	}()

	headers := form.File[UploadFieldName]
	if len(headers) == 0 {
		response.ToResponse(code.ErrorFileRequired)
		return
	}

	inputs := make([]service.UploadInput, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.logError(ctx, "FileHandler.Upload.Open", err)
			apperrors.ErrorResponse(c, apperrors.Wrap(code.ErrorStorage, err))
			return
		}
		defer f.Close()
		inputs = append(inputs, service.UploadInput{
			Name:        fh.Filename,
			ContentType: contentTypeOf(fh),
			Reader:      f,
		})
	}

	out, err := h.App.FileService.Upload(ctx, uid, inputs, params.Description)
	if err != nil {
		h.logError(ctx, "FileHandler.Upload", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpload.WithData(out))
}

// Download streams an owned file
// @Summary Download file
// @Tags File
// @Security UserAuthToken
// @Produce octet-stream
// @Param file_id path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /{file_id}/file-download [get]
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := h.fileID(c)
	if !ok {
		return
	}
	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	rc, file, err := h.App.FileService.Download(ctx, uid, id)
	if err != nil {
		h.logError(ctx, "FileHandler.Download", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, rc, map[string]string{
		"Content-Disposition": attachment(file.OriginalName),
	})
}

// List lists the current user's files
// @Summary List files
// @Tags File
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.FileDTO}} "Success"
// @Router /file-list [get]
func (h *FileHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	files, err := h.App.FileService.List(ctx, uid)
	if err != nil {
		h.logError(ctx, "FileHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, files, len(files))
}

// Delete soft-deletes an owned file
// @Summary Delete file
// @Tags File
// @Security UserAuthToken
// @Param file_id path string true "File ID"
// @Success 204 "No Content"
// @Failure 404 {object} pkgapp.Res "Not Found"
// @Router /{file_id}/file-delete [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := h.fileID(c)
	if !ok {
		return
	}
	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	if err := h.App.FileService.Delete(ctx, uid, id); err != nil {
		h.logError(ctx, "FileHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// Update edits the description of an owned file
// @Summary Update file description
// @Tags File
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param file_id path string true "File ID"
// @Param params body dto.FileUpdateRequest true "Description"
// @Success 200 {object} pkgapp.Res{data=dto.FileDTO} "Success"
// @Router /{file_id}/file-update [patch]
func (h *FileHandler) Update(c *gin.Context) {
	id, ok := h.fileID(c)
	if !ok {
		return
	}
	params := &dto.FileUpdateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "FileHandler.Update", errs)
		return
	}
	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	out, err := h.App.FileService.UpdateDescription(ctx, uid, id, params.Description)
	if err != nil {
		h.logError(ctx, "FileHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(out))
}

// Usage reports storage usage against the quota
// @Summary Storage usage
// @Tags File
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.UsageDTO} "Success"
// @Router /file-usage [get]
func (h *FileHandler) Usage(c *gin.Context) {
	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	out, err := h.App.FileService.Usage(ctx, uid)
	if err != nil {
		h.logError(ctx, "FileHandler.Usage", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(out))
}
