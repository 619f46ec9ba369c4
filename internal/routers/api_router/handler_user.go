package api_router

import (
	"github.com/haierkeys/fast-file-share-service/internal/app"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserHandler user API router handler
// UserHandler 用户 API 路由处理器
type UserHandler struct {
	*Handler
}

// NewUserHandler creates UserHandler instance
// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(a),
	}
}

// Register user registration
// @Summary User registration
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserCreateRequest true "Register Parameters"
// @Success 201 {object} pkgapp.Res{data=dto.UserDTO} "Created"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Registration Disabled / User Already Exists"
// @Router /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserCreateRequest{}

	// Parameter binding and validation
	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "UserHandler.Register", errs)
		return
	}

	ctx := c.Request.Context()

	userDTO, err := h.App.UserService.Register(ctx, params)
	if err != nil {
		h.logError(ctx, "UserHandler.Register", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessRegister.WithData(userDTO))
}

// Login user login
// @Summary User login
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserLoginRequest true "Login Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.LoginDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Invalid Parameters / Invalid Credentials"
// @Router /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserLoginRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "UserHandler.Login", errs)
		return
	}

	ctx := c.Request.Context()

	loginDTO, err := h.App.UserService.Login(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessLogin.WithData(loginDTO))
}

// Refresh exchanges a refresh token for a new access token
// @Summary Refresh access token
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.TokenRefreshRequest true "Refresh Token"
// @Success 200 {object} pkgapp.Res{data=dto.TokenRefreshDTO} "Success"
// @Failure 401 {object} pkgapp.Res "Invalid Refresh Token"
// @Router /token/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.TokenRefreshRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.invalidParams(c, "UserHandler.Refresh", errs)
		return
	}

	ctx := c.Request.Context()

	out, err := h.App.UserService.Refresh(ctx, params.Refresh, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Refresh", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(out))
}
