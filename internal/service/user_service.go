package service

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/pkg/app"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"
	"github.com/haierkeys/fast-file-share-service/pkg/util"

	"go.uber.org/zap"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error)

	// Login 用户登录，返回 access/refresh 令牌对
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.LoginDTO, error)

	// Refresh 使用 refresh 令牌换取新的 access 令牌
	Refresh(ctx context.Context, refreshToken, clientIP string) (*dto.TokenRefreshDTO, error)

	// GetByUID 获取用户
	GetByUID(ctx context.Context, uid int64) (*domain.User, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config.withDefaults(),
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *userService) domainToDTO(user *domain.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:        user.UID,
		Email:     user.Email,
		FirstName: user.FirstName,
	}
}

// Register 用户注册
func (s *userService) Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error) {
	// 检查注册是否启用
	if !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterIsDisable
	}

	email := util.NormalizeEmail(params.Email)
	if !util.IsValidEmail(email) {
		return nil, code.ErrorInvalidParams.WithDetails("email")
	}

	// 验证密码一致性
	if params.Password != params.ConfirmPassword {
		return nil, code.ErrorUserPasswordNotMatch
	}

	var dob *time.Time
	if params.DateOfBirth != "" {
		t, err := util.ParseDate(params.DateOfBirth)
		if err != nil || t.After(time.Now()) {
			return nil, code.ErrorDateOfBirthNotValid
		}
		dob = &t
	}

	// 生成密码哈希
	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, code.ErrorPasswordNotValid
	}

	// 邮箱唯一由数据库约束保证，并发注册同一邮箱时只有一个成功
	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:       email,
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		DateOfBirth: dob,
		Password:    password,
		IsActive:    true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, code.ErrorUserEmailAlreadyExists.WithDetails("email")
		}
		return nil, apperrors.Wrap(code.ErrorUserRegister, err)
	}

	return s.domainToDTO(user), nil
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.LoginDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, util.NormalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// 安全考虑：不暴露用户是否存在，统一返回邮箱或密码错误
			return nil, code.ErrorUserLoginPasswordFailed
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}

	// 验证密码
	if !util.CheckPasswordHash(user.Password, params.Password) {
		return nil, code.ErrorUserLoginPasswordFailed
	}

	// 密码正确后再提示账户状态
	if !user.IsActive {
		return nil, code.ErrorUserDisabled
	}

	pair, err := s.tokenManager.GeneratePair(user.UID, user.Email, clientIP)
	if err != nil {
		return nil, apperrors.Wrap(code.ErrorTokenGenerate, err)
	}

	return &dto.LoginDTO{User: *s.domainToDTO(user), Tokens: pair}, nil
}

// Refresh 刷新 access 令牌
func (s *userService) Refresh(ctx context.Context, refreshToken, clientIP string) (*dto.TokenRefreshDTO, error) {
	claims, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, code.ErrorInvalidRefreshToken
	}

	user, err := s.userRepo.GetByUID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorInvalidRefreshToken
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	if !user.IsActive {
		return nil, code.ErrorInvalidRefreshToken
	}

	access, err := s.tokenManager.Generate(user.UID, user.Email, clientIP)
	if err != nil {
		return nil, apperrors.Wrap(code.ErrorTokenGenerate, err)
	}
	return &dto.TokenRefreshDTO{Access: access}, nil
}

// GetByUID 获取用户
func (s *userService) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorInvalidUserAuthToken
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	return user, nil
}
